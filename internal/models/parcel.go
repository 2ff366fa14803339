package models

import "time"

// CropStatus is the 8-stage crop lifecycle label. Any status may follow any
// other; there is no enforced transition order.
type CropStatus string

const (
	StatusPreparing      CropStatus = "PREPARING"
	StatusPlanted        CropStatus = "PLANTED"
	StatusGrowing        CropStatus = "GROWING"
	StatusFlowering      CropStatus = "FLOWERING"
	StatusRipening       CropStatus = "RIPENING"
	StatusReadyToHarvest CropStatus = "READY_TO_HARVEST"
	StatusHarvested      CropStatus = "HARVESTED"
	StatusResting        CropStatus = "RESTING"
)

var cropStatusLabels = map[CropStatus]string{
	StatusPreparing:      "Preparing",
	StatusPlanted:        "Planted",
	StatusGrowing:        "Growing",
	StatusFlowering:      "Flowering",
	StatusRipening:       "Ripening",
	StatusReadyToHarvest: "Ready to harvest",
	StatusHarvested:      "Harvested",
	StatusResting:        "Resting",
}

// AllCropStatuses lists the statuses in lifecycle order.
var AllCropStatuses = []CropStatus{
	StatusPreparing,
	StatusPlanted,
	StatusGrowing,
	StatusFlowering,
	StatusRipening,
	StatusReadyToHarvest,
	StatusHarvested,
	StatusResting,
}

func (status CropStatus) Label() string {
	if label, ok := cropStatusLabels[status]; ok {
		return label
	}
	return string(status)
}

func ValidCropStatus(value string) bool {
	_, ok := cropStatusLabels[CropStatus(value)]
	return ok
}

// ActiveCropStatuses are the stages counted as "active crops" on the
// dashboard.
var ActiveCropStatuses = []CropStatus{StatusGrowing, StatusFlowering, StatusRipening}

// FinishedCropStatuses are excluded from the overdue-harvest listing.
var FinishedCropStatuses = []CropStatus{StatusHarvested, StatusResting}

// CropTypeCatalog is the static list served to clients; parcels themselves
// store crop type as free text.
var CropTypeCatalog = []string{
	"Market gardening",
	"Cereals",
	"Legumes",
	"Arboriculture",
	"Livestock",
	"Fodder crops",
	"Industrial crops",
}

// GroupCount is one row of a keyed count aggregation.
type GroupCount struct {
	Key   string `gorm:"column:group_key"`
	Count int64  `gorm:"column:group_count"`
}

// GroupArea is one row of a keyed area-sum aggregation.
type GroupArea struct {
	Key  string  `gorm:"column:group_key"`
	Area float64 `gorm:"column:total_area"`
}

// Parcel is a farmer-owned land unit carrying one crop-cycle record.
// Name is unique per owning farmer, case-insensitively.
type Parcel struct {
	ID                  uint       `gorm:"primaryKey"`
	Name                string     `gorm:"size:100;not null;index:idx_parcels_farmer_name"`
	AreaHectares        float64    `gorm:"not null"`
	CropType            string     `gorm:"size:100;not null"`
	Commune             string     `gorm:"size:100"`
	Region              string     `gorm:"size:100"`
	Latitude            *float64
	Longitude           *float64
	PlantingDate        *time.Time
	ExpectedHarvestDate *time.Time
	Status              CropStatus `gorm:"size:30;not null;default:PLANTED"`
	Irrigated           bool       `gorm:"not null;default:false"`
	Notes               string     `gorm:"type:text"`
	FarmerID            uint       `gorm:"not null;index;index:idx_parcels_farmer_name"`
	CreatedAt           time.Time  `gorm:"not null"`
	UpdatedAt           time.Time  `gorm:"not null"`
}
