package services

import (
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
)

// Growth-phase labels bucketed over days since planting.
const (
	PhaseUnplanned       = "Unplanned"
	PhasePlantingPlanned = "Planting scheduled"
	PhaseRecentlyPlanted = "Recently planted"
	PhaseEarlyGrowth     = "Early growth"
	PhaseDevelopment     = "Development"
	PhaseMaturation      = "Maturation"
)

// DateOnly truncates a timestamp to local midnight so day arithmetic is not
// skewed by the time of day.
func DateOnly(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// DaysBetween counts whole calendar days from one date to another; negative
// when "to" precedes "from". Both dates are re-anchored to UTC midnight so
// a daylight-saving shift cannot shorten a day to 23 hours and lose a count.
func DaysBetween(from time.Time, to time.Time) int {
	return int(utcMidnight(to).Sub(utcMidnight(from)).Hours() / 24)
}

func utcMidnight(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntilHarvest is signed: negative once the expected date has passed.
// Nil when no harvest date is recorded.
func DaysUntilHarvest(harvestDate *time.Time, today time.Time) *int {
	if harvestDate == nil {
		return nil
	}
	days := DaysBetween(today, *harvestDate)
	return &days
}

// DaysSincePlanting clamps at zero for plantings scheduled in the future.
// Nil when no planting date is recorded.
func DaysSincePlanting(plantingDate *time.Time, today time.Time) *int {
	if plantingDate == nil {
		return nil
	}
	days := DaysBetween(*plantingDate, today)
	if days < 0 {
		days = 0
	}
	return &days
}

// CurrentPhase buckets days-since-planting into a coarse growth label.
func CurrentPhase(plantingDate *time.Time, today time.Time) string {
	if plantingDate == nil {
		return PhaseUnplanned
	}
	days := DaysBetween(*plantingDate, today)
	switch {
	case days < 0:
		return PhasePlantingPlanned
	case days <= 7:
		return PhaseRecentlyPlanted
	case days <= 30:
		return PhaseEarlyGrowth
	case days <= 90:
		return PhaseDevelopment
	default:
		return PhaseMaturation
	}
}

// ParcelDetail is the full read projection of a parcel, including the
// derived fields that are computed at read time and never stored.
type ParcelDetail struct {
	ID                  uint              `json:"id"`
	Name                string            `json:"name"`
	AreaHectares        float64           `json:"areaHectares"`
	CropType            string            `json:"cropType"`
	Commune             string            `json:"commune"`
	Region              string            `json:"region"`
	Latitude            *float64          `json:"latitude,omitempty"`
	Longitude           *float64          `json:"longitude,omitempty"`
	PlantingDate        *time.Time        `json:"plantingDate,omitempty"`
	ExpectedHarvestDate *time.Time        `json:"expectedHarvestDate,omitempty"`
	Status              models.CropStatus `json:"status"`
	StatusLabel         string            `json:"statusLabel"`
	Irrigated           bool              `json:"irrigated"`
	Notes               string            `json:"notes,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	DaysUntilHarvest    *int              `json:"daysUntilHarvest,omitempty"`
	DaysSincePlanting   *int              `json:"daysSincePlanting,omitempty"`
	CurrentPhase        string            `json:"currentPhase"`
}

// ParcelSummary is the listing projection.
type ParcelSummary struct {
	ID                  uint              `json:"id"`
	Name                string            `json:"name"`
	AreaHectares        float64           `json:"areaHectares"`
	CropType            string            `json:"cropType"`
	Commune             string            `json:"commune"`
	Status              models.CropStatus `json:"status"`
	StatusLabel         string            `json:"statusLabel"`
	PlantingDate        *time.Time        `json:"plantingDate,omitempty"`
	ExpectedHarvestDate *time.Time        `json:"expectedHarvestDate,omitempty"`
	Irrigated           bool              `json:"irrigated"`
	DaysUntilHarvest    *int              `json:"daysUntilHarvest,omitempty"`
}

func buildParcelDetail(parcel *models.Parcel, today time.Time) ParcelDetail {
	return ParcelDetail{
		ID:                  parcel.ID,
		Name:                parcel.Name,
		AreaHectares:        parcel.AreaHectares,
		CropType:            parcel.CropType,
		Commune:             parcel.Commune,
		Region:              parcel.Region,
		Latitude:            parcel.Latitude,
		Longitude:           parcel.Longitude,
		PlantingDate:        parcel.PlantingDate,
		ExpectedHarvestDate: parcel.ExpectedHarvestDate,
		Status:              parcel.Status,
		StatusLabel:         parcel.Status.Label(),
		Irrigated:           parcel.Irrigated,
		Notes:               parcel.Notes,
		CreatedAt:           parcel.CreatedAt,
		UpdatedAt:           parcel.UpdatedAt,
		DaysUntilHarvest:    DaysUntilHarvest(parcel.ExpectedHarvestDate, today),
		DaysSincePlanting:   DaysSincePlanting(parcel.PlantingDate, today),
		CurrentPhase:        CurrentPhase(parcel.PlantingDate, today),
	}
}

func buildParcelSummary(parcel *models.Parcel, today time.Time) ParcelSummary {
	return ParcelSummary{
		ID:                  parcel.ID,
		Name:                parcel.Name,
		AreaHectares:        parcel.AreaHectares,
		CropType:            parcel.CropType,
		Commune:             parcel.Commune,
		Status:              parcel.Status,
		StatusLabel:         parcel.Status.Label(),
		PlantingDate:        parcel.PlantingDate,
		ExpectedHarvestDate: parcel.ExpectedHarvestDate,
		Irrigated:           parcel.Irrigated,
		DaysUntilHarvest:    DaysUntilHarvest(parcel.ExpectedHarvestDate, today),
	}
}

func buildParcelSummaries(parcels []models.Parcel, today time.Time) []ParcelSummary {
	summaries := make([]ParcelSummary, 0, len(parcels))
	for index := range parcels {
		summaries = append(summaries, buildParcelSummary(&parcels[index], today))
	}
	return summaries
}
