package services

import (
	"math"
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
)

// DashboardParcelReader is the aggregate query contract the dashboard
// consumes from the parcel store.
type DashboardParcelReader interface {
	CountByFarmer(farmerID uint) (int64, error)
	SumAreaByFarmer(farmerID uint) (float64, error)
	CountByFarmerAndStatuses(farmerID uint, statuses []models.CropStatus) (int64, error)
	CountByFarmerAndIrrigation(farmerID uint, irrigated bool) (int64, error)
	CountGroupedByCropType(farmerID uint) ([]models.GroupCount, error)
	CountGroupedByStatus(farmerID uint) ([]models.GroupCount, error)
	CountGroupedByRegion(farmerID uint) ([]models.GroupCount, error)
	CountGroupedByCommune(farmerID uint) ([]models.GroupCount, error)
	SumAreaGroupedByCropType(farmerID uint) ([]models.GroupArea, error)
	ListUpcomingHarvests(farmerID uint, from time.Time, to time.Time) ([]models.Parcel, error)
	ListOverdueHarvests(farmerID uint, before time.Time, excludedStatuses []models.CropStatus) ([]models.Parcel, error)
	ListRecentlyModified(farmerID uint, limit int) ([]models.Parcel, error)
}

type DashboardService struct {
	parcels DashboardParcelReader
	users   FarmerResolver
}

func NewDashboardService(parcels DashboardParcelReader, users FarmerResolver) *DashboardService {
	return &DashboardService{parcels: parcels, users: users}
}

// UnspecifiedGroupKey labels grouping rows whose source column is empty.
const UnspecifiedGroupKey = "Unspecified"

const (
	upcomingHarvestWindowDays = 30
	recentlyModifiedLimit     = 5
)

// Dashboard is the point-in-time aggregated snapshot of one farmer's
// parcels.
type Dashboard struct {
	TotalParcels         int64              `json:"totalParcels"`
	TotalAreaHectares    float64            `json:"totalAreaHectares"`
	ActiveCrops          int64              `json:"activeCrops"`
	ReadyToHarvest       int64              `json:"readyToHarvest"`
	ParcelsByCropType    map[string]int64   `json:"parcelsByCropType"`
	AreaByCropType       map[string]float64 `json:"areaByCropType"`
	ParcelsByStatus      map[string]int64   `json:"parcelsByStatus"`
	ParcelsByRegion      map[string]int64   `json:"parcelsByRegion"`
	ParcelsByCommune     map[string]int64   `json:"parcelsByCommune"`
	UpcomingHarvests     []ParcelSummary    `json:"upcomingHarvests"`
	OverdueCrops         []ParcelSummary    `json:"overdueCrops"`
	RecentlyModified     []ParcelSummary    `json:"recentlyModified"`
	IrrigatedParcels     int64              `json:"irrigatedParcels"`
	NonIrrigatedParcels  int64              `json:"nonIrrigatedParcels"`
	IrrigationPercentage float64            `json:"irrigationPercentage"`
}

// Build assembles the dashboard for one farmer as of "now".
func (service *DashboardService) Build(farmerID uint, now time.Time) (Dashboard, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return Dashboard{}, err
	}

	totalParcels, err := service.parcels.CountByFarmer(farmerID)
	if err != nil {
		return Dashboard{}, err
	}
	totalArea, err := service.parcels.SumAreaByFarmer(farmerID)
	if err != nil {
		return Dashboard{}, err
	}
	activeCrops, err := service.parcels.CountByFarmerAndStatuses(farmerID, models.ActiveCropStatuses)
	if err != nil {
		return Dashboard{}, err
	}
	readyToHarvest, err := service.parcels.CountByFarmerAndStatuses(farmerID, []models.CropStatus{models.StatusReadyToHarvest})
	if err != nil {
		return Dashboard{}, err
	}

	byCropType, err := service.parcels.CountGroupedByCropType(farmerID)
	if err != nil {
		return Dashboard{}, err
	}
	areaByCropType, err := service.parcels.SumAreaGroupedByCropType(farmerID)
	if err != nil {
		return Dashboard{}, err
	}
	byStatus, err := service.parcels.CountGroupedByStatus(farmerID)
	if err != nil {
		return Dashboard{}, err
	}
	byRegion, err := service.parcels.CountGroupedByRegion(farmerID)
	if err != nil {
		return Dashboard{}, err
	}
	byCommune, err := service.parcels.CountGroupedByCommune(farmerID)
	if err != nil {
		return Dashboard{}, err
	}

	today := DateOnly(now)
	windowEnd := today.AddDate(0, 0, upcomingHarvestWindowDays)
	upcoming, err := service.parcels.ListUpcomingHarvests(farmerID, today, windowEnd)
	if err != nil {
		return Dashboard{}, err
	}
	overdue, err := service.parcels.ListOverdueHarvests(farmerID, today, models.FinishedCropStatuses)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := service.parcels.ListRecentlyModified(farmerID, recentlyModifiedLimit)
	if err != nil {
		return Dashboard{}, err
	}

	irrigated, err := service.parcels.CountByFarmerAndIrrigation(farmerID, true)
	if err != nil {
		return Dashboard{}, err
	}
	nonIrrigated, err := service.parcels.CountByFarmerAndIrrigation(farmerID, false)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		TotalParcels:         totalParcels,
		TotalAreaHectares:    totalArea,
		ActiveCrops:          activeCrops,
		ReadyToHarvest:       readyToHarvest,
		ParcelsByCropType:    countMap(byCropType, nil),
		AreaByCropType:       areaMap(areaByCropType),
		ParcelsByStatus:      countMap(byStatus, statusGroupLabel),
		ParcelsByRegion:      countMap(byRegion, nil),
		ParcelsByCommune:     countMap(byCommune, nil),
		UpcomingHarvests:     buildParcelSummaries(upcoming, now),
		OverdueCrops:         buildParcelSummaries(overdue, now),
		RecentlyModified:     buildParcelSummaries(recent, now),
		IrrigatedParcels:     irrigated,
		NonIrrigatedParcels:  nonIrrigated,
		IrrigationPercentage: Percentage(irrigated, totalParcels),
	}, nil
}

func (service *DashboardService) requireFarmer(farmerID uint) (models.User, error) {
	user, err := service.users.FindByID(farmerID)
	if err != nil {
		return models.User{}, NewNotFound("farmer not found")
	}
	if user.Role != models.RoleFarmer {
		return models.User{}, NewNotFound("farmer not found")
	}
	return user, nil
}

// countMap converts grouping rows to a keyed map, folding empty keys into
// the "Unspecified" bucket. A relabel function maps stored keys to display
// labels (used for crop statuses).
func countMap(rows []models.GroupCount, relabel func(string) string) map[string]int64 {
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		key := row.Key
		if key == "" {
			key = UnspecifiedGroupKey
		} else if relabel != nil {
			key = relabel(key)
		}
		result[key] += row.Count
	}
	return result
}

func areaMap(rows []models.GroupArea) map[string]float64 {
	result := make(map[string]float64, len(rows))
	for _, row := range rows {
		key := row.Key
		if key == "" {
			key = UnspecifiedGroupKey
		}
		result[key] += row.Area
	}
	return result
}

func statusGroupLabel(stored string) string {
	return models.CropStatus(stored).Label()
}

// Percentage computes part/total × 100 rounded half-up to two decimals,
// zero when the total is zero.
func Percentage(part int64, total int64) float64 {
	if total == 0 {
		return 0
	}
	return RoundTo2(float64(part) / float64(total) * 100)
}

// RoundTo2 rounds half-up to two decimal places.
func RoundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}
