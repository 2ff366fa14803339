package services

import (
	"fmt"
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
)

// StatsParcelReader is the query contract the statistics service consumes
// from the parcel store.
type StatsParcelReader interface {
	ListByFarmer(farmerID uint) ([]models.Parcel, error)
	CountByFarmer(farmerID uint) (int64, error)
	CountByFarmerAndIrrigation(farmerID uint, irrigated bool) (int64, error)
	CountHarvestedInWindow(farmerID uint, from time.Time, to time.Time) (int64, error)
	SumAreaGroupedByRegion(farmerID uint) ([]models.GroupArea, error)
}

type StatsService struct {
	parcels StatsParcelReader
	users   FarmerResolver
}

func NewStatsService(parcels StatsParcelReader, users FarmerResolver) *StatsService {
	return &StatsService{parcels: parcels, users: users}
}

const (
	monthlySeriesLength   = 12
	harvestHistoryMonths  = 6
	yieldPerHectareFactor = 1.5
)

// Season labels. The rainy season in the south of the country runs from
// June through October; everything else counts as the dry season.
const (
	RainySeason = "Rainy season"
	DrySeason   = "Dry season"
)

// cropLifespanDays maps broad crop families to a typical cycle length in
// days, used as reference data on the statistics screen.
var cropLifespanDays = map[string]int{
	"Market gardening": 90,
	"Cereals":          120,
	"Legumes":          100,
	"Arboriculture":    365,
}

// MonthlyCount is one month of a counted time series. Month is rendered
// as MM/YYYY.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// MonthlyArea is one month of an area time series.
type MonthlyArea struct {
	Month string  `json:"month"`
	Area  float64 `json:"area"`
}

// Statistics aggregates planting trends, seasonal distribution and
// projected yields for one farmer's parcels.
type Statistics struct {
	PlantingsByMonth         []MonthlyCount     `json:"plantingsByMonth"`
	PlantedAreaByMonth       []MonthlyArea      `json:"plantedAreaByMonth"`
	AverageAreaByCropType    map[string]float64 `json:"averageAreaByCropType"`
	CropLifespanDays         map[string]int     `json:"cropLifespanDays"`
	PlantingsBySeason        map[string]int64   `json:"plantingsBySeason"`
	HarvestsBySeason         map[string]int64   `json:"harvestsBySeason"`
	EstimatedYieldByRegion   map[string]float64 `json:"estimatedYieldByRegion"`
	HarvestHistory           []MonthlyCount     `json:"harvestHistory"`
	IrrigationUtilizationPct float64            `json:"irrigationUtilizationPct"`
}

// Build assembles the statistics report for one farmer as of "now".
func (service *StatsService) Build(farmerID uint, now time.Time) (Statistics, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return Statistics{}, err
	}

	parcels, err := service.parcels.ListByFarmer(farmerID)
	if err != nil {
		return Statistics{}, err
	}

	history, err := service.harvestHistory(farmerID, now)
	if err != nil {
		return Statistics{}, err
	}

	total, err := service.parcels.CountByFarmer(farmerID)
	if err != nil {
		return Statistics{}, err
	}
	irrigated, err := service.parcels.CountByFarmerAndIrrigation(farmerID, true)
	if err != nil {
		return Statistics{}, err
	}

	areaByRegion, err := service.parcels.SumAreaGroupedByRegion(farmerID)
	if err != nil {
		return Statistics{}, err
	}

	plantingCounts, plantingAreas := monthlySeries(parcels, now)

	return Statistics{
		PlantingsByMonth:         plantingCounts,
		PlantedAreaByMonth:       plantingAreas,
		AverageAreaByCropType:    averageAreaByCropType(parcels),
		CropLifespanDays:         cropLifespanDays,
		PlantingsBySeason:        seasonCounts(parcels, plantingDate),
		HarvestsBySeason:         seasonCounts(parcels, harvestDate),
		EstimatedYieldByRegion:   estimatedYieldByRegion(areaByRegion),
		HarvestHistory:           history,
		IrrigationUtilizationPct: Percentage(irrigated, total),
	}, nil
}

func (service *StatsService) requireFarmer(farmerID uint) (models.User, error) {
	user, err := service.users.FindByID(farmerID)
	if err != nil {
		return models.User{}, NewNotFound("farmer not found")
	}
	if user.Role != models.RoleFarmer {
		return models.User{}, NewNotFound("farmer not found")
	}
	return user, nil
}

// harvestHistory counts harvested parcels per month over the six months
// ending with the current one, oldest first.
func (service *StatsService) harvestHistory(farmerID uint, now time.Time) ([]MonthlyCount, error) {
	history := make([]MonthlyCount, 0, harvestHistoryMonths)
	for i := harvestHistoryMonths - 1; i >= 0; i-- {
		monthStart := firstOfMonth(now).AddDate(0, -i, 0)
		nextMonth := monthStart.AddDate(0, 1, 0)
		count, err := service.parcels.CountHarvestedInWindow(farmerID, monthStart, nextMonth.Add(-time.Nanosecond))
		if err != nil {
			return nil, err
		}
		history = append(history, MonthlyCount{Month: monthKey(monthStart), Count: count})
	}
	return history, nil
}

// monthlySeries buckets plantings over the trailing twelve months, oldest
// first. Every month appears even when empty.
func monthlySeries(parcels []models.Parcel, now time.Time) ([]MonthlyCount, []MonthlyArea) {
	counts := make([]MonthlyCount, 0, monthlySeriesLength)
	areas := make([]MonthlyArea, 0, monthlySeriesLength)
	countByKey := make(map[string]int64)
	areaByKey := make(map[string]float64)

	for _, parcel := range parcels {
		if parcel.PlantingDate == nil {
			continue
		}
		key := monthKey(*parcel.PlantingDate)
		countByKey[key]++
		areaByKey[key] += parcel.AreaHectares
	}

	for i := monthlySeriesLength - 1; i >= 0; i-- {
		month := firstOfMonth(now).AddDate(0, -i, 0)
		key := monthKey(month)
		counts = append(counts, MonthlyCount{Month: key, Count: countByKey[key]})
		areas = append(areas, MonthlyArea{Month: key, Area: RoundTo2(areaByKey[key])})
	}
	return counts, areas
}

func averageAreaByCropType(parcels []models.Parcel) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int64)
	for _, parcel := range parcels {
		key := parcel.CropType
		if key == "" {
			key = UnspecifiedGroupKey
		}
		sums[key] += parcel.AreaHectares
		counts[key]++
	}
	averages := make(map[string]float64, len(sums))
	for key, sum := range sums {
		averages[key] = RoundTo2(sum / float64(counts[key]))
	}
	return averages
}

func plantingDate(parcel models.Parcel) *time.Time { return parcel.PlantingDate }

func harvestDate(parcel models.Parcel) *time.Time { return parcel.ExpectedHarvestDate }

// seasonCounts splits parcels across the rainy and dry seasons by the
// month of the supplied date. Both buckets are always present.
func seasonCounts(parcels []models.Parcel, dateOf func(models.Parcel) *time.Time) map[string]int64 {
	result := map[string]int64{RainySeason: 0, DrySeason: 0}
	for _, parcel := range parcels {
		date := dateOf(parcel)
		if date == nil {
			continue
		}
		result[seasonOf(date.Month())]++
	}
	return result
}

func seasonOf(month time.Month) string {
	if month >= time.June && month <= time.October {
		return RainySeason
	}
	return DrySeason
}

// estimatedYieldByRegion projects tonnage per region at a flat factor per
// hectare. Parcels without a region land in the unspecified bucket.
func estimatedYieldByRegion(areaByRegion []models.GroupArea) map[string]float64 {
	result := make(map[string]float64)
	for _, row := range areaByRegion {
		region := row.Key
		if region == "" {
			region = UnspecifiedGroupKey
		}
		result[region] += row.Area * yieldPerHectareFactor
	}
	for region, yield := range result {
		result[region] = RoundTo2(yield)
	}
	return result
}

func firstOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func monthKey(at time.Time) string {
	return fmt.Sprintf("%02d/%d", int(at.Month()), at.Year())
}
