package db

import (
	"strings"
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
	"gorm.io/gorm"
)

type ParcelRepository struct {
	database *gorm.DB
}

func NewParcelRepository(database *gorm.DB) *ParcelRepository {
	return &ParcelRepository{database: database}
}

func (repo *ParcelRepository) ListByFarmer(farmerID uint) ([]models.Parcel, error) {
	parcels := make([]models.Parcel, 0)
	if err := repo.database.
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC, id DESC").
		Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

func (repo *ParcelRepository) ListByFarmerPaginated(farmerID uint, offset int, limit int) ([]models.Parcel, int64, error) {
	var total int64
	if err := repo.database.Model(&models.Parcel{}).
		Where("farmer_id = ?", farmerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	parcels := make([]models.Parcel, 0)
	if err := repo.database.
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&parcels).Error; err != nil {
		return nil, 0, err
	}
	return parcels, total, nil
}

func (repo *ParcelRepository) FindByIDAndFarmer(parcelID uint, farmerID uint) (models.Parcel, error) {
	var parcel models.Parcel
	if err := repo.database.
		Where("id = ? AND farmer_id = ?", parcelID, farmerID).
		First(&parcel).Error; err != nil {
		return models.Parcel{}, err
	}
	return parcel, nil
}

func (repo *ParcelRepository) ExistsByFarmerAndName(farmerID uint, name string) (bool, error) {
	return repo.nameExists(farmerID, name, 0)
}

func (repo *ParcelRepository) ExistsByFarmerAndNameExcluding(farmerID uint, name string, excludeID uint) (bool, error) {
	return repo.nameExists(farmerID, name, excludeID)
}

func (repo *ParcelRepository) nameExists(farmerID uint, name string, excludeID uint) (bool, error) {
	query := repo.database.Model(&models.Parcel{}).
		Where("farmer_id = ? AND lower(name) = ?", farmerID, strings.ToLower(strings.TrimSpace(name)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var matched int64
	if err := query.Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *ParcelRepository) Create(parcel *models.Parcel) error {
	return repo.database.Create(parcel).Error
}

func (repo *ParcelRepository) Save(parcel *models.Parcel) error {
	return repo.database.Save(parcel).Error
}

func (repo *ParcelRepository) Delete(parcel *models.Parcel) error {
	return repo.database.Delete(parcel).Error
}

func (repo *ParcelRepository) ListByFarmerAndCropType(farmerID uint, cropType string) ([]models.Parcel, error) {
	return repo.listWhere(farmerID, "crop_type = ?", cropType)
}

func (repo *ParcelRepository) ListByFarmerAndStatus(farmerID uint, status models.CropStatus) ([]models.Parcel, error) {
	return repo.listWhere(farmerID, "status = ?", status)
}

func (repo *ParcelRepository) ListByFarmerAndRegion(farmerID uint, region string) ([]models.Parcel, error) {
	return repo.listWhere(farmerID, "region = ?", region)
}

func (repo *ParcelRepository) ListByFarmerAndCommune(farmerID uint, commune string) ([]models.Parcel, error) {
	return repo.listWhere(farmerID, "commune = ?", commune)
}

func (repo *ParcelRepository) listWhere(farmerID uint, condition string, value any) ([]models.Parcel, error) {
	parcels := make([]models.Parcel, 0)
	if err := repo.database.
		Where("farmer_id = ?", farmerID).
		Where(condition, value).
		Order("created_at DESC, id DESC").
		Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

// SearchByFarmerAndTerm matches the term as a case-insensitive substring of
// the parcel name, crop type, or notes.
func (repo *ParcelRepository) SearchByFarmerAndTerm(farmerID uint, term string) ([]models.Parcel, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	parcels := make([]models.Parcel, 0)
	if err := repo.database.
		Where("farmer_id = ?", farmerID).
		Where("lower(name) LIKE ? OR lower(crop_type) LIKE ? OR lower(notes) LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC, id DESC").
		Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

func (repo *ParcelRepository) CountByFarmer(farmerID uint) (int64, error) {
	var count int64
	err := repo.database.Model(&models.Parcel{}).
		Where("farmer_id = ?", farmerID).
		Count(&count).Error
	return count, err
}

func (repo *ParcelRepository) SumAreaByFarmer(farmerID uint) (float64, error) {
	var total float64
	err := repo.database.Model(&models.Parcel{}).
		Select("COALESCE(SUM(area_hectares), 0)").
		Where("farmer_id = ?", farmerID).
		Scan(&total).Error
	return total, err
}

func (repo *ParcelRepository) CountByFarmerAndStatuses(farmerID uint, statuses []models.CropStatus) (int64, error) {
	var count int64
	err := repo.database.Model(&models.Parcel{}).
		Where("farmer_id = ? AND status IN ?", farmerID, statuses).
		Count(&count).Error
	return count, err
}

func (repo *ParcelRepository) CountByFarmerAndIrrigation(farmerID uint, irrigated bool) (int64, error) {
	var count int64
	err := repo.database.Model(&models.Parcel{}).
		Where("farmer_id = ? AND irrigated = ?", farmerID, irrigated).
		Count(&count).Error
	return count, err
}

func (repo *ParcelRepository) CountGroupedByCropType(farmerID uint) ([]models.GroupCount, error) {
	return repo.countGrouped(farmerID, "crop_type")
}

func (repo *ParcelRepository) CountGroupedByStatus(farmerID uint) ([]models.GroupCount, error) {
	return repo.countGrouped(farmerID, "status")
}

// Region and commune groupings return parcels with no value recorded under
// an empty key; the service layer relabels that bucket.
func (repo *ParcelRepository) CountGroupedByRegion(farmerID uint) ([]models.GroupCount, error) {
	return repo.countGrouped(farmerID, "region")
}

func (repo *ParcelRepository) CountGroupedByCommune(farmerID uint) ([]models.GroupCount, error) {
	return repo.countGrouped(farmerID, "commune")
}

func (repo *ParcelRepository) countGrouped(farmerID uint, column string) ([]models.GroupCount, error) {
	rows := make([]models.GroupCount, 0)
	if err := repo.database.Model(&models.Parcel{}).
		Select(column+" AS group_key, COUNT(*) AS group_count").
		Where("farmer_id = ?", farmerID).
		Group(column).Order(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo *ParcelRepository) SumAreaGroupedByCropType(farmerID uint) ([]models.GroupArea, error) {
	return repo.sumAreaGrouped(farmerID, "crop_type")
}

func (repo *ParcelRepository) SumAreaGroupedByRegion(farmerID uint) ([]models.GroupArea, error) {
	return repo.sumAreaGrouped(farmerID, "region")
}

func (repo *ParcelRepository) sumAreaGrouped(farmerID uint, column string) ([]models.GroupArea, error) {
	rows := make([]models.GroupArea, 0)
	if err := repo.database.Model(&models.Parcel{}).
		Select(column+" AS group_key, COALESCE(SUM(area_hectares), 0) AS total_area").
		Where("farmer_id = ?", farmerID).
		Group(column).Order(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo *ParcelRepository) ListUpcomingHarvests(farmerID uint, from time.Time, to time.Time) ([]models.Parcel, error) {
	parcels := make([]models.Parcel, 0)
	if err := repo.database.
		Where("farmer_id = ? AND expected_harvest_date IS NOT NULL", farmerID).
		Where("expected_harvest_date >= ? AND expected_harvest_date <= ?", from, to).
		Order("expected_harvest_date ASC, id ASC").
		Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

func (repo *ParcelRepository) ListOverdueHarvests(farmerID uint, before time.Time, excludedStatuses []models.CropStatus) ([]models.Parcel, error) {
	parcels := make([]models.Parcel, 0)
	if err := repo.database.
		Where("farmer_id = ? AND expected_harvest_date IS NOT NULL", farmerID).
		Where("expected_harvest_date < ?", before).
		Where("status NOT IN ?", excludedStatuses).
		Order("expected_harvest_date ASC, id ASC").
		Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

func (repo *ParcelRepository) ListRecentlyModified(farmerID uint, limit int) ([]models.Parcel, error) {
	parcels := make([]models.Parcel, 0)
	if err := repo.database.
		Where("farmer_id = ?", farmerID).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

// CountHarvestedInWindow counts parcels already marked Harvested whose
// expected-harvest date falls in [from, to].
func (repo *ParcelRepository) CountHarvestedInWindow(farmerID uint, from time.Time, to time.Time) (int64, error) {
	var count int64
	err := repo.database.Model(&models.Parcel{}).
		Where("farmer_id = ? AND status = ?", farmerID, models.StatusHarvested).
		Where("expected_harvest_date IS NOT NULL").
		Where("expected_harvest_date >= ? AND expected_harvest_date <= ?", from, to).
		Count(&count).Error
	return count, err
}
