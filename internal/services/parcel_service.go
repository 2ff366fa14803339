package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
	"gorm.io/gorm"
)

type ParcelStore interface {
	ListByFarmer(farmerID uint) ([]models.Parcel, error)
	ListByFarmerPaginated(farmerID uint, offset int, limit int) ([]models.Parcel, int64, error)
	FindByIDAndFarmer(parcelID uint, farmerID uint) (models.Parcel, error)
	ExistsByFarmerAndName(farmerID uint, name string) (bool, error)
	ExistsByFarmerAndNameExcluding(farmerID uint, name string, excludeID uint) (bool, error)
	Create(parcel *models.Parcel) error
	Save(parcel *models.Parcel) error
	Delete(parcel *models.Parcel) error
	ListByFarmerAndCropType(farmerID uint, cropType string) ([]models.Parcel, error)
	ListByFarmerAndStatus(farmerID uint, status models.CropStatus) ([]models.Parcel, error)
	ListByFarmerAndRegion(farmerID uint, region string) ([]models.Parcel, error)
	ListByFarmerAndCommune(farmerID uint, commune string) ([]models.Parcel, error)
	SearchByFarmerAndTerm(farmerID uint, term string) ([]models.Parcel, error)
}

// FarmerResolver confirms the acting account exists and carries the farmer
// role before any parcel operation runs.
type FarmerResolver interface {
	FindByID(userID uint) (models.User, error)
}

type ParcelService struct {
	parcels ParcelStore
	users   FarmerResolver
}

func NewParcelService(parcels ParcelStore, users FarmerResolver) *ParcelService {
	return &ParcelService{parcels: parcels, users: users}
}

// ParcelInput carries the writable parcel fields. Status and Irrigated are
// pointers: updates replace every other field but only overwrite these two
// when the caller supplies them.
type ParcelInput struct {
	Name                string
	AreaHectares        float64
	CropType            string
	Commune             string
	Region              string
	Latitude            *float64
	Longitude           *float64
	PlantingDate        *time.Time
	ExpectedHarvestDate *time.Time
	Status              *models.CropStatus
	Irrigated           *bool
	Notes               string
}

// SearchFilter holds the optional single-criterion search dimensions.
type SearchFilter struct {
	CropType string
	Status   *models.CropStatus
	Region   string
	Commune  string
}

// PagedParcels mirrors the paginated listing envelope.
type PagedParcels struct {
	Items      []ParcelSummary `json:"items"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalItems int64           `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

func (service *ParcelService) Create(farmerID uint, input ParcelInput) (ParcelDetail, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return ParcelDetail{}, err
	}
	if err := validateParcelInput(input); err != nil {
		return ParcelDetail{}, err
	}

	taken, err := service.parcels.ExistsByFarmerAndName(farmerID, input.Name)
	if err != nil {
		return ParcelDetail{}, err
	}
	if taken {
		return ParcelDetail{}, NewDuplicate("a parcel with this name already exists")
	}

	parcel := models.Parcel{
		Name:                strings.TrimSpace(input.Name),
		AreaHectares:        input.AreaHectares,
		CropType:            strings.TrimSpace(input.CropType),
		Commune:             strings.TrimSpace(input.Commune),
		Region:              strings.TrimSpace(input.Region),
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		PlantingDate:        input.PlantingDate,
		ExpectedHarvestDate: input.ExpectedHarvestDate,
		Status:              models.StatusPlanted,
		Notes:               strings.TrimSpace(input.Notes),
		FarmerID:            farmerID,
	}
	if input.Status != nil {
		parcel.Status = *input.Status
	}
	if input.Irrigated != nil {
		parcel.Irrigated = *input.Irrigated
	}

	if err := service.parcels.Create(&parcel); err != nil {
		return ParcelDetail{}, err
	}

	slog.Info("parcel created", "farmerId", farmerID, "parcelId", parcel.ID)
	return buildParcelDetail(&parcel, time.Now()), nil
}

func (service *ParcelService) Get(farmerID uint, parcelID uint) (ParcelDetail, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return ParcelDetail{}, err
	}
	parcel, err := service.findOwned(farmerID, parcelID)
	if err != nil {
		return ParcelDetail{}, err
	}
	return buildParcelDetail(&parcel, time.Now()), nil
}

func (service *ParcelService) List(farmerID uint) ([]ParcelSummary, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return nil, err
	}
	parcels, err := service.parcels.ListByFarmer(farmerID)
	if err != nil {
		return nil, err
	}
	return buildParcelSummaries(parcels, time.Now()), nil
}

func (service *ParcelService) ListPaginated(farmerID uint, page int, size int) (PagedParcels, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return PagedParcels{}, err
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	parcels, total, err := service.parcels.ListByFarmerPaginated(farmerID, page*size, size)
	if err != nil {
		return PagedParcels{}, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return PagedParcels{
		Items:      buildParcelSummaries(parcels, time.Now()),
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Update replaces every field except status and irrigation flag, which keep
// their stored value unless the caller provides them.
func (service *ParcelService) Update(farmerID uint, parcelID uint, input ParcelInput) (ParcelDetail, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return ParcelDetail{}, err
	}
	parcel, err := service.findOwned(farmerID, parcelID)
	if err != nil {
		return ParcelDetail{}, err
	}
	if err := validateParcelInput(input); err != nil {
		return ParcelDetail{}, err
	}

	if !strings.EqualFold(parcel.Name, strings.TrimSpace(input.Name)) {
		taken, err := service.parcels.ExistsByFarmerAndNameExcluding(farmerID, input.Name, parcelID)
		if err != nil {
			return ParcelDetail{}, err
		}
		if taken {
			return ParcelDetail{}, NewDuplicate("a parcel with this name already exists")
		}
	}

	parcel.Name = strings.TrimSpace(input.Name)
	parcel.AreaHectares = input.AreaHectares
	parcel.CropType = strings.TrimSpace(input.CropType)
	parcel.Commune = strings.TrimSpace(input.Commune)
	parcel.Region = strings.TrimSpace(input.Region)
	parcel.Latitude = input.Latitude
	parcel.Longitude = input.Longitude
	parcel.PlantingDate = input.PlantingDate
	parcel.ExpectedHarvestDate = input.ExpectedHarvestDate
	parcel.Notes = strings.TrimSpace(input.Notes)
	if input.Status != nil {
		parcel.Status = *input.Status
	}
	if input.Irrigated != nil {
		parcel.Irrigated = *input.Irrigated
	}

	if err := service.parcels.Save(&parcel); err != nil {
		return ParcelDetail{}, err
	}

	slog.Info("parcel updated", "farmerId", farmerID, "parcelId", parcel.ID)
	return buildParcelDetail(&parcel, time.Now()), nil
}

func (service *ParcelService) Delete(farmerID uint, parcelID uint) error {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return err
	}
	parcel, err := service.findOwned(farmerID, parcelID)
	if err != nil {
		return err
	}
	if err := service.parcels.Delete(&parcel); err != nil {
		return err
	}
	slog.Info("parcel deleted", "farmerId", farmerID, "parcelId", parcelID)
	return nil
}

// SetStatus performs the single-field transition. Every status is reachable
// from every other; there is no transition matrix.
func (service *ParcelService) SetStatus(farmerID uint, parcelID uint, status models.CropStatus) (ParcelDetail, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return ParcelDetail{}, err
	}
	parcel, err := service.findOwned(farmerID, parcelID)
	if err != nil {
		return ParcelDetail{}, err
	}

	parcel.Status = status
	if err := service.parcels.Save(&parcel); err != nil {
		return ParcelDetail{}, err
	}
	return buildParcelDetail(&parcel, time.Now()), nil
}

// Search applies exactly one filter dimension, picked by priority
// cropType > status > region > commune; with none supplied it lists all.
func (service *ParcelService) Search(farmerID uint, filter SearchFilter) ([]ParcelSummary, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return nil, err
	}

	var parcels []models.Parcel
	var err error
	switch {
	case filter.CropType != "":
		parcels, err = service.parcels.ListByFarmerAndCropType(farmerID, filter.CropType)
	case filter.Status != nil:
		parcels, err = service.parcels.ListByFarmerAndStatus(farmerID, *filter.Status)
	case filter.Region != "":
		parcels, err = service.parcels.ListByFarmerAndRegion(farmerID, filter.Region)
	case filter.Commune != "":
		parcels, err = service.parcels.ListByFarmerAndCommune(farmerID, filter.Commune)
	default:
		parcels, err = service.parcels.ListByFarmer(farmerID)
	}
	if err != nil {
		return nil, err
	}
	return buildParcelSummaries(parcels, time.Now()), nil
}

func (service *ParcelService) SearchText(farmerID uint, term string) ([]ParcelSummary, error) {
	if _, err := service.requireFarmer(farmerID); err != nil {
		return nil, err
	}
	parcels, err := service.parcels.SearchByFarmerAndTerm(farmerID, term)
	if err != nil {
		return nil, err
	}
	return buildParcelSummaries(parcels, time.Now()), nil
}

func (service *ParcelService) requireFarmer(farmerID uint) (models.User, error) {
	user, err := service.users.FindByID(farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, NewNotFound("farmer not found")
		}
		return models.User{}, err
	}
	if user.Role != models.RoleFarmer {
		return models.User{}, NewNotFound("farmer not found")
	}
	return user, nil
}

// findOwned resolves a parcel by id and owner in one lookup, so a parcel
// owned by someone else is indistinguishable from a missing one.
func (service *ParcelService) findOwned(farmerID uint, parcelID uint) (models.Parcel, error) {
	parcel, err := service.parcels.FindByIDAndFarmer(parcelID, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Parcel{}, NewNotFound("parcel not found")
		}
		return models.Parcel{}, err
	}
	return parcel, nil
}

func validateParcelInput(input ParcelInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "parcel name is required"
	}
	if input.AreaHectares <= 0 {
		fields["areaHectares"] = "area must be positive"
	}
	if strings.TrimSpace(input.CropType) == "" {
		fields["cropType"] = "crop type is required"
	}
	if input.Status != nil && !models.ValidCropStatus(string(*input.Status)) {
		fields["status"] = "unknown crop status"
	}
	if input.PlantingDate != nil && input.ExpectedHarvestDate != nil &&
		input.ExpectedHarvestDate.Before(*input.PlantingDate) {
		fields["expectedHarvestDate"] = "expected harvest date cannot precede planting date"
	}
	if len(fields) > 0 {
		return NewValidation("parcel validation failed", fields)
	}
	return nil
}
