package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nouakchotech/agrimarket/internal/models"
)

type stubParcelStore struct {
	parcels []models.Parcel
	nextID  uint

	searchedCropType string
	searchedStatus   *models.CropStatus
	searchedRegion   string
	deleted          []uint
}

func newStubParcelStore() *stubParcelStore {
	return &stubParcelStore{nextID: 1}
}

func (stub *stubParcelStore) ListByFarmer(farmerID uint) ([]models.Parcel, error) {
	var result []models.Parcel
	for _, parcel := range stub.parcels {
		if parcel.FarmerID == farmerID {
			result = append(result, parcel)
		}
	}
	return result, nil
}

func (stub *stubParcelStore) ListByFarmerPaginated(farmerID uint, offset int, limit int) ([]models.Parcel, int64, error) {
	owned, _ := stub.ListByFarmer(farmerID)
	total := int64(len(owned))
	if offset >= len(owned) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (stub *stubParcelStore) FindByIDAndFarmer(parcelID uint, farmerID uint) (models.Parcel, error) {
	for _, parcel := range stub.parcels {
		if parcel.ID == parcelID && parcel.FarmerID == farmerID {
			return parcel, nil
		}
	}
	return models.Parcel{}, gorm.ErrRecordNotFound
}

func (stub *stubParcelStore) ExistsByFarmerAndName(farmerID uint, name string) (bool, error) {
	return stub.nameTaken(farmerID, name, 0), nil
}

func (stub *stubParcelStore) ExistsByFarmerAndNameExcluding(farmerID uint, name string, excludeID uint) (bool, error) {
	return stub.nameTaken(farmerID, name, excludeID), nil
}

func (stub *stubParcelStore) nameTaken(farmerID uint, name string, excludeID uint) bool {
	for _, parcel := range stub.parcels {
		if parcel.FarmerID == farmerID && parcel.ID != excludeID && strings.EqualFold(parcel.Name, name) {
			return true
		}
	}
	return false
}

func (stub *stubParcelStore) Create(parcel *models.Parcel) error {
	parcel.ID = stub.nextID
	stub.nextID++
	parcel.CreatedAt = time.Now()
	parcel.UpdatedAt = parcel.CreatedAt
	stub.parcels = append(stub.parcels, *parcel)
	return nil
}

func (stub *stubParcelStore) Save(parcel *models.Parcel) error {
	for i := range stub.parcels {
		if stub.parcels[i].ID == parcel.ID {
			parcel.UpdatedAt = time.Now()
			stub.parcels[i] = *parcel
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (stub *stubParcelStore) Delete(parcel *models.Parcel) error {
	for i := range stub.parcels {
		if stub.parcels[i].ID == parcel.ID {
			stub.parcels = append(stub.parcels[:i], stub.parcels[i+1:]...)
			stub.deleted = append(stub.deleted, parcel.ID)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (stub *stubParcelStore) ListByFarmerAndCropType(farmerID uint, cropType string) ([]models.Parcel, error) {
	stub.searchedCropType = cropType
	var result []models.Parcel
	for _, parcel := range stub.parcels {
		if parcel.FarmerID == farmerID && parcel.CropType == cropType {
			result = append(result, parcel)
		}
	}
	return result, nil
}

func (stub *stubParcelStore) ListByFarmerAndStatus(farmerID uint, status models.CropStatus) ([]models.Parcel, error) {
	stub.searchedStatus = &status
	var result []models.Parcel
	for _, parcel := range stub.parcels {
		if parcel.FarmerID == farmerID && parcel.Status == status {
			result = append(result, parcel)
		}
	}
	return result, nil
}

func (stub *stubParcelStore) ListByFarmerAndRegion(farmerID uint, region string) ([]models.Parcel, error) {
	stub.searchedRegion = region
	var result []models.Parcel
	for _, parcel := range stub.parcels {
		if parcel.FarmerID == farmerID && parcel.Region == region {
			result = append(result, parcel)
		}
	}
	return result, nil
}

func (stub *stubParcelStore) ListByFarmerAndCommune(farmerID uint, commune string) ([]models.Parcel, error) {
	var result []models.Parcel
	for _, parcel := range stub.parcels {
		if parcel.FarmerID == farmerID && parcel.Commune == commune {
			result = append(result, parcel)
		}
	}
	return result, nil
}

func (stub *stubParcelStore) SearchByFarmerAndTerm(farmerID uint, term string) ([]models.Parcel, error) {
	needle := strings.ToLower(term)
	var result []models.Parcel
	for _, parcel := range stub.parcels {
		if parcel.FarmerID != farmerID {
			continue
		}
		haystack := strings.ToLower(parcel.Name + " " + parcel.CropType + " " + parcel.Notes)
		if strings.Contains(haystack, needle) {
			result = append(result, parcel)
		}
	}
	return result, nil
}

type stubFarmerResolver struct {
	users map[uint]models.User
}

func (stub *stubFarmerResolver) FindByID(userID uint) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func farmerOnlyResolver(farmerID uint) *stubFarmerResolver {
	return &stubFarmerResolver{users: map[uint]models.User{
		farmerID: {ID: farmerID, Role: models.RoleFarmer, Status: models.StatusActive},
	}}
}

func newTestParcelService(store *stubParcelStore, farmerID uint) *ParcelService {
	return NewParcelService(store, farmerOnlyResolver(farmerID))
}

func validParcelInput(name string) ParcelInput {
	return ParcelInput{
		Name:         name,
		AreaHectares: 2.5,
		CropType:     "Rice",
		Region:       "Trarza",
		Commune:      "Rosso",
	}
}

func TestCreateParcelDefaultsStatusToPlanted(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	detail, err := service.Create(1, validParcelInput("North Field"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if detail.Status != models.StatusPlanted {
		t.Fatalf("expected default status %q, got %q", models.StatusPlanted, detail.Status)
	}
	if detail.StatusLabel != models.StatusPlanted.Label() {
		t.Fatalf("expected status label %q, got %q", models.StatusPlanted.Label(), detail.StatusLabel)
	}
}

func TestCreateParcelRejectsCaseInsensitiveDuplicateName(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	if _, err := service.Create(1, validParcelInput("North Field")); err != nil {
		t.Fatalf("first Create() failed: %v", err)
	}

	_, err := service.Create(1, validParcelInput("NORTH FIELD"))
	var duplicate *DuplicateError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicateError for the same name in different case, got %v", err)
	}
}

func TestCreateParcelAllowsSameNameAcrossFarmers(t *testing.T) {
	store := newStubParcelStore()
	resolver := &stubFarmerResolver{users: map[uint]models.User{
		1: {ID: 1, Role: models.RoleFarmer},
		2: {ID: 2, Role: models.RoleFarmer},
	}}
	service := NewParcelService(store, resolver)

	if _, err := service.Create(1, validParcelInput("North Field")); err != nil {
		t.Fatalf("Create() for farmer 1 failed: %v", err)
	}
	if _, err := service.Create(2, validParcelInput("North Field")); err != nil {
		t.Fatalf("expected the same name to be allowed for another farmer, got %v", err)
	}
}

func TestCreateParcelRejectsHarvestBeforePlanting(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	input := validParcelInput("North Field")
	input.PlantingDate = datePtr(2026, 4, 10)
	input.ExpectedHarvestDate = datePtr(2026, 4, 9)

	_, err := service.Create(1, input)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := validation.Fields["expectedHarvestDate"]; !ok {
		t.Fatalf("expected a field message for expectedHarvestDate, got %v", validation.Fields)
	}
}

func TestCreateParcelRequiresFarmerRole(t *testing.T) {
	store := newStubParcelStore()
	resolver := &stubFarmerResolver{users: map[uint]models.User{
		7: {ID: 7, Role: models.RoleBuyer},
	}}
	service := NewParcelService(store, resolver)

	_, err := service.Create(7, validParcelInput("North Field"))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for a non-farmer, got %v", err)
	}
}

func TestGetParcelHidesForeignParcels(t *testing.T) {
	store := newStubParcelStore()
	resolver := &stubFarmerResolver{users: map[uint]models.User{
		1: {ID: 1, Role: models.RoleFarmer},
		2: {ID: 2, Role: models.RoleFarmer},
	}}
	service := NewParcelService(store, resolver)

	created, err := service.Create(1, validParcelInput("North Field"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	_, err = service.Get(2, created.ID)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("another farmer's parcel must look missing, got %v", err)
	}
}

func TestUpdateParcelKeepsStatusAndIrrigationUnlessProvided(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	growing := models.StatusGrowing
	irrigated := true
	input := validParcelInput("North Field")
	input.Status = &growing
	input.Irrigated = &irrigated
	created, err := service.Create(1, input)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	update := validParcelInput("North Field")
	update.AreaHectares = 3.25
	updated, err := service.Update(1, created.ID, update)
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.AreaHectares != 3.25 {
		t.Fatalf("expected area overwritten to 3.25, got %v", updated.AreaHectares)
	}
	if updated.Status != models.StatusGrowing {
		t.Fatalf("status must survive an update that omits it, got %q", updated.Status)
	}
	if !updated.Irrigated {
		t.Fatal("irrigation flag must survive an update that omits it")
	}

	flowering := models.StatusFlowering
	update.Status = &flowering
	updated, err = service.Update(1, created.ID, update)
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.Status != models.StatusFlowering {
		t.Fatalf("expected explicit status update to apply, got %q", updated.Status)
	}
}

func TestUpdateParcelAllowsKeepingOwnName(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	created, err := service.Create(1, validParcelInput("North Field"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, err := service.Update(1, created.ID, validParcelInput("north field")); err != nil {
		t.Fatalf("renaming to its own name in another case must pass, got %v", err)
	}
}

func TestDeleteParcelIsHard(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	created, err := service.Create(1, validParcelInput("North Field"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := service.Delete(1, created.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != created.ID {
		t.Fatalf("expected a hard delete of parcel %d, got %v", created.ID, store.deleted)
	}
	if _, err := service.Get(1, created.ID); err == nil {
		t.Fatal("expected the deleted parcel to be gone")
	}
}

func TestSetStatusAllowsAnyTransition(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	created, err := service.Create(1, validParcelInput("North Field"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// No transition matrix: Resting straight from Planted is legal.
	detail, err := service.SetStatus(1, created.ID, models.StatusResting)
	if err != nil {
		t.Fatalf("SetStatus() unexpected error: %v", err)
	}
	if detail.Status != models.StatusResting {
		t.Fatalf("expected status %q, got %q", models.StatusResting, detail.Status)
	}
}

func TestSearchAppliesSingleCriterionByPriority(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	rice := validParcelInput("North Field")
	if _, err := service.Create(1, rice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	millet := validParcelInput("South Field")
	millet.CropType = "Millet"
	millet.Region = "Gorgol"
	if _, err := service.Create(1, millet); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// cropType outranks region: the region filter must be ignored.
	results, err := service.Search(1, SearchFilter{CropType: "Millet", Region: "Trarza"})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "South Field" {
		t.Fatalf("expected only the millet parcel, got %+v", results)
	}
	if store.searchedCropType != "Millet" {
		t.Fatal("expected the crop-type query to run")
	}
	if store.searchedRegion != "" {
		t.Fatal("the region filter must not run when crop type is present")
	}
}

func TestSearchWithoutCriteriaListsAll(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	if _, err := service.Create(1, validParcelInput("North Field")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := service.Create(1, validParcelInput("South Field")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	results, err := service.Search(1, SearchFilter{})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both parcels, got %d", len(results))
	}
}

func TestListPaginatedComputesTotals(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		if _, err := service.Create(1, validParcelInput(name)); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	paged, err := service.ListPaginated(1, 1, 2)
	if err != nil {
		t.Fatalf("ListPaginated() unexpected error: %v", err)
	}
	if paged.TotalItems != 5 {
		t.Fatalf("expected 5 total items, got %d", paged.TotalItems)
	}
	if paged.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", paged.TotalPages)
	}
	if len(paged.Items) != 2 {
		t.Fatalf("expected 2 items on page 1, got %d", len(paged.Items))
	}
	if paged.Page != 1 || paged.Size != 2 {
		t.Fatalf("unexpected page metadata: page=%d size=%d", paged.Page, paged.Size)
	}
}

func TestListPaginatedNormalizesBadArguments(t *testing.T) {
	store := newStubParcelStore()
	service := newTestParcelService(store, 1)

	paged, err := service.ListPaginated(1, -3, 0)
	if err != nil {
		t.Fatalf("ListPaginated() unexpected error: %v", err)
	}
	if paged.Page != 0 {
		t.Fatalf("expected negative page clamped to 0, got %d", paged.Page)
	}
	if paged.Size != 10 {
		t.Fatalf("expected default size 10, got %d", paged.Size)
	}
}
