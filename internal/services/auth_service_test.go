package services

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nouakchotech/agrimarket/internal/models"
	"github.com/nouakchotech/agrimarket/internal/security"
)

type stubUserRepo struct {
	usersByPhone map[string]models.User
	usersByID    map[uint]models.User
	nextID       uint

	lastLoginUserID uint
	lastLoginAt     time.Time
	createErr       error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		usersByPhone: make(map[string]models.User),
		usersByID:    make(map[uint]models.User),
		nextID:       1,
	}
}

func (stub *stubUserRepo) FindByID(userID uint) (models.User, error) {
	user, ok := stub.usersByID[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *stubUserRepo) FindActiveByPhone(phone string) (models.User, error) {
	user, ok := stub.usersByPhone[phone]
	if !ok || user.Status != models.StatusActive {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *stubUserRepo) ExistsByPhone(phone string) (bool, error) {
	_, ok := stub.usersByPhone[phone]
	return ok, nil
}

func (stub *stubUserRepo) Create(user *models.User) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	user.ID = stub.nextID
	stub.nextID++
	user.CreatedAt = time.Now()
	stub.usersByPhone[user.Phone] = *user
	stub.usersByID[user.ID] = *user
	return nil
}

func (stub *stubUserRepo) UpdateLastLogin(userID uint, at time.Time) error {
	stub.lastLoginUserID = userID
	stub.lastLoginAt = at
	return nil
}

func newTestAuthService(repo *stubUserRepo) *AuthService {
	tokens := security.NewTokenProvider("test-secret", time.Hour, 2*time.Hour)
	return NewAuthService(repo, tokens)
}

func farmerInput(phone string) RegistrationInput {
	return RegistrationInput{
		Name:     "Aminata Sow",
		Phone:    phone,
		Password: "s3cret-pass",
		Commune:  "Rosso",
		Region:   "Trarza",
	}
}

func TestRegisterFarmerIssuesTokenPair(t *testing.T) {
	repo := newStubUserRepo()
	service := newTestAuthService(repo)

	result, err := service.RegisterFarmer(farmerInput("+22234567890"), models.FarmerProfile{CropType: "Rice"})
	if err != nil {
		t.Fatalf("RegisterFarmer() unexpected error: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected both tokens in the registration result")
	}
	if result.Role != models.RoleFarmer {
		t.Fatalf("expected role %q, got %q", models.RoleFarmer, result.Role)
	}
	if result.PreferredLanguage != models.DefaultLanguage {
		t.Fatalf("expected default language %q, got %q", models.DefaultLanguage, result.PreferredLanguage)
	}
	if result.ExpiresAt.IsZero() {
		t.Fatal("expected a computed token expiry")
	}

	stored := repo.usersByPhone["+22234567890"]
	if stored.PasswordHash == "s3cret-pass" {
		t.Fatal("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Fatal("stored hash does not verify against the original password")
	}
	if stored.Farmer.CropType != "Rice" {
		t.Fatalf("expected farmer payload persisted, got %q", stored.Farmer.CropType)
	}
}

func TestRegisterRejectsDuplicatePhoneAcrossRoles(t *testing.T) {
	repo := newStubUserRepo()
	service := newTestAuthService(repo)

	if _, err := service.RegisterFarmer(farmerInput("+22234567890"), models.FarmerProfile{}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := service.RegisterBuyer(farmerInput("+22234567890"), models.BuyerProfile{})
	var duplicate *DuplicateError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicateError for a second role on the same phone, got %v", err)
	}
}

func TestRegisterTranslatesUniqueIndexViolation(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = gorm.ErrDuplicatedKey
	service := newTestAuthService(repo)

	_, err := service.RegisterFarmer(farmerInput("+22234567890"), models.FarmerProfile{})
	var duplicate *DuplicateError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicateError on a unique index violation, got %v", err)
	}
}

func TestLoginSucceedsAndUpdatesLastLogin(t *testing.T) {
	repo := newStubUserRepo()
	service := newTestAuthService(repo)

	registered, err := service.RegisterFarmer(farmerInput("+22234567890"), models.FarmerProfile{})
	if err != nil {
		t.Fatalf("RegisterFarmer() unexpected error: %v", err)
	}

	result, err := service.Login("+22234567890", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if result.UserID != registered.UserID {
		t.Fatalf("expected user id %d, got %d", registered.UserID, result.UserID)
	}
	if repo.lastLoginUserID != registered.UserID {
		t.Fatal("expected last-login update on login")
	}
}

func TestLoginFailuresShareOneError(t *testing.T) {
	repo := newStubUserRepo()
	service := newTestAuthService(repo)

	if _, err := service.RegisterFarmer(farmerInput("+22234567890"), models.FarmerProfile{}); err != nil {
		t.Fatalf("RegisterFarmer() unexpected error: %v", err)
	}
	suspended := repo.usersByPhone["+22234567890"]
	suspended.Status = models.StatusSuspended
	suspended.Phone = "+22200000000"
	repo.usersByPhone[suspended.Phone] = suspended

	cases := []struct {
		name     string
		phone    string
		password string
	}{
		{"unknown phone", "+22299999999", "s3cret-pass"},
		{"wrong password", "+22234567890", "wrong"},
		{"suspended account", "+22200000000", "s3cret-pass"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Login(testCase.phone, testCase.password)
			if !errors.Is(err, ErrAuthenticationFailed) {
				t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
			}
		})
	}
}

func TestRefreshRotatesPairAndKeepsIdentity(t *testing.T) {
	repo := newStubUserRepo()
	service := newTestAuthService(repo)

	registered, err := service.RegisterFarmer(farmerInput("+22234567890"), models.FarmerProfile{})
	if err != nil {
		t.Fatalf("RegisterFarmer() unexpected error: %v", err)
	}
	repo.lastLoginUserID = 0

	refreshed, err := service.Refresh(registered.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() unexpected error: %v", err)
	}
	if refreshed.UserID != registered.UserID {
		t.Fatalf("expected user id %d after refresh, got %d", registered.UserID, refreshed.UserID)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatal("expected a fully rotated token pair")
	}
	if repo.lastLoginUserID != 0 {
		t.Fatal("refresh must not touch the last-login timestamp")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newStubUserRepo()
	service := newTestAuthService(repo)

	registered, err := service.RegisterFarmer(farmerInput("+22234567890"), models.FarmerProfile{})
	if err != nil {
		t.Fatalf("RegisterFarmer() unexpected error: %v", err)
	}

	_, err = service.Refresh(registered.AccessToken)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for an access token on the refresh path, got %v", err)
	}
}

func TestGetProfileAttachesExactlyOneRolePayload(t *testing.T) {
	repo := newStubUserRepo()
	service := newTestAuthService(repo)

	registered, err := service.RegisterSupplier(farmerInput("+22234567890"), models.SupplierProfile{
		Company:        "Sahel Agro Supplies",
		StockAvailable: true,
	})
	if err != nil {
		t.Fatalf("RegisterSupplier() unexpected error: %v", err)
	}

	profile, err := service.GetProfile(registered.UserID)
	if err != nil {
		t.Fatalf("GetProfile() unexpected error: %v", err)
	}
	if profile.SupplierData == nil {
		t.Fatal("expected the supplier payload on a supplier profile")
	}
	if profile.SupplierData.Company != "Sahel Agro Supplies" {
		t.Fatalf("unexpected supplier company %q", profile.SupplierData.Company)
	}
	if profile.FarmerData != nil || profile.BuyerData != nil {
		t.Fatal("other role payloads must not leak into the profile")
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	service := newTestAuthService(newStubUserRepo())

	_, err := service.GetProfile(404)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
