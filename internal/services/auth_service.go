package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
	"github.com/nouakchotech/agrimarket/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUserRepository interface {
	FindByID(userID uint) (models.User, error)
	FindActiveByPhone(phone string) (models.User, error)
	ExistsByPhone(phone string) (bool, error)
	Create(user *models.User) error
	UpdateLastLogin(userID uint, at time.Time) error
}

type TokenIssuer interface {
	IssueAccessToken(user *models.User) (string, error)
	IssueRefreshToken(user *models.User) (string, error)
	Parse(tokenValue string) (*security.Claims, error)
	ParseExpiry(tokenValue string) (time.Time, error)
}

type AuthService struct {
	users  AuthUserRepository
	tokens TokenIssuer
}

func NewAuthService(users AuthUserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// RegistrationInput carries the fields shared by all three account kinds.
type RegistrationInput struct {
	Name              string
	Phone             string
	Password          string
	Commune           string
	Region            string
	PreferredLanguage string
}

// AuthResult is the response shape shared by login, registration, and
// refresh.
type AuthResult struct {
	AccessToken       string    `json:"token"`
	RefreshToken      string    `json:"refreshToken"`
	UserID            uint      `json:"userId"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Role              string    `json:"role"`
	PreferredLanguage string    `json:"preferredLanguage"`
	Commune           string    `json:"commune"`
	Region            string    `json:"region"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

// Profile exposes the common account fields plus exactly one role payload.
type Profile struct {
	ID                uint                    `json:"id"`
	Name              string                  `json:"name"`
	Phone             string                  `json:"phone"`
	Commune           string                  `json:"commune"`
	Region            string                  `json:"region"`
	PreferredLanguage string                  `json:"preferredLanguage"`
	Status            string                  `json:"status"`
	Role              string                  `json:"role"`
	CreatedAt         time.Time               `json:"createdAt"`
	LastLoginAt       *time.Time              `json:"lastLoginAt,omitempty"`
	FarmerData        *models.FarmerProfile   `json:"farmerData,omitempty"`
	BuyerData         *models.BuyerProfile    `json:"buyerData,omitempty"`
	SupplierData      *models.SupplierProfile `json:"supplierData,omitempty"`
}

// Login checks credentials against the active account for the phone number.
// A missing account, a non-active status, and a wrong password all produce
// the same failure.
func (service *AuthService) Login(phone string, password string) (AuthResult, error) {
	user, err := service.users.FindActiveByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, ErrAuthenticationFailed
		}
		return AuthResult{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		slog.Warn("login rejected", "phone", phone)
		return AuthResult{}, ErrAuthenticationFailed
	}

	if err := service.users.UpdateLastLogin(user.ID, time.Now()); err != nil {
		return AuthResult{}, err
	}

	return service.buildAuthResult(&user)
}

func (service *AuthService) RegisterFarmer(input RegistrationInput, profile models.FarmerProfile) (AuthResult, error) {
	return service.register(input, models.RoleFarmer, func(user *models.User) {
		user.Farmer = profile
	})
}

func (service *AuthService) RegisterBuyer(input RegistrationInput, profile models.BuyerProfile) (AuthResult, error) {
	return service.register(input, models.RoleBuyer, func(user *models.User) {
		user.Buyer = profile
	})
}

func (service *AuthService) RegisterSupplier(input RegistrationInput, profile models.SupplierProfile) (AuthResult, error) {
	return service.register(input, models.RoleSupplier, func(user *models.User) {
		user.Supplier = profile
	})
}

func (service *AuthService) register(input RegistrationInput, role string, attachProfile func(*models.User)) (AuthResult, error) {
	phone := strings.TrimSpace(input.Phone)

	taken, err := service.users.ExistsByPhone(phone)
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		return AuthResult{}, NewDuplicate("phone number already registered")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	language := input.PreferredLanguage
	if language == "" {
		language = models.DefaultLanguage
	}

	user := models.User{
		Name:              strings.TrimSpace(input.Name),
		Phone:             phone,
		Commune:           strings.TrimSpace(input.Commune),
		Region:            strings.TrimSpace(input.Region),
		PreferredLanguage: language,
		PasswordHash:      string(passwordHash),
		Status:            models.StatusActive,
		Role:              role,
	}
	attachProfile(&user)

	if err := service.users.Create(&user); err != nil {
		// The unique index on phone is the backstop for concurrent
		// registrations that both pass the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return AuthResult{}, NewDuplicate("phone number already registered")
		}
		return AuthResult{}, err
	}

	slog.Info("user registered", "role", role, "userId", user.ID)
	return service.buildAuthResult(&user)
}

// Refresh exchanges a valid refresh token for a freshly rotated token pair.
// Access tokens are rejected here: only tokens tagged REFRESH pass.
// Last-login is deliberately not touched on this path.
func (service *AuthService) Refresh(refreshToken string) (AuthResult, error) {
	claims, err := service.tokens.Parse(refreshToken)
	if err != nil {
		return AuthResult{}, ErrAuthenticationFailed
	}
	if claims.TokenType != security.RefreshTokenType {
		return AuthResult{}, ErrAuthenticationFailed
	}

	user, err := service.users.FindActiveByPhone(claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, ErrAuthenticationFailed
		}
		return AuthResult{}, err
	}

	return service.buildAuthResult(&user)
}

// GetProfile returns the account with the role payload selected by its
// role tag; the other payloads never appear in the response.
func (service *AuthService) GetProfile(userID uint) (Profile, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, NewNotFound("user not found")
		}
		return Profile{}, err
	}

	profile := Profile{
		ID:                user.ID,
		Name:              user.Name,
		Phone:             user.Phone,
		Commune:           user.Commune,
		Region:            user.Region,
		PreferredLanguage: user.PreferredLanguage,
		Status:            user.Status,
		Role:              user.Role,
		CreatedAt:         user.CreatedAt,
		LastLoginAt:       user.LastLoginAt,
	}

	switch user.Role {
	case models.RoleFarmer:
		data := user.Farmer
		profile.FarmerData = &data
	case models.RoleBuyer:
		data := user.Buyer
		profile.BuyerData = &data
	case models.RoleSupplier:
		data := user.Supplier
		profile.SupplierData = &data
	}

	return profile, nil
}

func (service *AuthService) buildAuthResult(user *models.User) (AuthResult, error) {
	accessToken, err := service.tokens.IssueAccessToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	refreshToken, err := service.tokens.IssueRefreshToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	expiresAt, err := service.tokens.ParseExpiry(accessToken)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		AccessToken:       accessToken,
		RefreshToken:      refreshToken,
		UserID:            user.ID,
		Name:              user.Name,
		Phone:             user.Phone,
		Role:              user.Role,
		PreferredLanguage: user.PreferredLanguage,
		Commune:           user.Commune,
		Region:            user.Region,
		ExpiresAt:         expiresAt,
	}, nil
}
