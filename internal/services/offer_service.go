package services

import (
	"strings"
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
)

// OfferStore is the persistence contract the offer service depends on.
type OfferStore interface {
	ListBySeller(sellerID uint) ([]models.MarketOffer, error)
	FindByIDAndSeller(id uint, sellerID uint) (models.MarketOffer, error)
	Create(offer *models.MarketOffer) error
	Save(offer *models.MarketOffer) error
	IncrementViews(id uint) error
}

type OfferService struct {
	offers OfferStore
	users  FarmerResolver
}

func NewOfferService(offers OfferStore, users FarmerResolver) *OfferService {
	return &OfferService{offers: offers, users: users}
}

// OfferInput carries the caller-supplied fields of a sale listing.
type OfferInput struct {
	Product             string
	Variety             string
	Quantity            float64
	Unit                string
	UnitPrice           float64
	PriceNegotiable     *bool
	Commune             string
	Region              string
	Description         string
	Quality             string
	Certification       string
	HarvestDate         *time.Time
	ExpectedHarvestDate *time.Time
	ExpiresAt           *time.Time
	Latitude            *float64
	Longitude           *float64
}

// OfferDetail is the outward shape of one listing, with derived pricing
// and freshness fields.
type OfferDetail struct {
	ID                  uint               `json:"id"`
	Product             string             `json:"product"`
	Variety             string             `json:"variety,omitempty"`
	Quantity            float64            `json:"quantity"`
	Unit                string             `json:"unit"`
	UnitPrice           float64            `json:"unitPrice"`
	TotalAmount         float64            `json:"totalAmount"`
	PriceNegotiable     bool               `json:"priceNegotiable"`
	Commune             string             `json:"commune,omitempty"`
	Region              string             `json:"region,omitempty"`
	Description         string             `json:"description,omitempty"`
	Quality             string             `json:"quality"`
	Certification       string             `json:"certification"`
	HarvestDate         *time.Time         `json:"harvestDate,omitempty"`
	ExpectedHarvestDate *time.Time         `json:"expectedHarvestDate,omitempty"`
	ExpiresAt           *time.Time         `json:"expiresAt,omitempty"`
	Status              models.OfferStatus `json:"status"`
	Expired             bool               `json:"expired"`
	Latitude            *float64           `json:"latitude,omitempty"`
	Longitude           *float64           `json:"longitude,omitempty"`
	ViewCount           int                `json:"viewCount"`
	SellerID            uint               `json:"sellerId"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// Create validates and stores a new listing for the seller.
func (service *OfferService) Create(sellerID uint, input OfferInput) (OfferDetail, error) {
	if _, err := service.users.FindByID(sellerID); err != nil {
		return OfferDetail{}, NewNotFound("seller not found")
	}
	if err := validateOfferInput(input); err != nil {
		return OfferDetail{}, err
	}

	offer := models.MarketOffer{
		Product:             strings.TrimSpace(input.Product),
		Variety:             strings.TrimSpace(input.Variety),
		Quantity:            input.Quantity,
		Unit:                input.Unit,
		UnitPrice:           input.UnitPrice,
		PriceNegotiable:     true,
		Commune:             strings.TrimSpace(input.Commune),
		Region:              strings.TrimSpace(input.Region),
		Description:         input.Description,
		Quality:             defaultString(input.Quality, models.QualityStandard),
		Certification:       defaultString(input.Certification, models.CertificationTraditional),
		HarvestDate:         input.HarvestDate,
		ExpectedHarvestDate: input.ExpectedHarvestDate,
		ExpiresAt:           input.ExpiresAt,
		Status:              models.OfferAvailable,
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		SellerID:            sellerID,
	}
	if input.PriceNegotiable != nil {
		offer.PriceNegotiable = *input.PriceNegotiable
	}

	if err := service.offers.Create(&offer); err != nil {
		return OfferDetail{}, err
	}
	return buildOfferDetail(offer, time.Now()), nil
}

// List returns every listing of the seller, newest first.
func (service *OfferService) List(sellerID uint) ([]OfferDetail, error) {
	offers, err := service.offers.ListBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	details := make([]OfferDetail, 0, len(offers))
	for _, offer := range offers {
		details = append(details, buildOfferDetail(offer, now))
	}
	return details, nil
}

// Get returns one listing of the seller and records the view.
func (service *OfferService) Get(sellerID uint, id uint) (OfferDetail, error) {
	offer, err := service.offers.FindByIDAndSeller(id, sellerID)
	if err != nil {
		return OfferDetail{}, NewNotFound("offer not found")
	}
	if err := service.offers.IncrementViews(offer.ID); err != nil {
		return OfferDetail{}, err
	}
	offer.ViewCount++
	return buildOfferDetail(offer, time.Now()), nil
}

// SetStatus moves a listing to another lifecycle state.
func (service *OfferService) SetStatus(sellerID uint, id uint, status models.OfferStatus) (OfferDetail, error) {
	offer, err := service.offers.FindByIDAndSeller(id, sellerID)
	if err != nil {
		return OfferDetail{}, NewNotFound("offer not found")
	}
	switch status {
	case models.OfferAvailable, models.OfferReserved, models.OfferSold, models.OfferExpired, models.OfferWithdrawn:
	default:
		return OfferDetail{}, NewValidation("invalid offer status", map[string]string{"status": "unknown offer status"})
	}
	offer.Status = status
	if err := service.offers.Save(&offer); err != nil {
		return OfferDetail{}, err
	}
	return buildOfferDetail(offer, time.Now()), nil
}

func validateOfferInput(input OfferInput) error {
	fields := make(map[string]string)
	if strings.TrimSpace(input.Product) == "" {
		fields["product"] = "product is required"
	}
	if input.Quantity <= 0 {
		fields["quantity"] = "quantity must be greater than zero"
	}
	if input.UnitPrice <= 0 {
		fields["unitPrice"] = "unit price must be greater than zero"
	}
	switch input.Unit {
	case models.UnitKilogram, models.UnitTon, models.UnitBag, models.UnitCrate, models.UnitLiter:
	default:
		fields["unit"] = "unknown unit"
	}
	if len(fields) > 0 {
		return NewValidation("invalid offer", fields)
	}
	return nil
}

func defaultString(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func buildOfferDetail(offer models.MarketOffer, now time.Time) OfferDetail {
	return OfferDetail{
		ID:                  offer.ID,
		Product:             offer.Product,
		Variety:             offer.Variety,
		Quantity:            offer.Quantity,
		Unit:                offer.Unit,
		UnitPrice:           offer.UnitPrice,
		TotalAmount:         RoundTo2(offer.TotalAmount()),
		PriceNegotiable:     offer.PriceNegotiable,
		Commune:             offer.Commune,
		Region:              offer.Region,
		Description:         offer.Description,
		Quality:             offer.Quality,
		Certification:       offer.Certification,
		HarvestDate:         offer.HarvestDate,
		ExpectedHarvestDate: offer.ExpectedHarvestDate,
		ExpiresAt:           offer.ExpiresAt,
		Status:              offer.Status,
		Expired:             offer.Expired(now),
		Latitude:            offer.Latitude,
		Longitude:           offer.Longitude,
		ViewCount:           offer.ViewCount,
		SellerID:            offer.SellerID,
		CreatedAt:           offer.CreatedAt,
		UpdatedAt:           offer.UpdatedAt,
	}
}
