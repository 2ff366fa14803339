package models

import "time"

type OfferStatus string

const (
	OfferAvailable OfferStatus = "AVAILABLE"
	OfferReserved  OfferStatus = "RESERVED"
	OfferSold      OfferStatus = "SOLD"
	OfferExpired   OfferStatus = "EXPIRED"
	OfferWithdrawn OfferStatus = "WITHDRAWN"
)

const (
	UnitKilogram = "KG"
	UnitTon      = "TON"
	UnitBag      = "BAG"
	UnitCrate    = "CRATE"
	UnitLiter    = "LITER"
)

const (
	QualityPremium  = "PREMIUM"
	QualityStandard = "STANDARD"
	QualityEconomy  = "ECONOMY"
)

const (
	CertificationOrganic     = "ORGANIC"
	CertificationTraditional = "TRADITIONAL"
	CertificationCertified   = "CERTIFIED"
)

// MarketOffer is a farmer's sale listing. Offers are plain data for now:
// no matching or settlement workflow hangs off them.
type MarketOffer struct {
	ID                  uint        `gorm:"primaryKey"`
	Product             string      `gorm:"size:100;not null"`
	Variety             string      `gorm:"size:100"`
	Quantity            float64     `gorm:"not null"`
	Unit                string      `gorm:"size:20;not null"`
	UnitPrice           float64     `gorm:"not null"`
	PriceNegotiable     bool        `gorm:"not null"`
	Commune             string      `gorm:"size:100"`
	Region              string      `gorm:"size:100"`
	Description         string      `gorm:"type:text"`
	Quality             string      `gorm:"size:20;not null;default:STANDARD"`
	Certification       string      `gorm:"size:20;not null;default:TRADITIONAL"`
	HarvestDate         *time.Time
	ExpectedHarvestDate *time.Time
	ExpiresAt           *time.Time
	Status              OfferStatus `gorm:"size:20;not null;default:AVAILABLE"`
	Latitude            *float64
	Longitude           *float64
	ViewCount           int         `gorm:"not null;default:0"`
	SellerID            uint        `gorm:"not null;index"`
	CreatedAt           time.Time   `gorm:"not null"`
	UpdatedAt           time.Time   `gorm:"not null"`
}

// TotalAmount is the asking total for the whole listed quantity.
func (offer *MarketOffer) TotalAmount() float64 {
	return offer.Quantity * offer.UnitPrice
}

func (offer *MarketOffer) Expired(now time.Time) bool {
	return offer.ExpiresAt != nil && now.After(*offer.ExpiresAt)
}
