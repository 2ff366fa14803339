package models

import "time"

// Role discriminates the single users table. A user's role is fixed at
// registration and never changes.
const (
	RoleFarmer   = "FARMER"
	RoleBuyer    = "BUYER"
	RoleSupplier = "SUPPLIER"
)

const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusInactive  = "INACTIVE"
)

const (
	LanguageArabic    = "ar"
	LanguageFrench    = "fr"
	LanguageHassaniya = "hassaniya"
	LanguagePulaar    = "pulaar"

	DefaultLanguage = LanguageFrench
)

func ValidLanguage(code string) bool {
	switch code {
	case LanguageArabic, LanguageFrench, LanguageHassaniya, LanguagePulaar:
		return true
	}
	return false
}

func ValidRole(role string) bool {
	switch role {
	case RoleFarmer, RoleBuyer, RoleSupplier:
		return true
	}
	return false
}

// User is stored in a single table. Exactly one of the embedded role
// profiles is meaningful, selected by Role; the service layer never exposes
// the other two.
type User struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"size:100;not null"`
	Phone             string `gorm:"size:20;uniqueIndex;not null"`
	Commune           string `gorm:"size:100"`
	Region            string `gorm:"size:100"`
	PreferredLanguage string `gorm:"size:20;not null;default:fr"`
	PasswordHash      string `gorm:"not null"`
	Status            string `gorm:"size:20;not null;default:ACTIVE"`
	Role              string `gorm:"size:20;not null;index"`

	Farmer   FarmerProfile   `gorm:"embedded;embeddedPrefix:farmer_"`
	Buyer    BuyerProfile    `gorm:"embedded;embeddedPrefix:buyer_"`
	Supplier SupplierProfile `gorm:"embedded;embeddedPrefix:supplier_"`

	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	LastLoginAt *time.Time
}

type FarmerProfile struct {
	CropType             string  `gorm:"size:100" json:"cropType"`
	TotalAreaHectares    float64 `gorm:"default:0" json:"totalAreaHectares"`
	YearsExperience      int     `gorm:"default:0" json:"yearsExperience"`
	Cooperative          bool    `gorm:"default:false" json:"cooperative"`
	CooperativeName      string  `gorm:"size:150" json:"cooperativeName"`
	OrganicCertified     bool    `gorm:"default:false" json:"organicCertified"`
	IrrigationMethod     string  `gorm:"size:50" json:"irrigationMethod"`
	Equipment            string  `gorm:"size:500" json:"equipment"`
	AnnualProductionTons float64 `gorm:"default:0" json:"annualProductionTons"`
	ProductionObjective  string  `gorm:"size:200" json:"productionObjective"`
	AgriculturalTraining bool    `gorm:"default:false" json:"agriculturalTraining"`
	CreditAccess         bool    `gorm:"default:false" json:"creditAccess"`
	MainProblems         string  `gorm:"size:500" json:"mainProblems"`
}

type BuyerProfile struct {
	Company               string  `gorm:"size:150" json:"company"`
	PurchaseType          string  `gorm:"size:50" json:"purchaseType"`
	SoughtProducts        string  `gorm:"size:500" json:"soughtProducts"`
	StorageCapacityTons   float64 `gorm:"default:0" json:"storageCapacityTons"`
	BuyingZone            string  `gorm:"size:200" json:"buyingZone"`
	PurchaseFrequency     string  `gorm:"size:50" json:"purchaseFrequency"`
	PaymentMode           string  `gorm:"size:50" json:"paymentMode"`
	PaymentDelayDays      int     `gorm:"default:0" json:"paymentDelayDays"`
	QualityRequirements   string  `gorm:"size:500" json:"qualityRequirements"`
	CertificationRequired bool    `gorm:"default:false" json:"certificationRequired"`
	MonthlyVolumeTons     float64 `gorm:"default:0" json:"monthlyVolumeTons"`
	MaxPricePerTon        float64 `gorm:"default:0" json:"maxPricePerTon"`
	TransportAssured      bool    `gorm:"default:false" json:"transportAssured"`
	LicenseNumber         string  `gorm:"size:50" json:"licenseNumber"`
	Sector                string  `gorm:"size:100" json:"sector"`
}

type SupplierProfile struct {
	Company           string `gorm:"size:150" json:"company"`
	ProductTypes      string `gorm:"size:500" json:"productTypes"`
	BrandsRepresented string `gorm:"size:500" json:"brandsRepresented"`
	DeliveryZone      string `gorm:"size:200" json:"deliveryZone"`
	LicenseNumber     string `gorm:"size:50" json:"licenseNumber"`
	MinistryApproved  bool   `gorm:"default:false" json:"ministryApproved"`
	AdvisoryService   bool   `gorm:"default:false" json:"advisoryService"`
	AfterSalesService bool   `gorm:"default:false" json:"afterSalesService"`
	TechnicalTraining bool   `gorm:"default:false" json:"technicalTraining"`
	ClientCredit      bool   `gorm:"default:false" json:"clientCredit"`
	DeliveryDelayDays int    `gorm:"default:0" json:"deliveryDelayDays"`
	WarrantyMonths    int    `gorm:"default:0" json:"warrantyMonths"`
	StockAvailable    bool   `json:"stockAvailable"`
	CatalogPrice      string `gorm:"size:200" json:"catalogPrice"`
	PaymentTerms      string `gorm:"size:200" json:"paymentTerms"`
	Certifications    string `gorm:"size:500" json:"certifications"`
	Website           string `gorm:"size:200" json:"website"`
	Address           string `gorm:"size:300" json:"address"`
	OpeningHours      string `gorm:"size:100" json:"openingHours"`
}

func (user *User) IsActive() bool {
	return user.Status == StatusActive
}
