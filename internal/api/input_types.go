package api

import (
	"github.com/nouakchotech/agrimarket/internal/models"
	"github.com/nouakchotech/agrimarket/internal/services"
)

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// registrationFields is shared by the three registration bodies.
type registrationFields struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Password          string `json:"password"`
	Commune           string `json:"commune"`
	Region            string `json:"region"`
	PreferredLanguage string `json:"preferredLanguage"`
}

func (fields registrationFields) toInput() services.RegistrationInput {
	return services.RegistrationInput{
		Name:              fields.Name,
		Phone:             fields.Phone,
		Password:          fields.Password,
		Commune:           fields.Commune,
		Region:            fields.Region,
		PreferredLanguage: fields.PreferredLanguage,
	}
}

type registerFarmerRequest struct {
	registrationFields
	models.FarmerProfile
}

type registerBuyerRequest struct {
	registrationFields
	models.BuyerProfile
}

type registerSupplierRequest struct {
	registrationFields

	Company           string `json:"company"`
	ProductTypes      string `json:"productTypes"`
	BrandsRepresented string `json:"brandsRepresented"`
	DeliveryZone      string `json:"deliveryZone"`
	LicenseNumber     string `json:"licenseNumber"`
	MinistryApproved  bool   `json:"ministryApproved"`
	AdvisoryService   bool   `json:"advisoryService"`
	AfterSalesService bool   `json:"afterSalesService"`
	TechnicalTraining bool   `json:"technicalTraining"`
	ClientCredit      bool   `json:"clientCredit"`
	DeliveryDelayDays int    `json:"deliveryDelayDays"`
	WarrantyMonths    int    `json:"warrantyMonths"`
	// StockAvailable defaults to true when the body omits it, so it is
	// decoded through a pointer.
	StockAvailable *bool  `json:"stockAvailable"`
	CatalogPrice   string `json:"catalogPrice"`
	PaymentTerms   string `json:"paymentTerms"`
	Certifications string `json:"certifications"`
	Website        string `json:"website"`
	Address        string `json:"address"`
	OpeningHours   string `json:"openingHours"`
}

func (request registerSupplierRequest) toProfile() models.SupplierProfile {
	stockAvailable := true
	if request.StockAvailable != nil {
		stockAvailable = *request.StockAvailable
	}
	return models.SupplierProfile{
		Company:           request.Company,
		ProductTypes:      request.ProductTypes,
		BrandsRepresented: request.BrandsRepresented,
		DeliveryZone:      request.DeliveryZone,
		LicenseNumber:     request.LicenseNumber,
		MinistryApproved:  request.MinistryApproved,
		AdvisoryService:   request.AdvisoryService,
		AfterSalesService: request.AfterSalesService,
		TechnicalTraining: request.TechnicalTraining,
		ClientCredit:      request.ClientCredit,
		DeliveryDelayDays: request.DeliveryDelayDays,
		WarrantyMonths:    request.WarrantyMonths,
		StockAvailable:    stockAvailable,
		CatalogPrice:      request.CatalogPrice,
		PaymentTerms:      request.PaymentTerms,
		Certifications:    request.Certifications,
		Website:           request.Website,
		Address:           request.Address,
		OpeningHours:      request.OpeningHours,
	}
}

type parcelRequest struct {
	Name                string    `json:"name"`
	AreaHectares        float64   `json:"areaHectares"`
	CropType            string    `json:"cropType"`
	Latitude            *float64  `json:"latitude"`
	Longitude           *float64  `json:"longitude"`
	PlantingDate        *dateOnly `json:"plantingDate"`
	ExpectedHarvestDate *dateOnly `json:"expectedHarvestDate"`
	Status              *string   `json:"status"`
	Irrigated           *bool     `json:"irrigated"`
	Notes               string    `json:"notes"`
	Commune             string    `json:"commune"`
	Region              string    `json:"region"`
}

type statusRequest struct {
	Status string `json:"status"`
}
