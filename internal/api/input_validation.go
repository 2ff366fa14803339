package api

import (
	"regexp"
	"strings"
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
	"github.com/nouakchotech/agrimarket/internal/services"
)

// Mauritanian numbers: international +222 prefix or the bare 8-digit
// local form.
var phoneRegexp = regexp.MustCompile(`^\+222[0-9]{8}$|^[0-9]{8}$`)

func validateCredentials(phone string, password string) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(phone) == "" {
		fields["phone"] = "phone number is required"
	} else if !phoneRegexp.MatchString(strings.TrimSpace(phone)) {
		fields["phone"] = "invalid phone number format"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	return fields
}

func validateRegistration(request registrationFields) map[string]string {
	fields := validateCredentials(request.Phone, request.Password)
	if strings.TrimSpace(request.Name) == "" {
		fields["name"] = "name is required"
	}
	if request.PreferredLanguage != "" && !models.ValidLanguage(request.PreferredLanguage) {
		fields["preferredLanguage"] = "unsupported language"
	}
	return fields
}

// dateOnly decodes calendar dates sent as "2006-01-02" strings.
type dateOnly struct {
	time.Time
}

func (date *dateOnly) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return err
	}
	date.Time = parsed
	return nil
}

func (date dateOnly) MarshalJSON() ([]byte, error) {
	if date.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + date.Format("2006-01-02") + `"`), nil
}

func (request parcelRequest) toInput() (services.ParcelInput, error) {
	input := services.ParcelInput{
		Name:         request.Name,
		AreaHectares: request.AreaHectares,
		CropType:     request.CropType,
		Commune:      request.Commune,
		Region:       request.Region,
		Latitude:     request.Latitude,
		Longitude:    request.Longitude,
		Irrigated:    request.Irrigated,
		Notes:        request.Notes,
	}
	if request.PlantingDate != nil && !request.PlantingDate.IsZero() {
		planting := request.PlantingDate.Time
		input.PlantingDate = &planting
	}
	if request.ExpectedHarvestDate != nil && !request.ExpectedHarvestDate.IsZero() {
		harvest := request.ExpectedHarvestDate.Time
		input.ExpectedHarvestDate = &harvest
	}
	if request.Status != nil {
		status, err := parseCropStatus(*request.Status)
		if err != nil {
			return services.ParcelInput{}, err
		}
		input.Status = &status
	}
	return input, nil
}

func parseCropStatus(raw string) (models.CropStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !models.ValidCropStatus(normalized) {
		return "", services.NewValidation("invalid crop status", map[string]string{"status": "unknown crop status"})
	}
	return models.CropStatus(normalized), nil
}
