package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nouakchotech/agrimarket/internal/models"
	"github.com/nouakchotech/agrimarket/internal/services"
)

func (handler *Handler) CreateParcel(c *fiber.Ctx) error {
	var request parcelRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	input, err := request.toInput()
	if err != nil {
		return respondError(c, err)
	}

	detail, err := handler.parcelService.Create(currentClaims(c).UserID, input)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "parcel created", detail)
}

func (handler *Handler) ListParcels(c *fiber.Ctx) error {
	summaries, err := handler.parcelService.List(currentClaims(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "parcels", summaries)
}

func (handler *Handler) ListParcelsPaginated(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 10)

	paged, err := handler.parcelService.ListPaginated(currentClaims(c).UserID, page, size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "parcels", paged)
}

func (handler *Handler) GetParcel(c *fiber.Ctx) error {
	parcelID, err := parcelIDParam(c)
	if err != nil {
		return respondBadRequest(c, "invalid parcel id")
	}

	detail, err := handler.parcelService.Get(currentClaims(c).UserID, parcelID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "parcel", detail)
}

func (handler *Handler) UpdateParcel(c *fiber.Ctx) error {
	parcelID, err := parcelIDParam(c)
	if err != nil {
		return respondBadRequest(c, "invalid parcel id")
	}
	var request parcelRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	input, err := request.toInput()
	if err != nil {
		return respondError(c, err)
	}

	detail, err := handler.parcelService.Update(currentClaims(c).UserID, parcelID, input)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "parcel updated", detail)
}

func (handler *Handler) DeleteParcel(c *fiber.Ctx) error {
	parcelID, err := parcelIDParam(c)
	if err != nil {
		return respondBadRequest(c, "invalid parcel id")
	}

	if err := handler.parcelService.Delete(currentClaims(c).UserID, parcelID); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "parcel deleted", "parcel deleted successfully")
}

func (handler *Handler) SetParcelStatus(c *fiber.Ctx) error {
	parcelID, err := parcelIDParam(c)
	if err != nil {
		return respondBadRequest(c, "invalid parcel id")
	}
	var request statusRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	status, err := parseCropStatus(request.Status)
	if err != nil {
		return respondError(c, err)
	}

	detail, err := handler.parcelService.SetStatus(currentClaims(c).UserID, parcelID, status)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "parcel status updated", detail)
}

// SearchParcels filters on exactly one dimension. When several are
// supplied, crop type wins over status, status over region, region over
// commune.
func (handler *Handler) SearchParcels(c *fiber.Ctx) error {
	filter := services.SearchFilter{
		CropType: strings.TrimSpace(c.Query("cropType")),
		Region:   strings.TrimSpace(c.Query("region")),
		Commune:  strings.TrimSpace(c.Query("commune")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := parseCropStatus(raw)
		if err != nil {
			return respondError(c, err)
		}
		filter.Status = &status
	}

	summaries, err := handler.parcelService.Search(currentClaims(c).UserID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "parcels", summaries)
}

func (handler *Handler) SearchParcelsByText(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	summaries, err := handler.parcelService.SearchText(currentClaims(c).UserID, term)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "parcels", summaries)
}

func (handler *Handler) GetCropTypes(c *fiber.Ctx) error {
	return respondOK(c, "crop types", models.CropTypeCatalog)
}

func (handler *Handler) GetCropStatuses(c *fiber.Ctx) error {
	statuses := make([]fiber.Map, 0, len(models.AllCropStatuses))
	for _, status := range models.AllCropStatuses {
		statuses = append(statuses, fiber.Map{
			"code":  string(status),
			"label": status.Label(),
		})
	}
	return respondOK(c, "crop statuses", statuses)
}

func (handler *Handler) GetDashboard(c *fiber.Ctx) error {
	dashboard, err := handler.dashboardService.Build(currentClaims(c).UserID, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "dashboard", dashboard)
}

func (handler *Handler) GetStatistics(c *fiber.Ctx) error {
	statistics, err := handler.statsService.Build(currentClaims(c).UserID, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "statistics", statistics)
}

func parcelIDParam(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
