package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/register/farmer", handler.RegisterFarmer)
	auth.Post("/register/buyer", handler.RegisterBuyer)
	auth.Post("/register/supplier", handler.RegisterSupplier)
	auth.Post("/refresh", handler.Refresh)
	auth.Post("/logout", handler.Logout)
	auth.Get("/profile", handler.AuthRequired, handler.GetProfile)
	auth.Get("/validate-token", handler.ValidateToken)

	farmer := api.Group("/farmer", handler.AuthRequired, handler.FarmerOnly)
	farmer.Post("/parcels", handler.CreateParcel)
	farmer.Get("/parcels", handler.ListParcels)
	farmer.Get("/parcels/paginated", handler.ListParcelsPaginated)
	farmer.Get("/parcels/search", handler.SearchParcels)
	farmer.Get("/parcels/search-text", handler.SearchParcelsByText)
	farmer.Get("/parcels/crop-types", handler.GetCropTypes)
	farmer.Get("/parcels/statuses", handler.GetCropStatuses)
	farmer.Get("/parcels/:id", handler.GetParcel)
	farmer.Put("/parcels/:id", handler.UpdateParcel)
	farmer.Delete("/parcels/:id", handler.DeleteParcel)
	farmer.Put("/parcels/:id/status", handler.SetParcelStatus)
	farmer.Get("/dashboard", handler.GetDashboard)
	farmer.Get("/statistics", handler.GetStatistics)
}
