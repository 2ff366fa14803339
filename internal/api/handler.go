package api

import (
	"gorm.io/gorm"

	"github.com/nouakchotech/agrimarket/internal/db"
	"github.com/nouakchotech/agrimarket/internal/security"
	"github.com/nouakchotech/agrimarket/internal/services"
)

type Handler struct {
	db           *gorm.DB
	tokens       *security.TokenProvider
	repositories *db.Repositories

	authService      *services.AuthService
	parcelService    *services.ParcelService
	dashboardService *services.DashboardService
	statsService     *services.StatsService
}

// New wires a handler against the database and token provider.
func New(database *gorm.DB, tokens *security.TokenProvider) *Handler {
	handler := &Handler{db: database, tokens: tokens}
	return handler.withDependencies(database)
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users, handler.tokens)
	handler.parcelService = services.NewParcelService(handler.repositories.Parcels, handler.repositories.Users)
	handler.dashboardService = services.NewDashboardService(handler.repositories.Parcels, handler.repositories.Users)
	handler.statsService = services.NewStatsService(handler.repositories.Parcels, handler.repositories.Users)
	return handler
}
