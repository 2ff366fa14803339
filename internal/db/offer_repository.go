package db

import (
	"github.com/nouakchotech/agrimarket/internal/models"
	"gorm.io/gorm"
)

type OfferRepository struct {
	database *gorm.DB
}

func NewOfferRepository(database *gorm.DB) *OfferRepository {
	return &OfferRepository{database: database}
}

func (repo *OfferRepository) ListBySeller(sellerID uint) ([]models.MarketOffer, error) {
	offers := make([]models.MarketOffer, 0)
	if err := repo.database.
		Where("seller_id = ?", sellerID).
		Order("created_at DESC, id DESC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (repo *OfferRepository) FindByIDAndSeller(offerID uint, sellerID uint) (models.MarketOffer, error) {
	var offer models.MarketOffer
	if err := repo.database.
		Where("id = ? AND seller_id = ?", offerID, sellerID).
		First(&offer).Error; err != nil {
		return models.MarketOffer{}, err
	}
	return offer, nil
}

func (repo *OfferRepository) Create(offer *models.MarketOffer) error {
	return repo.database.Create(offer).Error
}

func (repo *OfferRepository) Save(offer *models.MarketOffer) error {
	return repo.database.Save(offer).Error
}

func (repo *OfferRepository) IncrementViews(offerID uint) error {
	return repo.database.Model(&models.MarketOffer{}).
		Where("id = ?", offerID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
