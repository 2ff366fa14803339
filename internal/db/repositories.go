package db

import "gorm.io/gorm"

type Repositories struct {
	Users   *UserRepository
	Parcels *ParcelRepository
	Offers  *OfferRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(database),
		Parcels: NewParcelRepository(database),
		Offers:  NewOfferRepository(database),
	}
}
