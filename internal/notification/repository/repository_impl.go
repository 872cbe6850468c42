package repository

import (
	"context"
	"time"

	"github.com/spotnere/backend/internal/notification/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindVendorByPlaceID(ctx context.Context, db *gorm.DB, placeID string) (*domain.Vendor, error) {
	var item domain.Vendor
	err := db.WithContext(ctx).
		Where("place_id = ?", placeID).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) InsertNotification(ctx context.Context, db *gorm.DB, notification *domain.VendorNotification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(notification).Error
}
