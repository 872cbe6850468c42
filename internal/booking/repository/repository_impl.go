package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spotnere/backend/internal/booking/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	if err := db.WithContext(ctx).Create(booking).Error; err != nil {
		return domain.ErrStoreUnavailable
	}
	return nil
}

func (r *repo) UpdateByID(ctx context.Context, db *gorm.DB, id snowflake.ID, patch map[string]any) error {
	patch["updated_at"] = time.Now().UTC()

	res := db.WithContext(ctx).
		Table("bookings").
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return domain.ErrStoreUnavailable
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Booking, error) {
	var item domain.Booking
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindByGatewayOrderID(ctx context.Context, db *gorm.DB, orderID string) (*domain.Booking, error) {
	var item domain.Booking
	err := db.WithContext(ctx).
		Where("gateway_order_id = ?", orderID).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) DeletePendingByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND payment_status = ?", id, domain.PaymentStatusPending).
		Delete(&domain.Booking{})
	if res.Error != nil {
		return false, domain.ErrStoreUnavailable
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) TransitionFromPending(ctx context.Context, db *gorm.DB, id snowflake.ID, patch map[string]any) (bool, error) {
	patch["updated_at"] = time.Now().UTC()

	res := db.WithContext(ctx).
		Table("bookings").
		Where("id = ? AND payment_status = ?", id, domain.PaymentStatusPending).
		Updates(patch)
	if res.Error != nil {
		return false, domain.ErrStoreUnavailable
	}
	return res.RowsAffected > 0, nil
}
