package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/artisan_market/internal/models"
)

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.CartSnapshot{})
}

// GetCart returns gorm.ErrRecordNotFound when the session has no saved cart.
func (r *GormRepo) GetCart(ctx context.Context, sessionID string) (*models.CartSnapshot, error) {
	var snap models.CartSnapshot
	if err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

// SaveCart upserts the snapshot. An empty cart deletes the row instead.
func (r *GormRepo) SaveCart(ctx context.Context, snap *models.CartSnapshot) error {
	if len(snap.Items) == 0 {
		return r.DeleteCart(ctx, snap.SessionID)
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "total", "updated_at"}),
	}).Create(snap).Error
}

func (r *GormRepo) DeleteCart(ctx context.Context, sessionID string) error {
	return r.DB.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.CartSnapshot{}).Error
}
