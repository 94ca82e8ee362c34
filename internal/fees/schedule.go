package fees

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
)

// ScheduleRepository loads the per-restaurant fee schedule. Absence returns
// (nil, nil); the caller falls back to a zero schedule.
type ScheduleRepository interface {
	FindSchedule(ctx context.Context, restaurantID uuid.UUID) (*models.RestaurantFee, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository builds a fee schedule repository bound to the provided DB.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) FindSchedule(ctx context.Context, restaurantID uuid.UUID) (*models.RestaurantFee, error) {
	var schedule models.RestaurantFee
	err := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}
