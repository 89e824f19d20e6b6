package reporting

import (
	"context"

	"github.com/groupescape/escape-houses/internal/database/models"
	"gorm.io/gorm"
)

// DashboardStats is the admin overview block.
type DashboardStats struct {
	TotalBookings  int64 `json:"totalBookings"`
	TotalUsers     int64 `json:"totalUsers"`
	PropertyOwners int64 `json:"propertyOwners"`
	Guests         int64 `json:"guests"`
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats runs four independent count queries. No joins, no time windows;
// empty tables simply produce zeroes.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleOwner).Count(&stats.PropertyOwners).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleGuest).Count(&stats.Guests).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
