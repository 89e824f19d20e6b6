package moderation

import (
	"context"
	"time"

	"github.com/groupescape/escape-houses/internal/database/models"
	"gorm.io/gorm"
)

// Service applies moderation transitions to property listings. Transitions
// are unconditional single-row updates: no precondition is checked against
// the current state, repeating a transition re-applies the same writes, and
// an unknown id updates zero rows without erroring. Tightening this would
// change observable API behavior, so the permissiveness stays.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Approve publishes a listing. ApprovedAt is set on every approval,
// including re-approval after a rejection.
func (s *Service) Approve(ctx context.Context, id uint) error {
	now := time.Now()
	return s.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.PropertyStatusApproved,
			"approved_at":  now,
			"is_published": true,
		}).Error
}

// Reject marks a listing rejected and always hides it.
func (s *Service) Reject(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.PropertyStatusRejected,
			"is_published": false,
		}).Error
}

// Unpublish hides a listing without touching its moderation status: an
// unpublished property stays "approved" and still matches status=approved
// queries. The asymmetry with Reject is deliberate.
func (s *Service) Unpublish(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		Update("is_published", false).Error
}

// Stats is the moderation-queue overview: how many listings sit in each
// moderation state. Published/unpublished is not broken out here.
type Stats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx)

	for status, dest := range map[string]*int64{
		models.PropertyStatusPending:  &stats.Pending,
		models.PropertyStatusApproved: &stats.Approved,
		models.PropertyStatusRejected: &stats.Rejected,
	} {
		if err := db.Model(&models.Property{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, err
		}
	}

	return &stats, nil
}
