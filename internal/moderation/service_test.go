package moderation_test

import (
	"context"
	"testing"

	"github.com/groupescape/escape-houses/internal/database/models"
	"github.com/groupescape/escape-houses/internal/moderation"
	"github.com/groupescape/escape-houses/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupModerationTest(t *testing.T) (*moderation.Service, *gorm.DB, *models.Property) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestOwner(t, db, "owner@example.com", "password123")
	property := testutil.CreateTestProperty(t, db, owner.ID, "Willow Barn")
	return moderation.NewService(db), db, property
}

func reload(t *testing.T, db *gorm.DB, id uint) *models.Property {
	t.Helper()

	var property models.Property
	require.NoError(t, db.First(&property, "id = ?", id).Error)
	return &property
}

func TestApprove(t *testing.T) {
	svc, db, property := setupModerationTest(t)

	require.NoError(t, svc.Approve(context.Background(), property.ID))

	got := reload(t, db, property.ID)
	assert.Equal(t, models.PropertyStatusApproved, got.Status)
	assert.True(t, got.IsPublished)
	require.NotNil(t, got.ApprovedAt)
}

func TestApproveIsRepeatable(t *testing.T) {
	svc, db, property := setupModerationTest(t)

	require.NoError(t, svc.Approve(context.Background(), property.ID))
	first := reload(t, db, property.ID)

	require.NoError(t, svc.Approve(context.Background(), property.ID))
	second := reload(t, db, property.ID)

	assert.Equal(t, models.PropertyStatusApproved, second.Status)
	assert.True(t, second.IsPublished)
	assert.False(t, second.ApprovedAt.Before(*first.ApprovedAt))
}

func TestReject(t *testing.T) {
	svc, db, property := setupModerationTest(t)

	require.NoError(t, svc.Approve(context.Background(), property.ID))
	require.NoError(t, svc.Reject(context.Background(), property.ID))

	got := reload(t, db, property.ID)
	assert.Equal(t, models.PropertyStatusRejected, got.Status)
	assert.False(t, got.IsPublished)
}

func TestUnpublishLeavesStatusUntouched(t *testing.T) {
	svc, db, property := setupModerationTest(t)

	require.NoError(t, svc.Approve(context.Background(), property.ID))
	require.NoError(t, svc.Unpublish(context.Background(), property.ID))

	got := reload(t, db, property.ID)
	assert.Equal(t, models.PropertyStatusApproved, got.Status)
	assert.False(t, got.IsPublished)
}

func TestUnpublishPendingProperty(t *testing.T) {
	svc, db, property := setupModerationTest(t)

	require.NoError(t, svc.Unpublish(context.Background(), property.ID))

	got := reload(t, db, property.ID)
	assert.Equal(t, models.PropertyStatusPending, got.Status)
	assert.False(t, got.IsPublished)
}

func TestTransitionsOnUnknownIDSucceed(t *testing.T) {
	svc, _, _ := setupModerationTest(t)

	// Zero rows updated is not an error.
	assert.NoError(t, svc.Approve(context.Background(), 99999))
	assert.NoError(t, svc.Reject(context.Background(), 99999))
	assert.NoError(t, svc.Unpublish(context.Background(), 99999))
}

func TestStatsCountsByModerationState(t *testing.T) {
	// Setup leaves one pending property in place.
	svc, db, _ := setupModerationTest(t)

	owner := testutil.CreateTestOwner(t, db, "owner2@example.com", "password123")
	approved := testutil.CreateTestProperty(t, db, owner.ID, "The Grange")
	rejected := testutil.CreateTestProperty(t, db, owner.ID, "Fox Hollow")

	require.NoError(t, svc.Approve(context.Background(), approved.ID))
	require.NoError(t, svc.Reject(context.Background(), rejected.ID))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.Pending)
	assert.EqualValues(t, 1, stats.Approved)
	assert.EqualValues(t, 1, stats.Rejected)

	// Unpublishing does not move a listing out of the approved count.
	require.NoError(t, svc.Unpublish(context.Background(), approved.ID))
	stats, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Approved)
}

func TestStatsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := moderation.NewService(db)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Pending)
	assert.EqualValues(t, 0, stats.Approved)
	assert.EqualValues(t, 0, stats.Rejected)
}

func TestReapproveAfterRejection(t *testing.T) {
	svc, db, property := setupModerationTest(t)

	require.NoError(t, svc.Reject(context.Background(), property.ID))
	require.NoError(t, svc.Approve(context.Background(), property.ID))

	got := reload(t, db, property.ID)
	assert.Equal(t, models.PropertyStatusApproved, got.Status)
	assert.True(t, got.IsPublished)
	assert.NotNil(t, got.ApprovedAt)
}
