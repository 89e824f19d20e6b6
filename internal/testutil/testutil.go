package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/groupescape/escape-houses/internal/api/middleware"
	"github.com/groupescape/escape-houses/internal/auth"
	"github.com/groupescape/escape-houses/internal/database/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database with all migrations applied.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A unique name per test keeps parallel tests from sharing state.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Property{},
		&models.Booking{},
		&models.Payment{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// CreateTestUser creates a guest user with a bcrypt credential account.
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	return createUserWithRole(t, db, email, password, models.RoleGuest)
}

// CreateTestOwner creates a property-owner user on the gold plan.
func CreateTestOwner(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	user := createUserWithRole(t, db, email, password, models.RoleOwner)
	err := db.Model(user).Updates(map[string]interface{}{
		"plan_id":        "gold",
		"payment_status": models.PaymentStatusPaid,
		"company_name":   "Test Lodge",
	}).Error
	require.NoError(t, err)
	user.PlanID = "gold"
	user.PaymentStatus = models.PaymentStatusPaid
	user.PropertyName = "Test Lodge"
	return user
}

// CreateTestAdmin creates an admin user.
func CreateTestAdmin(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	return createUserWithRole(t, db, email, password, models.RoleAdmin)
}

func createUserWithRole(t *testing.T, db *gorm.DB, email, password, role string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:         email,
		Name:          "Test User",
		Role:          role,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(user).Error)

	account := &models.Account{
		AccountID:  email,
		ProviderID: models.ProviderCredential,
		UserID:     user.ID,
		Password:   hash,
	}
	require.NoError(t, db.Create(account).Error)

	return user
}

// CreateTestProperty creates a pending property owned by the given user.
func CreateTestProperty(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string) *models.Property {
	t.Helper()

	property := &models.Property{
		OwnerID:       ownerID,
		Title:         title,
		Slug:          fmt.Sprintf("%s-%d", title, time.Now().UnixNano()),
		Location:      "Cotswolds",
		Sleeps:        12,
		PricePerNight: 180,
		Status:        models.PropertyStatusPending,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

// CreateTestPayment records a payment for the given user.
func CreateTestPayment(t *testing.T, db *gorm.DB, userID uuid.UUID, amount float64, status string) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		UserID:   userID,
		Amount:   amount,
		Currency: "GBP",
		Status:   status,
		Plan:     "gold",
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

// CreateTestBooking records a booking enquiry against the given property.
func CreateTestBooking(t *testing.T, db *gorm.DB, propertyID uint) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		PropertyID: propertyID,
		GuestName:  "Test Guest",
		GuestEmail: "guest@example.com",
		GroupSize:  10,
		CheckIn:    time.Now().AddDate(0, 1, 0),
		CheckOut:   time.Now().AddDate(0, 1, 3),
		Status:     "enquiry",
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

// NewTestJWTService returns a JWT service with a fixed test secret.
func NewTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", time.Hour)
}

// GenerateTestToken issues a token for the given user.
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return token
}

// AuthenticatedRequest builds a request carrying the given bearer token.
func AuthenticatedRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// AuthenticatedContext returns a context populated the way the auth middleware
// populates it, for exercising handlers without the middleware chain.
func AuthenticatedContext(user *models.User) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.UserIDKey, user.ID)
	ctx = context.WithValue(ctx, middleware.UserEmailKey, user.Email)
	ctx = context.WithValue(ctx, middleware.UserRoleKey, user.Role)
	return ctx
}
