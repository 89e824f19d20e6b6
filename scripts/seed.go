//go:build ignore

// Seeds the database with an admin user, a few property owners with plans,
// and sample properties, bookings, and payments for local development.
//
// Usage: go run scripts/seed.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/groupescape/escape-houses/internal/auth"
	"github.com/groupescape/escape-houses/internal/database"
	"github.com/groupescape/escape-houses/internal/database/models"
	"github.com/groupescape/escape-houses/pkg/config"
	"github.com/groupescape/escape-houses/pkg/util"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(
		db,
		auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry()),
		auth.NewPasswordVerifier(cfg.Auth.LegacySecret),
		nil,
		logger,
	)

	// The admin credential is always reset, so a locked-out admin can rerun
	// the seed to regain access without touching the rest of the data.
	admin := findOrCreateUser(db, models.User{
		Email:         "admin@groupescapehouses.co.uk",
		Name:          "Admin",
		EmailVerified: true,
		Role:          models.RoleAdmin,
	})
	if err := authService.SetPassword(context.Background(), admin.ID, "admin123!"); err != nil {
		logger.Error("failed to set admin password", "error", err)
		os.Exit(1)
	}
	logger.Info("seeded admin", "email", admin.Email)

	owners := []struct {
		email, name, plan, property string
	}{
		{"sarah@willowbarn.co.uk", "Sarah Hughes", "gold", "Willow Barn"},
		{"james@thegrange.co.uk", "James Carter", "silver", "The Grange"},
		{"emma@foxhollow.co.uk", "Emma Price", "bronze", "Fox Hollow"},
	}

	for i, o := range owners {
		user := seedUser(db, o.email, o.name, models.RoleOwner, "owner123!", o.plan, o.property)
		logger.Info("seeded owner", "email", user.Email, "plan", o.plan)

		property := models.Property{
			OwnerID:       user.ID,
			Title:         o.property,
			Slug:          fmt.Sprintf("property-%d", i+1),
			Location:      "Cotswolds",
			Sleeps:        10 + i*4,
			PricePerNight: float64(150 + i*60),
			Status:        models.PropertyStatusPending,
		}
		if err := db.Where("slug = ?", property.Slug).FirstOrCreate(&property).Error; err != nil {
			logger.Error("failed to seed property", "title", o.property, "error", err)
			continue
		}

		booking := models.Booking{
			PropertyID: property.ID,
			GuestName:  "Hen Party Group",
			GuestEmail: fmt.Sprintf("group%d@example.com", i+1),
			GroupSize:  12,
			CheckIn:    time.Now().AddDate(0, 1, i),
			CheckOut:   time.Now().AddDate(0, 1, i+3),
			Status:     "enquiry",
		}
		if err := db.Where("guest_email = ?", booking.GuestEmail).FirstOrCreate(&booking).Error; err != nil {
			logger.Error("failed to seed booking", "error", err)
		}

		amounts := map[string]float64{"bronze": 450, "silver": 650, "gold": 850}
		payment := models.Payment{
			UserID:      user.ID,
			Amount:      amounts[o.plan],
			Currency:    "GBP",
			Status:      "succeeded",
			Plan:        o.plan,
			PaymentType: "subscription",
		}
		if err := db.Where("user_id = ? AND plan = ?", user.ID, o.plan).FirstOrCreate(&payment).Error; err != nil {
			logger.Error("failed to seed payment", "error", err)
		}
	}

	logger.Info("seed complete")
}

func findOrCreateUser(db *gorm.DB, user models.User) *models.User {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return &existing
	}

	if user.PaymentStatus == "" {
		user.PaymentStatus = models.PaymentStatusPending
	}
	if err := db.Create(&user).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create user %s: %v\n", user.Email, err)
		os.Exit(1)
	}
	return &user
}

func seedUser(db *gorm.DB, email, name, role, password, plan, propertyName string) *models.User {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	paymentStatus := models.PaymentStatusPending
	if role == models.RoleOwner {
		paymentStatus = models.PaymentStatusPaid
	}

	user = models.User{
		Email:         email,
		Name:          name,
		EmailVerified: true,
		Role:          role,
		PlanID:        plan,
		PaymentStatus: paymentStatus,
		PropertyName:  propertyName,
	}
	if err := db.Create(&user).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create user %s: %v\n", email, err)
		os.Exit(1)
	}

	account := models.Account{
		AccountID:  email,
		ProviderID: models.ProviderCredential,
		UserID:     user.ID,
		Password:   hash,
	}
	if err := db.Create(&account).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create account for %s: %v\n", email, err)
		os.Exit(1)
	}

	return &user
}
