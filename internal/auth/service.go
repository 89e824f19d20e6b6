package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/groupescape/escape-houses/internal/database/models"
	"github.com/groupescape/escape-houses/internal/tasks"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	db       *gorm.DB
	jwt      *JWTService
	verifier *PasswordVerifier
	queue    *asynq.Client
	logger   *slog.Logger
}

func NewService(db *gorm.DB, jwt *JWTService, verifier *PasswordVerifier, queue *asynq.Client, logger *slog.Logger) *Service {
	return &Service{db: db, jwt: jwt, verifier: verifier, queue: queue, logger: logger}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string // guest unless the owner sign-up flow says otherwise
	Phone    string

	// Owner-only fields
	PlanID          string
	PropertyName    string
	PropertyWebsite string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	role := input.Role
	if role != models.RoleOwner {
		role = models.RoleGuest
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	// The existence check and the two inserts run in one transaction so a
	// concurrent sign-up with the same email cannot slip between them.
	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			return ErrUserExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = models.User{
			Email:           input.Email,
			Name:            input.Name,
			Role:            role,
			Phone:           input.Phone,
			PlanID:          input.PlanID,
			PaymentStatus:   models.PaymentStatusPending,
			PropertyName:    input.PropertyName,
			PropertyWebsite: input.PropertyWebsite,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		account := models.Account{
			AccountID:  input.Email,
			ProviderID: models.ProviderCredential,
			UserID:     user.ID,
			Password:   hash,
		}
		return tx.Create(&account).Error
	})

	if err != nil {
		return nil, err
	}

	s.enqueueWelcomeEmail(user.Email, user.Name)

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Accounts", "provider_id = ?", models.ProviderCredential).
		Where("email = ?", input.Email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	matched := false
	for _, account := range user.Accounts {
		if s.verifier.Verify(input.Password, account.Password) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetPassword replaces the credential password for a user, creating the
// account row when it is missing. The lookup and write share a transaction.
func (s *Service) SetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var account models.Account
		err := tx.Where("user_id = ? AND provider_id = ?", userID, models.ProviderCredential).
			First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			account = models.Account{
				AccountID:  user.Email,
				ProviderID: models.ProviderCredential,
				UserID:     userID,
				Password:   hash,
			}
			return tx.Create(&account).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&account).Update("password", hash).Error
	})
}

// enqueueWelcomeEmail hands the welcome mail to the worker. Sign-up must not
// fail or block on it, so enqueue errors are logged and dropped.
func (s *Service) enqueueWelcomeEmail(email, name string) {
	if s.queue == nil {
		return
	}
	task, err := tasks.NewWelcomeEmailTask(tasks.WelcomeEmailPayload{Email: email, Name: name})
	if err != nil {
		s.logger.Error("failed to build welcome email task", "error", err)
		return
	}
	if _, err := s.queue.Enqueue(task); err != nil {
		s.logger.Error("failed to enqueue welcome email", "email", email, "error", err)
	}
}
