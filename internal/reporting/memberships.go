package reporting

import (
	"context"
	"strings"
	"time"

	"github.com/groupescape/escape-houses/internal/database/models"
	"gorm.io/gorm"
)

// Canonical plan ids. Legacy marketing names map onto the same tiers.
var planAliases = map[string]string{
	"basic":        "bronze",
	"premium":      "silver",
	"professional": "gold",
}

// CanonicalPlan resolves alias plan ids to their canonical tier. Unknown ids
// pass through unchanged and price at the bronze tier.
func CanonicalPlan(planID string) string {
	plan := strings.ToLower(strings.TrimSpace(planID))
	if canonical, ok := planAliases[plan]; ok {
		return canonical
	}
	return plan
}

// Member is the admin membership-table row for a property owner.
type Member struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Plan          string    `json:"plan"`
	PaymentStatus string    `json:"payment"`
	PropertyName  string    `json:"propertyName,omitempty"`
	Amount        float64   `json:"amount"`
	SignupDate    time.Time `json:"signupDate"`
}

// MembershipStats summarizes the owner base for the admin back office.
// NewThisMonth currently mirrors TotalMembers; see DESIGN.md.
type MembershipStats struct {
	TotalMembers  int64   `json:"totalMembers"`
	ActiveMembers int64   `json:"activeMembers"`
	TotalRevenue  float64 `json:"totalRevenue"`
	NewThisMonth  int64   `json:"newThisMonth"`
}

// MemberFilter narrows the membership listing. Zero values mean "no filter";
// Plan accepts alias ids. Search matches name, email or property name,
// case-insensitive substring.
type MemberFilter struct {
	Plan    string
	Payment string
	Search  string
}

type MembershipService struct {
	db         *gorm.DB
	planPrices map[string]float64
}

// NewMembershipService builds the aggregator around an injected price table
// keyed by canonical plan id. The map is copied so callers cannot mutate
// pricing after construction.
func NewMembershipService(db *gorm.DB, planPrices map[string]float64) *MembershipService {
	prices := make(map[string]float64, len(planPrices))
	for plan, price := range planPrices {
		prices[plan] = price
	}
	return &MembershipService{db: db, planPrices: prices}
}

// PlanPrice returns the monthly price for a plan id, alias-aware. Plans
// without a configured price fall back to the bronze tier.
func (s *MembershipService) PlanPrice(planID string) float64 {
	if price, ok := s.planPrices[CanonicalPlan(planID)]; ok {
		return price
	}
	return s.planPrices["bronze"]
}

func (s *MembershipService) memberQuery(ctx context.Context, filter MemberFilter) *gorm.DB {
	query := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleOwner)

	if filter.Payment != "" && filter.Payment != "all" {
		query = query.Where("LOWER(payment_status) = ?", strings.ToLower(filter.Payment))
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company_name) LIKE ?",
			needle, needle, needle,
		)
	}

	return query
}

// ListMembers returns property owners matching the filter. The plan filter is
// applied after the query because alias ids stored on users must compare
// equal to their canonical tier.
func (s *MembershipService) ListMembers(ctx context.Context, filter MemberFilter) ([]Member, error) {
	var users []models.User
	if err := s.memberQuery(ctx, filter).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	wantPlan := ""
	if filter.Plan != "" && filter.Plan != "all" {
		wantPlan = CanonicalPlan(filter.Plan)
	}

	members := make([]Member, 0, len(users))
	for _, user := range users {
		if wantPlan != "" && CanonicalPlan(user.PlanID) != wantPlan {
			continue
		}
		members = append(members, Member{
			ID:            user.ID.String(),
			Name:          user.Name,
			Email:         user.Email,
			Plan:          user.PlanID,
			PaymentStatus: user.PaymentStatus,
			PropertyName:  user.PropertyName,
			Amount:        s.PlanPrice(user.PlanID),
			SignupDate:    user.CreatedAt,
		})
	}

	return members, nil
}

// Stats computes the membership overview. Revenue is estimated from the
// configured price table over active owners only: count per canonical plan
// times that plan's price.
func (s *MembershipService) Stats(ctx context.Context) (*MembershipStats, error) {
	var stats MembershipStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleOwner).
		Count(&stats.TotalMembers).Error; err != nil {
		return nil, err
	}

	var activeOwners []models.User
	if err := db.
		Where("role = ? AND payment_status IN ?", models.RoleOwner,
			[]string{models.PaymentStatusPaid, models.PaymentStatusActive}).
		Find(&activeOwners).Error; err != nil {
		return nil, err
	}
	stats.ActiveMembers = int64(len(activeOwners))

	perPlan := make(map[string]int64)
	for _, owner := range activeOwners {
		perPlan[CanonicalPlan(owner.PlanID)]++
	}
	for plan, count := range perPlan {
		stats.TotalRevenue += float64(count) * s.PlanPrice(plan)
	}

	// Not time-filtered; mirrors TotalMembers until product decides otherwise.
	stats.NewThisMonth = stats.TotalMembers

	return &stats, nil
}
