package reporting

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/groupescape/escape-houses/internal/database/models"
	"gorm.io/gorm"
)

// CommissionRate is the fixed platform cut on successful payments.
const CommissionRate = 0.10

// Transaction is the admin payments-table row. Amount and Commission are
// rounded for display; the stats endpoint works from unrounded values.
type Transaction struct {
	ID            string    `json:"id"`
	MemberName    string    `json:"memberName"`
	MemberEmail   string    `json:"memberEmail"`
	Amount        float64   `json:"amount"`
	Commission    float64   `json:"commission"`
	Plan          string    `json:"plan"`
	Status        string    `json:"status"`
	Date          time.Time `json:"date"`
	TransactionID string    `json:"transactionId"`
}

type TransactionStats struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalCommission float64 `json:"totalCommission"`
	NetRevenue      float64 `json:"netRevenue"`
	Successful      int64   `json:"successful"`
	Pending         int64   `json:"pending"`
	Failed          int64   `json:"failed"`
}

type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// ListTransactions returns payments newest-first, optionally filtered by
// status (case-insensitive). Each row carries its 10% commission.
func (s *TransactionService) ListTransactions(ctx context.Context, status string) ([]Transaction, error) {
	query := s.db.WithContext(ctx).Model(&models.Payment{}).Preload("User")
	if status != "" && status != "all" {
		query = query.Where("LOWER(status) = ?", strings.ToLower(status))
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}

	transactions := make([]Transaction, 0, len(payments))
	for _, p := range payments {
		txn := Transaction{
			ID:            p.ID.String(),
			Amount:        round2(p.Amount),
			Commission:    round2(p.Amount * CommissionRate),
			Plan:          p.Plan,
			Status:        p.Status,
			Date:          p.CreatedAt,
			TransactionID: p.ProviderTxnID,
		}
		if p.User != nil {
			txn.MemberName = p.User.Name
			txn.MemberEmail = p.User.Email
		}
		transactions = append(transactions, txn)
	}

	return transactions, nil
}

// Stats buckets payments by status and derives revenue figures. Statuses
// outside the three known groups are counted in no bucket and contribute
// nothing; they stay visible in the listing only. Amounts are summed
// unrounded and rounded once at the end so per-record rounding error does
// not compound.
func (s *TransactionService) Stats(ctx context.Context) (*TransactionStats, error) {
	var payments []models.Payment
	if err := s.db.WithContext(ctx).Find(&payments).Error; err != nil {
		return nil, err
	}

	var stats TransactionStats
	var revenue float64

	for _, p := range payments {
		switch strings.ToLower(p.Status) {
		case "succeeded", "paid", "completed":
			stats.Successful++
			revenue += p.Amount
		case "pending", "processing":
			stats.Pending++
		case "failed", "cancelled", "refunded":
			stats.Failed++
		}
	}

	stats.TotalRevenue = round2(revenue)
	stats.TotalCommission = round2(stats.TotalRevenue * CommissionRate)
	stats.NetRevenue = round2(stats.TotalRevenue - stats.TotalCommission)

	return &stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
