package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "feeview/internal/errors"
	"feeview/internal/models"
	"feeview/internal/money"
)

// TransactionRow mirrors the replica's transactions table. Amount columns are
// numeric; a NULL stays absent all the way into models.Financials.
type TransactionRow struct {
	ID                    string `gorm:"primaryKey"`
	Reference             string
	MerchantID            string
	MerchantName          string
	PartnerID             string
	PaymentMethod         string
	Status                string
	Description           string
	Currency              string
	AmountGross           decimal.NullDecimal `gorm:"type:numeric"`
	AmountNet             decimal.NullDecimal `gorm:"type:numeric"`
	FeeFixed              decimal.NullDecimal `gorm:"type:numeric"`
	FeePercentage         decimal.NullDecimal `gorm:"type:numeric"`
	IVAPercentage         decimal.NullDecimal `gorm:"column:iva_percentage;type:numeric"`
	IVAAmount             decimal.NullDecimal `gorm:"column:iva_amount;type:numeric"`
	ProviderFeeAmount     decimal.NullDecimal `gorm:"type:numeric"`
	ProviderFeePercentage decimal.NullDecimal `gorm:"type:numeric"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (TransactionRow) TableName() string {
	return "transactions"
}

// ToModel converts the row; numeric columns become $numberDecimal values so
// they carry the exact stored digits.
func (r TransactionRow) ToModel() models.Transaction {
	tx := models.Transaction{
		ID:            r.ID,
		Reference:     r.Reference,
		MerchantID:    r.MerchantID,
		MerchantName:  r.MerchantName,
		PartnerID:     r.PartnerID,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
		Description:   r.Description,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Financials: models.Financials{
			AmountGross: toValue(r.AmountGross),
			AmountNet:   toValue(r.AmountNet),
			Currency:    r.Currency,
		},
	}

	snap := models.FeeSnapshot{
		Fixed:                 toValue(r.FeeFixed),
		Percentage:            toValue(r.FeePercentage),
		IVAPercentage:         toValue(r.IVAPercentage),
		IVAAmount:             toValue(r.IVAAmount),
		ProviderFeeAmount:     toValue(r.ProviderFeeAmount),
		ProviderFeePercentage: toValue(r.ProviderFeePercentage),
	}
	if snap != (models.FeeSnapshot{}) {
		tx.Financials.FeeSnapshot = &snap
	}
	return tx
}

func toValue(d decimal.NullDecimal) *money.Value {
	if !d.Valid {
		return nil
	}
	return money.Wrapped(d.Decimal.String())
}

// TransactionRepository reads transactions from the replica.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var row TransactionRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", id, err)
	}
	tx := row.ToModel()
	return &tx, nil
}

func (r *TransactionRepository) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&TransactionRow{})
	if len(filter.MerchantIDs) > 0 {
		query = query.Where("merchant_id = ANY(?)", pq.Array(filter.MerchantIDs))
	}
	if filter.PartnerID != "" {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var rows []TransactionRow
	page := query.Order("created_at DESC")
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, row.ToModel())
	}
	return txs, total, nil
}
