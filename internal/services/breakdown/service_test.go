package breakdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "feeview/internal/errors"
	"feeview/internal/fees"
	"feeview/internal/models"
	"feeview/internal/money"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockSource) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Transaction), args.Get(1).(int64), args.Error(2)
}

func transaction(id, partnerID string, f models.Financials) models.Transaction {
	return models.Transaction{ID: id, PartnerID: partnerID, Status: models.TransactionStatusSettled, Financials: f}
}

func settled(id, partnerID string) models.Transaction {
	return transaction(id, partnerID, models.Financials{
		AmountGross: money.Wrapped("100.00"),
		AmountNet:   money.Number(96.5),
		Currency:    "USD",
		FeeSnapshot: &models.FeeSnapshot{ProviderFeeAmount: money.Number(1.5)},
	})
}

func malformed(id, partnerID string) models.Transaction {
	return transaction(id, partnerID, models.Financials{
		AmountGross: money.Wrapped("12,50"),
		Currency:    "USD",
	})
}

func TestService_Get(t *testing.T) {
	src := new(MockSource)
	tx := settled("tx-1", "p-1")
	src.On("GetTransaction", mock.Anything, "tx-1").Return(&tx, nil)

	svc := NewService(src, "en-US")
	r, err := svc.Get(context.Background(), "tx-1", Scope{}, "")
	require.NoError(t, err)

	require.NotNil(t, r.Breakdown)
	require.NotNil(t, r.Breakdown.TotalFee)
	assert.InDelta(t, 3.5, *r.Breakdown.TotalFee, 1e-9)
	assert.InDelta(t, 2.0, *r.Breakdown.PlatformMargin, 1e-9)
	assert.Equal(t, "$3.50", r.Display.TotalFee)
	assert.Nil(t, r.Error)
}

func TestService_GetPropagatesParseError(t *testing.T) {
	src := new(MockSource)
	tx := malformed("tx-2", "")
	src.On("GetTransaction", mock.Anything, "tx-2").Return(&tx, nil)

	_, err := NewService(src, "en-US").Get(context.Background(), "tx-2", Scope{}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, money.ErrParse))
	assert.Contains(t, err.Error(), "tx-2")
}

func TestService_GetPropagatesValidationError(t *testing.T) {
	src := new(MockSource)
	tx := transaction("tx-3", "", models.Financials{Currency: "USD"})
	src.On("GetTransaction", mock.Anything, "tx-3").Return(&tx, nil)

	_, err := NewService(src, "en-US").Get(context.Background(), "tx-3", Scope{}, "")
	assert.True(t, errors.Is(err, fees.ErrValidation))
}

func TestService_GetOutOfScope(t *testing.T) {
	src := new(MockSource)
	tx := settled("tx-1", "p-1")
	src.On("GetTransaction", mock.Anything, "tx-1").Return(&tx, nil)

	_, err := NewService(src, "en-US").Get(context.Background(), "tx-1", Scope{PartnerID: "p-2"}, "")
	assert.ErrorIs(t, err, apperrors.ErrOutOfScope)
}

func TestService_GetNotFound(t *testing.T) {
	src := new(MockSource)
	src.On("GetTransaction", mock.Anything, "missing").Return(nil, apperrors.ErrTransactionNotFound)

	_, err := NewService(src, "en-US").Get(context.Background(), "missing", Scope{}, "")
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
}

func TestService_DetailReportsRowError(t *testing.T) {
	src := new(MockSource)
	tx := malformed("tx-2", "")
	src.On("GetTransaction", mock.Anything, "tx-2").Return(&tx, nil)

	r, err := NewService(src, "en-US").Detail(context.Background(), "tx-2", Scope{}, "")
	require.NoError(t, err)

	assert.Nil(t, r.Breakdown)
	assert.Nil(t, r.Display)
	require.NotNil(t, r.Error)
	assert.Equal(t, CodeParseError, r.Error.Code)
	assert.Equal(t, "tx-2", r.Transaction.ID)
}

func TestService_ListNeverFailsThePage(t *testing.T) {
	src := new(MockSource)
	missing := transaction("tx-3", "", models.Financials{AmountGross: money.Number(10)})
	txs := []models.Transaction{settled("tx-1", ""), malformed("tx-2", ""), missing}
	src.On("ListTransactions", mock.Anything, models.TransactionFilter{Limit: 20}).Return(txs, int64(3), nil)

	page, err := NewService(src, "en-US").List(context.Background(), models.TransactionFilter{Limit: 20}, Scope{}, "")
	require.NoError(t, err)

	require.Len(t, page.Results, 3)
	assert.Equal(t, int64(3), page.Total)
	assert.NotNil(t, page.Results[0].Breakdown)
	assert.Equal(t, CodeParseError, page.Results[1].Error.Code)
	assert.Equal(t, CodeValidationError, page.Results[2].Error.Code)
}

func TestService_ListForcesPartnerScope(t *testing.T) {
	src := new(MockSource)
	want := models.TransactionFilter{PartnerID: "p-1", Limit: 10}
	txs := []models.Transaction{settled("tx-1", "p-1"), settled("tx-2", "p-2")}
	src.On("ListTransactions", mock.Anything, want).Return(txs, int64(2), nil)

	filter := models.TransactionFilter{PartnerID: "p-2", Limit: 10}
	page, err := NewService(src, "en-US").List(context.Background(), filter, Scope{PartnerID: "p-1"}, "")
	require.NoError(t, err)

	require.Len(t, page.Results, 1)
	assert.Equal(t, "tx-1", page.Results[0].Transaction.ID)
	src.AssertExpectations(t)
}

func TestService_ListSourceError(t *testing.T) {
	src := new(MockSource)
	src.On("ListTransactions", mock.Anything, mock.Anything).Return(nil, int64(0), apperrors.ErrBackendUnavailable)

	_, err := NewService(src, "en-US").List(context.Background(), models.TransactionFilter{}, Scope{}, "")
	assert.ErrorIs(t, err, apperrors.ErrBackendUnavailable)
}
