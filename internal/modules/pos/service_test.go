package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/loyalty"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepo struct {
	sales  map[uuid.UUID]*Sale
	prices map[string]float64
	active map[string]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		sales:  make(map[uuid.UUID]*Sale),
		prices: make(map[string]float64),
		active: make(map[string]bool),
	}
}

func (m *mockRepo) addProduct(price float64, active bool) string {
	id := uuid.NewString()
	m.prices[id] = price
	m.active[id] = active
	return id
}

func (m *mockRepo) CreateSale(ctx context.Context, s *Sale) error {
	m.sales[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("sale", id)
	}
	s, ok := m.sales[uid]
	if !ok {
		return nil, apperr.NotFound("sale", id)
	}
	return s, nil
}

func (m *mockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*Sale, error) {
	var out []*Sale
	for _, s := range m.sales {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, status SaleStatus) error {
	s, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.Status = status
	return nil
}

func (m *mockRepo) GetProductPrice(ctx context.Context, productID string) (float64, bool, error) {
	price, ok := m.prices[productID]
	if !ok {
		return 0, false, apperr.NotFound("product", productID)
	}
	return price, m.active[productID], nil
}

type mockDeductor struct {
	calls int
	err   error
}

func (m *mockDeductor) DeductStock(ctx context.Context, productID, warehouseID string, qty int) error {
	if m.err != nil {
		return m.err
	}
	m.calls++
	return nil
}

type mockAccruer struct {
	requests []loyalty.RecordTransactionRequest
	err      error
}

func (m *mockAccruer) RecordTransaction(ctx context.Context, req loyalty.RecordTransactionRequest) (*loyalty.TransactionResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	return &loyalty.TransactionResult{}, nil
}

func TestCreateSale(t *testing.T) {
	t.Run("prices the cart and computes totals", func(t *testing.T) {
		repo := newMockRepo()
		pid := repo.addProduct(10.00, true)
		svc := NewService(repo, &mockDeductor{}, &mockAccruer{}, zap.NewNop())

		result, err := svc.CreateSale(context.Background(), uuid.NewString(), CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			PaymentMethod: "cash",
			Items:         []CartLine{{ProductID: pid, Quantity: 3}},
			Discount:      5.00,
		})
		require.NoError(t, err)
		sale := result.Sale
		assert.Equal(t, 30.00, sale.Subtotal)
		assert.Equal(t, 5.00, sale.Discount)
		assert.Equal(t, 4.00, sale.Tax) // 16% of 25.00
		assert.Equal(t, 29.00, sale.Total)
		assert.Equal(t, PaymentCash, sale.PaymentMethod)
		assert.Equal(t, SaleCompleted, sale.Status)
		assert.Regexp(t, `^SALE-\d{8}-[0-9A-F]{4}$`, sale.ReferenceNumber)
		assert.Empty(t, result.Warnings)
	})

	t.Run("deducts stock for each line", func(t *testing.T) {
		repo := newMockRepo()
		first := repo.addProduct(1, true)
		second := repo.addProduct(2, true)
		deductor := &mockDeductor{}
		svc := NewService(repo, deductor, &mockAccruer{}, zap.NewNop())

		_, err := svc.CreateSale(context.Background(), "", CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			PaymentMethod: "CARD",
			Items: []CartLine{
				{ProductID: first, Quantity: 1},
				{ProductID: second, Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, deductor.calls)
	})

	t.Run("failed deduction warns without voiding the sale", func(t *testing.T) {
		repo := newMockRepo()
		pid := repo.addProduct(4, true)
		svc := NewService(repo, &mockDeductor{err: errors.New("insufficient stock")}, &mockAccruer{}, zap.NewNop())

		result, err := svc.CreateSale(context.Background(), "", CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			PaymentMethod: "CASH",
			Items:         []CartLine{{ProductID: pid, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Len(t, repo.sales, 1)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "stock not deducted")
	})

	t.Run("awards loyalty points for a known customer", func(t *testing.T) {
		repo := newMockRepo()
		pid := repo.addProduct(50, true)
		accruer := &mockAccruer{}
		svc := NewService(repo, &mockDeductor{}, accruer, zap.NewNop())

		result, err := svc.CreateSale(context.Background(), "", CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			CustomerID:    uuid.NewString(),
			PaymentMethod: "MOBILE_MONEY",
			Items:         []CartLine{{ProductID: pid, Quantity: 2}},
		})
		require.NoError(t, err)
		require.Len(t, accruer.requests, 1)
		req := accruer.requests[0]
		assert.Equal(t, string(loyalty.TypeEarn), req.Type)
		assert.Equal(t, 116, req.Points) // floor(100 + 16% tax)
		assert.Equal(t, result.Sale.ID.String(), req.SaleID)
	})

	t.Run("no loyalty call for walk-in sales", func(t *testing.T) {
		repo := newMockRepo()
		pid := repo.addProduct(5, true)
		accruer := &mockAccruer{}
		svc := NewService(repo, &mockDeductor{}, accruer, zap.NewNop())

		_, err := svc.CreateSale(context.Background(), "", CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			PaymentMethod: "CASH",
			Items:         []CartLine{{ProductID: pid, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Empty(t, accruer.requests)
	})

	t.Run("failed accrual warns without voiding the sale", func(t *testing.T) {
		repo := newMockRepo()
		pid := repo.addProduct(20, true)
		svc := NewService(repo, &mockDeductor{}, &mockAccruer{err: errors.New("loyalty down")}, zap.NewNop())

		result, err := svc.CreateSale(context.Background(), "", CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			CustomerID:    uuid.NewString(),
			PaymentMethod: "CASH",
			Items:         []CartLine{{ProductID: pid, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Len(t, repo.sales, 1)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "loyalty")
	})

	t.Run("rejects an inactive product", func(t *testing.T) {
		repo := newMockRepo()
		pid := repo.addProduct(5, false)
		svc := NewService(repo, &mockDeductor{}, &mockAccruer{}, zap.NewNop())

		_, err := svc.CreateSale(context.Background(), "", CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			PaymentMethod: "CASH",
			Items:         []CartLine{{ProductID: pid, Quantity: 1}},
		})
		var valErr *apperr.ValidationError
		assert.ErrorAs(t, err, &valErr)
		assert.Empty(t, repo.sales)
	})

	t.Run("rejects unsupported payment methods and bad discounts", func(t *testing.T) {
		repo := newMockRepo()
		pid := repo.addProduct(5, true)
		svc := NewService(repo, &mockDeductor{}, &mockAccruer{}, zap.NewNop())
		var valErr *apperr.ValidationError

		_, err := svc.CreateSale(context.Background(), "", CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			PaymentMethod: "BARTER",
			Items:         []CartLine{{ProductID: pid, Quantity: 1}},
		})
		assert.ErrorAs(t, err, &valErr)

		_, err = svc.CreateSale(context.Background(), "", CreateSaleRequest{
			WarehouseID:   uuid.NewString(),
			PaymentMethod: "CASH",
			Items:         []CartLine{{ProductID: pid, Quantity: 1}},
			Discount:      100,
		})
		assert.ErrorAs(t, err, &valErr)
	})
}

func TestRefund(t *testing.T) {
	t.Run("refunds a completed sale", func(t *testing.T) {
		repo := newMockRepo()
		sale := &Sale{ID: uuid.New(), Status: SaleCompleted}
		repo.sales[sale.ID] = sale
		svc := NewService(repo, &mockDeductor{}, &mockAccruer{}, zap.NewNop())

		got, err := svc.Refund(context.Background(), sale.ID.String())
		require.NoError(t, err)
		assert.Equal(t, SaleRefunded, got.Status)
	})

	t.Run("cannot refund twice", func(t *testing.T) {
		repo := newMockRepo()
		sale := &Sale{ID: uuid.New(), Status: SaleRefunded}
		repo.sales[sale.ID] = sale
		svc := NewService(repo, &mockDeductor{}, &mockAccruer{}, zap.NewNop())

		_, err := svc.Refund(context.Background(), sale.ID.String())
		var stateErr *apperr.InvalidStateError
		assert.ErrorAs(t, err, &stateErr)
	})
}
