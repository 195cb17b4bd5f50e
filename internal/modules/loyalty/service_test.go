package loyalty

import (
	"context"
	"errors"
	"testing"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepo struct {
	customers map[uuid.UUID]*Customer
	recorded  []*Transaction
	recordErr error
	lookupErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{customers: make(map[uuid.UUID]*Customer)}
}

func (m *mockRepo) CreateCustomer(ctx context.Context, c *Customer) error {
	m.customers[c.ID] = c
	return nil
}

func (m *mockRepo) GetCustomerByID(ctx context.Context, id string) (*Customer, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("customer", id)
	}
	c, ok := m.customers[uid]
	if !ok {
		return nil, apperr.NotFound("customer", id)
	}
	return c, nil
}

func (m *mockRepo) ListCustomers(ctx context.Context, search string) ([]*Customer, error) {
	var out []*Customer
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockRepo) RecordTransaction(ctx context.Context, t *Transaction) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, t)
	return nil
}

func (m *mockRepo) ListTransactions(ctx context.Context, customerID string) ([]*Transaction, error) {
	return m.recorded, nil
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierBronze, TierFor(0))
	assert.Equal(t, TierBronze, TierFor(999))
	assert.Equal(t, TierSilver, TierFor(1000))
	assert.Equal(t, TierSilver, TierFor(4999))
	assert.Equal(t, TierGold, TierFor(5000))
}

func TestCreateCustomer(t *testing.T) {
	t.Run("enrolls at bronze", func(t *testing.T) {
		repo := newMockRepo()
		svc := NewService(repo, zap.NewNop())

		c, err := svc.CreateCustomer(context.Background(), CreateCustomerRequest{Email: "a@b.c"})
		require.NoError(t, err)
		assert.Equal(t, TierBronze, c.Tier)
		assert.Zero(t, c.Points)
	})

	t.Run("requires a contact detail", func(t *testing.T) {
		svc := NewService(newMockRepo(), zap.NewNop())

		_, err := svc.CreateCustomer(context.Background(), CreateCustomerRequest{FirstName: "Ana"})
		var valErr *apperr.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})
}

func TestRecordTransaction(t *testing.T) {
	seed := func(repo *mockRepo) *Customer {
		c := &Customer{ID: uuid.New(), Points: 100, LifetimePoints: 100, Tier: TierBronze}
		repo.customers[c.ID] = c
		return c
	}

	t.Run("records an earn with the customer attached", func(t *testing.T) {
		repo := newMockRepo()
		c := seed(repo)
		svc := NewService(repo, zap.NewNop())

		result, err := svc.RecordTransaction(context.Background(), RecordTransactionRequest{
			CustomerID: c.ID.String(),
			Type:       "earn",
			Points:     50,
		})
		require.NoError(t, err)
		require.Len(t, repo.recorded, 1)
		assert.Equal(t, TypeEarn, repo.recorded[0].Type)
		assert.NotNil(t, result.Customer)
		assert.Empty(t, result.Warnings)
	})

	t.Run("redemption exceeding the balance propagates", func(t *testing.T) {
		repo := newMockRepo()
		c := seed(repo)
		repo.recordErr = apperr.InvalidState("redemption of 500 points exceeds balance of 100")
		svc := NewService(repo, zap.NewNop())

		_, err := svc.RecordTransaction(context.Background(), RecordTransactionRequest{
			CustomerID: c.ID.String(),
			Type:       "REDEEM",
			Points:     500,
		})
		var stateErr *apperr.InvalidStateError
		assert.ErrorAs(t, err, &stateErr)
	})

	t.Run("failed enrichment degrades to a warning", func(t *testing.T) {
		repo := newMockRepo()
		c := seed(repo)
		repo.lookupErr = errors.New("connection reset")
		svc := NewService(repo, zap.NewNop())

		result, err := svc.RecordTransaction(context.Background(), RecordTransactionRequest{
			CustomerID: c.ID.String(),
			Type:       "EARN",
			Points:     10,
		})
		require.NoError(t, err)
		assert.Len(t, repo.recorded, 1)
		assert.Nil(t, result.Customer)
		require.Len(t, result.Warnings, 1)
	})

	t.Run("validates type and points", func(t *testing.T) {
		repo := newMockRepo()
		c := seed(repo)
		svc := NewService(repo, zap.NewNop())
		var valErr *apperr.ValidationError

		_, err := svc.RecordTransaction(context.Background(), RecordTransactionRequest{
			CustomerID: c.ID.String(), Type: "TRANSFER", Points: 10,
		})
		assert.ErrorAs(t, err, &valErr)

		_, err = svc.RecordTransaction(context.Background(), RecordTransactionRequest{
			CustomerID: c.ID.String(), Type: "EARN", Points: 0,
		})
		assert.ErrorAs(t, err, &valErr)

		_, err = svc.RecordTransaction(context.Background(), RecordTransactionRequest{
			CustomerID: "not-a-uuid", Type: "EARN", Points: 10,
		})
		assert.ErrorAs(t, err, &valErr)
	})
}
