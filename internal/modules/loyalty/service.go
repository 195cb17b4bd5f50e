package loyalty

import (
	"context"
	"strings"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines loyalty program business logic.
type Service interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context, search string) ([]*Customer, error)
	ListTransactions(ctx context.Context, customerID string) ([]*Transaction, error)

	// RecordTransaction applies a points movement. The write is the
	// primary operation; the customer enrichment of the result is
	// best-effort and its failure never fails the request.
	RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResult, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new loyalty service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if req.Email == "" && req.Phone == "" {
		return nil, apperr.Validation("email or phone is required")
	}
	c := &Customer{
		ID:        uuid.New(),
		Email:     req.Email,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Tier:      TierBronze,
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetCustomerByID(ctx, id)
}

func (s *service) ListCustomers(ctx context.Context, search string) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx, search)
}

func (s *service) ListTransactions(ctx context.Context, customerID string) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, customerID)
}

func (s *service) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResult, error) {
	cid, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apperr.Validation("invalid customer_id: %s", req.CustomerID)
	}
	txType := TransactionType(strings.ToUpper(req.Type))
	if txType != TypeEarn && txType != TypeRedeem {
		return nil, apperr.Validation("type must be EARN or REDEEM")
	}
	if req.Points <= 0 {
		return nil, apperr.Validation("points must be positive")
	}

	t := &Transaction{
		ID:         uuid.New(),
		CustomerID: cid,
		Type:       txType,
		Points:     req.Points,
		Notes:      req.Notes,
	}
	if req.SaleID != "" {
		sid, err := uuid.Parse(req.SaleID)
		if err != nil {
			return nil, apperr.Validation("invalid sale_id: %s", req.SaleID)
		}
		t.SaleID = &sid
	}

	if err := s.repo.RecordTransaction(ctx, t); err != nil {
		return nil, err
	}

	result := &TransactionResult{Transaction: t}

	// The transaction is committed; a failed detail lookup only degrades
	// the response.
	customer, err := s.repo.GetCustomerByID(ctx, req.CustomerID)
	if err != nil {
		s.logger.Warn("customer lookup failed after loyalty transaction",
			zap.String("customer_id", req.CustomerID),
			zap.String("transaction_id", t.ID.String()),
			zap.Error(err))
		result.Warnings = append(result.Warnings, "transaction recorded but customer details unavailable")
		return result, nil
	}
	result.Customer = customer
	return result, nil
}
