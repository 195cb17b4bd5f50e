package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockReceiver applies received transfer lines to destination inventory.
// Satisfied by the inventory service.
type StockReceiver interface {
	AddStock(ctx context.Context, productID, warehouseID string, qty int, costPrice float64) error
}

// Service defines stock transfer business logic.
type Service interface {
	// CreateTransfer validates the lines and persists the document
	// atomically in DRAFT status.
	CreateTransfer(ctx context.Context, actorID string, req CreateTransferRequest) (*Transfer, error)

	GetTransfer(ctx context.Context, id string) (*Transfer, error)
	ListWarehouseTransfers(ctx context.Context, warehouseID, status string) ([]*Transfer, error)

	// Dispatch moves a DRAFT transfer to IN_TRANSIT.
	Dispatch(ctx context.Context, id string) (*Transfer, error)

	// Receive marks an IN_TRANSIT transfer RECEIVED and applies each line
	// to destination inventory best-effort.
	Receive(ctx context.Context, id string) (*ReceiveResult, error)

	// Cancel cancels a DRAFT or IN_TRANSIT transfer.
	Cancel(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	inventory StockReceiver
	logger    *zap.Logger
}

// NewService creates a new transfer service.
func NewService(repo Repository, inv StockReceiver, logger *zap.Logger) Service {
	return &service{repo: repo, inventory: inv, logger: logger}
}

func (s *service) CreateTransfer(ctx context.Context, actorID string, req CreateTransferRequest) (*Transfer, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("transfer must contain at least one item")
	}
	fromID, err := uuid.Parse(req.FromWarehouseID)
	if err != nil {
		return nil, apperr.Validation("invalid from_warehouse_id: %s", req.FromWarehouseID)
	}
	toID, err := uuid.Parse(req.ToWarehouseID)
	if err != nil {
		return nil, apperr.Validation("invalid to_warehouse_id: %s", req.ToWarehouseID)
	}
	if fromID == toID {
		return nil, apperr.Validation("source and destination warehouse must differ")
	}

	var items []*TransferItem
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be > 0 for product %s", line.ProductID)
		}
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, apperr.Validation("invalid product_id: %s", line.ProductID)
		}
		items = append(items, &TransferItem{
			ID:        uuid.New(),
			ProductID: pid,
			Quantity:  line.Quantity,
			CostPrice: line.CostPrice,
		})
	}

	t := &Transfer{
		ID:              uuid.New(),
		ReferenceNumber: generateReference(),
		FromWarehouseID: fromID,
		ToWarehouseID:   toID,
		Status:          StatusDraft,
		Notes:           req.Notes,
		Items:           items,
	}
	if actorID != "" {
		if uid, err := uuid.Parse(actorID); err == nil {
			t.CreatedByID = &uid
		}
	}

	if err := s.repo.CreateTransfer(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to persist transfer: %w", err)
	}
	return t, nil
}

func (s *service) GetTransfer(ctx context.Context, id string) (*Transfer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListWarehouseTransfers(ctx context.Context, warehouseID, status string) ([]*Transfer, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID, strings.ToUpper(status))
}

func (s *service) Dispatch(ctx context.Context, id string) (*Transfer, error) {
	return s.transition(ctx, id, StatusInTransit)
}

func (s *service) Receive(ctx context.Context, id string) (*ReceiveResult, error) {
	t, err := s.transition(ctx, id, StatusReceived)
	if err != nil {
		return nil, err
	}

	// The document state is authoritative; inventory application is
	// best-effort per line.
	result := &ReceiveResult{Transfer: t}
	for _, item := range t.Items {
		err := s.inventory.AddStock(ctx, item.ProductID.String(), t.ToWarehouseID.String(),
			item.Quantity, item.CostPrice)
		if err != nil {
			s.logger.Warn("failed to apply transfer line to inventory",
				zap.String("transfer_id", t.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("stock not applied for product %s", item.ProductID))
		}
	}
	return result, nil
}

func (s *service) Cancel(ctx context.Context, id string) error {
	_, err := s.transition(ctx, id, StatusCancelled)
	return err
}

func (s *service) transition(ctx context.Context, id string, next TransferStatus) (*Transfer, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(t.Status, next) {
		return nil, apperr.InvalidState("cannot transition transfer from %s to %s", t.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	t.Status = next
	if next == StatusReceived {
		now := time.Now()
		t.ReceivedAt = &now
	}
	return t, nil
}

// generateReference creates a human-readable transfer number: TRF-YYYYMMDD-XXXX
func generateReference() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("TRF-%s-%s", date, suffix)
}
