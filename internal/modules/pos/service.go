package pos

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/loyalty"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockDeductor removes sold quantities from warehouse stock. Satisfied by
// the inventory service.
type StockDeductor interface {
	DeductStock(ctx context.Context, productID, warehouseID string, qty int) error
}

// PointsAccruer awards loyalty points for a committed sale. Satisfied by the
// loyalty service.
type PointsAccruer interface {
	RecordTransaction(ctx context.Context, req loyalty.RecordTransactionRequest) (*loyalty.TransactionResult, error)
}

// taxRate is the flat sales tax applied to the discounted subtotal.
const taxRate = 0.16

// pointsPerUnit converts the sale total into loyalty points.
const pointsPerUnit = 1.0

// Service defines point-of-sale business logic.
type Service interface {
	// CreateSale prices the cart from the catalog, persists the sale
	// atomically, then runs stock deduction and loyalty accrual
	// best-effort.
	CreateSale(ctx context.Context, actorID string, req CreateSaleRequest) (*SaleResult, error)

	GetSale(ctx context.Context, id string) (*Sale, error)
	ListWarehouseSales(ctx context.Context, warehouseID string) ([]*Sale, error)

	// Refund marks a COMPLETED sale REFUNDED.
	Refund(ctx context.Context, id string) (*Sale, error)
}

type service struct {
	repo      Repository
	inventory StockDeductor
	loyalty   PointsAccruer
	logger    *zap.Logger
}

// NewService creates a new POS service.
func NewService(repo Repository, inv StockDeductor, loy PointsAccruer, logger *zap.Logger) Service {
	return &service{repo: repo, inventory: inv, loyalty: loy, logger: logger}
}

func (s *service) CreateSale(ctx context.Context, actorID string, req CreateSaleRequest) (*SaleResult, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("sale must contain at least one item")
	}
	wid, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apperr.Validation("invalid warehouse_id: %s", req.WarehouseID)
	}
	method := PaymentMethod(strings.ToUpper(req.PaymentMethod))
	switch method {
	case PaymentCash, PaymentCard, PaymentMobileMoney, PaymentVoucher:
	default:
		return nil, apperr.Validation("unsupported payment method: %s", req.PaymentMethod)
	}
	if req.Discount < 0 {
		return nil, apperr.Validation("discount cannot be negative")
	}

	var items []*SaleItem
	subtotal := 0.0
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be > 0 for product %s", line.ProductID)
		}
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, apperr.Validation("invalid product_id: %s", line.ProductID)
		}
		price, active, err := s.repo.GetProductPrice(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, apperr.Validation("product %s is not available for sale", line.ProductID)
		}
		lineTotal := round2(price * float64(line.Quantity))
		items = append(items, &SaleItem{
			ID:        uuid.New(),
			ProductID: pid,
			Quantity:  line.Quantity,
			UnitPrice: price,
			LineTotal: lineTotal,
		})
		subtotal += lineTotal
	}
	subtotal = round2(subtotal)
	if req.Discount > subtotal {
		return nil, apperr.Validation("discount cannot exceed subtotal")
	}

	tax := round2((subtotal - req.Discount) * taxRate)
	total := round2(subtotal - req.Discount + tax)

	sale := &Sale{
		ID:              uuid.New(),
		ReferenceNumber: generateReference(),
		WarehouseID:     wid,
		Subtotal:        subtotal,
		Discount:        req.Discount,
		Tax:             tax,
		Total:           total,
		PaymentMethod:   method,
		Status:          SaleCompleted,
		Notes:           req.Notes,
		Items:           items,
	}
	if actorID != "" {
		if uid, err := uuid.Parse(actorID); err == nil {
			sale.CashierID = &uid
		}
	}
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, apperr.Validation("invalid customer_id: %s", req.CustomerID)
		}
		sale.CustomerID = &cid
	}

	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to persist sale: %w", err)
	}

	// The sale document is authoritative from here on. Stock deduction
	// and loyalty accrual only degrade the response when they fail.
	result := &SaleResult{Sale: sale}
	for _, item := range sale.Items {
		err := s.inventory.DeductStock(ctx, item.ProductID.String(), sale.WarehouseID.String(),
			item.Quantity)
		if err != nil {
			s.logger.Warn("failed to deduct stock for sale line",
				zap.String("sale_id", sale.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("stock not deducted for product %s", item.ProductID))
		}
	}
	if sale.CustomerID != nil {
		points := int(math.Floor(total * pointsPerUnit))
		if points > 0 {
			_, err := s.loyalty.RecordTransaction(ctx, loyalty.RecordTransactionRequest{
				CustomerID: sale.CustomerID.String(),
				SaleID:     sale.ID.String(),
				Type:       string(loyalty.TypeEarn),
				Points:     points,
				Notes:      "sale " + sale.ReferenceNumber,
			})
			if err != nil {
				s.logger.Warn("loyalty accrual failed after sale",
					zap.String("sale_id", sale.ID.String()),
					zap.String("customer_id", sale.CustomerID.String()),
					zap.Error(err))
				result.Warnings = append(result.Warnings, "loyalty points not awarded")
			}
		}
	}
	return result, nil
}

func (s *service) GetSale(ctx context.Context, id string) (*Sale, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListWarehouseSales(ctx context.Context, warehouseID string) ([]*Sale, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

func (s *service) Refund(ctx context.Context, id string) (*Sale, error) {
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status != SaleCompleted {
		return nil, apperr.InvalidState("cannot refund a sale in status %s", sale.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, SaleRefunded); err != nil {
		return nil, err
	}
	sale.Status = SaleRefunded
	return sale, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// generateReference creates a human-readable sale number: SALE-YYYYMMDD-XXXX
func generateReference() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("SALE-%s-%s", date, suffix)
}
