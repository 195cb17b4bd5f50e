package audit

import (
	"context"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitCounts records actual quantities for the submitted items. The whole
// batch is validated before anything is written, so a rejected submission
// leaves every item untouched. Resubmitting an already-counted item
// overwrites it (last write wins).
func (s *service) SubmitCounts(ctx context.Context, actorID, auditID string, req SubmitCountsRequest) (*CountResult, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("items must not be empty")
	}

	a, err := s.repo.GetHeader(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusInProgress {
		return nil, apperr.InvalidState("counting requires an audit in progress, current status is %s", a.Status)
	}

	if actorID == "" {
		return nil, apperr.Unauthenticated("count submission requires an authenticated user")
	}
	actorExists, err := s.repo.UserExists(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actorExists {
		return nil, apperr.Unauthenticated("session user does not resolve to a known user")
	}
	countedBy := uuid.MustParse(actorID)

	// Validate the batch up front.
	items := make([]*Item, 0, len(req.Items))
	for _, sub := range req.Items {
		if sub.ActualQuantity < 0 {
			return nil, apperr.Validation("actual_quantity cannot be negative for item %s", sub.ID)
		}
		item, err := s.repo.GetItem(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
		if item.AuditID != a.ID {
			return nil, apperr.NotFound("audit item", sub.ID)
		}
		items = append(items, item)
	}

	now := s.now()
	updated := 0
	for i, sub := range req.Items {
		item := items[i]
		actual := sub.ActualQuantity
		variance := actual - item.ExpectedQuantity
		item.ActualQuantity = &actual
		item.Variance = &variance
		if variance == 0 {
			item.Status = ItemCounted
		} else {
			item.Status = ItemDiscrepancy
		}
		item.Notes = sub.Notes
		item.CountedByID = &countedBy
		countedAt := now
		item.CountedAt = &countedAt
		if err := s.repo.UpdateItemCount(ctx, item); err != nil {
			return nil, err
		}
		updated++
	}

	// Completion is audit-wide regardless of any zone scoping of this
	// particular submission.
	remaining, err := s.repo.CountUncounted(ctx, auditID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, auditID)
	s.logger.Info("counts submitted",
		zap.String("audit_id", auditID),
		zap.Int("updated", updated),
		zap.Int("remaining", remaining))

	return &CountResult{UpdatedCount: updated, IsComplete: remaining == 0}, nil
}
