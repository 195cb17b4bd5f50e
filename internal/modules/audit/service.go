package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/httpx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// referenceAttempts bounds the retry loop when two concurrent creations
// compute the same daily sequence number. The reference column is unique,
// so the loser of the race gets a 23505 and recomputes.
const referenceAttempts = 3

// Service defines the audit planning, counting and reporting logic.
type Service interface {
	// CreateAudit plans a new audit: snapshots expected quantities for
	// every qualifying inventory item and records zone/user assignments.
	CreateAudit(ctx context.Context, actorID string, req CreateAuditRequest) (*CreateAuditResult, error)

	GetAudit(ctx context.Context, id string) (*Audit, error)
	ListAudits(ctx context.Context, f ListFilter) (*AuditPage, error)
	TransitionStatus(ctx context.Context, id, next string) (*Audit, error)

	// ListZoneItems returns the audit's items, optionally scoped to one
	// zone for the counting screen.
	ListZoneItems(ctx context.Context, auditID, zoneID string) ([]*Item, error)

	// SubmitCounts records actual quantities for the given items and
	// reports whether the whole audit is now counted.
	SubmitCounts(ctx context.Context, actorID, auditID string, req SubmitCountsRequest) (*CountResult, error)

	// BuildReport aggregates the audit into accuracy and variance-value
	// figures. Read-only.
	BuildReport(ctx context.Context, auditID string) (*ReportSummary, error)
}

// reportCache is the subset of ReportCache the service touches. A nil
// *ReportCache satisfies it; its methods are no-ops.
type reportCache interface {
	Get(ctx context.Context, auditID string) (*ReportSummary, bool)
	Set(ctx context.Context, summary *ReportSummary)
	Invalidate(ctx context.Context, auditID string)
}

type service struct {
	repo   Repository
	cache  reportCache
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new audit service. cache may be nil.
func NewService(repo Repository, cache *ReportCache, logger *zap.Logger) Service {
	return &service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

func (s *service) CreateAudit(ctx context.Context, actorID string, req CreateAuditRequest) (*CreateAuditResult, error) {
	if req.WarehouseID == "" {
		return nil, apperr.Validation("warehouse_id is required")
	}
	if req.StartDate == "" {
		return nil, apperr.Validation("start_date is required")
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, apperr.Validation("invalid start_date: %s", req.StartDate)
	}
	var endDate *time.Time
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate)
		if err != nil {
			return nil, apperr.Validation("invalid end_date: %s", req.EndDate)
		}
		endDate = &t
	}
	for _, z := range req.Zones {
		if _, err := uuid.Parse(z); err != nil {
			return nil, apperr.Validation("invalid zone id: %s", z)
		}
	}

	if actorID == "" {
		return nil, apperr.Unauthenticated("audit creation requires an authenticated user")
	}
	actorExists, err := s.repo.UserExists(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actorExists {
		return nil, apperr.Unauthenticated("session user does not resolve to a known user")
	}
	createdBy := uuid.MustParse(actorID)

	warehouseExists, err := s.repo.WarehouseExists(ctx, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouseExists {
		return nil, apperr.NotFound("warehouse", req.WarehouseID)
	}

	var warnings []string

	// Resolve the zone filter up front. A zone set that matches no bins
	// falls back to an unfiltered snapshot instead of producing an empty
	// audit; the fallback is surfaced as a warning because it usually
	// means a misconfigured zone selection.
	binFilter, err := s.repo.BinsForZones(ctx, req.Zones)
	if err != nil {
		return nil, err
	}
	if len(req.Zones) > 0 && len(binFilter) == 0 {
		s.logger.Warn("zone filter matched no bins, snapshotting whole warehouse",
			zap.String("warehouse_id", req.WarehouseID),
			zap.Strings("zones", req.Zones))
		warnings = append(warnings, "selected zones contain no bins; all warehouse items were included")
	}

	var a *Audit
	var itemCount int
	for attempt := 0; ; attempt++ {
		ref, err := s.nextReference(ctx)
		if err != nil {
			return nil, err
		}
		a = &Audit{
			ID:              uuid.New(),
			ReferenceNumber: ref,
			WarehouseID:     uuid.MustParse(req.WarehouseID),
			Status:          StatusPlanned,
			StartDate:       startDate,
			EndDate:         endDate,
			Notes:           req.Notes,
			CreatedByID:     createdBy,
		}
		itemCount, err = s.repo.CreatePlan(ctx, a, binFilter)
		if err == nil {
			break
		}
		if httpx.IsDuplicateKey(err) && attempt < referenceAttempts-1 {
			s.logger.Warn("duplicate audit reference, retrying",
				zap.String("reference", ref), zap.Int("attempt", attempt+1))
			continue
		}
		return nil, apperr.Transaction("audit creation", err)
	}

	// Assignments are best-effort: the audit exists either way.
	for _, userID := range req.Users {
		uid, err := uuid.Parse(userID)
		if err != nil {
			s.logger.Warn("skipping assignment for invalid user id",
				zap.String("audit_id", a.ID.String()), zap.String("user_id", userID))
			warnings = append(warnings, fmt.Sprintf("assignment skipped: invalid user id %s", userID))
			continue
		}
		asg := &Assignment{
			ID:            uuid.New(),
			AuditID:       a.ID,
			UserID:        uid,
			AssignedZones: req.Zones,
		}
		if err := s.repo.InsertAssignment(ctx, asg); err != nil {
			s.logger.Warn("audit assignment failed",
				zap.String("audit_id", a.ID.String()),
				zap.String("user_id", userID),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("assignment failed for user %s", userID))
		}
	}

	result := &CreateAuditResult{Audit: a, ItemCount: itemCount, Warnings: warnings}

	// Enriched re-read, also best-effort; the bare audit row is still a
	// correct response.
	full, err := s.repo.GetByID(ctx, a.ID.String())
	if err != nil {
		s.logger.Warn("audit re-read failed, returning bare record",
			zap.String("audit_id", a.ID.String()), zap.Error(err))
		result.Warnings = append(result.Warnings, "audit created but could not be re-read with relations")
		return result, nil
	}
	result.Audit = full
	return result, nil
}

func (s *service) GetAudit(ctx context.Context, id string) (*Audit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListAudits(ctx context.Context, f ListFilter) (*AuditPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	audits, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &AuditPage{Audits: audits, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (s *service) TransitionStatus(ctx context.Context, id, next string) (*Audit, error) {
	target := Status(strings.ToUpper(next))
	switch target {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
	default:
		return nil, apperr.Validation("invalid status: %s", next)
	}
	a, err := s.repo.GetHeader(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(a.Status, target) {
		return nil, apperr.InvalidState("cannot transition audit from %s to %s", a.Status, target)
	}
	var endDate *time.Time
	if target == StatusCompleted {
		t := s.now()
		endDate = &t
	}
	if err := s.repo.UpdateStatus(ctx, id, target, endDate); err != nil {
		return nil, err
	}
	// The cached report embeds the status, so it is stale now.
	s.cache.Invalidate(ctx, id)
	a.Status = target
	if endDate != nil {
		a.EndDate = endDate
	}
	return a, nil
}

func (s *service) ListZoneItems(ctx context.Context, auditID, zoneID string) ([]*Item, error) {
	if _, err := s.repo.GetHeader(ctx, auditID); err != nil {
		return nil, err
	}
	if zoneID == "" {
		return s.repo.ListItems(ctx, auditID)
	}
	return s.repo.ListItemsByZone(ctx, auditID, zoneID)
}

// nextReference formats AUDIT-YYMMDD-NNNN where NNNN is one past the number
// of audits already created today, local time.
func (s *service) nextReference(ctx context.Context) (string, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(24*time.Hour - time.Millisecond)
	n, err := s.repo.CountCreatedBetween(ctx, from, to)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("AUDIT-%s-%04d", now.Format("060102"), n+1), nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
