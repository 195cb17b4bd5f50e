package audit

import (
	"context"
	"math"
)

// BuildReport aggregates the audit's items into accuracy and
// variance-value figures. Items whose cost resolves to a non-finite number
// are excluded from the value sums rather than poisoning them.
func (s *service) BuildReport(ctx context.Context, auditID string) (*ReportSummary, error) {
	a, err := s.repo.GetHeader(ctx, auditID)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(ctx, auditID); ok {
		return cached, nil
	}

	rows, err := s.repo.ListReportRows(ctx, auditID)
	if err != nil {
		return nil, err
	}

	summary := &ReportSummary{
		AuditID:         a.ID,
		ReferenceNumber: a.ReferenceNumber,
		Status:          a.Status,
		TotalItems:      len(rows),
		GeneratedAt:     s.now(),
	}

	for _, row := range rows {
		if row.ActualQuantity == nil {
			summary.PendingItems++
			continue
		}
		summary.CountedItems++
		if row.Status == ItemDiscrepancy {
			summary.DiscrepancyItems++
		}
		if row.Variance == nil || *row.Variance == 0 {
			continue
		}
		cost := 0.0
		if row.CostPrice != nil {
			cost = *row.CostPrice
		}
		impact := float64(*row.Variance) * cost
		if math.IsNaN(impact) || math.IsInf(impact, 0) {
			continue
		}
		summary.TotalVarianceValue += impact
		if impact > 0 {
			summary.PositiveVarianceValue += impact
		} else {
			summary.NegativeVarianceValue += impact
		}
	}

	// Zero, not NaN, when nothing has been counted yet.
	if summary.CountedItems > 0 {
		summary.AccuracyRate = float64(summary.CountedItems-summary.DiscrepancyItems) /
			float64(summary.CountedItems) * 100
	}

	s.cache.Set(ctx, summary)
	return summary, nil
}
