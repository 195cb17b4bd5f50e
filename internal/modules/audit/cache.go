package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache is a read-through cache for report projections. A nil cache
// is valid and disables caching entirely.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache wraps a redis client. ttl <= 0 defaults to 30 seconds.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ReportCache{client: client, ttl: ttl}
}

func reportKey(auditID string) string { return "audit:report:" + auditID }

// Get returns the cached summary for the audit, if any. Cache errors read
// as misses.
func (c *ReportCache) Get(ctx context.Context, auditID string) (*ReportSummary, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, reportKey(auditID)).Bytes()
	if err != nil {
		return nil, false
	}
	var summary ReportSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// Set stores the summary, best-effort.
func (c *ReportCache) Set(ctx context.Context, summary *ReportSummary) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	c.client.Set(ctx, reportKey(summary.AuditID.String()), raw, c.ttl)
}

// Invalidate drops the cached summary after a write that changes it, a
// count submission or a status transition.
func (c *ReportCache) Invalidate(ctx context.Context, auditID string) {
	if c == nil {
		return
	}
	c.client.Del(ctx, reportKey(auditID))
}
