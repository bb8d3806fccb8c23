// Package cache keeps a Redis copy of payroll records so dashboards stay
// readable while PostgreSQL is unavailable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

func payrollRecordsKey(companyID string) string {
	return "payroll:records:" + companyID
}

// PayrollRecordCache decorates a payroll.PayrollRecordRepository. Reads go to
// the wrapped repository first; its result refreshes the cached copy. When
// the wrapped repository fails the cached copy is served instead. A nil
// Redis client turns the decorator into a pass-through.
type PayrollRecordCache struct {
	payroll.PayrollRecordRepository
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewPayrollRecordCache(next payroll.PayrollRecordRepository, rdb *redis.Client, ttl time.Duration) *PayrollRecordCache {
	return &PayrollRecordCache{
		PayrollRecordRepository: next,
		rdb:                     rdb,
		ttl:                     ttl,
	}
}

// ListByCompany implements payroll.PayrollRecordRepository.
func (c *PayrollRecordCache) ListByCompany(ctx context.Context, companyID string) ([]payroll.PayrollRecord, error) {
	key := payrollRecordsKey(companyID)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// The result is shared with every caller waiting on key, so the first
		// caller going away must not cancel it.
		shared := context.WithoutCancel(ctx)
		records, err := c.PayrollRecordRepository.ListByCompany(shared, companyID)
		if err != nil {
			return nil, err
		}
		c.store(shared, key, records)
		return records, nil
	})
	if err == nil {
		return v.([]payroll.PayrollRecord), nil
	}

	cached, cacheErr := c.load(ctx, key)
	if cacheErr != nil {
		return nil, err
	}
	slog.Warn("serving payroll records from cache", "company_id", companyID, "error", err)
	return cached, nil
}

func (c *PayrollRecordCache) store(ctx context.Context, key string, records []payroll.PayrollRecord) {
	if c.rdb == nil {
		return
	}
	payload, err := json.Marshal(records)
	if err != nil {
		slog.Error("failed to encode payroll records for cache", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
		slog.Warn("failed to refresh payroll record cache", "key", key, "error", err)
	}
}

var errCacheDisabled = errors.New("cache disabled")

func (c *PayrollRecordCache) load(ctx context.Context, key string) ([]payroll.PayrollRecord, error) {
	if c.rdb == nil {
		return nil, errCacheDisabled
	}
	payload, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var records []payroll.PayrollRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *PayrollRecordCache) invalidate(ctx context.Context, companyID string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, payrollRecordsKey(companyID)).Err(); err != nil {
		slog.Warn("failed to invalidate payroll record cache", "company_id", companyID, "error", err)
	}
}

// Create implements payroll.PayrollRecordRepository.
func (c *PayrollRecordCache) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	created, err := c.PayrollRecordRepository.Create(ctx, record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	c.invalidate(ctx, record.CompanyID)
	return created, nil
}

// Update implements payroll.PayrollRecordRepository.
func (c *PayrollRecordCache) Update(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	updated, err := c.PayrollRecordRepository.Update(ctx, record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	c.invalidate(ctx, record.CompanyID)
	return updated, nil
}

// Delete implements payroll.PayrollRecordRepository.
func (c *PayrollRecordCache) Delete(ctx context.Context, companyID, id string) error {
	if err := c.PayrollRecordRepository.Delete(ctx, companyID, id); err != nil {
		return err
	}
	c.invalidate(ctx, companyID)
	return nil
}
