package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecordRepo struct {
	payroll.PayrollRecordRepository
	records []payroll.PayrollRecord
	err     error
	calls   int
}

func (s *stubRecordRepo) ListByCompany(ctx context.Context, companyID string) ([]payroll.PayrollRecord, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubRecordRepo) Create(ctx context.Context, r payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	return r, s.err
}

func (s *stubRecordRepo) Delete(ctx context.Context, companyID, id string) error {
	return s.err
}

func sampleRecords() []payroll.PayrollRecord {
	r := payroll.NewPayrollRecord("c1", "Janeiro/2024",
		payroll.Category{Count: 5, Value: decimal.NewFromInt(12000)},
		payroll.Category{Count: 1, Value: decimal.NewFromInt(4500)},
		payroll.Category{Count: 1, Value: decimal.NewFromInt(2000)},
	)
	r.ID = "r1"
	r.CreatedAt = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	r.UpdatedAt = r.CreatedAt
	return []payroll.PayrollRecord{r}
}

func TestListByCompany_RefreshesCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &stubRecordRepo{records: sampleRecords()}
	c := NewPayrollRecordCache(repo, db, time.Hour)

	payload, err := json.Marshal(repo.records)
	require.NoError(t, err)
	mock.ExpectSet("payroll:records:c1", string(payload), time.Hour).SetVal("OK")

	got, err := c.ListByCompany(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, repo.records, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCompany_SharedFetchOutlivesCaller(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &stubRecordRepo{records: sampleRecords()}
	c := NewPayrollRecordCache(repo, db, time.Hour)

	payload, err := json.Marshal(repo.records)
	require.NoError(t, err)
	mock.ExpectSet("payroll:records:c1", string(payload), time.Hour).SetVal("OK")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := c.ListByCompany(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, repo.records, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCompany_FallsBackToCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &stubRecordRepo{err: errors.New("connection refused")}
	c := NewPayrollRecordCache(repo, db, time.Hour)

	records := sampleRecords()
	payload, err := json.Marshal(records)
	require.NoError(t, err)
	mock.ExpectGet("payroll:records:c1").SetVal(string(payload))

	got, err := c.ListByCompany(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "Janeiro/2024", got[0].PeriodLabel)
	assert.True(t, decimal.NewFromInt(18500).Equal(got[0].TotalValue))
	assert.True(t, records[0].CreatedAt.Equal(got[0].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCompany_BothSourcesFail(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sourceErr := errors.New("connection refused")
	c := NewPayrollRecordCache(&stubRecordRepo{err: sourceErr}, db, time.Hour)

	mock.ExpectGet("payroll:records:c1").RedisNil()

	_, err := c.ListByCompany(context.Background(), "c1")
	assert.ErrorIs(t, err, sourceErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCompany_NilClientPassesThrough(t *testing.T) {
	repo := &stubRecordRepo{records: sampleRecords()}
	c := NewPayrollRecordCache(repo, nil, time.Hour)

	got, err := c.ListByCompany(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	repo.err = errors.New("down")
	_, err = c.ListByCompany(context.Background(), "c1")
	assert.EqualError(t, err, "down")
}

func TestWritesInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &stubRecordRepo{}
	c := NewPayrollRecordCache(repo, db, time.Hour)

	mock.ExpectDel("payroll:records:c1").SetVal(1)
	_, err := c.Create(context.Background(), payroll.PayrollRecord{CompanyID: "c1"})
	require.NoError(t, err)

	mock.ExpectDel("payroll:records:c1").SetVal(1)
	require.NoError(t, c.Delete(context.Background(), "c1", "r1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteFailureKeepsCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewPayrollRecordCache(&stubRecordRepo{err: payroll.ErrPayrollRecordNotFound}, db, time.Hour)

	err := c.Delete(context.Background(), "c1", "missing")
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
