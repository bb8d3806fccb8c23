package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCompany(t *testing.T, repo company.CompanyRepository, username string) company.Company {
	t.Helper()
	c, err := repo.Create(context.Background(), company.Company{Name: "Acme " + username, Username: username})
	require.NoError(t, err)
	return c
}

func TestCompanyRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(db)

	created := createCompany(t, repo, "acme")
	assert.NotEmpty(t, created.ID)

	_, err := repo.Create(ctx, company.Company{Name: "Other", Username: "acme"})
	assert.ErrorIs(t, err, company.ErrCompanyUsernameExists)

	exists, err := repo.ExistsByIDOrUsername(ctx, nil, &created.Username)
	require.NoError(t, err)
	assert.True(t, exists)

	logo := "logos/acme.png"
	require.NoError(t, repo.Update(ctx, created.ID, company.UpdateCompanyRequest{LogoURL: &logo}))
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LogoURL)
	assert.Equal(t, logo, *got.LogoURL)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), company.ErrCompanyNotFound)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := createCompany(t, postgresql.NewCompanyRepository(db), "acme")

	_, err := postgresql.NewCompanyRepository(db).GetByID(ctx, "abc")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	records := postgresql.NewPayrollRecordRepository(db)
	_, err = records.GetByID(ctx, c.ID, "abc")
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
	assert.ErrorIs(t, records.Delete(ctx, c.ID, "abc"), payroll.ErrPayrollRecordNotFound)

	users := postgresql.NewUserRepository(db)
	_, err = users.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, users.Delete(ctx, "abc"), user.ErrUserNotFound)
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := createCompany(t, postgresql.NewCompanyRepository(db), "acme")
	repo := postgresql.NewUserRepository(db)

	hash := "hash"
	created, err := repo.Create(ctx, user.User{
		CompanyID: &c.ID, Email: "viewer@acme.com", Name: "Viewer", PasswordHash: &hash, Role: user.RoleViewer,
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleViewer, created.Role)

	_, err = repo.Create(ctx, user.User{CompanyID: &c.ID, Email: "viewer@acme.com", Role: user.RoleViewer})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	byEmail, err := repo.GetByEmail(ctx, "viewer@acme.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	linked, err := repo.LinkGoogleAccount(ctx, "g-123", "viewer@acme.com")
	require.NoError(t, err)
	require.NotNil(t, linked.OAuthProviderID)
	assert.Equal(t, "g-123", *linked.OAuthProviderID)

	role := string(user.RoleManager)
	updated, err := repo.Update(ctx, created.ID, nil, user.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, updated.Role)

	list, err := repo.List(ctx, user.ListUsersFilter{CompanyID: &c.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestPayrollRecordRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := createCompany(t, postgresql.NewCompanyRepository(db), "acme")
	repo := postgresql.NewPayrollRecordRepository(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	labels := []string{"Fevereiro/2024", "Janeiro/2024"}
	for i, label := range labels {
		r := payroll.NewPayrollRecord(c.ID, label,
			payroll.Category{Count: 5, Value: decimal.RequireFromString("12000.50")},
			payroll.Category{Count: 1, Value: decimal.NewFromInt(4500)},
			payroll.Category{},
		)
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	list, err := repo.ListByCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Fevereiro/2024", list[0].PeriodLabel)
	assert.Equal(t, "Janeiro/2024", list[1].PeriodLabel)
	assert.True(t, decimal.RequireFromString("16500.50").Equal(list[0].TotalValue))

	rec := list[1]
	rec.Commissioned = payroll.Category{Count: 2, Value: decimal.NewFromInt(1000)}
	updated, err := repo.Update(ctx, rec)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("17500.50").Equal(updated.TotalValue))

	_, err = repo.GetByID(ctx, "0192d7a0-0000-7000-8000-000000000000", rec.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)

	require.NoError(t, repo.Delete(ctx, c.ID, rec.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID, rec.ID), payroll.ErrPayrollRecordNotFound)
}

func TestJWTRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := createCompany(t, postgresql.NewCompanyRepository(db), "acme")
	u, err := postgresql.NewUserRepository(db).Create(ctx, user.User{CompanyID: &c.ID, Email: "m@acme.com", Role: user.RoleManager})
	require.NoError(t, err)

	repo := postgresql.NewJWTRepository(db)
	expires := time.Now().Add(time.Hour).Unix()
	require.NoError(t, repo.CreateRefreshToken(ctx, u.ID, "refresh-1", expires, auth.SessionTrackingRequest{UserAgent: "test"}))

	userID, revoked, err := repo.IsRefreshTokenRevoked(ctx, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.False(t, revoked)

	require.NoError(t, repo.RevokeRefreshToken(ctx, "refresh-1"))
	_, revoked, err = repo.IsRefreshTokenRevoked(ctx, "refresh-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	_, _, err = repo.IsRefreshTokenRevoked(ctx, "unknown")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	deleted, err := repo.DeleteExpiredRefreshTokens(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	_, _, err = repo.IsRefreshTokenRevoked(ctx, "refresh-1")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNarrativeReportRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := createCompany(t, postgresql.NewCompanyRepository(db), "acme")
	repo := postgresql.NewNarrativeReportRepository(db)

	_, err := repo.GetLatestByCompany(ctx, c.ID)
	assert.ErrorIs(t, err, report.ErrNarrativeReportNotFound)

	for _, content := range []string{"# first", "# second"} {
		_, err := repo.Create(ctx, report.NarrativeReport{CompanyID: c.ID, Model: "m", Prompt: "p", Content: content})
		require.NoError(t, err)
	}

	latest, err := repo.GetLatestByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "# second", latest.Content)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(db)

	err := postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)
		if _, err := repo.Create(txCtx, company.Company{Name: "Tx", Username: "tx-co"}); err != nil {
			return err
		}
		return company.ErrNoFieldsToUpdate
	})
	assert.ErrorIs(t, err, company.ErrNoFieldsToUpdate)

	exists, err := repo.ExistsByIDOrUsername(ctx, nil, ptr("tx-co"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func ptr(s string) *string { return &s }
