// Package fixtures loads the default dataset (companies, users and seed
// payroll records) and merges it into the store at startup.
package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/repository/postgresql"
	analyticsService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/analytics"
	userService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/user"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type Dataset struct {
	Companies      []CompanyFixture `yaml:"companies"`
	Users          []UserFixture    `yaml:"users"`
	PayrollRecords []RecordFixture  `yaml:"payroll_records"`
}

type CompanyFixture struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Address  string `yaml:"address"`
}

// UserFixture carries either a plaintext Password, hashed during the merge,
// or a precomputed bcrypt PasswordHash. Google-only users have neither.
type UserFixture struct {
	ID           string `yaml:"id"`
	CompanyID    string `yaml:"company_id"`
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	Role         string `yaml:"role"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

type CategoryFixture struct {
	Count int    `yaml:"count"`
	Value string `yaml:"value"`
}

// RecordFixture names its period by label, or by month (13 for the 13th
// salary) and year.
type RecordFixture struct {
	ID           string          `yaml:"id"`
	CompanyID    string          `yaml:"company_id"`
	Period       string          `yaml:"period"`
	Month        int             `yaml:"month"`
	Year         int             `yaml:"year"`
	Effective    CategoryFixture `yaml:"effective"`
	Contracted   CategoryFixture `yaml:"contracted"`
	Commissioned CategoryFixture `yaml:"commissioned"`
}

// Load reads and validates a dataset file.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset, validates it and drops duplicate entries.
func Parse(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds.Dedupe(), nil
}

// checkUUID requires the UUIDv7 form the API routes accept.
func checkUUID(kind string, i int, id string) error {
	if !validator.IsValidUUID(id) {
		return fmt.Errorf("%s[%d]: invalid id %q", kind, i, id)
	}
	return nil
}

func (ds Dataset) Validate() error {
	for i, c := range ds.Companies {
		if err := checkUUID("companies", i, c.ID); err != nil {
			return err
		}
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Username) == "" {
			return fmt.Errorf("companies[%d]: name and username are required", i)
		}
	}
	for i, u := range ds.Users {
		if err := checkUUID("users", i, u.ID); err != nil {
			return err
		}
		if strings.TrimSpace(u.Email) == "" {
			return fmt.Errorf("users[%d]: email is required", i)
		}
		if !user.IsValidRole(u.Role) {
			return fmt.Errorf("users[%d]: invalid role %q", i, u.Role)
		}
		if user.Role(u.Role) != user.RoleAdmin && u.CompanyID == "" {
			return fmt.Errorf("users[%d]: company_id is required for role %s", i, u.Role)
		}
	}
	for i, r := range ds.PayrollRecords {
		if err := checkUUID("payroll_records", i, r.ID); err != nil {
			return err
		}
		if err := checkUUID("payroll_records", i, r.CompanyID); err != nil {
			return err
		}
		if strings.TrimSpace(r.Period) == "" && (r.Month < 1 || r.Month > 13 || r.Year == 0) {
			return fmt.Errorf("payroll_records[%d]: period or month/year is required", i)
		}
		for name, c := range map[string]CategoryFixture{"effective": r.Effective, "contracted": r.Contracted, "commissioned": r.Commissioned} {
			if _, err := c.toCategory(); err != nil {
				return fmt.Errorf("payroll_records[%d].%s: %w", i, name, err)
			}
		}
	}
	return nil
}

// Dedupe keeps the first occurrence of every ID. Users are also unique by
// email, compared case-insensitively.
func (ds Dataset) Dedupe() Dataset {
	out := Dataset{}

	seen := map[string]bool{}
	for _, c := range ds.Companies {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out.Companies = append(out.Companies, c)
	}

	seen = map[string]bool{}
	emails := map[string]bool{}
	for _, u := range ds.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if seen[u.ID] || emails[email] {
			continue
		}
		seen[u.ID] = true
		emails[email] = true
		out.Users = append(out.Users, u)
	}

	seen = map[string]bool{}
	for _, r := range ds.PayrollRecords {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out.PayrollRecords = append(out.PayrollRecords, r)
	}
	return out
}

// toCategory applies the same bounds as API input, so seeded totals match
// what NUMERIC(15,2) stores.
func (c CategoryFixture) toCategory() (payroll.Category, error) {
	if c.Count < 0 {
		return payroll.Category{}, fmt.Errorf("count must be non-negative, got %d", c.Count)
	}
	value := decimal.Zero
	if c.Value != "" {
		var err error
		value, err = decimal.NewFromString(c.Value)
		if err != nil {
			return payroll.Category{}, fmt.Errorf("invalid value %q: %w", c.Value, err)
		}
	}
	if validator.IsNegativeAmount(value) {
		return payroll.Category{}, fmt.Errorf("value must be non-negative, got %s", c.Value)
	}
	if !validator.HasAtMostDecimalPlaces(value, 2) {
		return payroll.Category{}, fmt.Errorf("value must have at most 2 decimal places, got %s", c.Value)
	}
	return payroll.Category{Count: c.Count, Value: value}, nil
}

func (r RecordFixture) toRecord() (payroll.PayrollRecord, error) {
	var cats [3]payroll.Category
	for i, c := range []CategoryFixture{r.Effective, r.Contracted, r.Commissioned} {
		cat, err := c.toCategory()
		if err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("payroll record %s: %w", r.ID, err)
		}
		cats[i] = cat
	}

	label := strings.TrimSpace(r.Period)
	if label == "" {
		label = analyticsService.PeriodLabel(r.Month, r.Year)
	}
	record := payroll.NewPayrollRecord(r.CompanyID, label, cats[0], cats[1], cats[2])
	record.ID = r.ID
	return record, nil
}

// MergeReport counts what a merge inserted and what already existed.
type MergeReport struct {
	CompaniesCreated int
	CompaniesSkipped int
	UsersCreated     int
	UsersSkipped     int
	RecordsCreated   int
	RecordsSkipped   int
}

type Repositories struct {
	Company company.CompanyRepository
	User    user.UserRepository
	Payroll payroll.PayrollRecordRepository
}

// Merge inserts the dataset entries missing from the store in one transaction.
func Merge(ctx context.Context, db *database.DB, repos Repositories, ds Dataset) (MergeReport, error) {
	var report MergeReport
	err := postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		var err error
		report, err = merge(postgresql.ContextWithTx(ctx, tx), repos, ds, time.Now())
		return err
	})
	if err != nil {
		return MergeReport{}, fmt.Errorf("failed to merge default dataset: %w", err)
	}

	slog.Info("Default dataset merged",
		"companies_created", report.CompaniesCreated,
		"users_created", report.UsersCreated,
		"records_created", report.RecordsCreated,
		"skipped", report.CompaniesSkipped+report.UsersSkipped+report.RecordsSkipped,
	)
	return report, nil
}

// merge runs on whatever store ctx points at. Seed records get increasing
// creation times starting at now, so they list in file order.
func merge(ctx context.Context, repos Repositories, ds Dataset, now time.Time) (MergeReport, error) {
	var report MergeReport

	for _, c := range ds.Companies {
		exists, err := repos.Company.ExistsByIDOrUsername(ctx, &c.ID, &c.Username)
		if err != nil {
			return report, fmt.Errorf("failed to check company %s: %w", c.Username, err)
		}
		if exists {
			report.CompaniesSkipped++
			continue
		}
		_, err = repos.Company.Create(ctx, company.Company{
			ID:       c.ID,
			Name:     strings.TrimSpace(c.Name),
			Username: strings.TrimSpace(c.Username),
			Address:  strPtr(c.Address),
		})
		if err != nil {
			return report, fmt.Errorf("failed to create company %s: %w", c.Username, err)
		}
		report.CompaniesCreated++
	}

	for _, u := range ds.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		exists, err := repos.User.ExistsByIDOrEmail(ctx, &u.ID, &email)
		if err != nil {
			return report, fmt.Errorf("failed to check user %s: %w", email, err)
		}
		if exists {
			report.UsersSkipped++
			continue
		}

		passwordHash := strPtr(u.PasswordHash)
		if u.Password != "" {
			hash, err := userService.HashPassword(u.Password)
			if err != nil {
				return report, err
			}
			passwordHash = &hash
		}

		newUser := user.User{
			ID:           u.ID,
			Email:        email,
			Name:         strings.TrimSpace(u.Name),
			PasswordHash: passwordHash,
			Role:         user.Role(u.Role),
		}
		if newUser.Role != user.RoleAdmin {
			newUser.CompanyID = strPtr(u.CompanyID)
		}
		if _, err := repos.User.Create(ctx, newUser); err != nil {
			return report, fmt.Errorf("failed to create user %s: %w", email, err)
		}
		report.UsersCreated++
	}

	for i, r := range ds.PayrollRecords {
		exists, err := repos.Payroll.ExistsByID(ctx, r.ID)
		if err != nil {
			return report, fmt.Errorf("failed to check payroll record %s: %w", r.ID, err)
		}
		if exists {
			report.RecordsSkipped++
			continue
		}

		record, err := r.toRecord()
		if err != nil {
			return report, err
		}
		record.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		if _, err := repos.Payroll.Create(ctx, record); err != nil {
			return report, fmt.Errorf("failed to create payroll record %s: %w", r.ID, err)
		}
		report.RecordsCreated++
	}

	return report, nil
}
