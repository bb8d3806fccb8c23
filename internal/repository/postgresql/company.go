package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, username, address, logo_url, created_at, updated_at`

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(&c.ID, &c.Name, &c.Username, &c.Address, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) || isInvalidInput(err) {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, err
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) error {
	q := GetQuerier(ctx, c.db)

	setClauses := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.LogoURL != nil {
		add("logo_url", *req.LogoURL)
	}
	if len(setClauses) == 0 {
		return company.ErrNoFieldsToUpdate
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	sql := "UPDATE companies SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// ExistsByIDOrUsername implements company.CompanyRepository.
func (c *companyRepositoryImpl) ExistsByIDOrUsername(ctx context.Context, id *string, username *string) (bool, error) {
	q := GetQuerier(ctx, c.db)

	var query string
	var arg interface{}

	switch {
	case id != nil && username != nil:
		var exists bool
		err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1 OR username = $2)`, *id, *username).Scan(&exists)
		return exists, err
	case id != nil:
		query = `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`
		arg = *id
	case username != nil:
		query = `SELECT EXISTS(SELECT 1 FROM companies WHERE username = $1)`
		arg = *username
	default:
		return false, nil
	}

	var exists bool
	if err := q.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	if newCompany.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return company.Company{}, fmt.Errorf("failed to generate company id: %w", err)
		}
		newCompany.ID = id.String()
	}

	query := `
		INSERT INTO companies (id, name, username, address, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query,
		newCompany.ID, newCompany.Name, newCompany.Username, newCompany.Address, newCompany.LogoURL))
	if err != nil {
		if isUniqueViolation(err) {
			return company.Company{}, company.ErrCompanyUsernameExists
		}
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

// GetByUsername implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByUsername(ctx context.Context, username string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE username = $1`, username))
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []company.Company{}
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, found)
	}
	return companies, rows.Err()
}

// Delete implements company.CompanyRepository.
func (c *companyRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
