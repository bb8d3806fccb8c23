package company

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/validator"
)

// MaxLogoSize bounds uploaded logo files.
const MaxLogoSize = 5 << 20

var allowedLogoExts = []string{".jpg", ".jpeg", ".png"}

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"company_name"`
	Username  string    `json:"company_username"`
	Address   *string   `json:"company_address,omitempty"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCompanyRequest struct {
	Name     string  `json:"company_name"`
	Username string  `json:"company_username"`
	Address  *string `json:"company_address,omitempty"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("company_name", "company_name is required")
	} else if validator.ExceedsLength(r.Name, 255) {
		errs.Add("company_name", "company_name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.Username) {
		errs.Add("company_username", "company_username is required")
	} else if !validator.IsValidCompanyUsername(r.Username) {
		errs.Add("company_username", "company_username must be 3-50 characters of letters, numbers, dots, underscores, and hyphens")
	}

	return errs.Err()
}

type UpdateCompanyRequest struct {
	Name    *string `json:"company_name,omitempty"`
	Address *string `json:"company_address,omitempty"`
	LogoURL *string `json:"-"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("company_name", "company_name must not be empty")
		} else if validator.ExceedsLength(*r.Name, 255) {
			errs.Add("company_name", "company_name must not exceed 255 characters")
		}
	}
	if r.Name == nil && r.Address == nil && r.LogoURL == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

type UploadCompanyLogoRequest struct {
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
	CompanyID  string                `json:"-"`
}

func (r *UploadCompanyLogoRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.File == nil || r.FileHeader == nil {
		errs.Add("logo", "logo file is required")
		return errs
	}
	if r.FileHeader.Size > MaxLogoSize {
		errs.Add("logo", "logo must not exceed 5MB")
	}
	ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
	if !validator.IsInSlice(ext, allowedLogoExts) {
		errs.Add("logo", "invalid file type: only jpg, jpeg, png allowed")
	}

	return errs.Err()
}

type UploadCompanyLogoResponse struct {
	LogoURL string `json:"logo_url"`
}
