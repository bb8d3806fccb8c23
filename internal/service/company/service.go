package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/service/file"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	fileService file.FileService
}

func NewCompanyService(companyRepository company.CompanyRepository, fileService file.FileService) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
		fileService:       fileService,
	}
}

func (c *CompanyServiceImpl) toResponse(companyData company.Company) company.CompanyResponse {
	var logoURL *string
	if companyData.LogoURL != nil && *companyData.LogoURL != "" {
		fullURL := c.fileService.GetFileURL(*companyData.LogoURL)
		logoURL = &fullURL
	}
	return company.CompanyResponse{
		ID:        companyData.ID,
		Name:      companyData.Name,
		Username:  companyData.Username,
		Address:   companyData.Address,
		LogoURL:   logoURL,
		CreatedAt: companyData.CreatedAt,
		UpdatedAt: companyData.UpdatedAt,
	}
}

// List implements company.CompanyService. Admins see every company; other
// users only the company they belong to.
func (c *CompanyServiceImpl) List(ctx context.Context) ([]company.CompanyResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	var companies []company.Company
	if claims.IsAdmin() {
		companies, err = c.CompanyRepository.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list companies: %w", err)
		}
	} else {
		if claims.CompanyID == nil {
			return nil, user.ErrCompanyIDRequired
		}
		own, err := c.CompanyRepository.GetByID(ctx, *claims.CompanyID)
		if err != nil {
			return nil, err
		}
		companies = []company.Company{own}
	}

	resp := make([]company.CompanyResponse, 0, len(companies))
	for _, companyData := range companies {
		resp = append(resp, c.toResponse(companyData))
	}
	return resp, nil
}

// Create implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Create of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	exists, err := c.CompanyRepository.ExistsByIDOrUsername(ctx, nil, &req.Username)
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to check company username: %w", err)
	}
	if exists {
		return company.CompanyResponse{}, company.ErrCompanyUsernameExists
	}

	newCompany, err := c.CompanyRepository.Create(ctx, company.Company{
		Name:     req.Name,
		Username: req.Username,
		Address:  req.Address,
	})
	if err != nil {
		if errors.Is(err, company.ErrCompanyUsernameExists) {
			return company.CompanyResponse{}, err
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to create company: %w", err)
	}
	slog.Info("Company created", "company_id", newCompany.ID, "username", newCompany.Username)

	return c.toResponse(newCompany), nil
}

// GetByID implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).GetByID of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	companyData, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return company.CompanyResponse{}, err
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to get company by ID: %w", err)
	}
	return c.toResponse(companyData), nil
}

// Update implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Update of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}
	if err := c.CompanyRepository.Update(ctx, id, req); err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) || errors.Is(err, company.ErrNoFieldsToUpdate) {
			return company.CompanyResponse{}, err
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	return c.GetByID(ctx, id)
}

// Delete implements company.CompanyService.
func (c *CompanyServiceImpl) Delete(ctx context.Context, id string) error {
	companyData, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.CompanyRepository.Delete(ctx, id); err != nil {
		return err
	}
	if companyData.LogoURL != nil {
		if err := c.fileService.DeleteFile(ctx, *companyData.LogoURL); err != nil {
			slog.Warn("Failed to delete company logo", "company_id", id, "error", err)
		}
	}
	return nil
}

// UploadCompanyLogo implements company.CompanyService.
func (c *CompanyServiceImpl) UploadCompanyLogo(ctx context.Context, req company.UploadCompanyLogoRequest) (company.UploadCompanyLogoResponse, error) {
	if err := req.Validate(); err != nil {
		return company.UploadCompanyLogoResponse{}, err
	}

	companyData, err := c.CompanyRepository.GetByID(ctx, req.CompanyID)
	if err != nil {
		return company.UploadCompanyLogoResponse{}, err
	}

	logoPath, err := c.fileService.UploadCompanyLogo(ctx, companyData.Username, req.File, req.FileHeader.Filename)
	if err != nil {
		if errors.Is(err, company.ErrFileTypeNotAllowed) || errors.Is(err, company.ErrFileSizeExceeds) || errors.Is(err, company.ErrInvalidImage) {
			return company.UploadCompanyLogoResponse{}, err
		}
		return company.UploadCompanyLogoResponse{}, fmt.Errorf("failed to upload company logo: %w", err)
	}
	if err := c.CompanyRepository.Update(ctx, req.CompanyID, company.UpdateCompanyRequest{LogoURL: &logoPath}); err != nil {
		return company.UploadCompanyLogoResponse{}, fmt.Errorf("failed to update company logo URL: %w", err)
	}

	if companyData.LogoURL != nil && *companyData.LogoURL != logoPath {
		if err := c.fileService.DeleteFile(ctx, *companyData.LogoURL); err != nil {
			slog.Warn("Failed to delete previous company logo", "company_id", req.CompanyID, "error", err)
		}
	}

	return company.UploadCompanyLogoResponse{LogoURL: c.fileService.GetFileURL(logoPath)}, nil
}
