package company

import (
	"context"
)

type CompanyService interface {
	List(ctx context.Context) ([]CompanyResponse, error)
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, id string) error
	UploadCompanyLogo(ctx context.Context, req UploadCompanyLogoRequest) (UploadCompanyLogoResponse, error)
}
