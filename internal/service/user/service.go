package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
	companyRepo company.CompanyRepository
}

func NewUserService(userRepository user.UserRepository, companyRepo company.CompanyRepository) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		companyRepo:    companyRepo,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func ToUserResponse(u user.User) user.UserResponse {
	return user.UserResponse{
		ID:            u.ID,
		CompanyID:     u.CompanyID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		OAuthProvider: u.OAuthProvider,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *UserServiceImpl) ensureCompany(ctx context.Context, companyID string) error {
	exists, err := s.companyRepo.ExistsByIDOrUsername(ctx, &companyID, nil)
	if err != nil {
		return fmt.Errorf("failed to check company: %w", err)
	}
	if !exists {
		return company.ErrCompanyNotFound
	}
	return nil
}

// GetMe implements user.UserService.
func (s *UserServiceImpl) GetMe(ctx context.Context) (user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	found, err := s.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return ToUserResponse(found), nil
}

// List implements user.UserService. Non-admin callers only see users of
// their own company.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	var filter user.ListUsersFilter
	if !claims.IsAdmin() {
		if claims.CompanyID == nil {
			return nil, user.ErrCompanyIDRequired
		}
		filter.CompanyID = claims.CompanyID
	}

	users, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, ToUserResponse(u))
	}
	return resp, nil
}

// Create implements user.UserService.
// Subtle: this method shadows the method (UserRepository).Create of UserServiceImpl.UserRepository.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	exists, err := s.UserRepository.ExistsByIDOrEmail(ctx, nil, &req.Email)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check user email: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrUserEmailExists
	}

	role := user.Role(req.Role)
	companyID := req.CompanyID
	if role == user.RoleAdmin {
		companyID = nil
	} else if err := s.ensureCompany(ctx, *companyID); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		CompanyID:    companyID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}
	return ToUserResponse(created), nil
}

// Update implements user.UserService.
// Subtle: this method shadows the method (UserRepository).Update of UserServiceImpl.UserRepository.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	role := existing.Role
	if req.Role != nil {
		role = user.Role(*req.Role)
	}
	companyID := existing.CompanyID
	if req.CompanyID != nil {
		companyID = req.CompanyID
		if err := s.ensureCompany(ctx, *req.CompanyID); err != nil {
			return user.UserResponse{}, err
		}
	}
	if role != user.RoleAdmin && companyID == nil {
		return user.UserResponse{}, user.ErrCompanyIDRequired
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, err
		}
		passwordHash = &hash
	}

	updated, err := s.UserRepository.Update(ctx, req.ID, passwordHash, req)
	if err != nil {
		return user.UserResponse{}, err
	}
	return ToUserResponse(updated), nil
}

// Delete implements user.UserService.
// Subtle: this method shadows the method (UserRepository).Delete of UserServiceImpl.UserRepository.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if claims.UserID == id {
		return user.ErrCannotDeleteSelf
	}
	return s.UserRepository.Delete(ctx, id)
}
