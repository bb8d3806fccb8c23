package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrMissingClaims = errors.New("token claims missing or malformed")

type Service interface {
	GenerateAccessToken(userID string, email string, companyID *string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	secureCookie           bool
	tokenAuth              *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds an HS256 token service. Expirations are Go duration
// strings such as "1h" or "168h".
func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, secureCookie bool) (Service, error) {
	access, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	refresh, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpiration:  access,
		refreshTokenExpiration: refresh,
		secureCookie:           secureCookie,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, companyID *string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}
	if companyID != nil {
		claims["company_id"] = *companyID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.refreshTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// Claims is the typed view of an access token.
type Claims struct {
	UserID    string
	Email     string
	CompanyID *string
	Role      user.Role
}

func (c Claims) IsAdmin() bool {
	return c.Role == user.RoleAdmin
}

// CanAccessCompany mirrors user.User.CanAccessCompany for token holders.
func (c Claims) CanAccessCompany(companyID string) bool {
	if c.IsAdmin() {
		return true
	}
	return c.CompanyID != nil && *c.CompanyID == companyID
}

// ClaimsFromContext reads the verified token that jwtauth.Verifier stored on ctx.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	return claimsFromMap(claims)
}

func claimsFromMap(claims map[string]interface{}) (Claims, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, ErrMissingClaims
	}
	role, ok := claims["role"].(string)
	if !ok {
		return Claims{}, ErrMissingClaims
	}
	email, _ := claims["email"].(string)

	result := Claims{
		UserID: userID,
		Email:  email,
		Role:   user.Role(role),
	}
	if companyID, ok := claims["company_id"].(string); ok && companyID != "" {
		result.CompanyID = &companyID
	}
	return result, nil
}
