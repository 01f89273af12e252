package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/models"
	"github.com/familyrecipes/backend/internal/types"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z]{3,8}$`)
	digitPattern    = regexp.MustCompile(`\d`)
	specialPattern  = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const invalidCredentials = "Invalid username or password"

// AuthConfig configures session issuance.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int
}

type AuthService struct {
	db        *gorm.DB
	countries *CountryCache
	cfg       AuthConfig
}

func NewAuthService(db *gorm.DB, countries *CountryCache, cfg AuthConfig) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		db:        db,
		countries: countries,
		cfg:       cfg,
	}
}

// ValidateRegistration checks the registration form without touching storage.
func ValidateRegistration(req *types.RegisterRequest) error {
	fields := []string{req.Username, req.Firstname, req.Lastname, req.Country, req.Password, req.Email}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return apperror.Validation("", "All fields are required and must be non-empty strings.")
		}
	}
	if !usernamePattern.MatchString(req.Username) {
		return apperror.Validation("username", "Username must be 3-8 letters only.")
	}
	if n := len([]rune(req.Password)); n < 5 || n > 10 ||
		!digitPattern.MatchString(req.Password) || !specialPattern.MatchString(req.Password) {
		return apperror.Validation("password", "Password must be 5-10 characters, include at least one digit and one special character.")
	}
	if !emailPattern.MatchString(req.Email) {
		return apperror.Validation("email", "Invalid email format.")
	}
	return nil
}

// Register creates a user after validating the form and the country.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}

	ok, err := s.countries.Contains(ctx, req.Country)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Validation("country", "Invalid country.")
	}

	// Check if user already exists
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("Username taken")
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		Firstname:    strings.TrimSpace(req.Firstname),
		Lastname:     strings.TrimSpace(req.Lastname),
		Country:      req.Country,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Username taken")
		}
		return nil, err
	}
	return &user, nil
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, "", apperror.Validation("", invalidCredentials)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperror.Unauthorized(invalidCredentials)
		}
		return nil, "", err
	}

	// Compare password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperror.Unauthorized(invalidCredentials)
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GenerateToken issues a signed session token with a fresh session id.
func (s *AuthService) GenerateToken(userID int64) (string, error) {
	now := time.Now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
		UserID:    userID,
		SessionID: uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("Invalid or expired session")
	}
	if claims.UserID <= 0 || claims.SessionID == "" {
		return nil, apperror.Unauthorized("Invalid token claims")
	}
	return claims, nil
}

// GetUserByID loads a user, or NotFound.
func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// Countries returns the cached list of countries accepted at registration.
func (s *AuthService) Countries(ctx context.Context) ([]string, error) {
	return s.countries.List(ctx)
}
