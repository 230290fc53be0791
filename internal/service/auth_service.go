package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/interview-trainer-api/internal/dto"
	"github.com/noah-isme/interview-trainer-api/internal/models"
	"github.com/noah-isme/interview-trainer-api/internal/repository"
)

var (
	// ErrDuplicateAccount indicates the username or email is already registered.
	ErrDuplicateAccount = errors.New("username or email already exists")
	// ErrInvalidCredentials indicates the email/password pair did not match an account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidUsername indicates the username contains markup.
	ErrInvalidUsername = errors.New("invalid username")
)

// AuthService handles account registration, login and API token issuing.
type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.UserResponse, error)
	IssueToken(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	secret    []byte
	tokenTTL  time.Duration
	hashCost  int
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &authService{
		users:     users,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		hashCost:  bcrypt.DefaultCost,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (dto.UserResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	// StrictPolicy escapes entities, so only removed markup changes the name.
	username := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(req.Username)))
	if username == "" || username != req.Username {
		return dto.UserResponse{}, ErrInvalidUsername
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, req.Email)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if exists {
		return dto.UserResponse{}, ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    req.Email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrDuplicateAccount
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user registered")
	return dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.UserResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrInvalidCredentials
		}
		return dto.UserResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return dto.UserResponse{}, ErrInvalidCredentials
	}

	return dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

func (s *authService) IssueToken(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	user, err := s.Login(ctx, req)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return dto.TokenResponse{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expiresAt.UTC()}, nil
}
