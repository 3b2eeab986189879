package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/models"
	"campustrack-backend/internal/repository"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService struct {
	studentRepo   *repository.StudentRepo
	professorRepo *repository.ProfessorRepo
	redis         *redis.Client
	jwt           *middleware.JWTAuth
	email         *EmailService
}

func NewAuthService(studentRepo *repository.StudentRepo, professorRepo *repository.ProfessorRepo, redisClient *redis.Client, jwt *middleware.JWTAuth, email *EmailService) *AuthService {
	return &AuthService{
		studentRepo:   studentRepo,
		professorRepo: professorRepo,
		redis:         redisClient,
		jwt:           jwt,
		email:         email,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthAccount is the role-independent view the auth flow works with.
type AuthAccount struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*AuthAccount, *models.AuthTokens, error) {
	// Validate all fields at once
	fieldErrors := make(map[string]string)

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != middleware.RoleStudent && role != middleware.RoleProfessor {
		fieldErrors["role"] = "Role must be student or professor"
	}
	if req.FirstName == "" {
		fieldErrors["first_name"] = "First name is required"
	}
	if req.LastName == "" {
		fieldErrors["last_name"] = "Last name is required"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if err := validatePassword(req.Password); err != nil {
		fieldErrors["password"] = err.Error()
	}

	if len(fieldErrors) > 0 {
		return nil, nil, &ValidationError{Fields: fieldErrors}
	}

	// Check uniqueness within the role's table
	if _, err := s.lookupByEmail(ctx, role, req.Email); err == nil {
		return nil, nil, &ConflictError{Message: "Email already in use"}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	// Hash password (bcrypt cost 12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &AuthAccount{
		Role:      role,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	switch role {
	case middleware.RoleStudent:
		student := &models.Student{
			Email:        req.Email,
			PasswordHash: string(hash),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		}
		if err := s.studentRepo.Create(ctx, student); err != nil {
			return nil, nil, err
		}
		account.ID = student.ID
	case middleware.RoleProfessor:
		professor := &models.Professor{
			Email:        req.Email,
			PasswordHash: string(hash),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		}
		if err := s.professorRepo.Create(ctx, professor); err != nil {
			return nil, nil, err
		}
		account.ID = professor.ID
	}

	go s.email.SendWelcomeEmail(account.Email, account.FirstName)

	tokens, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*AuthAccount, *models.AuthTokens, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != middleware.RoleStudent && role != middleware.RoleProfessor {
		return nil, nil, &ValidationError{Fields: map[string]string{"role": "Role must be student or professor"}}
	}

	account, err := s.lookupByEmail(ctx, role, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, &UnauthorizedError{Message: "Invalid email or password"}
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.passwordHash), []byte(req.Password)); err != nil {
		return nil, nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	tokens, err := s.issueTokens(ctx, &account.AuthAccount)
	if err != nil {
		return nil, nil, err
	}
	return &account.AuthAccount, tokens, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	stored, err := s.redis.Get(ctx, "refresh:"+refreshToken).Result()
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token. Please log in again."}
	}

	// Stored as "<user_id>|<role>" so refresh does not need a table lookup
	// to know which table the account lives in.
	userIDStr, role, ok := strings.Cut(stored, "|")
	if !ok {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token. Please log in again."}
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	// Delete old token (rotation)
	s.redis.Del(ctx, "refresh:"+refreshToken)

	account, err := s.lookupByID(ctx, role, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Account no longer exists"}
		}
		return nil, err
	}

	return s.issueTokens(ctx, account)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.redis.Del(ctx, "refresh:"+refreshToken).Err()
}

// Me resolves the authenticated account for profile responses.
func (s *AuthService) Me(ctx context.Context, role string, userID uuid.UUID) (*AuthAccount, error) {
	account, err := s.lookupByID(ctx, role, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Account not found"}
		}
		return nil, err
	}
	return account, nil
}

type credentialedAccount struct {
	AuthAccount
	passwordHash string
}

func (s *AuthService) lookupByEmail(ctx context.Context, role, email string) (*credentialedAccount, error) {
	switch role {
	case middleware.RoleProfessor:
		p, err := s.professorRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &credentialedAccount{
			AuthAccount:  AuthAccount{ID: p.ID, Role: role, Email: p.Email, FirstName: p.FirstName, LastName: p.LastName},
			passwordHash: p.PasswordHash,
		}, nil
	default:
		st, err := s.studentRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &credentialedAccount{
			AuthAccount:  AuthAccount{ID: st.ID, Role: middleware.RoleStudent, Email: st.Email, FirstName: st.FirstName, LastName: st.LastName},
			passwordHash: st.PasswordHash,
		}, nil
	}
}

func (s *AuthService) lookupByID(ctx context.Context, role string, id uuid.UUID) (*AuthAccount, error) {
	switch role {
	case middleware.RoleProfessor:
		p, err := s.professorRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &AuthAccount{ID: p.ID, Role: role, Email: p.Email, FirstName: p.FirstName, LastName: p.LastName}, nil
	default:
		st, err := s.studentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &AuthAccount{ID: st.ID, Role: middleware.RoleStudent, Email: st.Email, FirstName: st.FirstName, LastName: st.LastName}, nil
	}
}

func (s *AuthService) issueTokens(ctx context.Context, account *AuthAccount) (*models.AuthTokens, error) {
	accessToken, err := s.jwt.GenerateAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateToken(64)
	if err != nil {
		return nil, err
	}

	value := account.ID.String() + "|" + account.Role
	if err := s.redis.Set(ctx, "refresh:"+refreshToken, value, refreshTokenTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    900,
	}, nil
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func validatePassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("Password must be at least 8 characters")
	}
	hasNumber := false
	for _, ch := range pw {
		if unicode.IsDigit(ch) {
			hasNumber = true
			break
		}
	}
	if !hasNumber {
		return fmt.Errorf("Password must contain at least one number")
	}
	return nil
}
