package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewUser is the input for creating an account.
type NewUser struct {
	Username string `json:"username" binding:"required,min=3"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin reviewer member"`
}

// AuthService signs users in and verifies their tokens.
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, apperror.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("[Login] bad password for %s", user.Username)
		return "", nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.IssueToken(models.Identity{UserID: user.ID, Name: user.Name, Role: user.Role})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) IssueToken(id models.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: id.UserID,
		Name:   id.Name,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns the caller it names.
func (s *AuthService) ParseToken(tokenString string) (models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, apperror.Unauthorized("Invalid or expired token")
	}
	if claims.UserID == "" {
		return models.Identity{}, apperror.Unauthorized("Invalid token claims")
	}
	return models.Identity{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

func (s *AuthService) Me(ctx context.Context, actor models.Identity) (*models.User, error) {
	user, err := s.users.Get(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("user not found")
	}
	return user, err
}

// CreateUser adds an account. Only admins may do this.
func (s *AuthService) CreateUser(ctx context.Context, actor models.Identity, in NewUser) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("admin role required")
	}
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, apperror.InvalidOperation("username %s is already taken", in.Username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return s.createUser(ctx, in)
}

func (s *AuthService) createUser(ctx context.Context, in NewUser) (*models.User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: in.Username, Name: in.Name, PasswordHash: hash, Role: in.Role}
	user.SetID(uuid.NewString())
	user.Stamp(time.Now())
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Printf("[CreateUser] created %s with role %s", user.Username, user.Role)
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx, query.Query{Sort: []query.SortKey{query.Asc("username")}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	_, err = s.createUser(ctx, NewUser{Username: username, Name: "Administrator", Password: password, Role: models.RoleAdmin})
	return err
}
