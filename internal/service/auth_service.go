package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrAccountNotFound    = errors.New("no account found with this email")
	ErrInvalidToken       = errors.New("invalid token")

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
)

// AuthPolicy captures the sign-in rules: valid email format, non-admin
// accounts restricted to one mail domain, and a single configured admin
// credential that bypasses both the domain restriction and the stored
// account lookup.
type AuthPolicy struct {
	AdminEmail    string
	AdminPassword string
	SignupDomain  string
}

type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (*model.User, string, error)
	SignIn(ctx context.Context, email, password string) (*model.User, string, error)
	UpdateProfile(ctx context.Context, email, name, avatar string) (*model.User, error)
	AllUsers(ctx context.Context) ([]model.User, error)
	ParseToken(token string) (*model.User, error)
}

type authService struct {
	users    store.UserStore
	policy   AuthPolicy
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users store.UserStore, policy AuthPolicy, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		users:    users,
		policy:   policy,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, name, email, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, "", errors.New("name is required")
	}
	if err := s.validateEmail(email); err != nil {
		return nil, "", err
	}
	if password == "" {
		return nil, "", errors.New("password is required")
	}
	if _, err := s.users.Find(ctx, email); err == nil {
		return nil, "", ErrAccountExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	account := model.Account{
		User: model.User{
			Name:   name,
			Email:  email,
			Avatar: avatarFor(name),
			Role:   model.RoleUser,
		},
		PasswordHash: string(hash),
	}
	if err := s.users.Save(ctx, account); err != nil {
		return nil, "", err
	}
	return s.issue(account.User)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, "", errors.New("please enter a valid email address")
	}

	// The configured admin credential short-circuits the account lookup.
	if email == strings.ToLower(s.policy.AdminEmail) {
		if password != s.policy.AdminPassword {
			return nil, "", ErrInvalidCredentials
		}
		admin := model.User{
			Name:   "Administrator",
			Email:  email,
			Avatar: avatarFor("Admin"),
			Role:   model.RoleAdmin,
		}
		return s.issue(admin)
	}

	account, err := s.users.Find(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrAccountNotFound
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	return s.issue(account.User)
}

func (s *authService) UpdateProfile(ctx context.Context, email, name, avatar string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	account, err := s.users.Find(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	account.Name = name
	if avatar != "" {
		account.Avatar = avatar
	}
	if err := s.users.Save(ctx, *account); err != nil {
		return nil, err
	}
	user := account.User
	return &user, nil
}

func (s *authService) AllUsers(ctx context.Context) ([]model.User, error) {
	accounts, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, a.User)
	}
	return users, nil
}

type sessionClaims struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) issue(user model.User) (*model.User, string, error) {
	now := s.now().UTC()
	claims := &sessionClaims{
		Name:   user.Name,
		Avatar: user.Avatar,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Issuer:    "swapmarket",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return &user, token, nil
}

func (s *authService) ParseToken(tokenStr string) (*model.User, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &model.User{
		Name:   claims.Name,
		Email:  claims.Subject,
		Avatar: claims.Avatar,
		Role:   model.Role(claims.Role),
	}, nil
}

func (s *authService) validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errors.New("please enter a valid email address")
	}
	// The admin identity never lives in the user store; signing in with it
	// bypasses the lookup, so an account under its email would be
	// unreachable.
	if email == strings.ToLower(s.policy.AdminEmail) {
		return ErrAccountExists
	}
	if s.policy.SignupDomain != "" && !strings.HasSuffix(email, "@"+s.policy.SignupDomain) {
		return fmt.Errorf("please use a @%s address", s.policy.SignupDomain)
	}
	return nil
}

func avatarFor(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(seed)
}
