package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/agricart-api/internal/common"
	"github.com/noah-isme/agricart-api/internal/pricing"
	"github.com/noah-isme/agricart-api/internal/session"
	"github.com/noah-isme/agricart-api/internal/storage"
)

// Account is one stored user. Accounts provisioned through an external
// sign-in provider carry no password hash.
type Account struct {
	Username     string       `json:"username"`
	Email        string       `json:"email,omitempty"`
	PasswordHash string       `json:"passwordHash,omitempty"`
	Role         pricing.Role `json:"role"`
	BusinessType string       `json:"businessType,omitempty"`
	Name         string       `json:"name,omitempty"`
	Picture      string       `json:"picture,omitempty"`
	AuthMethod   string       `json:"authMethod,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// RegisterInput is the payload for account creation. Business accounts must
// state whether they are for personal business use or a company.
type RegisterInput struct {
	Username     string `json:"username" validate:"required,min=3"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         string `json:"role" validate:"required,oneof=business customer"`
	BusinessType string `json:"businessType" validate:"required_if=Role business,omitempty,oneof=self business"`
}

// Service manages the account list persisted under the user-accounts key.
// The list is shared by all sessions; writes are last-writer-wins like the
// rest of the store.
type Service struct {
	Store    *storage.Store
	Validate *validator.Validate
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// seedAccounts returns the demo accounts provisioned on first use.
func (s *Service) seedAccounts() ([]Account, error) {
	demo := []struct {
		username string
		password string
		role     pricing.Role
	}{
		{"business_user", "password123", pricing.RoleBusiness},
		{"customer_user", "password456", pricing.RoleCustomer},
	}
	accounts := make([]Account, 0, len(demo))
	for _, d := range demo {
		hash, err := argon2id.CreateHash(d.password, argon2id.DefaultParams)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		accounts = append(accounts, Account{
			Username:     d.username,
			PasswordHash: hash,
			Role:         d.role,
			CreatedAt:    s.now(),
		})
	}
	return accounts, nil
}

func (s *Service) load(ctx context.Context) ([]Account, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("user service not configured")
	}
	var accounts []Account
	ok, err := s.Store.GetJSON(ctx, storage.UserAccountsKey, &accounts)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if !ok {
		accounts, err = s.seedAccounts()
		if err != nil {
			return nil, err
		}
		if err := s.Store.SetJSON(ctx, storage.UserAccountsKey, accounts); err != nil {
			return nil, fmt.Errorf("persist seed accounts: %w", err)
		}
	}
	return accounts, nil
}

func (s *Service) save(ctx context.Context, accounts []Account) error {
	return s.Store.SetJSON(ctx, storage.UserAccountsKey, accounts)
}

// Register creates a new account. Duplicate usernames are rejected.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Account, error) {
	if s == nil || s.Store == nil || s.Validate == nil {
		return Account{}, errors.New("user service not configured")
	}
	input.Username = strings.TrimSpace(input.Username)
	if err := s.Validate.Struct(input); err != nil {
		return Account{}, common.NewAppError("VALIDATION_ERROR", "invalid registration details", http.StatusBadRequest, err)
	}

	accounts, err := s.load(ctx)
	if err != nil {
		return Account{}, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Username, input.Username) {
			return Account{}, common.NewAppError("USERNAME_TAKEN", "username already exists", http.StatusConflict, nil)
		}
	}

	hash, err := argon2id.CreateHash(input.Password, argon2id.DefaultParams)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}
	account := Account{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         pricing.Role(input.Role),
		CreatedAt:    s.now(),
	}
	if account.Role == pricing.RoleBusiness {
		account.BusinessType = input.BusinessType
	}
	if err := s.save(ctx, append(accounts, account)); err != nil {
		return Account{}, fmt.Errorf("persist accounts: %w", err)
	}
	return account, nil
}

// Login verifies credentials. Failures are reported uniformly without
// disclosing whether the username exists.
func (s *Service) Login(ctx context.Context, username, password string) (Account, error) {
	if s == nil || s.Store == nil {
		return Account{}, errors.New("user service not configured")
	}
	invalid := common.NewAppError("INVALID_CREDENTIALS", "invalid username or password", http.StatusUnauthorized, nil)
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Account{}, invalid
	}
	accounts, err := s.load(ctx)
	if err != nil {
		return Account{}, err
	}
	for _, a := range accounts {
		if !strings.EqualFold(a.Username, username) {
			continue
		}
		if a.PasswordHash == "" {
			// provider-backed account, no password login
			return Account{}, invalid
		}
		ok, err := argon2id.ComparePasswordAndHash(password, a.PasswordHash)
		if err != nil || !ok {
			return Account{}, invalid
		}
		return a, nil
	}
	return Account{}, invalid
}

// FederatedSignIn resolves an account for externally asserted identity
// claims, provisioning a customer account on first sight. The claims are
// trusted as presented; see session.DecodeIdentity.
func (s *Service) FederatedSignIn(ctx context.Context, claims session.IdentityClaims) (Account, error) {
	if s == nil || s.Store == nil {
		return Account{}, errors.New("user service not configured")
	}
	email := strings.TrimSpace(strings.ToLower(claims.Email))
	if email == "" {
		return Account{}, common.ValidationError("identity claims carry no email")
	}
	accounts, err := s.load(ctx)
	if err != nil {
		return Account{}, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Email, email) || strings.EqualFold(a.Username, email) {
			return a, nil
		}
	}

	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}
	account := Account{
		Username:   username,
		Email:      email,
		Role:       pricing.RoleCustomer,
		Name:       claims.Name,
		Picture:    claims.Picture,
		AuthMethod: "google",
		CreatedAt:  s.now(),
	}
	if err := s.save(ctx, append(accounts, account)); err != nil {
		return Account{}, fmt.Errorf("persist accounts: %w", err)
	}
	return account, nil
}
