package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	validator "github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/agricart-api/internal/common"
	"github.com/noah-isme/agricart-api/internal/pricing"
	"github.com/noah-isme/agricart-api/internal/session"
	"github.com/noah-isme/agricart-api/internal/storage"
	"github.com/noah-isme/agricart-api/internal/user"
)

func newUserService(t *testing.T) *user.Service {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := storage.NewStore(client, zerolog.Nop(), time.Hour)
	return &user.Service{Store: store, Validate: validator.New()}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected app error, got %v", err)
	}
	return appErr.Code
}

func TestSeededDemoAccountsCanLogIn(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	account, err := svc.Login(ctx, "business_user", "password123")
	if err != nil {
		t.Fatalf("login business_user: %v", err)
	}
	if account.Role != pricing.RoleBusiness {
		t.Fatalf("unexpected role %q", account.Role)
	}

	account, err = svc.Login(ctx, "customer_user", "password456")
	if err != nil {
		t.Fatalf("login customer_user: %v", err)
	}
	if account.Role != pricing.RoleCustomer {
		t.Fatalf("unexpected role %q", account.Role)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newUserService(t)
	_, err := svc.Login(context.Background(), "business_user", "wrong")
	if code := appCode(t, err); code != "INVALID_CREDENTIALS" {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc := newUserService(t)
	_, err := svc.Login(context.Background(), "nobody", "password123")
	if code := appCode(t, err); code != "INVALID_CREDENTIALS" {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, user.RegisterInput{
		Username:     "farmshop",
		Password:     "secret123",
		Role:         "business",
		BusinessType: "self",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if account.Role != pricing.RoleBusiness || account.BusinessType != "self" {
		t.Fatalf("unexpected account %+v", account)
	}
	if account.PasswordHash == "" || account.PasswordHash == "secret123" {
		t.Fatal("password must be stored hashed")
	}

	if _, err := svc.Login(ctx, "farmshop", "secret123"); err != nil {
		t.Fatalf("login after register: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	cases := map[string]user.RegisterInput{
		"short username":           {Username: "ab", Password: "secret123", Role: "customer"},
		"short password":           {Username: "valid", Password: "12345", Role: "customer"},
		"bad role":                 {Username: "valid", Password: "secret123", Role: "admin"},
		"business without type":    {Username: "valid", Password: "secret123", Role: "business"},
		"business with wrong type": {Username: "valid", Password: "secret123", Role: "business", BusinessType: "franchise"},
	}
	for name, input := range cases {
		_, err := svc.Register(ctx, input)
		if err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		if code := appCode(t, err); code != "VALIDATION_ERROR" {
			t.Fatalf("%s: unexpected code %q", name, code)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	input := user.RegisterInput{Username: "repeat", Password: "secret123", Role: "customer"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, input)
	if code := appCode(t, err); code != "USERNAME_TAKEN" {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestFederatedSignInProvisionsCustomer(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	claims := session.IdentityClaims{Email: "Jane@Example.com", Name: "Jane", Picture: "p.png"}
	account, err := svc.FederatedSignIn(ctx, claims)
	if err != nil {
		t.Fatalf("federated sign-in: %v", err)
	}
	if account.Username != "jane" || account.Email != "jane@example.com" {
		t.Fatalf("unexpected account %+v", account)
	}
	if account.Role != pricing.RoleCustomer || account.AuthMethod != "google" {
		t.Fatalf("unexpected provisioning %+v", account)
	}

	// second sign-in resolves the same account
	again, err := svc.FederatedSignIn(ctx, claims)
	if err != nil {
		t.Fatalf("repeat sign-in: %v", err)
	}
	if again.Username != account.Username {
		t.Fatalf("expected existing account, got %+v", again)
	}
}

func TestFederatedAccountCannotPasswordLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	if _, err := svc.FederatedSignIn(ctx, session.IdentityClaims{Email: "jane@example.com"}); err != nil {
		t.Fatalf("federated sign-in: %v", err)
	}
	_, err := svc.Login(ctx, "jane", "anything")
	if code := appCode(t, err); code != "INVALID_CREDENTIALS" {
		t.Fatalf("unexpected code %q", code)
	}
}
