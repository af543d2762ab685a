package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

const validSignup = `{"first_name":"Ann","last_name":"Lee","address":"1 Main St","phone":"0903682439","email":"ann@gmail.com","password":"secret"}`

func TestAuthHandler_Signup_Success(t *testing.T) {
	accounts := &stubAccountService{
		signUpFn: func(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
			if draft.Email != "ann@gmail.com" || draft.Password != "secret" {
				t.Fatalf("unexpected draft: %+v", draft)
			}
			if draft.Role != domain.RoleUser {
				t.Fatalf("signup must request USER role, got %q", draft.Role)
			}
			return &domain.Account{ID: 3, Email: draft.Email, FirstName: draft.FirstName, Role: domain.RoleUser, Enabled: true}, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, accounts)

	c, rec := newTestContext(http.MethodPost, "/auth/signup", strings.NewReader(validSignup))
	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	account, ok := resp["account"].(map[string]any)
	if !ok {
		t.Fatalf("expected account in response")
	}
	if account["email"] != "ann@gmail.com" || account["role"] != "USER" {
		t.Fatalf("unexpected account payload: %+v", account)
	}
	if _, leaked := account["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Signup_EmailTaken(t *testing.T) {
	accounts := &stubAccountService{
		signUpFn: func(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
			return nil, &domain.ConflictError{Reason: domain.ReasonEmailAlreadyTaken, Value: draft.Email}
		},
	}
	h := NewAuthHandler(&stubAuthService{}, accounts)

	c, _ := newTestContext(http.MethodPost, "/auth/signup", strings.NewReader(validSignup))
	err := h.Signup(c)
	if !errors.Is(err, domain.ErrEmailAlreadyTaken) {
		t.Fatalf("expected ErrEmailAlreadyTaken, got %v", err)
	}
}

func TestAuthHandler_Signup_MissingField(t *testing.T) {
	accounts := &stubAccountService{
		signUpFn: func(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, accounts)

	c, _ := newTestContext(http.MethodPost, "/auth/signup", strings.NewReader(`{"email":"ann@gmail.com","password":"x"}`))
	err := h.Signup(c)
	mustStatus(t, err, http.StatusBadRequest)
	if !strings.Contains(err.Error(), "first_name is required") {
		t.Fatalf("expected json field name in message, got %v", err)
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubAccountService{})

	c, _ := newTestContext(http.MethodPost, "/auth/signup", strings.NewReader("not-json"))
	mustStatus(t, h.Signup(c), http.StatusBadRequest)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Account, error) {
			if email != "admin@gmail.com" || password != "admin" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.Account{ID: 1, Email: email, Role: domain.RoleAdmin, Enabled: true}, nil
		},
	}
	h := NewAuthHandler(auth, &stubAccountService{})

	c, rec := newTestContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@gmail.com","password":"admin"}`))
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	account, ok := resp["account"].(map[string]any)
	if !ok || account["role"] != "ADMIN" {
		t.Fatalf("unexpected account payload: %+v", resp["account"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Account, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(auth, &stubAccountService{})

	c, _ := newTestContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@gmail.com","password":"bad"}`))
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Account, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(auth, &stubAccountService{})

	c, _ := newTestContext(http.MethodPost, "/auth/login", strings.NewReader("{"))
	mustStatus(t, h.Login(c), http.StatusBadRequest)
}
