package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/internal/auth"
	"github.com/Zwubman/team-work-supply-tracker/internal/users"
	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
)

type testAuthService struct {
	registerFn func(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error)
	loginFn    func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

func (s *testAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, req)
	}
	return nil, nil
}

func (s *testAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return nil, nil
}

func TestAuthRegisterSuccess(t *testing.T) {
	svc := &testAuthService{
		registerFn: func(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
			if req.Email != "new@example.com" {
				t.Fatalf("unexpected email %s", req.Email)
			}
			return &auth.RegisterResponse{User: &users.UserDTO{ID: uuid.New(), Email: req.Email}}, nil
		},
	}

	body := `{"name":"New User","email":"new@example.com","password":"secret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	body := `{"name":"New User","email":"new@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(&testAuthService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &testAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			return &auth.LoginResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				User:         &users.UserDTO{ID: uuid.New(), Email: req.Email},
			}, nil
		},
	}

	body := `{"email":"user@example.com","password":"secret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.AccessToken != "access" {
		t.Fatalf("unexpected token payload %+v", envelope.Data)
	}
}

func TestAuthLoginMapsUnauthorized(t *testing.T) {
	svc := &testAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		},
	}

	body := `{"email":"user@example.com","password":"wrong-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
