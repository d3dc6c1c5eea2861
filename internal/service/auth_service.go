package service

import (
	"context"
	"net/http"

	"github.com/rathinsam/Vehicle-Parking-app/internal/apiclient"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

// Doer is the part of the API client the services need.
type Doer interface {
	Do(ctx context.Context, req apiclient.Request, out any) error
}

type AuthService struct {
	api Doer
}

func NewAuthService(api Doer) *AuthService {
	return &AuthService{api: api}
}

// POST /login
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/login", Body: creds}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// POST /register
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (*domain.MessageResponse, error) {
	var resp domain.MessageResponse
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/register", Body: creds}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
