package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rathinsam/Vehicle-Parking-app/internal/apiclient"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

// ParkingService wraps every authenticated endpoint of the parking backend.
type ParkingService struct {
	api Doer
}

func NewParkingService(api Doer) *ParkingService {
	return &ParkingService{api: api}
}

func (s *ParkingService) get(ctx context.Context, path string, out any) error {
	return s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: path, RequiresAuth: true}, out)
}

func (s *ParkingService) send(ctx context.Context, method, path, route string, body any) (*domain.MessageResponse, error) {
	var resp domain.MessageResponse
	req := apiclient.Request{Method: method, Path: path, Route: route, Body: body, RequiresAuth: true}
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Admin ---

// GET /admin/dashboard
func (s *ParkingService) AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error) {
	var d domain.AdminDashboard
	if err := s.get(ctx, "/admin/dashboard", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GET /admin/reservations
func (s *ParkingService) AdminReservations(ctx context.Context) ([]domain.AdminReservation, error) {
	var resp domain.AdminReservationsResponse
	if err := s.get(ctx, "/admin/reservations", &resp); err != nil {
		return nil, err
	}
	return resp.Reservations, nil
}

// GET /admin/lots
func (s *ParkingService) AdminLots(ctx context.Context) ([]domain.Lot, error) {
	var resp domain.LotsResponse
	if err := s.get(ctx, "/admin/lots", &resp); err != nil {
		return nil, err
	}
	return resp.Lots, nil
}

// POST /admin/lots
func (s *ParkingService) CreateLot(ctx context.Context, in domain.LotInput) (*domain.MessageResponse, error) {
	return s.send(ctx, http.MethodPost, "/admin/lots", "", in)
}

// PUT /admin/lots/:id sends the lot exactly as given.
func (s *ParkingService) UpdateLot(ctx context.Context, lot domain.Lot) (*domain.MessageResponse, error) {
	return s.send(ctx, http.MethodPut, fmt.Sprintf("/admin/lots/%d", lot.ID), "/admin/lots/:id", lot)
}

// DELETE /admin/lots/:id
func (s *ParkingService) DeleteLot(ctx context.Context, id int) (*domain.MessageResponse, error) {
	return s.send(ctx, http.MethodDelete, fmt.Sprintf("/admin/lots/%d", id), "/admin/lots/:id", nil)
}

// --- User ---

// GET /user/lots
func (s *ParkingService) UserLots(ctx context.Context) ([]domain.Lot, error) {
	var resp domain.LotsResponse
	if err := s.get(ctx, "/user/lots", &resp); err != nil {
		return nil, err
	}
	return resp.Lots, nil
}

// GET /user/dashboard
func (s *ParkingService) UserDashboard(ctx context.Context) (*domain.UserDashboard, error) {
	var d domain.UserDashboard
	if err := s.get(ctx, "/user/dashboard", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// POST /user/reserve/:lotId
func (s *ParkingService) Reserve(ctx context.Context, lotID int) (*domain.ReserveResponse, error) {
	var resp domain.ReserveResponse
	req := apiclient.Request{
		Method:       http.MethodPost,
		Path:         fmt.Sprintf("/user/reserve/%d", lotID),
		Route:        "/user/reserve/:lotId",
		RequiresAuth: true,
	}
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// POST /user/release
func (s *ParkingService) Release(ctx context.Context) (*domain.ReleaseResponse, error) {
	var resp domain.ReleaseResponse
	req := apiclient.Request{Method: http.MethodPost, Path: "/user/release", RequiresAuth: true}
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GET /user/reservations
func (s *ParkingService) UserHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	var resp domain.HistoryResponse
	if err := s.get(ctx, "/user/reservations", &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// POST /user/export
func (s *ParkingService) Export(ctx context.Context) (*domain.MessageResponse, error) {
	return s.send(ctx, http.MethodPost, "/user/export", "", nil)
}
