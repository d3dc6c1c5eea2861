package domain

import (
	"gopkg.in/guregu/null.v4"
)

// AdminReservation is one row of the admin reservation tables.
type AdminReservation struct {
	ReservationID int         `json:"reservation_id"`
	Username      string      `json:"username"`
	Lot           string      `json:"lot"`
	SpotID        int         `json:"spot_id"`
	Start         string      `json:"start"`
	End           null.String `json:"end"`
	Cost          float64     `json:"cost"`
}

type AdminReservationsResponse struct {
	Reservations []AdminReservation `json:"reservations"`
}

func (r *AdminReservationsResponse) Validate() error {
	if r.Reservations == nil {
		return missingField("reservations")
	}
	return nil
}

// ActiveReservation is the single spot a user currently holds.
type ActiveReservation struct {
	LotName     string `json:"lot_name"`
	SpotID      int    `json:"spot_id"`
	ParkedSince string `json:"parked_since"`
}

// HistoryEntry is one reservation from GET /user/reservations. Cost and
// LeavingTime are null while the reservation is still active.
type HistoryEntry struct {
	ReservationID int         `json:"reservation_id"`
	SpotID        int         `json:"spot_id"`
	LotName       string      `json:"lot_name"`
	ParkingTime   string      `json:"parking_time"`
	LeavingTime   null.String `json:"leaving_time"`
	Cost          null.Float  `json:"cost"`
}

type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

func (r *HistoryResponse) Validate() error {
	if r.History == nil {
		return missingField("history")
	}
	return nil
}

type ReserveResponse struct {
	Message       string `json:"message"`
	SpotID        int    `json:"spot_id"`
	ReservationID int    `json:"reservation_id"`
}

func (r *ReserveResponse) Validate() error {
	if r.SpotID == 0 {
		return missingField("spot_id")
	}
	return nil
}

type ReleaseResponse struct {
	Message string     `json:"message"`
	Cost    null.Float `json:"cost"`
}

func (r *ReleaseResponse) Validate() error {
	if !r.Cost.Valid {
		return missingField("cost")
	}
	return nil
}
