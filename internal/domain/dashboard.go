package domain

import (
	"gopkg.in/guregu/null.v4"
)

// AdminDashboard is the body of GET /admin/dashboard.
type AdminDashboard struct {
	TotalLots      int                `json:"total_lots"`
	TotalSpots     int                `json:"total_spots"`
	AvailableSpots int                `json:"available_spots"`
	OccupiedSpots  int                `json:"occupied_spots"`
	TotalUsers     int                `json:"total_users"`
	TotalRevenue   float64            `json:"total_revenue"`
	Lots           []Lot              `json:"lots"`
	Reservations   []AdminReservation `json:"reservations"`
}

func (d *AdminDashboard) Validate() error {
	if d.Lots == nil {
		return missingField("lots")
	}
	if d.Reservations == nil {
		return missingField("reservations")
	}
	return nil
}

// RecentReservation is an entry of the user dashboard's short history.
type RecentReservation struct {
	Lot    string      `json:"lot"`
	SpotID int         `json:"spot_id"`
	Start  string      `json:"start"`
	End    null.String `json:"end"`
	Cost   null.Float  `json:"cost"`
}

// UserDashboard is the body of GET /user/dashboard. ActiveReservation is nil
// when the user holds no spot.
type UserDashboard struct {
	ActiveReservation *ActiveReservation  `json:"active_reservations"`
	TotalReservations int                 `json:"total_reservations"`
	TotalAmountSpent  float64             `json:"total_amount_spent"`
	RecentHistory     []RecentReservation `json:"recent_history"`
}

// Card is one summary tile on a dashboard.
type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
}
