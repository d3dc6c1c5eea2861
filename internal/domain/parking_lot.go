package domain

import (
	"gopkg.in/guregu/null.v4"
)

// Lot is a parking facility as the backend reports it. Available and Occupied are
// only filled by the endpoints that compute them.
type Lot struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Address        string      `json:"address"`
	PinCode        null.String `json:"pin_code"`
	Price          float64     `json:"price"`
	TotalSpots     int         `json:"total_spots,omitempty"`
	Available      int         `json:"available,omitempty"`
	Occupied       int         `json:"occupied,omitempty"`
	AvailableSpots int         `json:"available_spots,omitempty"`
}

// LotForm holds the raw, unparsed inputs of the "add lot" form.
type LotForm struct {
	Name       string `json:"name" form:"name"`
	Address    string `json:"address" form:"address"`
	PinCode    string `json:"pin_code" form:"pin_code"`
	Price      string `json:"price" form:"price"`
	TotalSpots string `json:"total_spots" form:"total_spots"`
}

// LotInput is the body of POST /admin/lots.
type LotInput struct {
	Name       string  `json:"name" binding:"required"`
	Address    string  `json:"address" binding:"required"`
	PinCode    string  `json:"pin_code"`
	Price      float64 `json:"price" binding:"required"`
	TotalSpots int     `json:"total_spots" binding:"required"`
}

type LotsResponse struct {
	Lots []Lot `json:"lots"`
}

func (r *LotsResponse) Validate() error {
	if r.Lots == nil {
		return missingField("lots")
	}
	return nil
}
