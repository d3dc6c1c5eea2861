package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Timestamps go out in RFC 1123 form, as the production API sends them.
func formatTime(t time.Time) string { return t.UTC().Format(http.TimeFormat) }

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /register
func (s *Server) register(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Username == "" || body.Password == "" {
		message(c, http.StatusBadRequest, "Username and password are required")
		return
	}
	if _, err := s.auth.register(body.Username, body.Password, "user"); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			message(c, http.StatusBadRequest, "Username already taken!")
			return
		}
		s.logger.Error("register failed", zap.Error(err))
		message(c, http.StatusInternalServerError, "Could not register user")
		return
	}
	message(c, http.StatusCreated, "User registered successfully")
}

// POST /login
func (s *Server) login(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	token, u, err := s.auth.login(body.Username, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			message(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error("login failed", zap.Error(err))
		message(c, http.StatusInternalServerError, "Login error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": u.Role, "username": u.Username})
}

func lotJSON(l lot) gin.H {
	return gin.H{
		"id":          l.ID,
		"name":        l.Name,
		"address":     l.Address,
		"pin_code":    l.PinCode,
		"price":       l.Price,
		"total_spots": l.TotalSpots,
	}
}

func adminReservationJSON(r reservationView) gin.H {
	cost := 0.0
	if r.Cost != nil {
		cost = *r.Cost
	}
	return gin.H{
		"reservation_id": r.ID,
		"username":       r.Username,
		"lot":            r.LotName,
		"spot_id":        r.SpotID,
		"start":          formatTime(r.ParkingTime),
		"end":            formatOptionalTime(r.LeavingTime),
		"cost":           cost,
	}
}

// GET /admin/dashboard
func (s *Server) adminDashboard(c *gin.Context) {
	stats := s.store.lotsWithStats()
	totalSpots, available, occupied, users, revenue := s.store.counts()

	lots := make([]gin.H, 0, len(stats))
	for _, st := range stats {
		h := lotJSON(st.lot)
		h["available"] = st.Available
		h["occupied"] = st.Occupied
		lots = append(lots, h)
	}

	recent := s.store.reservationsNewestFirst(0)
	if len(recent) > 10 {
		recent = recent[:10]
	}
	reservations := make([]gin.H, 0, len(recent))
	for _, r := range recent {
		reservations = append(reservations, adminReservationJSON(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"total_lots":      len(stats),
		"total_spots":     totalSpots,
		"available_spots": available,
		"occupied_spots":  occupied,
		"total_users":     users,
		"total_revenue":   revenue,
		"lots":            lots,
		"reservations":    reservations,
	})
}

// GET /admin/reservations
func (s *Server) adminReservations(c *gin.Context) {
	all := s.store.reservationsNewestFirst(0)
	out := make([]gin.H, 0, len(all))
	for _, r := range all {
		out = append(out, adminReservationJSON(r))
	}
	c.JSON(http.StatusOK, gin.H{"reservations": out})
}

// GET /admin/lots
func (s *Server) adminLots(c *gin.Context) {
	stats := s.store.lotsWithStats()
	out := make([]gin.H, 0, len(stats))
	for _, st := range stats {
		out = append(out, lotJSON(st.lot))
	}
	c.JSON(http.StatusOK, gin.H{"lots": out})
}

type createLotBody struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	PinCode    string   `json:"pin_code"`
	Price      *float64 `json:"price"`
	TotalSpots *int     `json:"total_spots"`
}

// POST /admin/lots
func (s *Server) createLot(c *gin.Context) {
	var body createLotBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" || body.Price == nil || body.TotalSpots == nil {
		message(c, http.StatusBadRequest, "Missing required lot fields")
		return
	}
	_, err := s.store.createLot(lot{
		Name:       body.Name,
		Address:    body.Address,
		PinCode:    body.PinCode,
		Price:      *body.Price,
		TotalSpots: *body.TotalSpots,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			message(c, http.StatusBadRequest, "Lot with this name already exists!")
			return
		}
		message(c, http.StatusInternalServerError, "Could not create lot")
		return
	}
	message(c, http.StatusCreated, "Parking lot created with spots.")
}

type updateLotBody struct {
	Name    *string  `json:"name"`
	Address *string  `json:"address"`
	PinCode *string  `json:"pin_code"`
	Price   *float64 `json:"price"`
}

func lotIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		message(c, http.StatusNotFound, "Not Found")
		return 0, false
	}
	return id, true
}

// PUT /admin/lots/:id only touches the fields present in the body; total_spots is fixed.
func (s *Server) updateLot(c *gin.Context) {
	id, ok := lotIDParam(c, "id")
	if !ok {
		return
	}
	var body updateLotBody
	if err := c.ShouldBindJSON(&body); err != nil {
		message(c, http.StatusBadRequest, "Invalid lot body")
		return
	}
	err := s.store.updateLot(id, func(l *lot) {
		if body.Name != nil {
			l.Name = *body.Name
		}
		if body.Address != nil {
			l.Address = *body.Address
		}
		if body.PinCode != nil {
			l.PinCode = *body.PinCode
		}
		if body.Price != nil {
			l.Price = *body.Price
		}
	})
	if errors.Is(err, ErrNotFound) {
		message(c, http.StatusNotFound, "Not Found")
		return
	}
	message(c, http.StatusOK, "Parking lot updated.")
}

// DELETE /admin/lots/:id
func (s *Server) deleteLot(c *gin.Context) {
	id, ok := lotIDParam(c, "id")
	if !ok {
		return
	}
	switch err := s.store.deleteLot(id); {
	case errors.Is(err, ErrNotFound):
		message(c, http.StatusNotFound, "Not Found")
	case errors.Is(err, ErrLotOccupied):
		message(c, http.StatusBadRequest, "Cannot delete. Some spots are occupied")
	default:
		message(c, http.StatusOK, "Parking lot deleted.")
	}
}

// GET /user/lots
func (s *Server) userLots(c *gin.Context) {
	stats := s.store.lotsWithStats()
	out := make([]gin.H, 0, len(stats))
	for _, st := range stats {
		out = append(out, gin.H{
			"id":              st.ID,
			"name":            st.Name,
			"address":         st.Address,
			"price":           st.Price,
			"available_spots": st.Available,
		})
	}
	c.JSON(http.StatusOK, gin.H{"lots": out})
}

// GET /user/dashboard
func (s *Server) userDashboard(c *gin.Context) {
	who := currentIdentity(c)
	history := s.store.reservationsNewestFirst(who.UserID)

	var active any
	total := 0.0
	recent := make([]gin.H, 0, 5)
	for i, r := range history {
		if r.LeavingTime == nil && active == nil {
			active = gin.H{"lot_name": r.LotName, "spot_id": r.SpotID, "parked_since": formatTime(r.ParkingTime)}
		}
		if r.Cost != nil {
			total += *r.Cost
		}
		if i < 5 {
			var cost any
			if r.Cost != nil {
				cost = *r.Cost
			}
			recent = append(recent, gin.H{
				"lot":     r.LotName,
				"spot_id": r.SpotID,
				"start":   formatTime(r.ParkingTime),
				"end":     formatOptionalTime(r.LeavingTime),
				"cost":    cost,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"active_reservations": active,
		"total_reservations":  len(history),
		"total_amount_spent":  total,
		"recent_history":      recent,
	})
}

// POST /user/reserve/:lotId
func (s *Server) reserve(c *gin.Context) {
	lotID, ok := lotIDParam(c, "lotId")
	if !ok {
		return
	}
	r, err := s.store.reserve(currentIdentity(c).UserID, lotID, s.clock.Now())
	switch {
	case errors.Is(err, ErrAlreadyReserved):
		message(c, http.StatusBadRequest, "You already have a reservation!")
	case errors.Is(err, ErrNoAvailableSpot):
		message(c, http.StatusNotFound, "No available spots in this lot")
	case err != nil:
		message(c, http.StatusInternalServerError, "Could not reserve spot")
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Spot reserved", "spot_id": r.SpotID, "reservation_id": r.ID})
	}
}

// POST /user/release
func (s *Server) release(c *gin.Context) {
	cost, err := s.store.release(currentIdentity(c).UserID, s.clock.Now())
	if errors.Is(err, ErrNoActiveReservation) {
		message(c, http.StatusNotFound, "No active reservation found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spot release", "cost": cost})
}

// GET /user/reservations
func (s *Server) userReservations(c *gin.Context) {
	history := s.store.reservationsNewestFirst(currentIdentity(c).UserID)
	out := make([]gin.H, 0, len(history))
	for _, r := range history {
		var cost any
		if r.Cost != nil {
			cost = *r.Cost
		}
		out = append(out, gin.H{
			"reservation_id": r.ID,
			"spot_id":        r.SpotID,
			"lot_name":       r.LotName,
			"parking_time":   formatTime(r.ParkingTime),
			"leaving_time":   formatOptionalTime(r.LeavingTime),
			"cost":           cost,
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

// POST /user/export queues nothing; the real backend mails the CSV later.
func (s *Server) export(c *gin.Context) {
	s.logger.Info("csv export requested", zap.String("username", currentIdentity(c).Username))
	message(c, http.StatusOK, "Your CSV export is being processed. You'll receive it via email.")
}
