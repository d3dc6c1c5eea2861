package mockapi

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateEntry      = errors.New("record already exists")
	ErrLotOccupied         = errors.New("lot has occupied spots")
	ErrNoAvailableSpot     = errors.New("no available spots in lot")
	ErrAlreadyReserved     = errors.New("user already holds a reservation")
	ErrNoActiveReservation = errors.New("no active reservation")
)

const (
	spotAvailable = "A"
	spotOccupied  = "O"
)

type user struct {
	ID           int
	Username     string
	PasswordHash string
	Role         string
}

type lot struct {
	ID         int
	Name       string
	Address    string
	PinCode    string
	Price      float64
	TotalSpots int
}

type spot struct {
	ID     int
	LotID  int
	Status string
}

type reservation struct {
	ID          int
	SpotID      int
	UserID      int
	ParkingTime time.Time
	LeavingTime *time.Time
	Cost        *float64
}

// store is the backend's in-memory state. All methods are safe for concurrent use.
type store struct {
	mu           sync.Mutex
	seq          map[string]int
	users        map[int]*user
	lots         map[int]*lot
	spots        map[int]*spot
	reservations map[int]*reservation
}

func newStore() *store {
	return &store{
		users:        map[int]*user{},
		lots:         map[int]*lot{},
		spots:        map[int]*spot{},
		reservations: map[int]*reservation{},
		seq:          map[string]int{},
	}
}

// id returns the next identifier of table, starting at 1 like an
// auto-increment column.
func (s *store) id(table string) int {
	s.seq[table]++
	return s.seq[table]
}

func (s *store) createUser(username, hash, role string) (*user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return nil, ErrDuplicateEntry
		}
	}
	u := &user{ID: s.id("users"), Username: username, PasswordHash: hash, Role: role}
	s.users[u.ID] = u
	return u, nil
}

func (s *store) userByName(username string) (*user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *store) createLot(l lot) (*lot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.lots {
		if existing.Name == l.Name {
			return nil, ErrDuplicateEntry
		}
	}
	l.ID = s.id("lots")
	s.lots[l.ID] = &l
	for i := 0; i < l.TotalSpots; i++ {
		sp := &spot{ID: s.id("spots"), LotID: l.ID, Status: spotAvailable}
		s.spots[sp.ID] = sp
	}
	cp := l
	return &cp, nil
}

func (s *store) updateLot(id int, apply func(*lot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lots[id]
	if !ok {
		return ErrNotFound
	}
	apply(l)
	return nil
}

func (s *store) deleteLot(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lots[id]; !ok {
		return ErrNotFound
	}
	for _, sp := range s.spots {
		if sp.LotID == id && sp.Status == spotOccupied {
			return ErrLotOccupied
		}
	}
	for sid, sp := range s.spots {
		if sp.LotID == id {
			delete(s.spots, sid)
		}
	}
	delete(s.lots, id)
	return nil
}

// lotStats is a lot with its live spot counts.
type lotStats struct {
	lot
	Available int
	Occupied  int
}

func (s *store) lotsWithStats() []lotStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lotStats, 0, len(s.lots))
	for _, l := range s.lots {
		st := lotStats{lot: *l}
		for _, sp := range s.spots {
			if sp.LotID != l.ID {
				continue
			}
			switch sp.Status {
			case spotAvailable:
				st.Available++
			case spotOccupied:
				st.Occupied++
			}
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) activeReservationLocked(userID int) *reservation {
	for _, r := range s.reservations {
		if r.UserID == userID && r.LeavingTime == nil {
			return r
		}
	}
	return nil
}

func (s *store) reserve(userID, lotID int, now time.Time) (*reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeReservationLocked(userID) != nil {
		return nil, ErrAlreadyReserved
	}
	var free *spot
	for _, sp := range s.spots {
		if sp.LotID == lotID && sp.Status == spotAvailable && (free == nil || sp.ID < free.ID) {
			free = sp
		}
	}
	if free == nil {
		return nil, ErrNoAvailableSpot
	}
	free.Status = spotOccupied
	r := &reservation{ID: s.id("reservations"), SpotID: free.ID, UserID: userID, ParkingTime: now}
	s.reservations[r.ID] = r
	cp := *r
	return &cp, nil
}

// release ends the user's active reservation and bills hours parked times the
// lot price, rounded to cents.
func (s *store) release(userID int, now time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.activeReservationLocked(userID)
	if r == nil {
		return 0, ErrNoActiveReservation
	}
	price := 0.0
	sp := s.spots[r.SpotID]
	if sp != nil {
		if l := s.lots[sp.LotID]; l != nil {
			price = l.Price
		}
		sp.Status = spotAvailable
	}
	hours := now.Sub(r.ParkingTime).Hours()
	cost := math.Round(hours*price*100) / 100
	r.LeavingTime = &now
	r.Cost = &cost
	return cost, nil
}

// reservationView is a reservation joined with its lot and user names.
type reservationView struct {
	reservation
	LotName  string
	Username string
}

// reservationsNewestFirst lists reservations, optionally only those of userID (> 0).
func (s *store) reservationsNewestFirst(userID int) []reservationView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]reservationView, 0, len(s.reservations))
	for _, r := range s.reservations {
		if userID > 0 && r.UserID != userID {
			continue
		}
		v := reservationView{reservation: *r, LotName: "Deleted Lot"}
		if sp := s.spots[r.SpotID]; sp != nil {
			if l := s.lots[sp.LotID]; l != nil {
				v.LotName = l.Name
			}
		}
		if u := s.users[r.UserID]; u != nil {
			v.Username = u.Username
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ParkingTime.Equal(out[j].ParkingTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].ParkingTime.After(out[j].ParkingTime)
	})
	return out
}

func (s *store) counts() (spots, available, occupied, users int, revenue float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.spots {
		spots++
		switch sp.Status {
		case spotAvailable:
			available++
		case spotOccupied:
			occupied++
		}
	}
	for _, u := range s.users {
		if u.Role == "user" {
			users++
		}
	}
	for _, r := range s.reservations {
		if r.Cost != nil {
			revenue += *r.Cost
		}
	}
	return spots, available, occupied, users, math.Round(revenue*100) / 100
}
