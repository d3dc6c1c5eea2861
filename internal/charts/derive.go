package charts

import (
	"strings"
	"time"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseTime accepts the timestamp formats the backend has been seen to emit,
// including the RFC 1123 "GMT" form.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AvailabilityPie splits all spots into available and occupied.
func AvailabilityPie(available, occupied int) Series {
	return Series{
		Label:  "Spots",
		Labels: []string{"Available", "Occupied"},
		Values: []float64{float64(available), float64(occupied)},
	}
}

// LotOccupancy is the occupied spot count per lot, in server order.
func LotOccupancy(lots []domain.Lot) Series {
	s := Series{Label: "Occupied Spots", Labels: []string{}, Values: []float64{}}
	for _, lot := range lots {
		s.Labels = append(s.Labels, lot.Name)
		s.Values = append(s.Values, float64(lot.Occupied))
	}
	return s
}

// ReservationsPerLot counts history entries per lot name.
func ReservationsPerLot(history []domain.HistoryEntry) Series {
	s := Series{Label: "Reservations", Labels: []string{}, Values: []float64{}}
	index := make(map[string]int)
	for _, r := range history {
		s.add(index, r.LotName, 1)
	}
	return s
}

// MonthlySpending sums cost per month abbreviation of the parking time, taken
// in the local zone so buckets agree with the displayed times. Entries without
// a cost or with an unreadable time are skipped. Months from different years
// share a bucket.
func MonthlySpending(history []domain.HistoryEntry) Series {
	s := Series{Label: "Amount Spent (₹)", Labels: []string{}, Values: []float64{}}
	index := make(map[string]int)
	for _, r := range history {
		if !r.Cost.Valid || r.Cost.Float64 == 0 {
			continue
		}
		t, ok := ParseTime(r.ParkingTime)
		if !ok {
			continue
		}
		s.add(index, t.Local().Format("Jan"), r.Cost.Float64)
	}
	return s
}
