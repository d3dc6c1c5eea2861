package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/rathinsam/Vehicle-Parking-app/internal/charts"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	vm "github.com/rathinsam/Vehicle-Parking-app/internal/viewmodel"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	// Chart IDs and titles are shown as written, not upper-cased.
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	return t
}

// errorOf pulls the user-facing message out of a page view.
func errorOf(view any) string {
	switch v := view.(type) {
	case vm.LoginView:
		return v.Error
	case vm.RegisterView:
		return v.Error
	case vm.AdminDashboardView:
		return v.Error
	case vm.LotManagementView:
		if v.Message != "" {
			return v.Message
		}
		return v.Error
	case vm.ReserveView:
		if v.Message != "" {
			return v.Message
		}
		return v.Error
	case vm.UserDashboardView:
		return v.Error
	case vm.UserHistoryView:
		return v.Error
	}
	return "request failed"
}

// since renders a backend timestamp relative to now, e.g. "3 hours ago".
func since(s string) string {
	if s == "" {
		return "-"
	}
	t, ok := charts.ParseTime(s)
	if !ok {
		return s
	}
	return humanize.Time(t)
}

func money(v float64) string {
	return "₹" + humanize.CommafWithDigits(v, 2)
}

func itoa(n int) string { return strconv.Itoa(n) }

func writeCards(w io.Writer, cards []domain.Card) {
	t := newTable(w, "Metric", "Value")
	for _, c := range cards {
		t.Append([]string{c.Title, c.Value})
	}
	t.Render()
}

func writeSeries(w io.Writer, title string, s charts.Series) {
	t := newTable(w, title, s.Label)
	for i, l := range s.Labels {
		t.Append([]string{l, strconv.FormatFloat(s.Values[i], 'f', -1, 64)})
	}
	t.Render()
}

func writeAdminReservations(w io.Writer, rs []domain.AdminReservation) {
	t := newTable(w, "ID", "User", "Lot", "Spot", "Start", "End", "Cost")
	for _, r := range rs {
		t.Append([]string{
			itoa(r.ReservationID), r.Username, r.Lot, itoa(r.SpotID),
			vm.FormatTime(r.Start), vm.FormatTime(r.End.ValueOrZero()), money(r.Cost),
		})
	}
	t.Render()
}

func writeLots(w io.Writer, lots []domain.Lot, admin bool) {
	if admin {
		t := newTable(w, "ID", "Name", "Address", "Pin", "Price/h", "Spots", "Available", "Occupied")
		for _, l := range lots {
			t.Append([]string{
				itoa(l.ID), l.Name, l.Address, l.PinCode.ValueOrZero(), money(l.Price),
				itoa(l.TotalSpots), itoa(l.Available), itoa(l.Occupied),
			})
		}
		t.Render()
		return
	}
	t := newTable(w, "ID", "Name", "Address", "Price/h", "Available")
	for _, l := range lots {
		t.Append([]string{itoa(l.ID), l.Name, l.Address, money(l.Price), itoa(l.AvailableSpots)})
	}
	t.Render()
}

func writeHistory(w io.Writer, history []domain.HistoryEntry) {
	t := newTable(w, "ID", "Lot", "Spot", "Parked", "Left", "Cost")
	for _, h := range history {
		cost := "-"
		if h.Cost.Valid {
			cost = money(h.Cost.Float64)
		}
		t.Append([]string{
			itoa(h.ReservationID), h.LotName, itoa(h.SpotID),
			vm.FormatTime(h.ParkingTime), vm.FormatTime(h.LeavingTime.ValueOrZero()), cost,
		})
	}
	t.Render()
}

// parkedFor describes how long ago a reservation started.
func parkedFor(start string, now time.Time) string {
	t, ok := charts.ParseTime(start)
	if !ok {
		return start
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
