package viewmodel

import (
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rathinsam/Vehicle-Parking-app/internal/charts"
)

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// flash is a message that clears itself after a delay. Setting a new message
// restarts the delay.
type flash struct {
	mu    sync.Mutex
	text  string
	gen   int
	timer *clock.Timer
}

func (f *flash) set(clk clock.Clock, ttl time.Duration, text string, onClear func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.gen++
	f.text = text
	gen := f.gen
	f.timer = clk.AfterFunc(ttl, func() {
		f.mu.Lock()
		if f.gen != gen {
			f.mu.Unlock()
			return
		}
		f.text = ""
		f.timer = nil
		f.mu.Unlock()
		if onClear != nil {
			onClear()
		}
	})
}

func (f *flash) get() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// formatAmount prints an amount the way the backend sent it, without padding.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTime renders a backend timestamp for display, or "-" when empty.
func FormatTime(s string) string {
	if s == "" {
		return "-"
	}
	t, ok := charts.ParseTime(s)
	if !ok {
		return s
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
