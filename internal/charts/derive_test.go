package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

func entry(lot string, cost float64, at string) domain.HistoryEntry {
	return domain.HistoryEntry{LotName: lot, Cost: null.FloatFrom(cost), ParkingTime: at}
}

func TestHistoryAggregation(t *testing.T) {
	history := []domain.HistoryEntry{
		entry("A", 10, "2024-01-05"),
		entry("A", 5, "2024-02-10"),
		entry("B", 20, "2024-01-20"),
	}

	perLot := ReservationsPerLot(history)
	spend := MonthlySpending(history)

	assert.Equal(t, map[string]float64{"A": 2, "B": 1}, perLot.Map())
	assert.Equal(t, []string{"A", "B"}, perLot.Labels)
	assert.Equal(t, map[string]float64{"Jan": 30, "Feb": 5}, spend.Map())
	assert.Equal(t, []string{"Jan", "Feb"}, spend.Labels)
}

func TestAggregationIsRepeatable(t *testing.T) {
	history := []domain.HistoryEntry{
		entry("A", 10, "2024-01-05"),
		entry("B", 20, "2024-01-20"),
	}

	first := MonthlySpending(history)
	second := MonthlySpending(history)

	assert.Equal(t, first, second)
	assert.Equal(t, ReservationsPerLot(history), ReservationsPerLot(history))
}

func TestMonthlySpendingSkipsUnbilledAndUnreadable(t *testing.T) {
	history := []domain.HistoryEntry{
		{LotName: "A", ParkingTime: "2024-03-01"},
		entry("A", 0, "2024-03-02"),
		entry("A", 7.5, "not a date"),
		entry("A", 2.25, "Tue, 05 Mar 2024 09:30:00 GMT"),
		entry("B", 1.25, "2024-03-07T18:00:00.123456"),
	}

	spend := MonthlySpending(history)

	assert.Equal(t, []string{"Mar"}, spend.Labels)
	assert.InDelta(t, 3.5, spend.Values[0], 1e-9)
	assert.Equal(t, map[string]float64{"A": 4, "B": 1}, ReservationsPerLot(history).Map())
}

func TestMonthlySpendingUsesLocalMonth(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("IST", 5*3600+1800)
	t.Cleanup(func() { time.Local = saved })

	history := []domain.HistoryEntry{
		entry("A", 10, "Wed, 31 Jan 2024 23:30:00 GMT"),
		entry("A", 4, "2024-01-15T12:00:00"),
	}

	spend := MonthlySpending(history)

	assert.Equal(t, map[string]float64{"Feb": 10, "Jan": 4}, spend.Map())
	assert.Equal(t, []string{"Feb", "Jan"}, spend.Labels)
}

func TestEmptyHistoryGivesEmptySeries(t *testing.T) {
	assert.Zero(t, ReservationsPerLot(nil).Len())
	assert.Zero(t, MonthlySpending(nil).Len())
	assert.NotNil(t, MonthlySpending(nil).Labels)
}

func TestLotOccupancyAndPie(t *testing.T) {
	lots := []domain.Lot{{Name: "North", Occupied: 3}, {Name: "South", Occupied: 0}}

	bar := LotOccupancy(lots)
	pie := AvailabilityPie(7, 3)

	assert.Equal(t, []string{"North", "South"}, bar.Labels)
	assert.Equal(t, []float64{3, 0}, bar.Values)
	assert.Equal(t, map[string]float64{"Available": 7, "Occupied": 3}, pie.Map())
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{
		"2024-01-05",
		"2024-01-05T10:11:12Z",
		"2024-01-05T10:11:12",
		"2024-01-05 10:11:12",
		"Fri, 05 Jan 2024 10:11:12 GMT",
	} {
		got, ok := ParseTime(s)
		require.True(t, ok, s)
		assert.Equal(t, "Jan", got.Format("Jan"), s)
	}
	_, ok := ParseTime("")
	assert.False(t, ok)
}

func TestBoardKeepsLatestChart(t *testing.T) {
	b := NewBoard()
	var seen []string
	b.OnDraw(func(c Chart) { seen = append(seen, c.ID) })

	b.Draw(Chart{ID: "lotChart", Kind: KindBar, Series: Series{Labels: []string{"A"}, Values: []float64{1}}})
	b.Draw(Chart{ID: "lotChart", Kind: KindBar, Series: Series{Labels: []string{"A"}, Values: []float64{2}}})

	c, ok := b.Chart("lotChart")
	require.True(t, ok)
	assert.Equal(t, []float64{2}, c.Series.Values)
	assert.Equal(t, 2, b.Draws("lotChart"))
	assert.Equal(t, []string{"lotChart", "lotChart"}, seen)
	assert.Len(t, b.Charts("lotChart", "missing"), 1)
}
