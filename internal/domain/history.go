package domain

import (
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type HistoryPoint struct {
	Date             time.Time
	Timestamp        *int64
	Open             float64
	High             float64
	Low              float64
	Close            float64
	Volume           int64
	RSI              *float64
	DayChange        *float64
	DayChangePercent *float64
}

type HistorySeries struct {
	Symbol     string
	Period     Period
	Points     []HistoryPoint
	Provenance Provenance
	Source     string
}

// NewHistorySeries orders points ascending by day. When several points fall
// on the same day the last one supplied wins.
func NewHistorySeries(symbol string, period Period, points []HistoryPoint) HistorySeries {
	pts := make([]HistoryPoint, len(points))
	copy(pts, points)
	for i := range pts {
		pts[i].Date = Day(pts[i].Date)
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	out := pts[:0]
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return HistorySeries{Symbol: symbol, Period: period, Points: out}
}

// Since drops points before from.
func (s HistorySeries) Since(from time.Time) HistorySeries {
	from = Day(from)
	kept := make([]HistoryPoint, 0, len(s.Points))
	for _, p := range s.Points {
		if !p.Date.Before(from) {
			kept = append(kept, p)
		}
	}
	s.Points = kept
	return s
}

func (s HistorySeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// FillDayChanges sets the close-to-close change on every point but the
// first, whose change fields are cleared.
func (s HistorySeries) FillDayChanges() {
	for i := range s.Points {
		if i == 0 {
			s.Points[i].DayChange = nil
			s.Points[i].DayChangePercent = nil
			continue
		}
		prev := s.Points[i-1].Close
		change := Round2(s.Points[i].Close - prev)
		pct := 0.0
		if prev != 0 {
			pct = Round2((s.Points[i].Close - prev) / prev * 100)
		}
		s.Points[i].DayChange = &change
		s.Points[i].DayChangePercent = &pct
	}
}
