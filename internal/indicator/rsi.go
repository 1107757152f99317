// Package indicator computes technical indicators over price series.
package indicator

import (
	"wealthwatch-service/internal/domain"
	cfg "wealthwatch-service/internal/infrastructure/config"
)

// RSI returns Wilder's relative strength index for closes. The result has
// the same length as closes; warm-up positions are nil. period <= 0 selects
// the default of 14.
func RSI(closes []float64, period int) []*float64 {
	if period <= 0 {
		period = cfg.DefaultRSIPeriod
	}
	out := make([]*float64, len(closes))
	if len(closes) < period+1 {
		return out
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i-1] = d
		} else {
			losses[i-1] = -d
		}
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = ptr(rsiValue(avgGain, avgLoss))

	p := float64(period)
	for i := period + 1; i < len(closes); i++ {
		avgGain = (avgGain*(p-1) + gains[i-1]) / p
		avgLoss = (avgLoss*(p-1) + losses[i-1]) / p
		out[i] = ptr(rsiValue(avgGain, avgLoss))
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50
	case avgLoss == 0:
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// ApplyRSI overwrites the RSI of every point in s with the 14-period value,
// rounded to two decimals.
func ApplyRSI(s domain.HistorySeries) {
	values := RSI(s.Closes(), cfg.DefaultRSIPeriod)
	for i := range s.Points {
		if values[i] == nil {
			s.Points[i].RSI = nil
			continue
		}
		s.Points[i].RSI = ptr(domain.Round2(*values[i]))
	}
}

func ptr(v float64) *float64 { return &v }
