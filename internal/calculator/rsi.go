package calculator

import "errors"

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 closes. Returns 50.0 if data is insufficient.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 50.0, nil
	}

	gains, losses := moves(closes)
	n := float64(period)

	// seed with plain means, then Wilder-smooth the remaining moves
	var up, down float64
	for i := 0; i < period; i++ {
		up += gains[i]
		down += losses[i]
	}
	up, down = up/n, down/n
	for i := period; i < len(gains); i++ {
		up += (gains[i] - up) / n
		down += (losses[i] - down) / n
	}

	if down == 0 {
		return 100.0, nil
	}
	return 100.0 - 100.0/(1.0+up/down), nil
}

// moves splits consecutive close-to-close changes into gains and losses,
// both non-negative.
func moves(closes []float64) (gains, losses []float64) {
	gains = make([]float64, len(closes)-1)
	losses = make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if ch := closes[i] - closes[i-1]; ch > 0 {
			gains[i-1] = ch
		} else {
			losses[i-1] = -ch
		}
	}
	return gains, losses
}
