package design

// Intercept recovers the intercept term spec.md §4.6 delegates to an
// external collaborator: intercept = y_mean - X_mean . (W / X_std).
// xStd may be nil, meaning no normalization was applied (scale 1).
func Intercept(yMean float64, xMean, xStd, w []float64) float64 {
	sum := 0.0
	for j, m := range xMean {
		std := 1.0
		if xStd != nil {
			std = xStd[j]
		}
		sum += m * (w[j] / std)
	}
	return yMean - sum
}

// Predict computes X . (W / X_std) + intercept for every sample row.
func Predict(X [][]float64, w []float64, xStd []float64, intercept float64) []float64 {
	out := make([]float64, len(X))
	scaled := make([]float64, len(w))
	for j := range w {
		std := 1.0
		if xStd != nil {
			std = xStd[j]
		}
		scaled[j] = w[j] / std
	}
	for i, row := range X {
		s := intercept
		for j, v := range row {
			s += v * scaled[j]
		}
		out[i] = s
	}
	return out
}
