package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"scrub/domain/report"
)

// Moment helpers. Skewness and kurtosis use the bias-corrected sample
// estimators (adjusted Fisher-Pearson skewness, sample excess
// kurtosis), computed from the population moments of the non-missing
// values. Columns with too few observations or zero variance yield the
// undefined sentinel instead of a crash.

func meanStat(values []float64) report.Stat {
	if len(values) == 0 {
		return report.Undefined()
	}
	m, err := stats.Mean(values)
	if err != nil {
		return report.Undefined()
	}
	return report.Stat(m)
}

func medianStat(values []float64) report.Stat {
	if len(values) == 0 {
		return report.Undefined()
	}
	m, err := stats.Median(values)
	if err != nil {
		return report.Undefined()
	}
	return report.Stat(m)
}

// sampleStd is the n-1 denominator standard deviation; undefined for
// fewer than two observations.
func sampleStd(values []float64) report.Stat {
	if len(values) < 2 {
		return report.Undefined()
	}
	s, err := stats.StandardDeviationSample(values)
	if err != nil {
		return report.Undefined()
	}
	return report.Stat(s)
}

// skewness is the adjusted Fisher-Pearson coefficient
// G1 = g1 * sqrt(n(n-1)) / (n-2); undefined for n < 3 or zero variance.
func skewness(values []float64) report.Stat {
	n := float64(len(values))
	if n < 3 {
		return report.Undefined()
	}
	mean, _ := stats.Mean(values)
	m2, m3 := 0.0, 0.0
	for _, x := range values {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return report.Undefined()
	}

	g1 := m3 / math.Pow(m2, 1.5)
	return report.Stat(g1 * math.Sqrt(n*(n-1)) / (n - 2))
}

// kurtosis is the bias-corrected sample excess kurtosis
// G2 = (n-1)/((n-2)(n-3)) * ((n+1)g2 + 6); undefined for n < 4 or zero
// variance.
func kurtosis(values []float64) report.Stat {
	n := float64(len(values))
	if n < 4 {
		return report.Undefined()
	}
	mean, _ := stats.Mean(values)
	m2, m4 := 0.0, 0.0
	for _, x := range values {
		d := x - mean
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return report.Undefined()
	}

	g2 := m4/(m2*m2) - 3
	return report.Stat((n - 1) / ((n - 2) * (n - 3)) * ((n+1)*g2 + 6))
}
