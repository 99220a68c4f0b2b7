// Package divergence implements the Jensen-Shannon distance between
// categorical distributions, the statistic every chart in this program plots.
package divergence

import "math"

// JensenShannon returns the Jensen-Shannon distance (square root of the
// divergence, log base 2) between two count or percentage vectors. Inputs are
// normalized internally, so scale does not matter. The result is in [0, 1]:
// 0 for identical distributions, 1 for disjoint ones.
//
// The function is total: negative and NaN entries count as zero mass, a
// zero-mass side yields 0, and mismatched lengths compare the overlap.
func JensenShannon(p, q []float64) float64 {
	n := len(p)
	if len(q) < n {
		n = len(q)
	}
	if n == 0 {
		return 0
	}
	pMass, qMass := mass(p[:n]), mass(q[:n])
	if pMass == 0 || qMass == 0 {
		return 0
	}

	var div float64
	for i := 0; i < n; i++ {
		pi := clampMass(p[i]) / pMass
		qi := clampMass(q[i]) / qMass
		m := 0.5 * (pi + qi)
		if pi > 0 {
			div += 0.5 * pi * math.Log2(pi/m)
		}
		if qi > 0 {
			div += 0.5 * qi * math.Log2(qi/m)
		}
	}

	switch {
	case math.IsNaN(div), div < 0:
		return 0
	case div > 1:
		return 1
	}
	return math.Sqrt(div)
}

func mass(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += clampMass(x)
	}
	return sum
}

// clampMass drops negative and NaN entries; distributions have no negative mass.
func clampMass(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
