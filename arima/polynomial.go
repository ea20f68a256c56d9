package arima

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// isStationary reports whether all roots of 1 - φ1·B - … - φp·B^p lie outside
// the unit circle.
func isStationary(ar []float64) bool {
	return companionInsideUnit(ar)
}

// isInvertible reports whether all roots of 1 + θ1·B + … + θq·B^q lie outside
// the unit circle.
func isInvertible(ma []float64) bool {
	neg := make([]float64, len(ma))
	for i, v := range ma {
		neg[i] = -v
	}
	return companionInsideUnit(neg)
}

// companionInsideUnit reports whether every eigenvalue of the companion matrix
// with first row c has modulus below one. These eigenvalues are the reciprocal
// roots of 1 - c1·B - … - ck·B^k.
func companionInsideUnit(c []float64) bool {
	k := len(c)
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	switch k {
	case 0:
		return true
	case 1:
		return math.Abs(c[0]) < 1
	}

	a := mat.NewDense(k, k, nil)
	for j, v := range c {
		a.Set(0, j, v)
	}
	for i := 1; i < k; i++ {
		a.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if !eig.Factorize(a, mat.EigenNone) {
		return false
	}
	for _, ev := range eig.Values(nil) {
		if cmplx.Abs(ev) >= 1 {
			return false
		}
	}
	return true
}

// integrationCoeffs returns c_k = (-1)^(k+1)·C(d,k) for k = 1..d, so that
// y[t] = Δ^d y[t] + Σ c_k·y[t-k].
func integrationCoeffs(d int) []float64 {
	coeffs := make([]float64, d)
	binom := 1.0
	for k := 1; k <= d; k++ {
		binom = binom * float64(d-k+1) / float64(k)
		if k%2 == 1 {
			coeffs[k-1] = binom
		} else {
			coeffs[k-1] = -binom
		}
	}
	return coeffs
}

// psiWeights returns the first n coefficients of the MA(∞) representation of
// the integrated model, ψ(B) = θ(B) / (φ(B)·(1-B)^d).
func psiWeights(ar, ma []float64, d, n int) []float64 {
	// Full autoregressive polynomial φ(B)·(1-B)^d, stored as 1 - Σ a_i·B^i.
	poly := []float64{1}
	for _, v := range ar {
		poly = append(poly, -v)
	}
	for range d {
		next := make([]float64, len(poly)+1)
		for i, v := range poly {
			next[i] += v
			next[i+1] -= v
		}
		poly = next
	}
	a := make([]float64, len(poly)-1)
	for i := range a {
		a[i] = -poly[i+1]
	}

	psi := make([]float64, n)
	if n == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < n; j++ {
		v := 0.0
		if j <= len(ma) {
			v = ma[j-1]
		}
		for i := 1; i <= min(j, len(a)); i++ {
			v += a[i-1] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}
