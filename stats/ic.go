package stats

import "math"

// InformationCriteria holds AIC, AICc, and BIC for a fitted model.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates all information criteria.
// logLik is the log-likelihood, nObs is the number of observations,
// nParams is the number of estimated parameters.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	// AICc = AIC + 2k(k+1)/(n-k-1), corrected for small samples
	aicc := math.Inf(1)
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		LogLik: logLik,
	}
}

// GaussianLogLik returns the Gaussian log-likelihood of n residuals with sum of
// squares sse under variance sigma2. A zero variance yields -Inf.
func GaussianLogLik(sse float64, n int, sigma2 float64) float64 {
	if sigma2 <= 0 {
		return math.Inf(-1)
	}
	nf := float64(n)
	return -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(sigma2) - sse/(2*sigma2)
}
