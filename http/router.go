package http

import (
	"net/http"
)

// NewRouter registers every endpoint behind the rate limiter.
func NewRouter(
	calculator *CalculatorHandler,
	loan *LoanHandler,
	limiter *RateLimiter,
) *http.ServeMux {
	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/pmt", limited(calculator.Pmt))
	mux.Handle("/v1/pv", limited(calculator.PV))
	mux.Handle("/v1/fv", limited(calculator.FV))
	mux.Handle("/v1/ipmt", limited(calculator.IPmt))
	mux.Handle("/v1/ppmt", limited(calculator.PPmt))
	mux.Handle("/v1/npv", limited(calculator.NPV))
	mux.Handle("/v1/irr", limited(calculator.IRR))
	mux.Handle("/v1/history", limited(calculator.History))
	mux.Handle("/loan/calculate", limited(loan.CalculateLoan))
	mux.HandleFunc("/healthz", Health)

	return mux
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
