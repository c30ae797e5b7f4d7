package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"financial-calc/domain"
	"financial-calc/service"
)

type CalculatorHandler struct {
	service *service.CalculatorService
}

func NewCalculatorHandler(service *service.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{service: service}
}

func (h *CalculatorHandler) Pmt(w http.ResponseWriter, r *http.Request) {
	serveCalculation(w, r, h.service.Payment)
}

func (h *CalculatorHandler) PV(w http.ResponseWriter, r *http.Request) {
	serveCalculation(w, r, h.service.PresentValue)
}

func (h *CalculatorHandler) FV(w http.ResponseWriter, r *http.Request) {
	serveCalculation(w, r, h.service.FutureValue)
}

func (h *CalculatorHandler) IPmt(w http.ResponseWriter, r *http.Request) {
	serveCalculation(w, r, h.service.InterestPayment)
}

func (h *CalculatorHandler) PPmt(w http.ResponseWriter, r *http.Request) {
	serveCalculation(w, r, h.service.PrincipalPayment)
}

func (h *CalculatorHandler) NPV(w http.ResponseWriter, r *http.Request) {
	serveCalculation(w, r, h.service.NetPresentValue)
}

func (h *CalculatorHandler) IRR(w http.ResponseWriter, r *http.Request) {
	serveCalculation(w, r, h.service.InternalRateOfReturn)
}

// History serves GET /v1/history?limit=N.
func (h *CalculatorHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	calcs, err := h.service.History(r.Context(), limit)
	if err != nil {
		log.Printf("Error loading history: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, calcs)
}

func serveCalculation[In any](
	w http.ResponseWriter,
	r *http.Request,
	calculate func(context.Context, In) (domain.Calculation, error),
) {
	var input In
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := calculate(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, result)
}
