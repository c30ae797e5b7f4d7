package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Function names a calculation exposed by the service.
type Function string

const (
	FunctionPmt  Function = "pmt"
	FunctionPV   Function = "pv"
	FunctionFV   Function = "fv"
	FunctionIPmt Function = "ipmt"
	FunctionPPmt Function = "ppmt"
	FunctionNPV  Function = "npv"
	FunctionIRR  Function = "irr"
	FunctionLoan Function = "loan"
)

// AnnuityInput carries the arguments of pmt, pv, fv, ipmt and ppmt.
// Fields a function does not use are ignored. WhenDue is 0 for payments at
// the end of each period and 1 for payments at the start.
type AnnuityInput struct {
	Rate         float64 `json:"rate"`
	NumPeriods   int     `json:"num_periods"`
	Period       int     `json:"period,omitempty"`
	PresentValue float64 `json:"present_value"`
	FutureValue  float64 `json:"future_value"`
	Payment      float64 `json:"payment"`
	WhenDue      int     `json:"when_due"`
}

// CashFlowInput carries the arguments of npv and irr. Rate is ignored by irr;
// Estimate is ignored by npv.
type CashFlowInput struct {
	Rate      float64   `json:"rate"`
	CashFlows []float64 `json:"cash_flows"`
	Estimate  *float64  `json:"estimate,omitempty"`
}

// Calculation is one evaluated request as it is cached and stored.
//
// Value is nil when the result is NaN or infinite; Raw always holds the
// formatted float ("NaN", "+Inf", "129.50457496545664"). Residual is only set
// for irr and is the npv of the cash flows at the returned rate.
type Calculation struct {
	ID        uuid.UUID       `json:"id"`
	Function  Function        `json:"function"`
	Inputs    json.RawMessage `json:"inputs"`
	Value     *float64        `json:"value"`
	Raw       string          `json:"raw"`
	Finite    bool            `json:"finite"`
	Display   string          `json:"display,omitempty"`
	Residual  *float64        `json:"residual,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
