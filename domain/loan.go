package domain

// LoanInput describes a fixed-rate consumer loan quote request.
// InterestRate is an annual percentage, e.g. 12 for 12%.
type LoanInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermMonths   int     `json:"term_months"`
}

type LoanResult struct {
	MonthlyPayment      float64 `json:"monthly_payment"`
	TotalPayment        float64 `json:"total_payment"`
	TotalInterest       float64 `json:"total_interest"`
	FirstMonthInterest  float64 `json:"first_month_interest"`
	FirstMonthPrincipal float64 `json:"first_month_principal"`
}
