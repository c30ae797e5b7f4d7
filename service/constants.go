package service

const (
	MaxLoanAmount   = 1_000_000_000.0 // 1 billion
	MaxInterestRate = 1000.0          // 1000% per year
	MaxTermMonths   = 600             // 50 years
	MinTermMonths   = 1

	MaxPeriods   = 1200 // upper bound on |num_periods| and |period|
	MaxCashFlows = 1000

	// MaxRequestBytes bounds a JSON request body: MaxCashFlows numbers at
	// up to 32 bytes each plus room for the other fields.
	MaxRequestBytes = MaxCashFlows*32 + 4096

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 500
)
