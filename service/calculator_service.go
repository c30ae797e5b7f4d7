package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"financial-calc/domain"
	"financial-calc/financial"
	"financial-calc/repository"
)

var (
	ErrPeriodsOutOfRange = fmt.Errorf("num_periods must be between -%d and %d", MaxPeriods, MaxPeriods)
	ErrPeriodOutOfRange  = fmt.Errorf("period must be between -%d and %d", MaxPeriods, MaxPeriods)
	ErrInvalidWhenDue    = errors.New("when_due must be 0 (end of period) or 1 (start of period)")
	ErrNonFiniteInput    = errors.New("inputs must be finite numbers")
	ErrNoCashFlows       = errors.New("cash_flows must not be empty")
	ErrTooManyCashFlows  = fmt.Errorf("cash_flows exceeds the maximum of %d entries", MaxCashFlows)
)

// SolverOptions tunes the irr solver. Both fields are passed to the solver
// unchanged; use DefaultSolverOptions for the library defaults.
type SolverOptions struct {
	MaxIterations int
	Tolerance     float64
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: financial.DefaultMaxIterations,
		Tolerance:     financial.DefaultTolerance,
	}
}

func (o SolverOptions) irrOptions() []financial.IRROption {
	return []financial.IRROption{
		financial.WithMaxIterations(o.MaxIterations),
		financial.WithTolerance(o.Tolerance),
	}
}

// irrInputs records the solver settings alongside the cash flows so that
// results computed under different settings never share a cache entry.
type irrInputs struct {
	domain.CashFlowInput
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
}

// CalculatorService evaluates the time-value-of-money functions, caching
// results and recording each fresh evaluation in the repository.
type CalculatorService struct {
	repo   repository.CalculationRepository
	cache  repository.CacheRepository
	solver SolverOptions
	now    func() time.Time
}

// NewCalculatorService creates a new CalculatorService.
func NewCalculatorService(
	repo repository.CalculationRepository,
	cache repository.CacheRepository,
	solver SolverOptions,
) *CalculatorService {
	return &CalculatorService{
		repo:   repo,
		cache:  cache,
		solver: solver,
		now:    time.Now,
	}
}

// Payment evaluates pmt.
func (s *CalculatorService) Payment(ctx context.Context, in domain.AnnuityInput) (domain.Calculation, error) {
	if err := validateAnnuity(in, in.PresentValue, in.FutureValue); err != nil {
		return domain.Calculation{}, err
	}
	return s.run(ctx, domain.FunctionPmt, in, formatAmount, func() (float64, *float64) {
		return financial.Pmt(in.Rate, in.NumPeriods, in.PresentValue, in.FutureValue, financial.WhenDue(in.WhenDue)), nil
	})
}

// PresentValue evaluates pv.
func (s *CalculatorService) PresentValue(ctx context.Context, in domain.AnnuityInput) (domain.Calculation, error) {
	if err := validateAnnuity(in, in.Payment, in.FutureValue); err != nil {
		return domain.Calculation{}, err
	}
	return s.run(ctx, domain.FunctionPV, in, formatAmount, func() (float64, *float64) {
		return financial.PV(in.Rate, in.NumPeriods, in.Payment, in.FutureValue, financial.WhenDue(in.WhenDue)), nil
	})
}

// FutureValue evaluates fv.
func (s *CalculatorService) FutureValue(ctx context.Context, in domain.AnnuityInput) (domain.Calculation, error) {
	if err := validateAnnuity(in, in.Payment, in.PresentValue); err != nil {
		return domain.Calculation{}, err
	}
	return s.run(ctx, domain.FunctionFV, in, formatAmount, func() (float64, *float64) {
		return financial.FV(in.Rate, in.NumPeriods, in.Payment, in.PresentValue, financial.WhenDue(in.WhenDue)), nil
	})
}

// InterestPayment evaluates ipmt.
func (s *CalculatorService) InterestPayment(ctx context.Context, in domain.AnnuityInput) (domain.Calculation, error) {
	if err := validatePeriodic(in); err != nil {
		return domain.Calculation{}, err
	}
	return s.run(ctx, domain.FunctionIPmt, in, formatAmount, func() (float64, *float64) {
		return financial.IPmt(in.Rate, in.Period, in.NumPeriods, in.PresentValue, in.FutureValue, financial.WhenDue(in.WhenDue)), nil
	})
}

// PrincipalPayment evaluates ppmt.
func (s *CalculatorService) PrincipalPayment(ctx context.Context, in domain.AnnuityInput) (domain.Calculation, error) {
	if err := validatePeriodic(in); err != nil {
		return domain.Calculation{}, err
	}
	return s.run(ctx, domain.FunctionPPmt, in, formatAmount, func() (float64, *float64) {
		return financial.PPmt(in.Rate, in.Period, in.NumPeriods, in.PresentValue, in.FutureValue, financial.WhenDue(in.WhenDue)), nil
	})
}

// NetPresentValue evaluates npv.
func (s *CalculatorService) NetPresentValue(ctx context.Context, in domain.CashFlowInput) (domain.Calculation, error) {
	if err := validateCashFlows(in.CashFlows, in.Rate); err != nil {
		return domain.Calculation{}, err
	}
	in.Estimate = nil
	return s.run(ctx, domain.FunctionNPV, in, formatAmount, func() (float64, *float64) {
		return financial.NPV(in.Rate, in.CashFlows), nil
	})
}

// InternalRateOfReturn evaluates irr. The residual npv at the returned rate
// is recorded since the solver itself never reports non-convergence.
func (s *CalculatorService) InternalRateOfReturn(ctx context.Context, in domain.CashFlowInput) (domain.Calculation, error) {
	if err := validateCashFlows(in.CashFlows); err != nil {
		return domain.Calculation{}, err
	}
	opts := s.solver.irrOptions()
	if in.Estimate != nil {
		if !isFinite(*in.Estimate) {
			return domain.Calculation{}, ErrNonFiniteInput
		}
		opts = append(opts, financial.WithEstimate(*in.Estimate))
	}
	in.Rate = 0

	inputs := irrInputs{
		CashFlowInput: in,
		MaxIterations: s.solver.MaxIterations,
		Tolerance:     s.solver.Tolerance,
	}
	return s.run(ctx, domain.FunctionIRR, inputs, formatRate, func() (float64, *float64) {
		rate := financial.IRR(in.CashFlows, opts...)
		return rate, finitePtr(financial.NPV(rate, in.CashFlows))
	})
}

// History returns the most recent calculations, newest first.
func (s *CalculatorService) History(ctx context.Context, limit int) ([]domain.Calculation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	calcs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return calcs, nil
}

func (s *CalculatorService) run(
	ctx context.Context,
	fn domain.Function,
	inputs any,
	display func(float64) string,
	compute func() (float64, *float64),
) (domain.Calculation, error) {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return domain.Calculation{}, fmt.Errorf("failed to encode inputs: %w", err)
	}

	key := repository.CacheKey(string(fn), payload)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var calc domain.Calculation
		if err := json.Unmarshal([]byte(cached), &calc); err == nil {
			return calc, nil
		}
		log.Printf("Warning: discarding unreadable cache entry %s", key)
	}

	value, residual := compute()
	calc := s.newCalculation(fn, payload, value, display)
	calc.Residual = residual

	// Neither caching nor saving is critical to the caller.
	if encoded, err := json.Marshal(calc); err != nil {
		log.Printf("Warning: failed to encode calculation for cache: %v", err)
	} else if err := s.cache.Set(ctx, key, string(encoded)); err != nil {
		log.Printf("Warning: failed to cache calculation: %v", err)
	}
	if err := s.repo.Save(ctx, calc); err != nil {
		log.Printf("Warning: failed to save calculation: %v", err)
	}

	return calc, nil
}

func (s *CalculatorService) newCalculation(
	fn domain.Function,
	inputs []byte,
	value float64,
	display func(float64) string,
) domain.Calculation {
	calc := domain.Calculation{
		ID:        uuid.New(),
		Function:  fn,
		Inputs:    inputs,
		Value:     finitePtr(value),
		Raw:       formatRaw(value),
		Finite:    isFinite(value),
		CreatedAt: s.now().UTC(),
	}
	if calc.Finite {
		calc.Display = display(value)
	}
	return calc
}

func validateAnnuity(in domain.AnnuityInput, amounts ...float64) error {
	if in.NumPeriods < -MaxPeriods || in.NumPeriods > MaxPeriods {
		return ErrPeriodsOutOfRange
	}
	if in.WhenDue != int(financial.EndOfPeriod) && in.WhenDue != int(financial.BeginningOfPeriod) {
		return ErrInvalidWhenDue
	}
	if !isFinite(in.Rate) {
		return ErrNonFiniteInput
	}
	for _, v := range amounts {
		if !isFinite(v) {
			return ErrNonFiniteInput
		}
	}
	return nil
}

func validatePeriodic(in domain.AnnuityInput) error {
	if in.Period < -MaxPeriods || in.Period > MaxPeriods {
		return ErrPeriodOutOfRange
	}
	return validateAnnuity(in, in.PresentValue, in.FutureValue)
}

func validateCashFlows(flows []float64, extra ...float64) error {
	if len(flows) == 0 {
		return ErrNoCashFlows
	}
	if len(flows) > MaxCashFlows {
		return ErrTooManyCashFlows
	}
	for _, v := range append(extra, flows...) {
		if !isFinite(v) {
			return ErrNonFiniteInput
		}
	}
	return nil
}
