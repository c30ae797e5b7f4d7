package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"financial-calc/domain"
	"financial-calc/financial"
	"financial-calc/repository"
)

type countingCache struct {
	*repository.MemoryCache
	sets int
}

func (c *countingCache) Set(ctx context.Context, key, value string) error {
	c.sets++
	return c.MemoryCache.Set(ctx, key, value)
}

func newTestCalculator() (*CalculatorService, *MockCalculationRepository, *countingCache) {
	repo := &MockCalculationRepository{}
	cache := &countingCache{MemoryCache: repository.NewMemoryCache()}
	return NewCalculatorService(repo, cache, DefaultSolverOptions()), repo, cache
}

func TestPayment_StandardAnnuity(t *testing.T) {
	svc, repo, _ := newTestCalculator()

	calc, err := svc.Payment(context.Background(), domain.AnnuityInput{
		Rate:         0.05,
		NumPeriods:   10,
		PresentValue: -1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calc.Value == nil || math.Abs(*calc.Value-129.5046) > 1e-4 {
		t.Fatalf("expected 129.5046, got %v", calc.Value)
	}
	if calc.Display != "129.50" {
		t.Errorf("expected display 129.50, got %q", calc.Display)
	}
	if !calc.Finite {
		t.Errorf("expected finite result")
	}
	if len(repo.Saved) != 1 {
		t.Errorf("expected calculation to be saved")
	}
}

func TestPayment_CachedOnSecondCall(t *testing.T) {
	svc, repo, cache := newTestCalculator()
	in := domain.AnnuityInput{Rate: 0.01, NumPeriods: 36, PresentValue: 15000}

	first, err := svc.Payment(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Payment(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected cached calculation, got new id")
	}
	if cache.sets != 1 || len(repo.Saved) != 1 {
		t.Errorf("expected one cache write and one save, got %d and %d", cache.sets, len(repo.Saved))
	}
}

func TestPayment_ZeroRateReportedNotFinite(t *testing.T) {
	svc, _, _ := newTestCalculator()

	calc, err := svc.Payment(context.Background(), domain.AnnuityInput{
		Rate:         0,
		NumPeriods:   10,
		PresentValue: -1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calc.Finite || calc.Value != nil {
		t.Errorf("expected non-finite result, got %+v", calc)
	}
	if calc.Raw != "NaN" {
		t.Errorf("expected raw NaN, got %q", calc.Raw)
	}
	if calc.Display != "" {
		t.Errorf("expected no display for NaN, got %q", calc.Display)
	}
}

func TestAnnuityFunctions_RoundTrip(t *testing.T) {
	svc, _, _ := newTestCalculator()
	ctx := context.Background()

	pmt, _ := svc.Payment(ctx, domain.AnnuityInput{Rate: 0.004, NumPeriods: 120, PresentValue: 50000, FutureValue: -10000, WhenDue: 1})

	pv, err := svc.PresentValue(ctx, domain.AnnuityInput{Rate: 0.004, NumPeriods: 120, Payment: *pmt.Value, FutureValue: -10000, WhenDue: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(*pv.Value-50000) > 1e-6 {
		t.Errorf("expected 50000, got %.6f", *pv.Value)
	}

	fv, err := svc.FutureValue(ctx, domain.AnnuityInput{Rate: 0.004, NumPeriods: 120, Payment: *pmt.Value, PresentValue: 50000, WhenDue: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(*fv.Value+10000) > 1e-6 {
		t.Errorf("expected -10000, got %.6f", *fv.Value)
	}
}

func TestInterestAndPrincipalSumToPayment(t *testing.T) {
	svc, _, _ := newTestCalculator()
	ctx := context.Background()
	in := domain.AnnuityInput{Rate: 0.1 / 12, NumPeriods: 24, Period: 7, PresentValue: 2000}

	pmt, _ := svc.Payment(ctx, in)
	ipmt, err := svc.InterestPayment(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ppmt, err := svc.PrincipalPayment(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(*ipmt.Value+*ppmt.Value-*pmt.Value) > 1e-9 {
		t.Errorf("expected ipmt + ppmt = pmt, got %v + %v != %v", *ipmt.Value, *ppmt.Value, *pmt.Value)
	}
}

func TestAnnuityValidation(t *testing.T) {
	svc, repo, _ := newTestCalculator()
	ctx := context.Background()

	cases := []struct {
		name string
		in   domain.AnnuityInput
		want error
	}{
		{"too many periods", domain.AnnuityInput{Rate: 0.01, NumPeriods: MaxPeriods + 1}, ErrPeriodsOutOfRange},
		{"bad when_due", domain.AnnuityInput{Rate: 0.01, NumPeriods: 12, WhenDue: 2}, ErrInvalidWhenDue},
		{"nan rate", domain.AnnuityInput{Rate: math.NaN(), NumPeriods: 12}, ErrNonFiniteInput},
		{"inf present value", domain.AnnuityInput{Rate: 0.01, NumPeriods: 12, PresentValue: math.Inf(1)}, ErrNonFiniteInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Payment(ctx, tc.in)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := svc.InterestPayment(ctx, domain.AnnuityInput{Rate: 0.01, NumPeriods: 12, Period: MaxPeriods + 1}); !errors.Is(err, ErrPeriodOutOfRange) {
		t.Errorf("expected %v, got %v", ErrPeriodOutOfRange, err)
	}
	if repo.SaveCalled {
		t.Errorf("repository Save should NOT be called for invalid input")
	}
}

func TestNetPresentValue(t *testing.T) {
	svc, _, _ := newTestCalculator()

	calc, err := svc.NetPresentValue(context.Background(), domain.CashFlowInput{
		Rate:      0,
		CashFlows: []float64{-100, 30, 40, 50},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *calc.Value != 20 {
		t.Errorf("expected 20, got %v", *calc.Value)
	}
}

func TestInternalRateOfReturn_Textbook(t *testing.T) {
	svc, _, _ := newTestCalculator()

	calc, err := svc.InternalRateOfReturn(context.Background(), domain.CashFlowInput{
		CashFlows: []float64{-100, 39, 59, 55, 20},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(*calc.Value-0.28095) > 1e-4 {
		t.Errorf("expected ~0.28095, got %v", *calc.Value)
	}
	if calc.Display != "28.0948%" {
		t.Errorf("expected display 28.0948%%, got %q", calc.Display)
	}
	if calc.Residual == nil || math.Abs(*calc.Residual) > 1e-10 {
		t.Errorf("expected residual near 0, got %v", calc.Residual)
	}
}

func TestInternalRateOfReturn_ResidualShowsNonConvergence(t *testing.T) {
	svc, _, _ := newTestCalculator()

	// Newton-Raphson needs more than 10 updates from the default guess here.
	calc, err := svc.InternalRateOfReturn(context.Background(), domain.CashFlowInput{
		CashFlows: []float64{-1000, 300, 400, 500, 200},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calc.Residual == nil || math.Abs(*calc.Residual) < 1e-10 {
		t.Errorf("expected a visible residual, got %v", calc.Residual)
	}
}

func TestInternalRateOfReturn_SolverOptions(t *testing.T) {
	repo := &MockCalculationRepository{}
	svc := NewCalculatorService(repo, repository.NewMemoryCache(), SolverOptions{MaxIterations: 50, Tolerance: financial.DefaultTolerance})

	calc, err := svc.InternalRateOfReturn(context.Background(), domain.CashFlowInput{
		CashFlows: []float64{-1000, 300, 400, 500, 200},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calc.Residual == nil || math.Abs(*calc.Residual) > 1e-10 {
		t.Errorf("expected convergence with more iterations, got residual %v", calc.Residual)
	}
}

func TestInternalRateOfReturn_NaNForNegativeBase(t *testing.T) {
	svc, _, _ := newTestCalculator()

	calc, err := svc.InternalRateOfReturn(context.Background(), domain.CashFlowInput{
		CashFlows: []float64{-100, -10, -20},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calc.Finite || calc.Raw != "NaN" || calc.Residual != nil {
		t.Errorf("expected NaN result without residual, got %+v", calc)
	}
}

func TestCashFlowValidation(t *testing.T) {
	svc, _, _ := newTestCalculator()
	ctx := context.Background()

	if _, err := svc.NetPresentValue(ctx, domain.CashFlowInput{Rate: 0.1}); !errors.Is(err, ErrNoCashFlows) {
		t.Errorf("expected %v, got %v", ErrNoCashFlows, err)
	}
	if _, err := svc.InternalRateOfReturn(ctx, domain.CashFlowInput{CashFlows: make([]float64, MaxCashFlows+1)}); !errors.Is(err, ErrTooManyCashFlows) {
		t.Errorf("expected %v, got %v", ErrTooManyCashFlows, err)
	}
	estimate := math.Inf(-1)
	if _, err := svc.InternalRateOfReturn(ctx, domain.CashFlowInput{CashFlows: []float64{-1, 2}, Estimate: &estimate}); !errors.Is(err, ErrNonFiniteInput) {
		t.Errorf("expected %v, got %v", ErrNonFiniteInput, err)
	}
}

func TestHistory(t *testing.T) {
	svc, _, _ := newTestCalculator()
	ctx := context.Background()

	svc.NetPresentValue(ctx, domain.CashFlowInput{Rate: 0.1, CashFlows: []float64{-100, 110}})
	svc.Payment(ctx, domain.AnnuityInput{Rate: 0.05, NumPeriods: 10, PresentValue: -1000})

	calcs, err := svc.History(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calcs) != 2 {
		t.Errorf("expected 2 calculations, got %d", len(calcs))
	}
}

func TestInternalRateOfReturn_SolverOptionsPassedThrough(t *testing.T) {
	flows := []float64{-100, 110}
	svc := NewCalculatorService(&MockCalculationRepository{}, repository.NewMemoryCache(), SolverOptions{
		MaxIterations: 1,
		Tolerance:     financial.DefaultTolerance,
	})

	calc, err := svc.InternalRateOfReturn(context.Background(), domain.CashFlowInput{CashFlows: flows})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := financial.IRR(flows, financial.WithMaxIterations(1))
	if calc.Value == nil || *calc.Value != want {
		t.Errorf("expected one solver update (%v), got %v", want, calc.Value)
	}
}

func TestDefaultSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()

	if opts.MaxIterations != 10 || opts.Tolerance != 1e-13 {
		t.Errorf("expected 10 iterations and 1e-13, got %+v", opts)
	}
}
