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

type LoanService struct {
	repo repository.CalculationRepository
	now  func() time.Time
}

// NewLoanService creates a new LoanService with the given repository.
func NewLoanService(repo repository.CalculationRepository) *LoanService {
	return &LoanService{repo: repo, now: time.Now}
}

// CalculateLoan quotes a fully amortizing monthly loan. Unlike the raw pmt
// function, a zero interest rate is quoted as amount / term.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanResult, error) {

	if input.Amount <= 0 {
		return domain.LoanResult{}, errors.New("invalid amount")
	}
	if input.Amount > MaxLoanAmount {
		return domain.LoanResult{}, fmt.Errorf("amount exceeds the maximum of %.2f", MaxLoanAmount)
	}
	if input.InterestRate < 0 {
		return domain.LoanResult{}, errors.New("invalid interest rate")
	}
	if input.InterestRate > MaxInterestRate {
		return domain.LoanResult{}, fmt.Errorf("interest rate exceeds the maximum of %.2f%%", MaxInterestRate)
	}
	if input.TermMonths < MinTermMonths {
		return domain.LoanResult{}, errors.New("invalid term")
	}
	if input.TermMonths > MaxTermMonths {
		return domain.LoanResult{}, fmt.Errorf("term exceeds the maximum of %d months", MaxTermMonths)
	}

	var payment, firstInterest, firstPrincipal float64

	if input.InterestRate == 0 {
		payment = input.Amount / float64(input.TermMonths)
		firstPrincipal = payment
	} else {
		monthlyRate := (input.InterestRate / 100) / 12
		n := input.TermMonths

		// The borrower receives the amount, so it enters as a negative present value.
		payment = financial.Pmt(monthlyRate, n, -input.Amount, 0, financial.EndOfPeriod)
		firstInterest = financial.IPmt(monthlyRate, 1, n, -input.Amount, 0, financial.EndOfPeriod)
		firstPrincipal = financial.PPmt(monthlyRate, 1, n, -input.Amount, 0, financial.EndOfPeriod)
	}

	total := payment * float64(input.TermMonths)
	interest := total - input.Amount

	result := domain.LoanResult{
		MonthlyPayment:      roundTo2Decimals(payment),
		TotalPayment:        roundTo2Decimals(total),
		TotalInterest:       roundTo2Decimals(interest),
		FirstMonthInterest:  roundTo2Decimals(firstInterest),
		FirstMonthPrincipal: roundTo2Decimals(firstPrincipal),
	}

	// Saving the quote is not critical.
	if err := s.save(ctx, input, result); err != nil {
		log.Printf("Warning: failed to save loan calculation: %v", err)
	}

	return result, nil
}

func (s *LoanService) save(ctx context.Context, input domain.LoanInput, result domain.LoanResult) error {
	inputs, err := json.Marshal(input)
	if err != nil {
		return err
	}
	payment := result.MonthlyPayment
	return s.repo.Save(ctx, domain.Calculation{
		ID:        uuid.New(),
		Function:  domain.FunctionLoan,
		Inputs:    inputs,
		Value:     &payment,
		Raw:       formatRaw(payment),
		Finite:    true,
		Display:   formatAmount(payment),
		CreatedAt: s.now().UTC(),
	})
}
