package repository

import (
	"context"
	"sync"

	"financial-calc/domain"
)

// CalculationRepositoryMemory is an in-memory implementation of CalculationRepository.
type CalculationRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.Calculation
}

// NewCalculationRepositoryMemory creates a new in-memory calculation repository.
func NewCalculationRepositoryMemory() *CalculationRepositoryMemory {
	return &CalculationRepositoryMemory{
		data: []domain.Calculation{},
	}
}

// Save stores the calculation in memory.
func (r *CalculationRepositoryMemory) Save(
	ctx context.Context,
	calc domain.Calculation,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, calc)
	return nil
}

func (r *CalculationRepositoryMemory) Recent(
	ctx context.Context,
	limit int,
) ([]domain.Calculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.data) {
		limit = len(r.data)
	}

	out := make([]domain.Calculation, 0, limit)
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}
