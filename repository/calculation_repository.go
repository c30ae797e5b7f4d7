package repository

import (
	"context"

	"financial-calc/domain"
)

type CalculationRepository interface {
	Save(ctx context.Context, calc domain.Calculation) error
	// Recent returns at most limit calculations, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Calculation, error)
}
