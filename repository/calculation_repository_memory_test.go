package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"financial-calc/domain"
)

func TestCalculationRepositoryMemory_RecentNewestFirst(t *testing.T) {
	repo := NewCalculationRepositoryMemory()
	ctx := context.Background()

	var ids []uuid.UUID
	for _, fn := range []domain.Function{domain.FunctionPmt, domain.FunctionNPV, domain.FunctionIRR} {
		calc := domain.Calculation{ID: uuid.New(), Function: fn}
		ids = append(ids, calc.ID)
		if err := repo.Save(ctx, calc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 calculations, got %d", len(got))
	}
	if got[0].ID != ids[2] || got[1].ID != ids[1] {
		t.Errorf("expected newest first, got %v then %v", got[0].Function, got[1].Function)
	}
}

func TestCalculationRepositoryMemory_RecentLimitLargerThanData(t *testing.T) {
	repo := NewCalculationRepositoryMemory()
	ctx := context.Background()

	repo.Save(ctx, domain.Calculation{ID: uuid.New(), Function: domain.FunctionFV})

	got, _ := repo.Recent(ctx, 50)
	if len(got) != 1 {
		t.Errorf("expected 1 calculation, got %d", len(got))
	}
}
