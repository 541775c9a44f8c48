package service

import (
	"context"
	"strings"
	"time"

	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/repository"

	"github.com/google/uuid"
)

type TransactionService struct {
	transactions repository.TransactionRepository
}

func NewTransactionService(transactions repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactions: transactions}
}

func (s *TransactionService) Create(ctx context.Context, ownerID uuid.UUID, input dto.CreateTransactionRequest) (*entity.Transaction, error) {
	kind := entity.TransactionKind(input.Kind)
	if kind != entity.TransactionIncome && kind != entity.TransactionExpense {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.Category) == "" || input.Amount <= 0 {
		return nil, ErrInvalidInput
	}
	occurredAt, err := time.Parse("2006-01-02", input.OccurredAt)
	if err != nil {
		return nil, ErrInvalidInput
	}

	transaction := &entity.Transaction{
		OwnerID:    ownerID,
		Kind:       kind,
		Category:   strings.TrimSpace(input.Category),
		Amount:     input.Amount,
		Note:       input.Note,
		OccurredAt: occurredAt,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *TransactionService) List(ctx context.Context, ownerID uuid.UUID, kind entity.TransactionKind, limit, offset int) ([]entity.Transaction, error) {
	if kind != "" && kind != entity.TransactionIncome && kind != entity.TransactionExpense {
		return nil, ErrInvalidInput
	}
	return s.transactions.ListByOwner(ctx, ownerID, kind, limit, offset)
}

func (s *TransactionService) Summary(ctx context.Context, ownerID uuid.UUID) (dto.TransactionSummaryResponse, error) {
	totals, err := s.transactions.TotalsByOwner(ctx, ownerID)
	if err != nil {
		return dto.TransactionSummaryResponse{}, err
	}
	return dto.TransactionSummaryResponse{
		Income:  totals.Income,
		Expense: totals.Expense,
		Net:     totals.Income - totals.Expense,
	}, nil
}
