package service

import (
	"context"
	"errors"
	"testing"

	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"

	"github.com/google/uuid"
)

func TestCreateTransaction(t *testing.T) {
	repo := &fakeTransactionRepo{}
	svc := NewTransactionService(repo)
	ownerID := uuid.New()

	note := "office chair"
	record, err := svc.Create(context.Background(), ownerID, dto.CreateTransactionRequest{
		Kind:       "expense",
		Category:   "equipment",
		Amount:     349.90,
		Note:       &note,
		OccurredAt: "2026-03-15",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Kind != entity.TransactionExpense {
		t.Fatalf("kind = %s", record.Kind)
	}
	if record.OccurredAt.Format("2006-01-02") != "2026-03-15" {
		t.Fatalf("occurred_at = %v", record.OccurredAt)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	svc := NewTransactionService(&fakeTransactionRepo{})
	ownerID := uuid.New()

	cases := []struct {
		name  string
		input dto.CreateTransactionRequest
	}{
		{"unknown kind", dto.CreateTransactionRequest{Kind: "transfer", Category: "misc", Amount: 10, OccurredAt: "2026-03-15"}},
		{"blank category", dto.CreateTransactionRequest{Kind: "income", Category: "   ", Amount: 10, OccurredAt: "2026-03-15"}},
		{"zero amount", dto.CreateTransactionRequest{Kind: "income", Category: "misc", Amount: 0, OccurredAt: "2026-03-15"}},
		{"negative amount", dto.CreateTransactionRequest{Kind: "income", Category: "misc", Amount: -4, OccurredAt: "2026-03-15"}},
		{"bad date", dto.CreateTransactionRequest{Kind: "income", Category: "misc", Amount: 10, OccurredAt: "15.03.2026"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), ownerID, tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestTransactionSummary(t *testing.T) {
	repo := &fakeTransactionRepo{}
	svc := NewTransactionService(repo)
	ownerID := uuid.New()
	ctx := context.Background()

	entries := []dto.CreateTransactionRequest{
		{Kind: "income", Category: "invoice", Amount: 1200, OccurredAt: "2026-03-01"},
		{Kind: "income", Category: "invoice", Amount: 800, OccurredAt: "2026-03-10"},
		{Kind: "expense", Category: "rent", Amount: 650, OccurredAt: "2026-03-05"},
	}
	for _, entry := range entries {
		if _, err := svc.Create(ctx, ownerID, entry); err != nil {
			t.Fatalf("create %s: %v", entry.Category, err)
		}
	}
	// Another owner's records must stay out of the summary.
	if _, err := svc.Create(ctx, uuid.New(), dto.CreateTransactionRequest{
		Kind: "income", Category: "invoice", Amount: 9999, OccurredAt: "2026-03-02",
	}); err != nil {
		t.Fatalf("create for other owner: %v", err)
	}

	summary, err := svc.Summary(ctx, ownerID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Income != 2000 {
		t.Fatalf("income = %v, want 2000", summary.Income)
	}
	if summary.Expense != 650 {
		t.Fatalf("expense = %v, want 650", summary.Expense)
	}
	if summary.Net != 1350 {
		t.Fatalf("net = %v, want 1350", summary.Net)
	}
}

func TestListRejectsUnknownKind(t *testing.T) {
	svc := NewTransactionService(&fakeTransactionRepo{})
	if _, err := svc.List(context.Background(), uuid.New(), entity.TransactionKind("transfer"), 0, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
