package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/repository"

	"github.com/google/uuid"
)

var invoiceTransitions = map[entity.InvoiceStatus][]entity.InvoiceStatus{
	entity.InvoiceDraft:   {entity.InvoiceSent},
	entity.InvoiceSent:    {entity.InvoicePaid, entity.InvoiceOverdue},
	entity.InvoiceOverdue: {entity.InvoicePaid},
}

type InvoiceService struct {
	invoices     repository.InvoiceRepository
	customers    repository.CustomerRepository
	transactions repository.TransactionRepository
	clock        Clock
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	transactions repository.TransactionRepository,
	clock Clock,
) *InvoiceService {
	return &InvoiceService{
		invoices:     invoices,
		customers:    customers,
		transactions: transactions,
		clock:        clock,
	}
}

func (s *InvoiceService) Create(ctx context.Context, ownerID uuid.UUID, input dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	customerID, err := uuid.Parse(input.CustomerID)
	if err != nil {
		return nil, ErrInvalidInput
	}
	customer, err := s.customers.FindByID(ctx, ownerID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}

	issuedAt, dueAt, err := parseDateRange(input.IssuedAt, input.DueAt)
	if err != nil {
		return nil, err
	}

	items, subtotal, err := buildInvoiceItems(input.Items)
	if err != nil {
		return nil, err
	}
	total := roundMoney(subtotal * (1 + input.TaxRate/100))

	// Concurrent creates can race to the same number; the unique index rejects
	// the loser, which retries with a fresh sequence.
	for attempt := 0; attempt < 3; attempt++ {
		number, err := s.nextNumber(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		invoice := &entity.Invoice{
			OwnerID:    ownerID,
			Number:     number,
			CustomerID: customerID,
			Status:     entity.InvoiceDraft,
			IssuedAt:   issuedAt,
			DueAt:      dueAt,
			Subtotal:   subtotal,
			TaxRate:    input.TaxRate,
			Total:      total,
			Items:      items,
		}
		err = s.invoices.Create(ctx, invoice)
		if errors.Is(err, repository.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return invoice, nil
	}
	return nil, ErrDuplicateNumber
}

func (s *InvoiceService) Get(ctx context.Context, ownerID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrNotFound
	}
	return invoice, nil
}

func (s *InvoiceService) List(ctx context.Context, ownerID uuid.UUID, status entity.InvoiceStatus, limit, offset int) ([]entity.Invoice, error) {
	return s.invoices.ListByOwner(ctx, ownerID, status, limit, offset)
}

// UpdateStatus applies a legal transition. Reaching paid records the invoice
// total as an income transaction.
func (s *InvoiceService) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, target entity.InvoiceStatus) (*entity.Invoice, error) {
	invoice, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(invoiceTransitions[invoice.Status], target) {
		return nil, ErrIllegalTransition
	}

	applied, err := s.invoices.UpdateStatus(ctx, ownerID, id, invoice.Status, target)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Another request moved the invoice first.
		return nil, ErrIllegalTransition
	}
	invoice.Status = target

	if target == entity.InvoicePaid && s.transactions != nil {
		note := "Invoice " + invoice.Number + " paid"
		record := &entity.Transaction{
			OwnerID:    ownerID,
			Kind:       entity.TransactionIncome,
			Category:   "invoice",
			Amount:     invoice.Total,
			Note:       &note,
			InvoiceID:  &invoice.ID,
			OccurredAt: s.now(),
		}
		if err := s.transactions.Create(ctx, record); err != nil {
			return nil, err
		}
	}
	return invoice, nil
}

func (s *InvoiceService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	invoice, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if invoice.Status != entity.InvoiceDraft {
		return ErrIllegalTransition
	}
	deleted, err := s.invoices.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *InvoiceService) nextNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	seq, err := s.invoices.NextNumber(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%04d", seq), nil
}

func (s *InvoiceService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func buildInvoiceItems(inputs []dto.LineItemRequest) ([]entity.InvoiceItem, float64, error) {
	if len(inputs) == 0 {
		return nil, 0, ErrInvalidInput
	}
	items := make([]entity.InvoiceItem, 0, len(inputs))
	var subtotal float64
	for _, input := range inputs {
		if input.Quantity <= 0 || input.UnitPrice < 0 {
			return nil, 0, ErrInvalidInput
		}
		amount := roundMoney(input.Quantity * input.UnitPrice)
		items = append(items, entity.InvoiceItem{
			Description: input.Description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			Amount:      amount,
		})
		subtotal = roundMoney(subtotal + amount)
	}
	return items, subtotal, nil
}

func transitionAllowed(allowed []entity.InvoiceStatus, target entity.InvoiceStatus) bool {
	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidInput
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidInput
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidInput
	}
	return from, to, nil
}

func roundMoney(value float64) float64 {
	return math.Round(value*100) / 100
}
