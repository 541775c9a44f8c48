package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/repository"

	"github.com/google/uuid"
)

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok || customer.OwnerID != ownerID {
		return nil, nil
	}
	found := *customer
	return &found, nil
}

func (r *fakeCustomerRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, _, _ int) ([]entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Customer
	for _, customer := range r.customers {
		if customer.OwnerID == ownerID {
			out = append(out, *customer)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if ok && customer.OwnerID == ownerID {
		delete(r.customers, id)
	}
	return nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices []*entity.Invoice
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	stored := *invoice
	stored.Items = append([]entity.InvoiceItem(nil), invoice.Items...)
	r.invoices = append(r.invoices, &stored)
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.ID == id && invoice.OwnerID == ownerID {
			found := *invoice
			found.Items = append([]entity.InvoiceItem(nil), invoice.Items...)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, status entity.InvoiceStatus, _, _ int) ([]entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Invoice
	for _, invoice := range r.invoices {
		if invoice.OwnerID != ownerID {
			continue
		}
		if status != "" && invoice.Status != status {
			continue
		}
		out = append(out, *invoice)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, ownerID, id uuid.UUID, from, to entity.InvoiceStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.ID == id && invoice.OwnerID == ownerID && invoice.Status == from {
			invoice.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, ownerID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, invoice := range r.invoices {
		if invoice.ID == id && invoice.OwnerID == ownerID && invoice.Status == entity.InvoiceDraft {
			r.invoices = append(r.invoices[:i], r.invoices[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) NextNumber(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, invoice := range r.invoices {
		if invoice.OwnerID != ownerID {
			continue
		}
		var seq int64
		if _, err := fmt.Sscanf(invoice.Number, "INV-%d", &seq); err == nil && seq > max {
			max = seq
		}
	}
	return max + 1, nil
}

type fakeTransactionRepo struct {
	mu      sync.Mutex
	records []*entity.Transaction
}

func (r *fakeTransactionRepo) Create(_ context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	stored := *transaction
	r.records = append(r.records, &stored)
	return nil
}

func (r *fakeTransactionRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, kind entity.TransactionKind, _, _ int) ([]entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Transaction
	for _, record := range r.records {
		if record.OwnerID != ownerID {
			continue
		}
		if kind != "" && record.Kind != kind {
			continue
		}
		out = append(out, *record)
	}
	return out, nil
}

func (r *fakeTransactionRepo) TotalsByOwner(_ context.Context, ownerID uuid.UUID) (repository.TransactionTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var totals repository.TransactionTotals
	for _, record := range r.records {
		if record.OwnerID != ownerID {
			continue
		}
		switch record.Kind {
		case entity.TransactionIncome:
			totals.Income += record.Amount
		case entity.TransactionExpense:
			totals.Expense += record.Amount
		}
	}
	return totals, nil
}

type billingFixture struct {
	ownerID      uuid.UUID
	customerID   uuid.UUID
	invoices     *fakeInvoiceRepo
	customers    *fakeCustomerRepo
	transactions *fakeTransactionRepo
	service      *InvoiceService
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	ownerID := uuid.New()
	customers := newFakeCustomerRepo()
	customer := &entity.Customer{OwnerID: ownerID, Name: "Acme GmbH"}
	if err := customers.Create(context.Background(), customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	invoices := &fakeInvoiceRepo{}
	transactions := &fakeTransactionRepo{}
	return &billingFixture{
		ownerID:      ownerID,
		customerID:   customer.ID,
		invoices:     invoices,
		customers:    customers,
		transactions: transactions,
		service:      NewInvoiceService(invoices, customers, transactions, RealClock{}),
	}
}

func (f *billingFixture) createInvoice(t *testing.T, taxRate float64, items []dto.LineItemRequest) *entity.Invoice {
	t.Helper()
	invoice, err := f.service.Create(context.Background(), f.ownerID, dto.CreateInvoiceRequest{
		CustomerID: f.customerID.String(),
		IssuedAt:   "2026-01-10",
		DueAt:      "2026-02-10",
		TaxRate:    taxRate,
		Items:      items,
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return invoice
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	f := newBillingFixture(t)
	invoice := f.createInvoice(t, 10, []dto.LineItemRequest{
		{Description: "Design work", Quantity: 2, UnitPrice: 19.99},
		{Description: "Stamp", Quantity: 1, UnitPrice: 0.01},
	})

	if invoice.Number != "INV-0001" {
		t.Fatalf("expected INV-0001, got %s", invoice.Number)
	}
	if invoice.Status != entity.InvoiceDraft {
		t.Fatalf("new invoices must start as draft, got %s", invoice.Status)
	}
	if invoice.Subtotal != 39.99 {
		t.Fatalf("subtotal = %v, want 39.99", invoice.Subtotal)
	}
	if invoice.Total != 43.99 {
		t.Fatalf("total = %v, want 43.99", invoice.Total)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(invoice.Items))
	}
	if invoice.Items[0].Amount != 39.98 {
		t.Fatalf("item amount = %v, want 39.98", invoice.Items[0].Amount)
	}
}

func TestInvoiceNumbersIncrementPerOwner(t *testing.T) {
	f := newBillingFixture(t)
	items := []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}}

	first := f.createInvoice(t, 0, items)
	second := f.createInvoice(t, 0, items)
	if first.Number != "INV-0001" || second.Number != "INV-0002" {
		t.Fatalf("got %s then %s", first.Number, second.Number)
	}
}

func TestInvoiceNumberNotReusedAfterDraftDelete(t *testing.T) {
	f := newBillingFixture(t)
	items := []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}}
	ctx := context.Background()

	first := f.createInvoice(t, 0, items)
	second := f.createInvoice(t, 0, items)
	if second.Number != "INV-0002" {
		t.Fatalf("second number = %s, want INV-0002", second.Number)
	}

	if err := f.service.Delete(ctx, f.ownerID, first.ID); err != nil {
		t.Fatalf("delete first draft: %v", err)
	}

	// The gap left by the deleted draft must not put INV-0002 back in play.
	third := f.createInvoice(t, 0, items)
	if third.Number != "INV-0003" {
		t.Fatalf("third number = %s, want INV-0003", third.Number)
	}
}

// dupInvoiceRepo refuses the first creates with a duplicate-key error, the way
// the unique owner+number index does when two creates race.
type dupInvoiceRepo struct {
	fakeInvoiceRepo
	failures int
}

func (r *dupInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if r.failures > 0 {
		r.failures--
		return repository.ErrDuplicateKey
	}
	return r.fakeInvoiceRepo.Create(ctx, invoice)
}

func TestCreateInvoiceRetriesOnDuplicateNumber(t *testing.T) {
	f := newBillingFixture(t)
	invoices := &dupInvoiceRepo{failures: 2}
	svc := NewInvoiceService(invoices, f.customers, f.transactions, RealClock{})

	invoice, err := svc.Create(context.Background(), f.ownerID, dto.CreateInvoiceRequest{
		CustomerID: f.customerID.String(),
		IssuedAt:   "2026-01-10",
		DueAt:      "2026-02-10",
		Items:      []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}},
	})
	if err != nil {
		t.Fatalf("create should survive duplicate collisions: %v", err)
	}
	if invoice.Number != "INV-0001" {
		t.Fatalf("number = %s, want INV-0001", invoice.Number)
	}
}

func TestCreateInvoicePersistentDuplicate(t *testing.T) {
	f := newBillingFixture(t)
	invoices := &dupInvoiceRepo{failures: 10}
	svc := NewInvoiceService(invoices, f.customers, f.transactions, RealClock{})

	_, err := svc.Create(context.Background(), f.ownerID, dto.CreateInvoiceRequest{
		CustomerID: f.customerID.String(),
		IssuedAt:   "2026-01-10",
		DueAt:      "2026-02-10",
		Items:      []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}},
	})
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("expected ErrDuplicateNumber, got %v", err)
	}
}

func TestCreateInvoiceUnknownCustomer(t *testing.T) {
	f := newBillingFixture(t)
	_, err := f.service.Create(context.Background(), f.ownerID, dto.CreateInvoiceRequest{
		CustomerID: uuid.NewString(),
		IssuedAt:   "2026-01-10",
		DueAt:      "2026-02-10",
		Items:      []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateInvoiceRejectsBadInput(t *testing.T) {
	f := newBillingFixture(t)
	cases := []struct {
		name  string
		input dto.CreateInvoiceRequest
	}{
		{"no items", dto.CreateInvoiceRequest{
			CustomerID: f.customerID.String(),
			IssuedAt:   "2026-01-10", DueAt: "2026-02-10",
		}},
		{"zero quantity", dto.CreateInvoiceRequest{
			CustomerID: f.customerID.String(),
			IssuedAt:   "2026-01-10", DueAt: "2026-02-10",
			Items: []dto.LineItemRequest{{Description: "Work", Quantity: 0, UnitPrice: 100}},
		}},
		{"negative price", dto.CreateInvoiceRequest{
			CustomerID: f.customerID.String(),
			IssuedAt:   "2026-01-10", DueAt: "2026-02-10",
			Items: []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: -5}},
		}},
		{"due before issue", dto.CreateInvoiceRequest{
			CustomerID: f.customerID.String(),
			IssuedAt:   "2026-02-10", DueAt: "2026-01-10",
			Items: []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}},
		}},
		{"bad customer id", dto.CreateInvoiceRequest{
			CustomerID: "not-a-uuid",
			IssuedAt:   "2026-01-10", DueAt: "2026-02-10",
			Items: []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.service.Create(context.Background(), f.ownerID, tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestInvoiceStatusTransitions(t *testing.T) {
	f := newBillingFixture(t)
	invoice := f.createInvoice(t, 0, []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}})
	ctx := context.Background()

	if _, err := f.service.UpdateStatus(ctx, f.ownerID, invoice.ID, entity.InvoicePaid); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("draft -> paid must be illegal, got %v", err)
	}

	updated, err := f.service.UpdateStatus(ctx, f.ownerID, invoice.ID, entity.InvoiceSent)
	if err != nil {
		t.Fatalf("draft -> sent: %v", err)
	}
	if updated.Status != entity.InvoiceSent {
		t.Fatalf("status = %s, want sent", updated.Status)
	}

	if _, err := f.service.UpdateStatus(ctx, f.ownerID, invoice.ID, entity.InvoicePaid); err != nil {
		t.Fatalf("sent -> paid: %v", err)
	}

	if _, err := f.service.UpdateStatus(ctx, f.ownerID, invoice.ID, entity.InvoiceSent); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("paid is terminal, got %v", err)
	}
}

func TestPaidInvoiceRecordsIncome(t *testing.T) {
	f := newBillingFixture(t)
	invoice := f.createInvoice(t, 19, []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}})
	ctx := context.Background()

	if _, err := f.service.UpdateStatus(ctx, f.ownerID, invoice.ID, entity.InvoiceSent); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := f.service.UpdateStatus(ctx, f.ownerID, invoice.ID, entity.InvoicePaid); err != nil {
		t.Fatalf("pay: %v", err)
	}

	records, err := f.transactions.ListByOwner(ctx, f.ownerID, entity.TransactionIncome, 0, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one income record, got %d", len(records))
	}
	if records[0].Amount != invoice.Total {
		t.Fatalf("amount = %v, want %v", records[0].Amount, invoice.Total)
	}
	if records[0].InvoiceID == nil || *records[0].InvoiceID != invoice.ID {
		t.Fatal("income record should point at the paid invoice")
	}
}

func TestOverduePathStillCollects(t *testing.T) {
	f := newBillingFixture(t)
	invoice := f.createInvoice(t, 0, []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}})
	ctx := context.Background()

	for _, target := range []entity.InvoiceStatus{entity.InvoiceSent, entity.InvoiceOverdue, entity.InvoicePaid} {
		if _, err := f.service.UpdateStatus(ctx, f.ownerID, invoice.ID, target); err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}
}

func TestDeleteInvoiceDraftOnly(t *testing.T) {
	f := newBillingFixture(t)
	invoice := f.createInvoice(t, 0, []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}})
	ctx := context.Background()

	if _, err := f.service.UpdateStatus(ctx, f.ownerID, invoice.ID, entity.InvoiceSent); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := f.service.Delete(ctx, f.ownerID, invoice.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("sent invoices must not delete, got %v", err)
	}

	draft := f.createInvoice(t, 0, []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 50}})
	if err := f.service.Delete(ctx, f.ownerID, draft.ID); err != nil {
		t.Fatalf("delete draft: %v", err)
	}
	if _, err := f.service.Get(ctx, f.ownerID, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted invoice should be gone, got %v", err)
	}
}

func TestInvoiceScopedToOwner(t *testing.T) {
	f := newBillingFixture(t)
	invoice := f.createInvoice(t, 0, []dto.LineItemRequest{{Description: "Work", Quantity: 1, UnitPrice: 100}})

	stranger := uuid.New()
	if _, err := f.service.Get(context.Background(), stranger, invoice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("another owner must not see the invoice, got %v", err)
	}
}
