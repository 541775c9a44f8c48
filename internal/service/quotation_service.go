package service

import (
	"context"
	"errors"
	"fmt"

	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/repository"

	"github.com/google/uuid"
)

var quotationTransitions = map[entity.QuotationStatus][]entity.QuotationStatus{
	entity.QuotationDraft: {entity.QuotationSent},
	entity.QuotationSent:  {entity.QuotationAccepted, entity.QuotationDeclined},
}

type QuotationService struct {
	quotations repository.QuotationRepository
	customers  repository.CustomerRepository
	invoices   *InvoiceService
}

func NewQuotationService(
	quotations repository.QuotationRepository,
	customers repository.CustomerRepository,
	invoices *InvoiceService,
) *QuotationService {
	return &QuotationService{
		quotations: quotations,
		customers:  customers,
		invoices:   invoices,
	}
}

func (s *QuotationService) Create(ctx context.Context, ownerID uuid.UUID, input dto.CreateQuotationRequest) (*entity.Quotation, error) {
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

	issuedAt, validThru, err := parseDateRange(input.IssuedAt, input.ValidThru)
	if err != nil {
		return nil, err
	}

	lineItems, subtotal, err := buildInvoiceItems(input.Items)
	if err != nil {
		return nil, err
	}
	items := make([]entity.QuotationItem, 0, len(lineItems))
	for _, item := range lineItems {
		items = append(items, entity.QuotationItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	total := roundMoney(subtotal * (1 + input.TaxRate/100))

	for attempt := 0; attempt < 3; attempt++ {
		seq, err := s.quotations.NextNumber(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		quotation := &entity.Quotation{
			OwnerID:    ownerID,
			Number:     fmt.Sprintf("QUO-%04d", seq),
			CustomerID: customerID,
			Status:     entity.QuotationDraft,
			IssuedAt:   issuedAt,
			ValidThru:  validThru,
			Subtotal:   subtotal,
			TaxRate:    input.TaxRate,
			Total:      total,
			Items:      items,
		}
		err = s.quotations.Create(ctx, quotation)
		if errors.Is(err, repository.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return quotation, nil
	}
	return nil, ErrDuplicateNumber
}

func (s *QuotationService) Get(ctx context.Context, ownerID, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotations.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, ErrNotFound
	}
	return quotation, nil
}

func (s *QuotationService) List(ctx context.Context, ownerID uuid.UUID, status entity.QuotationStatus, limit, offset int) ([]entity.Quotation, error) {
	return s.quotations.ListByOwner(ctx, ownerID, status, limit, offset)
}

func (s *QuotationService) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, target entity.QuotationStatus) (*entity.Quotation, error) {
	quotation, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range quotationTransitions[quotation.Status] {
		if status == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrIllegalTransition
	}

	applied, err := s.quotations.UpdateStatus(ctx, ownerID, id, quotation.Status, target)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrIllegalTransition
	}
	quotation.Status = target
	return quotation, nil
}

// ConvertToInvoice turns an accepted quotation into a draft invoice carrying
// the same items and terms. A quotation converts at most once.
func (s *QuotationService) ConvertToInvoice(ctx context.Context, ownerID, id uuid.UUID) (*entity.Invoice, error) {
	quotation, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != entity.QuotationAccepted || quotation.InvoiceID != nil {
		return nil, ErrIllegalTransition
	}

	items := make([]dto.LineItemRequest, 0, len(quotation.Items))
	for _, item := range quotation.Items {
		items = append(items, dto.LineItemRequest{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	invoice, err := s.invoices.Create(ctx, ownerID, dto.CreateInvoiceRequest{
		CustomerID: quotation.CustomerID.String(),
		IssuedAt:   quotation.IssuedAt.Format("2006-01-02"),
		DueAt:      quotation.ValidThru.Format("2006-01-02"),
		TaxRate:    quotation.TaxRate,
		Items:      items,
	})
	if err != nil {
		return nil, err
	}

	marked, err := s.quotations.MarkConverted(ctx, ownerID, id, invoice.ID)
	if err != nil {
		return nil, err
	}
	if !marked {
		// Lost a race with another conversion; the invoice created above is a
		// draft the owner can delete.
		return nil, ErrIllegalTransition
	}
	return invoice, nil
}
