package dto

import (
	"time"

	"ledgerlite/internal/entity"
)

type CustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=1000"`
}

type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LineItemRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"required,gte=0"`
}

type LineItemResponse struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

type CreateInvoiceRequest struct {
	CustomerID string            `json:"customer_id" validate:"required,uuid"`
	IssuedAt   string            `json:"issued_at" validate:"required,datetime=2006-01-02"`
	DueAt      string            `json:"due_at" validate:"required,datetime=2006-01-02"`
	TaxRate    float64           `json:"tax_rate" validate:"gte=0,lte=100"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type InvoiceResponse struct {
	ID         string             `json:"id"`
	Number     string             `json:"number"`
	CustomerID string             `json:"customer_id"`
	Status     string             `json:"status"`
	IssuedAt   time.Time          `json:"issued_at"`
	DueAt      time.Time          `json:"due_at"`
	Subtotal   float64            `json:"subtotal"`
	TaxRate    float64            `json:"tax_rate"`
	Total      float64            `json:"total"`
	Items      []LineItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=sent paid overdue"`
}

type CreateQuotationRequest struct {
	CustomerID string            `json:"customer_id" validate:"required,uuid"`
	IssuedAt   string            `json:"issued_at" validate:"required,datetime=2006-01-02"`
	ValidThru  string            `json:"valid_thru" validate:"required,datetime=2006-01-02"`
	TaxRate    float64           `json:"tax_rate" validate:"gte=0,lte=100"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type QuotationResponse struct {
	ID         string             `json:"id"`
	Number     string             `json:"number"`
	CustomerID string             `json:"customer_id"`
	Status     string             `json:"status"`
	IssuedAt   time.Time          `json:"issued_at"`
	ValidThru  time.Time          `json:"valid_thru"`
	Subtotal   float64            `json:"subtotal"`
	TaxRate    float64            `json:"tax_rate"`
	Total      float64            `json:"total"`
	InvoiceID  *string            `json:"invoice_id,omitempty"`
	Items      []LineItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
}

type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=sent accepted declined"`
}

type CreateTransactionRequest struct {
	Kind       string  `json:"kind" validate:"required,oneof=income expense"`
	Category   string  `json:"category" validate:"required,max=100"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Note       *string `json:"note" validate:"omitempty,max=1000"`
	OccurredAt string  `json:"occurred_at" validate:"required,datetime=2006-01-02"`
}

type TransactionResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Category   string    `json:"category"`
	Amount     float64   `json:"amount"`
	Note       *string   `json:"note,omitempty"`
	InvoiceID  *string   `json:"invoice_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type TransactionSummaryResponse struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

func CustomerResponseFromEntity(customer *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID.String(),
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
	}
}

func InvoiceResponseFromEntity(invoice *entity.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	return InvoiceResponse{
		ID:         invoice.ID.String(),
		Number:     invoice.Number,
		CustomerID: invoice.CustomerID.String(),
		Status:     string(invoice.Status),
		IssuedAt:   invoice.IssuedAt,
		DueAt:      invoice.DueAt,
		Subtotal:   invoice.Subtotal,
		TaxRate:    invoice.TaxRate,
		Total:      invoice.Total,
		Items:      items,
		CreatedAt:  invoice.CreatedAt,
	}
}

func QuotationResponseFromEntity(quotation *entity.Quotation) QuotationResponse {
	items := make([]LineItemResponse, 0, len(quotation.Items))
	for _, item := range quotation.Items {
		items = append(items, LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	var invoiceID *string
	if quotation.InvoiceID != nil {
		value := quotation.InvoiceID.String()
		invoiceID = &value
	}
	return QuotationResponse{
		ID:         quotation.ID.String(),
		Number:     quotation.Number,
		CustomerID: quotation.CustomerID.String(),
		Status:     string(quotation.Status),
		IssuedAt:   quotation.IssuedAt,
		ValidThru:  quotation.ValidThru,
		Subtotal:   quotation.Subtotal,
		TaxRate:    quotation.TaxRate,
		Total:      quotation.Total,
		InvoiceID:  invoiceID,
		Items:      items,
		CreatedAt:  quotation.CreatedAt,
	}
}

func TransactionResponseFromEntity(transaction *entity.Transaction) TransactionResponse {
	var invoiceID *string
	if transaction.InvoiceID != nil {
		value := transaction.InvoiceID.String()
		invoiceID = &value
	}
	return TransactionResponse{
		ID:         transaction.ID.String(),
		Kind:       string(transaction.Kind),
		Category:   transaction.Category,
		Amount:     transaction.Amount,
		Note:       transaction.Note,
		InvoiceID:  invoiceID,
		OccurredAt: transaction.OccurredAt,
	}
}
