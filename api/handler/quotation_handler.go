package handler

import (
	"net/http"

	"ledgerlite/api/middleware"
	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type QuotationHandler struct {
	Service  *service.QuotationService
	Validate *validator.Validate
	Logger   *logrus.Logger
}

func NewQuotationHandler(svc *service.QuotationService, validate *validator.Validate, logger *logrus.Logger) *QuotationHandler {
	return &QuotationHandler{Service: svc, Validate: validate, Logger: logger}
}

func (h *QuotationHandler) Create(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req dto.CreateQuotationRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	quotation, err := h.Service.Create(c.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, dto.QuotationResponseFromEntity(quotation))
}

func (h *QuotationHandler) List(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	limit, offset := parseLimitOffset(c)
	status := entity.QuotationStatus(c.QueryParam("status"))
	quotations, err := h.Service.List(c.Request().Context(), identity.UserID, status, limit, offset)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	responses := make([]dto.QuotationResponse, 0, len(quotations))
	for i := range quotations {
		responses = append(responses, dto.QuotationResponseFromEntity(&quotations[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *QuotationHandler) Get(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid quotation id")
	}
	quotation, err := h.Service.Get(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.QuotationResponseFromEntity(quotation))
}

func (h *QuotationHandler) UpdateStatus(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid quotation id")
	}
	var req dto.UpdateQuotationStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	quotation, err := h.Service.UpdateStatus(c.Request().Context(), identity.UserID, id, entity.QuotationStatus(req.Status))
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.QuotationResponseFromEntity(quotation))
}

func (h *QuotationHandler) Convert(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid quotation id")
	}
	invoice, err := h.Service.ConvertToInvoice(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, dto.InvoiceResponseFromEntity(invoice))
}
