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

type InvoiceHandler struct {
	Service  *service.InvoiceService
	Validate *validator.Validate
	Logger   *logrus.Logger
}

func NewInvoiceHandler(svc *service.InvoiceService, validate *validator.Validate, logger *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{Service: svc, Validate: validate, Logger: logger}
}

func (h *InvoiceHandler) Create(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req dto.CreateInvoiceRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	invoice, err := h.Service.Create(c.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, dto.InvoiceResponseFromEntity(invoice))
}

func (h *InvoiceHandler) List(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	limit, offset := parseLimitOffset(c)
	status := entity.InvoiceStatus(c.QueryParam("status"))
	invoices, err := h.Service.List(c.Request().Context(), identity.UserID, status, limit, offset)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	responses := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, dto.InvoiceResponseFromEntity(&invoices[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *InvoiceHandler) Get(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid invoice id")
	}
	invoice, err := h.Service.Get(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.InvoiceResponseFromEntity(invoice))
}

func (h *InvoiceHandler) UpdateStatus(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid invoice id")
	}
	var req dto.UpdateInvoiceStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	invoice, err := h.Service.UpdateStatus(c.Request().Context(), identity.UserID, id, entity.InvoiceStatus(req.Status))
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.InvoiceResponseFromEntity(invoice))
}

func (h *InvoiceHandler) Delete(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid invoice id")
	}
	if err := h.Service.Delete(c.Request().Context(), identity.UserID, id); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
