package handler

import (
	"net/http"

	"ledgerlite/api/middleware"
	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type TransactionHandler struct {
	Service  *service.TransactionService
	Validate *validator.Validate
	Logger   *logrus.Logger
}

func NewTransactionHandler(svc *service.TransactionService, validate *validator.Validate, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{Service: svc, Validate: validate, Logger: logger}
}

func (h *TransactionHandler) Create(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req dto.CreateTransactionRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	transaction, err := h.Service.Create(c.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, dto.TransactionResponseFromEntity(transaction))
}

func (h *TransactionHandler) List(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	limit, offset := parseLimitOffset(c)
	kind := entity.TransactionKind(c.QueryParam("kind"))
	transactions, err := h.Service.List(c.Request().Context(), identity.UserID, kind, limit, offset)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, dto.TransactionResponseFromEntity(&transactions[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *TransactionHandler) Summary(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	summary, err := h.Service.Summary(c.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, summary)
}
