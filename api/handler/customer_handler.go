package handler

import (
	"net/http"

	"ledgerlite/api/middleware"
	"ledgerlite/internal/dto"
	"ledgerlite/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type CustomerHandler struct {
	Service  *service.CustomerService
	Validate *validator.Validate
	Logger   *logrus.Logger
}

func NewCustomerHandler(svc *service.CustomerService, validate *validator.Validate, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{Service: svc, Validate: validate, Logger: logger}
}

func (h *CustomerHandler) Create(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req dto.CustomerRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	customer, err := h.Service.Create(c.Request().Context(), identity.UserID, req)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, dto.CustomerResponseFromEntity(customer))
}

func (h *CustomerHandler) List(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	limit, offset := parseLimitOffset(c)
	customers, err := h.Service.List(c.Request().Context(), identity.UserID, limit, offset)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	responses := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, dto.CustomerResponseFromEntity(&customers[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid customer id")
	}
	customer, err := h.Service.Get(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.CustomerResponseFromEntity(customer))
}

func (h *CustomerHandler) Update(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid customer id")
	}
	var req dto.CustomerRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	customer, err := h.Service.Update(c.Request().Context(), identity.UserID, id, req)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.CustomerResponseFromEntity(customer))
}

func (h *CustomerHandler) Delete(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid customer id")
	}
	if err := h.Service.Delete(c.Request().Context(), identity.UserID, id); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
