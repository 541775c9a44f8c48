package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ledgerlite/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// User-facing messages for the code flow. The invalid-code message is shared
// by mismatch, expiry, absence and replay so the response is not an oracle.
const (
	msgCodeSent     = "Verification code sent successfully"
	msgCodeVerified = "Code verified successfully"
	msgCodeInvalid  = "Invalid or expired code"
	msgRateLimited  = "Please wait before requesting another code"
	msgInternal     = "something went wrong"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// writeServiceError maps domain errors to statuses. Domain outcomes are
// expected and not logged; anything unmatched is a real failure, logged and
// hidden behind a generic body.
func writeServiceError(c echo.Context, logger *logrus.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, http.StatusBadRequest, "invalid input")
	case errors.Is(err, service.ErrInvalidCode):
		return writeError(c, http.StatusBadRequest, msgCodeInvalid)
	case errors.Is(err, service.ErrRateLimited):
		return writeError(c, http.StatusTooManyRequests, msgRateLimited)
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return writeError(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return writeError(c, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrDuplicateNumber):
		return writeError(c, http.StatusConflict, "document number already in use")
	case errors.Is(err, service.ErrIllegalTransition):
		return writeError(c, http.StatusConflict, "illegal status transition")
	}

	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"uri":    c.Request().RequestURI,
		}).Error("request failed")
	}
	return writeError(c, http.StatusInternalServerError, msgInternal)
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
