package handler

import (
	"net/http"
	"time"

	"ledgerlite/api/middleware"
	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Service           *service.AuthService
	Validate          *validator.Validate
	Logger            *logrus.Logger
	RefreshCookieName string
	CookieDomain      string
	SecureCookies     bool
	SameSite          http.SameSite
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		Service:           svc,
		Validate:          validate,
		Logger:            logger,
		RefreshCookieName: "refresh_token",
		SecureCookies:     true,
		SameSite:          http.SameSiteStrictMode,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Service.Register(c.Request().Context(), req); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	result, err := h.Service.Login(c.Request().Context(), req, stringPtr(c.RealIP()), stringPtr(c.Request().UserAgent()))
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	if !result.OTPRequired {
		h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresIn)
		result.RefreshToken = ""
		result.RefreshExpiresIn = 0
	}
	return c.JSON(http.StatusOK, result)
}

// ResendCode issues a one-time code for the given email. The response never
// carries the code itself; it only confirms that a code went out.
func (h *AuthHandler) ResendCode(c echo.Context) error {
	var req dto.ResendCodeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return writeError(c, http.StatusBadRequest, "email is required")
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Service.RequestCode(c.Request().Context(), req.Email, codePurpose(req.Purpose)); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msgCodeSent})
}

// VerifyOTP validates a submitted code and, on success, returns the session
// subject. It does not set a session cookie; the client follows up through
// the session endpoints.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req dto.VerifyOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return writeError(c, http.StatusBadRequest, "email and code are required")
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.Service.VerifyCode(ctx, req.Email, req.Code, codePurpose(req.Purpose)); err != nil {
		return writeServiceError(c, h.Logger, err)
	}

	subject, err := h.Service.ResolveSessionSubject(ctx, req.Email)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, dto.VerifyOTPResponse{
		Success: true,
		User:    *subject,
		Message: msgCodeVerified,
	})
}

func (h *AuthHandler) PasswordForgot(c echo.Context) error {
	var req dto.PasswordForgotRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Service.RequestCode(c.Request().Context(), req.Email, entity.PurposePasswordReset); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msgCodeSent})
}

func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req dto.PasswordResetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Service.ResetPassword(c.Request().Context(), req); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := h.readRefreshCookie(c)
	if refreshToken == "" {
		return writeError(c, http.StatusUnauthorized, "missing refresh token")
	}
	result, err := h.Service.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresIn)
	result.RefreshToken = ""
	result.RefreshExpiresIn = 0
	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Service.Logout(c.Request().Context(), identity.SessionID, &identity.UserID, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	h.clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) LogoutAll(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Service.LogoutAll(c.Request().Context(), identity.UserID, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	h.clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	user, err := h.Service.GetCurrentUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	if user == nil {
		return writeError(c, http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, dto.UserSummaryFromEntity(user))
}

// SecurityLogs lists recent audit entries. Routed behind RequireRole("admin").
func (h *AuthHandler) SecurityLogs(c echo.Context) error {
	limit, _ := parseLimitOffset(c)
	logs, err := h.Service.RecentSecurityLogs(c.Request().Context(), limit)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	responses := make([]dto.SecurityLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, dto.SecurityLogResponseFromEntity(&logs[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string, expiresIn int64) {
	if token == "" {
		return
	}
	maxAge := int(expiresIn)
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(&http.Cookie{
		Name:     h.RefreshCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   maxAge,
		Expires:  time.Now().Add(time.Duration(expiresIn) * time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.RefreshCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) readRefreshCookie(c echo.Context) string {
	cookie, err := c.Cookie(h.RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func codePurpose(value string) entity.CodePurpose {
	if value == "" {
		return entity.PurposeLoginRecovery
	}
	return entity.CodePurpose(value)
}
