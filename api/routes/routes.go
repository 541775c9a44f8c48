package routes

import (
	"ledgerlite/api/handler"
	"ledgerlite/api/middleware"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Customers      *handler.CustomerHandler
	Invoices       *handler.InvoiceHandler
	Quotations     *handler.QuotationHandler
	Transactions   *handler.TransactionHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	CodeRate       *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	auth *handler.AuthHandler,
	customers *handler.CustomerHandler,
	invoices *handler.InvoiceHandler,
	quotations *handler.QuotationHandler,
	transactions *handler.TransactionHandler,
	authMiddleware middleware.AuthMiddleware,
	authRate middleware.RateLimitConfig,
	codeRate middleware.RateLimitConfig,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           auth,
		Customers:      customers,
		Invoices:       invoices,
		Quotations:     quotations,
		Transactions:   transactions,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(authRate),
		CodeRate:       middleware.NewRateLimiter(codeRate),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	e.POST("/auth/login", r.Auth.Login, r.AuthRate.Middleware())
	e.POST("/auth/resend-code", r.Auth.ResendCode, r.CodeRate.Middleware())
	e.POST("/auth/verify-otp", r.Auth.VerifyOTP, r.CodeRate.Middleware())
	e.POST("/auth/password/forgot", r.Auth.PasswordForgot, r.CodeRate.Middleware())
	e.POST("/auth/password/reset", r.Auth.PasswordReset, r.AuthRate.Middleware())
	e.POST("/auth/refresh", r.Auth.Refresh, r.AuthRate.Middleware())
	e.POST("/auth/logout", r.Auth.Logout, r.AuthMiddleware.RequireAuth)
	e.POST("/auth/logout-all", r.Auth.LogoutAll, r.AuthMiddleware.RequireAuth)
	e.GET("/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)
	e.GET("/admin/security-logs", r.Auth.SecurityLogs, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))

	customers := e.Group("/customers", r.AuthMiddleware.RequireAuth)
	customers.POST("", r.Customers.Create)
	customers.GET("", r.Customers.List)
	customers.GET("/:id", r.Customers.Get)
	customers.PUT("/:id", r.Customers.Update)
	customers.DELETE("/:id", r.Customers.Delete)

	invoices := e.Group("/invoices", r.AuthMiddleware.RequireAuth)
	invoices.POST("", r.Invoices.Create)
	invoices.GET("", r.Invoices.List)
	invoices.GET("/:id", r.Invoices.Get)
	invoices.PATCH("/:id/status", r.Invoices.UpdateStatus)
	invoices.DELETE("/:id", r.Invoices.Delete)

	quotations := e.Group("/quotations", r.AuthMiddleware.RequireAuth)
	quotations.POST("", r.Quotations.Create)
	quotations.GET("", r.Quotations.List)
	quotations.GET("/:id", r.Quotations.Get)
	quotations.PATCH("/:id/status", r.Quotations.UpdateStatus)
	quotations.POST("/:id/convert", r.Quotations.Convert)

	transactions := e.Group("/transactions", r.AuthMiddleware.RequireAuth)
	transactions.POST("", r.Transactions.Create)
	transactions.GET("", r.Transactions.List)
	transactions.GET("/summary", r.Transactions.Summary)
}
