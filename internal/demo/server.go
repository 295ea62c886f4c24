package demo

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server handles the transactions API backed by a Ledger.
type Server struct {
	ledger   *Ledger
	logger   *slog.Logger
	metrics  *Metrics
	requests atomic.Uint64
}

// NewServer creates a server backed by ledger.
func NewServer(ledger *Ledger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{ledger: ledger, logger: logger, metrics: NewMetrics()}
}

// Echo builds the router. Routes live under /api to match the client's
// default base URL.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.logRequests)

	e.GET("/health", s.Health)
	e.GET("/metrics", s.metrics.Handler())

	api := e.Group("/api")
	api.GET("/transactions/summary/:userId", s.GetSummary)
	api.GET("/transactions/:id", s.ListTransactions)
	api.DELETE("/transactions/:id", s.DeleteTransaction)

	return e
}

// Health reports liveness.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListTransactions returns every transaction for the user in the path.
func (s *Server) ListTransactions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.ledger.List(c.Param("id")))
}

// GetSummary returns the user's totals. Each call rotates through the field
// spellings clients are expected to accept.
func (s *Server) GetSummary(c echo.Context) error {
	t := s.ledger.Totals(c.Param("userId"))
	n := s.requests.Add(1) - 1
	shape, body := summaryShape(n, t)
	s.metrics.recordSummaryShape(shape)
	return c.JSON(http.StatusOK, body)
}

// DeleteTransaction removes a transaction. Errors are plain text.
func (s *Server) DeleteTransaction(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid transaction id")
	}
	if !s.ledger.Delete(id) {
		return c.String(http.StatusNotFound, "Transaction not found")
	}
	s.metrics.recordDelete()
	return c.JSON(http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.metrics.recordRequest(c.Request().Method, c.Path(), c.Response().Status)
		s.logger.Debug("Request handled",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return nil
	}
}

// summaryShape renders totals in one of three alias spellings, picked by n.
func summaryShape(n uint64, t Totals) (string, map[string]any) {
	switch n % 3 {
	case 1:
		return "total", map[string]any{
			"total_balance":  t.Balance,
			"total_income":   t.Income,
			"total_expenses": t.Expenses,
		}
	case 2:
		return "string", map[string]any{
			"balance": strconv.FormatFloat(t.Balance, 'f', 2, 64),
			"income":  strconv.FormatFloat(t.Income, 'f', 2, 64),
			"expense": strconv.FormatFloat(t.Expenses, 'f', 2, 64),
		}
	default:
		return "plain", map[string]any{
			"balance":  t.Balance,
			"income":   t.Income,
			"expenses": t.Expenses,
		}
	}
}
