// Package api exposes a read-only JSON view over the entity store, plus the
// Prometheus scrape endpoint. It never writes: all mutation flows through the
// aggregator.
package api

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/rxtech-lab/split-indexer/internal/services"
)

type APIServer struct {
	app    *fiber.App
	ledger services.LedgerService
	pools  services.PoolService
	port   int
}

func NewAPIServer(ledger services.LedgerService, pools services.PoolService, registry *prometheus.Registry) *APIServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	server := &APIServer{
		app:    app,
		ledger: ledger,
		pools:  pools,
	}
	server.setupRoutes(registry)
	return server
}

func (s *APIServer) setupRoutes(registry *prometheus.Registry) {
	s.app.Get("/api/splits", s.handleListSplits)
	s.app.Get("/api/splits/:id", s.handleGetSplit)
	s.app.Get("/api/users/:address", s.handleGetUser)
	s.app.Get("/api/users/:address/transactions", s.handleListUserTransactions)
	s.app.Get("/api/pools", s.handleListPools)
	s.app.Get("/api/pools/:id", s.handleGetPool)

	if registry != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
}

// Start listens on the given port; port 0 picks a free one. Returns the port
// actually bound.
func (s *APIServer) Start(port int) (int, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("failed to listen: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	go func() {
		_ = s.app.Listener(listener)
	}()

	return s.port, nil
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *APIServer) App() *fiber.App {
	return s.app
}

func pagination(c *fiber.Ctx) (skip, limit int) {
	skip = c.QueryInt("skip", 0)
	limit = c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}

func (s *APIServer) handleListSplits(c *fiber.Ctx) error {
	skip, limit := pagination(c)
	splits, err := s.ledger.ListSplits(skip, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"splits": splits})
}

func (s *APIServer) handleGetSplit(c *fiber.Ctx) error {
	id := c.Params("id")
	split, err := s.ledger.GetSplit(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "split not found")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	debts, err := s.ledger.ListDebtsBySplit(id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	spendings, err := s.ledger.ListSpendingsBySplit(id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"split":     split,
		"debts":     debts,
		"spendings": spendings,
	})
}

func (s *APIServer) handleGetUser(c *fiber.Ctx) error {
	address := strings.ToLower(c.Params("address"))
	activity, err := s.ledger.GetUserActivity(address)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(activity)
}

func (s *APIServer) handleListUserTransactions(c *fiber.Ctx) error {
	address := strings.ToLower(c.Params("address"))
	skip, limit := pagination(c)
	txs, err := s.ledger.ListTransactionsByUser(address, skip, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"transactions": txs})
}

func (s *APIServer) handleListPools(c *fiber.Ctx) error {
	skip, limit := pagination(c)
	pools, err := s.pools.ListPools(skip, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"pools": pools})
}

func (s *APIServer) handleGetPool(c *fiber.Ctx) error {
	id := strings.ToLower(c.Params("id"))
	pool, err := s.pools.GetPool(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "pool not found")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(pool)
}
