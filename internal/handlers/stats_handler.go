package handlers

import (
	"context"
	"errors"
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/s-411/cpn-backend/internal/models"
	statsws "github.com/s-411/cpn-backend/internal/websocket"
	"github.com/s-411/cpn-backend/pkg/format"
	"go.uber.org/zap"
)

type metricsStore interface {
	GirlMetrics(ctx context.Context, userID, girlID int64) (*models.Metrics, error)
	GlobalMetrics(ctx context.Context, userID int64) (*models.GlobalMetrics, error)
	Demographics(ctx context.Context) (*models.DemographicStats, error)
}

type StatsHandler struct {
	statsService metricsStore
	source       statsws.MetricsSource
	hub          *statsws.Hub
}

func NewStatsHandler(statsService metricsStore, source statsws.MetricsSource, hub *statsws.Hub) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		source:       source,
		hub:          hub,
	}
}

// GirlMetrics serves one girl's aggregates with display strings the
// dashboard renders as-is.
func (h *StatsHandler) GirlMetrics(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	girlID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || girlID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid girl id"})
	}

	metrics, err := h.statsService.GirlMetrics(c.Context(), userID, girlID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Girl not found"})
		}
		zap.L().Error("girl metrics", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute metrics"})
	}

	return c.JSON(fiber.Map{
		"metrics": metrics,
		"display": fiber.Map{
			"total_spent":  format.Currency(metrics.TotalSpent),
			"cost_per_nut": format.Currency(metrics.CostPerNut),
			"time_per_nut": format.Duration(int(metrics.TimePerNut)),
			"total_time":   format.Duration(metrics.TotalMinutes),
		},
	})
}

func (h *StatsHandler) GlobalMetrics(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	metrics, err := h.statsService.GlobalMetrics(c.Context(), userID)
	if err != nil {
		zap.L().Error("global metrics", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute metrics"})
	}

	return c.JSON(fiber.Map{
		"metrics": metrics,
		"display": fiber.Map{
			"total_spent":          format.Currency(metrics.TotalSpent),
			"average_cost_per_nut": format.Currency(metrics.AverageCostPerNut),
			"average_time_per_nut": format.Duration(int(metrics.AverageTimePerNut)),
			"total_time":           format.Duration(metrics.TotalMinutes),
		},
	})
}

// GlobalStats is the unauthenticated landing-page aggregate. It exposes
// only counts and anonymized demographics, never per-user data.
func (h *StatsHandler) GlobalStats(c *fiber.Ctx) error {
	stats, err := h.statsService.Demographics(c.Context())
	if err != nil {
		zap.L().Error("global stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute statistics"})
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// WebSocketAuth gates the upgrade: the session must already be verified
// by the auth middleware, and the request must be a websocket upgrade.
func (h *StatsHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if _, err := parseSessionUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}
	return c.Next()
}

func (h *StatsHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, ok := conn.Locals("user_id").(string)
	if !ok || userID == "" {
		conn.Close()
		return
	}

	client := statsws.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump(h.source)
}
