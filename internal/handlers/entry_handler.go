package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/repository"
	"github.com/s-411/cpn-backend/internal/validation"
	statsws "github.com/s-411/cpn-backend/internal/websocket"
	"go.uber.org/zap"
)

type entryStore interface {
	Create(ctx context.Context, input repository.CreateEntryInput) (*models.DataEntry, error)
	GetByID(ctx context.Context, userID, entryID int64) (*models.DataEntry, error)
	List(ctx context.Context, userID int64, filter repository.EntryListFilter) ([]models.DataEntry, error)
	UpdatePartial(ctx context.Context, userID, entryID int64, input repository.UpdateEntryInput) (*models.DataEntry, error)
	Delete(ctx context.Context, userID, entryID int64) error
}

type entryGirlReader interface {
	GetByID(ctx context.Context, userID, girlID int64) (*models.Girl, error)
}

type metricsPublisher interface {
	Broadcast(userID string, update *statsws.Update)
}

type EntryHandler struct {
	entryRepo entryStore
	girlRepo  entryGirlReader
	source    statsws.MetricsSource
	hub       metricsPublisher
}

func NewEntryHandler(entryRepo entryStore, girlRepo entryGirlReader, source statsws.MetricsSource, hub metricsPublisher) *EntryHandler {
	return &EntryHandler{
		entryRepo: entryRepo,
		girlRepo:  girlRepo,
		source:    source,
		hub:       hub,
	}
}

type createEntryRequest struct {
	GirlID          int64   `json:"girlId"`
	Date            string  `json:"date"`
	AmountSpent     float64 `json:"amountSpent"`
	DurationMinutes int     `json:"durationMinutes"`
	NumberOfNuts    int     `json:"numberOfNuts"`
}

type updateEntryRequest struct {
	Date            *string  `json:"date"`
	AmountSpent     *float64 `json:"amountSpent"`
	DurationMinutes *int     `json:"durationMinutes"`
	NumberOfNuts    *int     `json:"numberOfNuts"`
}

func (h *EntryHandler) List(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	filter := repository.EntryListFilter{}
	if raw := c.Query("girlId"); raw != "" {
		girlID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || girlID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid girlId filter"})
		}
		filter.GirlID = girlID
	}
	if raw := c.Query("startDate"); raw != "" {
		start, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "startDate must be YYYY-MM-DD"})
		}
		filter.StartDate = &start
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "endDate must be YYYY-MM-DD"})
		}
		filter.EndDate = &end
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		filter.Limit = limit
	}

	entries, err := h.entryRepo.List(c.Context(), userID, filter)
	if err != nil {
		zap.L().Error("list entries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch entries"})
	}

	return c.JSON(fiber.Map{"entries": entries})
}

func (h *EntryHandler) Get(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	entryID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || entryID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entry id"})
	}

	entry, err := h.entryRepo.GetByID(c.Context(), userID, entryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entry not found"})
		}
		zap.L().Error("fetch entry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch entry"})
	}

	return c.JSON(fiber.Map{"entry": entry})
}

func (h *EntryHandler) Create(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req createEntryRequest
	if err := decodeStrict(c.Body(), &req,
		"girlId", "date", "amountSpent", "durationMinutes", "numberOfNuts"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	errs := validation.FieldErrors{}
	if req.GirlID <= 0 {
		errs.Add("girlId", "girlId is required")
	}
	date, err := validation.EntryDate(req.Date)
	if err != nil {
		errs.Add("date", err.Error())
	}
	validateEntryValues(errs, &req.AmountSpent, &req.DurationMinutes, &req.NumberOfNuts)
	if errs.Any() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errs.Message()})
	}

	if _, err := h.girlRepo.GetByID(c.Context(), userID, req.GirlID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Girl not found"})
		}
		zap.L().Error("fetch girl", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create entry"})
	}

	entry, err := h.entryRepo.Create(c.Context(), repository.CreateEntryInput{
		UserID:          userID,
		GirlID:          req.GirlID,
		Date:            date,
		AmountSpent:     req.AmountSpent,
		DurationMinutes: req.DurationMinutes,
		NumberOfNuts:    req.NumberOfNuts,
	})
	if err != nil {
		zap.L().Error("create entry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create entry"})
	}

	h.publishMetrics(c.Context(), userID, entry.GirlID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

func (h *EntryHandler) Update(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	entryID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || entryID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entry id"})
	}

	var req updateEntryRequest
	if err := decodeStrict(c.Body(), &req,
		"date", "amountSpent", "durationMinutes", "numberOfNuts"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	errs := validation.FieldErrors{}
	var date *time.Time
	if req.Date != nil {
		parsed, err := validation.EntryDate(*req.Date)
		if err != nil {
			errs.Add("date", err.Error())
		} else {
			date = &parsed
		}
	}
	validateEntryValues(errs, req.AmountSpent, req.DurationMinutes, req.NumberOfNuts)
	if errs.Any() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errs.Message()})
	}

	entry, err := h.entryRepo.UpdatePartial(c.Context(), userID, entryID, repository.UpdateEntryInput{
		Date:            date,
		AmountSpent:     req.AmountSpent,
		DurationMinutes: req.DurationMinutes,
		NumberOfNuts:    req.NumberOfNuts,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entry not found"})
		}
		zap.L().Error("update entry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update entry"})
	}

	h.publishMetrics(c.Context(), userID, entry.GirlID)
	return c.JSON(fiber.Map{"entry": entry})
}

func (h *EntryHandler) Delete(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	entryID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || entryID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entry id"})
	}

	entry, err := h.entryRepo.GetByID(c.Context(), userID, entryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entry not found"})
		}
		zap.L().Error("fetch entry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete entry"})
	}

	if err := h.entryRepo.Delete(c.Context(), userID, entryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entry not found"})
		}
		zap.L().Error("delete entry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete entry"})
	}

	h.publishMetrics(c.Context(), userID, entry.GirlID)
	return c.JSON(fiber.Map{"message": "Entry deleted"})
}

// publishMetrics recomputes the affected girl's metrics plus the global
// rollup and pushes the frame to the owner's dashboard sockets. Failure
// here never fails the request.
func (h *EntryHandler) publishMetrics(ctx context.Context, userID, girlID int64) {
	if h.hub == nil || h.source == nil {
		return
	}
	update, err := h.source.MetricsUpdate(ctx, userID, girlID)
	if err != nil {
		zap.L().Warn("metrics push", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	h.hub.Broadcast(strconv.FormatInt(userID, 10), update)
}
