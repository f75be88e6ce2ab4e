package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/repository"
	"github.com/s-411/cpn-backend/internal/services"
	"go.uber.org/zap"
)

const maxPhotoSizeBytes = 5 * 1024 * 1024

type girlStore interface {
	GetByID(ctx context.Context, userID, girlID int64) (*models.Girl, error)
	List(ctx context.Context, userID int64) ([]models.Girl, error)
	UpdatePartial(ctx context.Context, userID, girlID int64, input repository.UpdateGirlInput) (*models.Girl, error)
	SetPhotoURL(ctx context.Context, userID, girlID int64, photoURL string) (*models.Girl, error)
}

type girlLifecycleService interface {
	Create(ctx context.Context, input repository.CreateGirlInput) (*models.Girl, error)
	Delete(ctx context.Context, userID, girlID int64) (*services.DeleteResult, error)
}

type GirlHandler struct {
	girlRepo       girlStore
	girlService    girlLifecycleService
	storageService services.StorageService
}

func NewGirlHandler(girlRepo girlStore, girlService girlLifecycleService, storageService services.StorageService) *GirlHandler {
	return &GirlHandler{
		girlRepo:       girlRepo,
		girlService:    girlService,
		storageService: storageService,
	}
}

type createGirlRequest struct {
	Name            string  `json:"name"`
	Age             int     `json:"age"`
	Rating          float64 `json:"rating"`
	Ethnicity       *string `json:"ethnicity"`
	HairColor       *string `json:"hairColor"`
	LocationCity    *string `json:"locationCity"`
	LocationCountry *string `json:"locationCountry"`
	Nationality     *string `json:"nationality"`
}

type updateGirlRequest struct {
	Name            *string  `json:"name"`
	Age             *int     `json:"age"`
	Rating          *float64 `json:"rating"`
	Ethnicity       *string  `json:"ethnicity"`
	HairColor       *string  `json:"hairColor"`
	LocationCity    *string  `json:"locationCity"`
	LocationCountry *string  `json:"locationCountry"`
	Nationality     *string  `json:"nationality"`
	IsActive        *bool    `json:"isActive"`
}

func (h *GirlHandler) List(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	girls, err := h.girlRepo.List(c.Context(), userID)
	if err != nil {
		zap.L().Error("list girls", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch girls"})
	}

	return c.JSON(fiber.Map{"girls": girls})
}

func (h *GirlHandler) Get(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	girlID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || girlID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid girl id"})
	}

	girl, err := h.girlRepo.GetByID(c.Context(), userID, girlID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Girl not found"})
		}
		zap.L().Error("fetch girl", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch girl"})
	}

	return c.JSON(fiber.Map{"girl": girl})
}

func (h *GirlHandler) Create(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req createGirlRequest
	if err := decodeStrict(c.Body(), &req,
		"name", "age", "rating", "ethnicity", "hairColor", "locationCity", "locationCountry", "nationality"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := validateGirlCreateRequest(&req); errs.Any() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errs.Message()})
	}

	girl, err := h.girlService.Create(c.Context(), repository.CreateGirlInput{
		UserID:          userID,
		Name:            req.Name,
		Age:             req.Age,
		Rating:          req.Rating,
		Ethnicity:       req.Ethnicity,
		HairColor:       req.HairColor,
		LocationCity:    req.LocationCity,
		LocationCountry: req.LocationCountry,
		Nationality:     req.Nationality,
	})
	if err != nil {
		if errors.Is(err, services.ErrProfileLimit) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Profile limit reached for your subscription tier"})
		}
		zap.L().Error("create girl", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create girl"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"girl": girl})
}

func (h *GirlHandler) Update(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	girlID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || girlID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid girl id"})
	}

	var req updateGirlRequest
	if err := decodeStrict(c.Body(), &req,
		"name", "age", "rating", "ethnicity", "hairColor", "locationCity", "locationCountry", "nationality", "isActive"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := validateGirlUpdateRequest(&req); errs.Any() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errs.Message()})
	}

	girl, err := h.girlRepo.UpdatePartial(c.Context(), userID, girlID, repository.UpdateGirlInput{
		Name:            req.Name,
		Age:             req.Age,
		Rating:          req.Rating,
		Ethnicity:       req.Ethnicity,
		HairColor:       req.HairColor,
		LocationCity:    req.LocationCity,
		LocationCountry: req.LocationCountry,
		Nationality:     req.Nationality,
		IsActive:        req.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Girl not found"})
		}
		zap.L().Error("update girl", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update girl"})
	}

	return c.JSON(fiber.Map{"girl": girl})
}

func (h *GirlHandler) Delete(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	girlID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || girlID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid girl id"})
	}

	result, err := h.girlService.Delete(c.Context(), userID, girlID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Girl not found"})
		}
		zap.L().Error("delete girl", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete girl"})
	}

	return c.JSON(fiber.Map{
		"message":         "Girl deleted",
		"entries_deleted": result.EntriesDeleted,
	})
}

func (h *GirlHandler) UploadPhoto(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	girlID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || girlID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid girl id"})
	}

	current, err := h.girlRepo.GetByID(c.Context(), userID, girlID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Girl not found"})
		}
		zap.L().Error("fetch girl", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch girl"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is empty"})
	}
	if fileHeader.Size > maxPhotoSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file exceeds 5MB limit"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo must be a jpg, jpeg, png, or webp file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		zap.L().Error("open photo upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read photo"})
	}
	defer file.Close()

	filename := fmt.Sprintf("%d-%d-%d%s", userID, girlID, time.Now().UnixNano(), ext)
	photoURL, err := h.storageService.UploadFile(c.Context(), file, filename, "girls/photos")
	if err != nil {
		zap.L().Error("upload photo", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	if current.PhotoURL != nil && *current.PhotoURL != "" && *current.PhotoURL != photoURL {
		_ = h.storageService.DeleteFile(c.Context(), *current.PhotoURL)
	}

	girl, err := h.girlRepo.SetPhotoURL(c.Context(), userID, girlID, photoURL)
	if err != nil {
		zap.L().Error("store photo url", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update girl"})
	}

	return c.JSON(fiber.Map{
		"photo_url": photoURL,
		"girl":      girl,
	})
}
