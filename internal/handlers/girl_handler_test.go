package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/repository"
	"github.com/s-411/cpn-backend/internal/services"
)

type stubGirlStore struct {
	getResult    *models.Girl
	getErr       error
	listResult   []models.Girl
	listErr      error
	updateResult *models.Girl
	updateErr    error
	photoResult  *models.Girl
	photoErr     error

	lastUserID      int64
	lastGirlID      int64
	lastUpdateInput repository.UpdateGirlInput
	calls           int
}

func (s *stubGirlStore) GetByID(_ context.Context, userID, girlID int64) (*models.Girl, error) {
	s.calls++
	s.lastUserID = userID
	s.lastGirlID = girlID
	return s.getResult, s.getErr
}

func (s *stubGirlStore) List(_ context.Context, userID int64) ([]models.Girl, error) {
	s.calls++
	s.lastUserID = userID
	return s.listResult, s.listErr
}

func (s *stubGirlStore) UpdatePartial(_ context.Context, userID, girlID int64, input repository.UpdateGirlInput) (*models.Girl, error) {
	s.calls++
	s.lastUserID = userID
	s.lastGirlID = girlID
	s.lastUpdateInput = input
	return s.updateResult, s.updateErr
}

func (s *stubGirlStore) SetPhotoURL(_ context.Context, userID, girlID int64, _ string) (*models.Girl, error) {
	s.calls++
	s.lastUserID = userID
	s.lastGirlID = girlID
	return s.photoResult, s.photoErr
}

type stubGirlLifecycle struct {
	createResult *models.Girl
	createErr    error
	deleteResult *services.DeleteResult
	deleteErr    error

	lastCreateInput repository.CreateGirlInput
	lastDeleteGirl  int64
	calls           int
}

func (s *stubGirlLifecycle) Create(_ context.Context, input repository.CreateGirlInput) (*models.Girl, error) {
	s.calls++
	s.lastCreateInput = input
	return s.createResult, s.createErr
}

func (s *stubGirlLifecycle) Delete(_ context.Context, _, girlID int64) (*services.DeleteResult, error) {
	s.calls++
	s.lastDeleteGirl = girlID
	return s.deleteResult, s.deleteErr
}

func sessionApp(userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("email", "tester@example.com")
		return c.Next()
	})
	return app
}

func TestCreateGirlReturnsCreated(t *testing.T) {
	service := &stubGirlLifecycle{
		createResult: &models.Girl{ID: 5, UserID: 42, Name: "Jess", Age: 24, Rating: 7.5, IsActive: true},
	}
	handler := &GirlHandler{girlService: service}

	app := sessionApp("42")
	app.Post("/api/girls", handler.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/girls", strings.NewReader(`{
		"name": "Jess",
		"age": 24,
		"rating": 7.5,
		"nationality": "Canadian"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastCreateInput.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", service.lastCreateInput.UserID)
	}
	if service.lastCreateInput.Name != "Jess" {
		t.Fatalf("expected name Jess, got %q", service.lastCreateInput.Name)
	}

	var body struct {
		Girl models.Girl `json:"girl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Girl.ID != 5 {
		t.Fatalf("expected girl id 5, got %d", body.Girl.ID)
	}
}

func TestCreateGirlRejectsInvalidFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"underage", `{"name": "Jess", "age": 17, "rating": 7.5}`},
		{"rating off step", `{"name": "Jess", "age": 24, "rating": 7.3}`},
		{"rating below floor", `{"name": "Jess", "age": 24, "rating": 4.5}`},
		{"empty name", `{"name": "", "age": 24, "rating": 7.5}`},
		{"unknown field", `{"name": "Jess", "age": 24, "rating": 7.5, "notes": "x"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubGirlLifecycle{}
			handler := &GirlHandler{girlService: service}

			app := sessionApp("42")
			app.Post("/api/girls", handler.Create)

			req := httptest.NewRequest(http.MethodPost, "/api/girls", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if service.calls != 0 {
				t.Fatalf("expected no service calls, got %d", service.calls)
			}
		})
	}
}

func TestCreateGirlProfileLimit(t *testing.T) {
	service := &stubGirlLifecycle{createErr: services.ErrProfileLimit}
	handler := &GirlHandler{girlService: service}

	app := sessionApp("42")
	app.Post("/api/girls", handler.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/girls", strings.NewReader(`{
		"name": "Jess",
		"age": 24,
		"rating": 7.5
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestGetGirlNotFound(t *testing.T) {
	store := &stubGirlStore{getErr: pgx.ErrNoRows}
	handler := &GirlHandler{girlRepo: store}

	app := sessionApp("42")
	app.Get("/api/girls/:id", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/girls/99", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if store.lastUserID != 42 || store.lastGirlID != 99 {
		t.Fatalf("expected owner-scoped lookup (42, 99), got (%d, %d)", store.lastUserID, store.lastGirlID)
	}
}

func TestUpdateGirlPassesOnlyProvidedFields(t *testing.T) {
	store := &stubGirlStore{updateResult: &models.Girl{ID: 5, Name: "Jess", Age: 25, Rating: 8.0}}
	handler := &GirlHandler{girlRepo: store}

	app := sessionApp("42")
	app.Put("/api/girls/:id", handler.Update)

	req := httptest.NewRequest(http.MethodPut, "/api/girls/5", strings.NewReader(`{"age": 25}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.lastUpdateInput.Age == nil || *store.lastUpdateInput.Age != 25 {
		t.Fatal("expected age 25 in update input")
	}
	if store.lastUpdateInput.Name != nil || store.lastUpdateInput.Rating != nil {
		t.Fatal("expected absent fields to stay nil")
	}
}

func TestDeleteGirlReportsEntriesDeleted(t *testing.T) {
	service := &stubGirlLifecycle{deleteResult: &services.DeleteResult{EntriesDeleted: 3}}
	handler := &GirlHandler{girlService: service}

	app := sessionApp("42")
	app.Delete("/api/girls/:id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/api/girls/5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastDeleteGirl != 5 {
		t.Fatalf("expected delete of girl 5, got %d", service.lastDeleteGirl)
	}

	var body struct {
		EntriesDeleted int64 `json:"entries_deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.EntriesDeleted != 3 {
		t.Fatalf("expected 3 entries deleted, got %d", body.EntriesDeleted)
	}
}

func TestGirlRoutesRejectMissingSession(t *testing.T) {
	store := &stubGirlStore{}
	service := &stubGirlLifecycle{}
	handler := &GirlHandler{girlRepo: store, girlService: service}

	app := fiber.New()
	app.Get("/api/girls", handler.List)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/girls", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if store.calls != 0 || service.calls != 0 {
		t.Fatal("expected no store calls without a session")
	}
}
