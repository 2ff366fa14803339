package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nouakchotech/agrimarket/internal/db"
	"github.com/nouakchotech/agrimarket/internal/security"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	database, err := db.Open(db.Config{
		Driver:     db.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "agrimarket-api-test.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	tokens := security.NewTokenProvider("test-secret-key", time.Hour, 2*time.Hour)
	handler := New(database, tokens)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app
}

// testResponse is the decoded envelope plus the raw status code.
type testResponse struct {
	Status    int
	Success   bool
	Message   string
	Data      json.RawMessage
	Timestamp time.Time
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, body interface{}) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}

	var decoded struct {
		Success   bool            `json:"success"`
		Message   string          `json:"message"`
		Data      json.RawMessage `json:"data"`
		Timestamp time.Time       `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("%s %s decode envelope failed: %v (body: %s)", method, path, err, raw)
	}

	return testResponse{
		Status:    response.StatusCode,
		Success:   decoded.Success,
		Message:   decoded.Message,
		Data:      decoded.Data,
		Timestamp: decoded.Timestamp,
	}
}

func decodeData(t *testing.T, response testResponse, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(response.Data, target); err != nil {
		t.Fatalf("decode data payload: %v (data: %s)", err, response.Data)
	}
}

func registerTestFarmer(t *testing.T, app *fiber.App, phone string) authPayload {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/register/farmer", "", fiber.Map{
		"name":     "Aminata Sow",
		"phone":    phone,
		"password": "s3cret-pass",
		"commune":  "Rosso",
		"region":   "Trarza",
	})
	if response.Status != http.StatusCreated {
		t.Fatalf("register farmer: expected 201, got %d (%s)", response.Status, response.Message)
	}

	var payload authPayload
	decodeData(t, response, &payload)
	return payload
}

type authPayload struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       uint   `json:"userId"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
}
