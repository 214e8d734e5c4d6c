package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/config"
	"fintrack/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{
		Env:              "test",
		JWTSecret:        "test-secret",
		JWTExpirationDur: 15 * time.Minute,
	})
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in body, got %v", body)
	}
	code, _ := errObj["code"].(string)
	return code
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
}

func testUser() *models.User {
	u := &models.User{Email: "alice@example.com", Username: "alice"}
	u.ID = "0190f2b4-6c7e-7d3a-9c1b-2e4f5a6b7c8d"
	return u
}
