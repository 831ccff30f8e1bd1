package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testSecret = []byte("gateway-secret")

func newTestRouter(perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GatewayAuthMiddleware(testSecret), RateLimitMiddleware(perMinute))
	r.POST("/events", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ClientIDKey))
	})
	return r
}

func do(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGatewayAuth(t *testing.T) {
	r := newTestRouter(60)

	if w := do(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", w.Code)
	}

	forged, _ := utils.GenerateGatewayToken([]byte("other-secret"), "c1", time.Minute)
	if w := do(r, forged); w.Code != http.StatusUnauthorized {
		t.Fatalf("forged token status = %d, want 401", w.Code)
	}

	expired, _ := utils.GenerateGatewayToken(testSecret, "c1", -time.Minute)
	if w := do(r, expired); w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token status = %d, want 401", w.Code)
	}

	token, err := utils.GenerateGatewayToken(testSecret, "c1", time.Minute)
	if err != nil {
		t.Fatalf("GenerateGatewayToken() error = %v", err)
	}
	w := do(r, token)
	if w.Code != http.StatusOK || w.Body.String() != "c1" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	// 6 per minute gives a burst of one.
	r := newTestRouter(6)
	c1, _ := utils.GenerateGatewayToken(testSecret, "c1", time.Minute)
	c2, _ := utils.GenerateGatewayToken(testSecret, "c2", time.Minute)

	if w := do(r, c1); w.Code != http.StatusOK {
		t.Fatalf("first c1 status = %d", w.Code)
	}
	if w := do(r, c1); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second c1 status = %d, want 429", w.Code)
	}
	if w := do(r, c2); w.Code != http.StatusOK {
		t.Fatalf("c2 status = %d, want 200", w.Code)
	}
}

func TestGatewayAuthSetsRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GatewayAuthMiddleware(testSecret))
	r.POST("/events", func(c *gin.Context) {
		l, ok := c.Get(utils.LoggerContextKey)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		l.(*zap.Logger).Info("event received")
		c.Status(http.StatusOK)
	})

	token, _ := utils.GenerateGatewayToken(testSecret, "c7", time.Minute)
	if w := do(r, token); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	entries := logs.FilterMessage("event received").All()
	if len(entries) != 1 || entries[0].ContextMap()["clientId"] != "c7" {
		t.Fatalf("log entries = %+v", entries)
	}
}
