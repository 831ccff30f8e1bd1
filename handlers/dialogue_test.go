package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/conversation"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeEngine struct {
	got   conversation.Event
	reply models.DialogueReply
	err   error
}

func (f *fakeEngine) Handle(_ context.Context, ev conversation.Event) (models.DialogueReply, error) {
	f.got = ev
	return f.reply, f.err
}

func serveEvent(engine DialogueEngine, clientID, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/events", func(c *gin.Context) {
		if clientID != "" {
			c.Set(middleware.ClientIDKey, clientID)
		}
		c.Next()
	}, NewDialogueEventHandler(engine))

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDialogueEventHandlerReplies(t *testing.T) {
	engine := &fakeEngine{reply: models.DialogueReply{Text: "How old are you?", State: "age"}}

	w := serveEvent(engine, "c1", `{"text":"Abebe"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if engine.got.ClientID != "c1" || engine.got.Text != "Abebe" {
		t.Fatalf("event = %+v", engine.got)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if body["reply"] != "How old are you?" || body["state"] != "age" || body["done"] != false {
		t.Fatalf("body = %v", body)
	}
}

func TestDialogueEventHandlerErrors(t *testing.T) {
	cases := []struct {
		name     string
		clientID string
		body     string
		err      error
		want     int
	}{
		{"missing identity", "", `{"text":"hi"}`, nil, http.StatusUnauthorized},
		{"missing text", "c1", `{}`, nil, http.StatusBadRequest},
		{"busy conversation", "c1", `{"text":"hi"}`, conversation.ErrBusy, http.StatusConflict},
		{"storage down", "c1", `{"text":"hi"}`, errors.New("server selection timeout"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serveEvent(&fakeEngine{err: tc.err}, tc.clientID, tc.body)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestDialogueEventHandlerUsesRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	requestLogger := zap.New(core).With(zap.String("clientId", "c1"))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/events", func(c *gin.Context) {
		c.Set(middleware.ClientIDKey, "c1")
		c.Set(utils.LoggerContextKey, requestLogger)
		c.Next()
	}, NewDialogueEventHandler(&fakeEngine{err: errors.New("server selection timeout")}))

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if n := logs.FilterMessage("Dialogue event failed").Len(); n != 1 {
		t.Fatalf("request logger got %d failure entries, want 1", n)
	}
}
