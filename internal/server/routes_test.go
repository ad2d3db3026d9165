package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubChat struct {
	reply    string
	err      error
	lastKey  string
	lastMsg  string
	resetKey string
}

func (s *stubChat) Turn(_ context.Context, key, message string) (string, error) {
	s.lastKey = key
	s.lastMsg = message
	return s.reply, s.err
}

func (s *stubChat) Reset(key string) error {
	s.resetKey = key
	return s.err
}

func newTestRouter(t *testing.T, chat ChatService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tmpl, err := parseTemplates()
	if err != nil {
		t.Fatalf("parseTemplates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)
	registerRoutes(router, chat)
	return router
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &stubChat{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestIndexServesChatPage(t *testing.T) {
	router := newTestRouter(t, &stubChat{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Frontdesk Support") {
		t.Error("chat page not rendered")
	}
}

func TestChatTurn(t *testing.T) {
	chat := &stubChat{reply: "Hi! How can I help you today?"}
	router := newTestRouter(t, chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["reply"] != chat.reply {
		t.Errorf("reply = %q", body["reply"])
	}
	if chat.lastMsg != "hi" {
		t.Errorf("message = %q", chat.lastMsg)
	}
	if chat.lastKey == "" {
		t.Error("no session key minted")
	}

	// First contact sets the session cookie.
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie && c.Value == chat.lastKey {
			found = true
			if !c.HttpOnly {
				t.Error("session cookie not HttpOnly")
			}
		}
	}
	if !found {
		t.Error("session cookie not set on first contact")
	}
}

func TestChatReusesCookieKey(t *testing.T) {
	chat := &stubChat{reply: "ok"}
	router := newTestRouter(t, chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "existing-key"})
	router.ServeHTTP(w, req)

	if chat.lastKey != "existing-key" {
		t.Errorf("key = %q, want cookie value", chat.lastKey)
	}
}

func TestChatInvalidJSON(t *testing.T) {
	router := newTestRouter(t, &stubChat{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("not json"))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChatMissingMessageField(t *testing.T) {
	chat := &stubChat{reply: "fallback"}
	router := newTestRouter(t, chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if chat.lastMsg != "" {
		t.Errorf("message = %q, want empty", chat.lastMsg)
	}
}

func TestChatServiceError(t *testing.T) {
	chat := &stubChat{err: errors.New("dialog: rule classifier: model unavailable")}
	router := newTestRouter(t, chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hm"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if body := decodeBody(t, w); body["error"] == "" {
		t.Error("error body missing")
	}
}

func TestReset(t *testing.T) {
	chat := &stubChat{}
	router := newTestRouter(t, chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat/reset", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "existing-key"})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if chat.resetKey != "existing-key" {
		t.Errorf("reset key = %q", chat.resetKey)
	}
	if body := decodeBody(t, w); body["status"] != "reset" {
		t.Errorf("body = %v", body)
	}
}
