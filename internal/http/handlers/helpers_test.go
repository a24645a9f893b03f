package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/internal/http/middleware"
	"github.com/Sadman95/bike-island-server/internal/mocks"
)

// newTestEngine returns an engine with the error envelope and bearer auth
// backed by the mock token service ("access:<id>:<role>").
func newTestEngine(t *testing.T) (*gin.Engine, *middleware.AuthMW) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidation()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gin.New()
	r.Use(middleware.CorrelationID(), middleware.ErrorHandler(logger, false))
	return r, middleware.NewAuthMW(mocks.NewMockTokenService())
}

type request struct {
	method  string
	path    string
	body    interface{}
	token   string
	cookies []*http.Cookie
}

func perform(t *testing.T, r http.Handler, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	httpReq := httptest.NewRequest(req.method, req.path, body)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for _, c := range req.cookies {
		httpReq.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

// envelope decodes both the success and the failed response shapes
type envelope struct {
	Success       bool                   `json:"success"`
	Status        string                 `json:"status"`
	StatusCode    int                    `json:"statusCode"`
	Message       string                 `json:"message"`
	Data          map[string]interface{} `json:"data"`
	Links         map[string]string      `json:"links"`
	CorrelationID string                 `json:"correlationId"`
	ErrorMessages []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"errorMessages"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
