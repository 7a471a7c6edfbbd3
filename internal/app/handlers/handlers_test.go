package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linemk/topup-store/internal/app/handlers"
	"github.com/linemk/topup-store/internal/catalog"
	"github.com/linemk/topup-store/internal/clients/idchecker"
	"github.com/linemk/topup-store/internal/clients/sheets"
	"github.com/linemk/topup-store/internal/lib/logger"
	"github.com/linemk/topup-store/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return logger.Discard()
}

// upstreamStub - поддельный сторонний сервис, считающий вызовы
type upstreamStub struct {
	*httptest.Server
	calls atomic.Int32
	last  atomic.Pointer[http.Request]
	body  atomic.Pointer[[]byte]
}

func newUpstream(t *testing.T, h http.HandlerFunc) *upstreamStub {
	t.Helper()

	s := &upstreamStub{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		b, _ := io.ReadAll(r.Body)
		s.body.Store(&b)
		s.last.Store(r)
		h(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func checkIDHandler(baseURL, apiKey string, timeout time.Duration) http.HandlerFunc {
	log := discardLogger()
	client := idchecker.NewClient(baseURL, "", apiKey, timeout)
	return handlers.CheckIDHandler(log, service.NewLookupService(log, client, ""))
}

func submitHandler(webhookURL string) http.HandlerFunc {
	log := discardLogger()
	client := sheets.NewClient(webhookURL, time.Second)
	return handlers.SubmitCustomerHandler(log, service.NewOrderService(log, client))
}

func TestCheckIDHandler_RelaysJSON(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"username":"Alice"}}`))
	})
	handler := checkIDHandler(up.URL, "key", time.Second)

	req := httptest.NewRequest(http.MethodGet, "/api/check-id?userId=555&serverId=2001", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"username":"Alice"}}`, rr.Body.String())

	last := up.last.Load()
	require.NotNil(t, last)
	assert.Equal(t, "/mobile-legends/555/2001", last.URL.Path)
	assert.Equal(t, "key", last.Header.Get("x-rapidapi-key"))
	assert.Equal(t, "id-game-checker.p.rapidapi.com", last.Header.Get("x-rapidapi-host"))
}

func TestCheckIDHandler_MissingParams(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	handler := checkIDHandler(up.URL, "key", time.Second)

	for _, target := range []string{"/api/check-id", "/api/check-id?userId=555", "/api/check-id?serverId=2001"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Equal(t, "Missing userId or serverId", strings.TrimSpace(rr.Body.String()), target)
	}
	assert.Equal(t, int32(0), up.calls.Load(), "no outbound call expected")
}

func TestCheckIDHandler_NotConfigured(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	handler := checkIDHandler(up.URL, "", time.Second)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/check-id?userId=1&serverId=2", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "RAPIDAPI_KEY not configured", strings.TrimSpace(rr.Body.String()))
	assert.Equal(t, int32(0), up.calls.Load())
}

func TestCheckIDHandler_RelaysUpstreamStatus(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("player not found"))
	})
	handler := checkIDHandler(up.URL, "key", time.Second)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/check-id?userId=1&serverId=2", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "player not found", strings.TrimSpace(rr.Body.String()))
}

func TestCheckIDHandler_EmptyUpstreamBody(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	handler := checkIDHandler(up.URL, "key", time.Second)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/check-id?userId=1&serverId=2", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "Upstream error", strings.TrimSpace(rr.Body.String()))
}

func TestCheckIDHandler_Timeout(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	handler := checkIDHandler(up.URL, "key", 50*time.Millisecond)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/check-id?userId=1&serverId=2", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	assert.Equal(t, "upstream timeout", strings.TrimSpace(rr.Body.String()))
}

func TestCheckIDHandler_Unreachable(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	url := up.URL
	up.Close()
	handler := checkIDHandler(url, "key", time.Second)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/check-id?userId=1&serverId=2", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestCheckIDHandler_InvalidUpstreamJSON(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	})
	handler := checkIDHandler(up.URL, "key", time.Second)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/check-id?userId=1&serverId=2", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

const validOrder = `{"fullName":"John Gamer","email":"j@x.com","game":"mobile-legends","userId":"1","serverId":"1","product":"WEEKLY PASS"}`

func TestSubmitCustomerHandler_Success(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := submitHandler(up.URL)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/submit-customer", bytes.NewBufferString(validOrder)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	require.Equal(t, int32(1), up.calls.Load())

	var forwarded map[string]string
	require.NoError(t, json.Unmarshal(*up.body.Load(), &forwarded))
	assert.NotEmpty(t, forwarded["timestamp"])
	_, err := time.Parse(sheets.TimestampLayout, forwarded["timestamp"])
	assert.NoError(t, err)
	assert.Equal(t, "John Gamer", forwarded["fullName"])
	assert.Equal(t, "WEEKLY PASS", forwarded["product"])
	assert.Equal(t, "application/json", up.last.Load().Header.Get("Content-Type"))
}

func TestSubmitCustomerHandler_MissingEmail(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	handler := submitHandler(up.URL)

	body := `{"fullName":"A","game":"mobile-legends","userId":"1","serverId":"1","product":"WEEKLY PASS"}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/submit-customer", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email")
	assert.Equal(t, "Missing field: email", strings.TrimSpace(rr.Body.String()))
	assert.Equal(t, int32(0), up.calls.Load())
}

func TestSubmitCustomerHandler_InvalidJSON(t *testing.T) {
	handler := submitHandler("http://127.0.0.1:1")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/submit-customer", bytes.NewBufferString(`{"fullName":`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid request", strings.TrimSpace(rr.Body.String()))
}

func TestSubmitCustomerHandler_NotConfigured(t *testing.T) {
	handler := submitHandler("")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/submit-customer", bytes.NewBufferString(`{}`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "SHEETS_WEBHOOK_URL not configured", strings.TrimSpace(rr.Body.String()))
}

func TestSubmitCustomerHandler_WebhookRejected(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	handler := submitHandler(up.URL)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/submit-customer", bytes.NewBufferString(validOrder)))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "Failed to forward to sheet", strings.TrimSpace(rr.Body.String()))
}

func TestPackagesHandler(t *testing.T) {
	handler := handlers.PackagesHandler(discardLogger(), catalog.Default())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/packages", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []struct {
		Name     string `json:"name"`
		Price    string `json:"price"`
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
		Category string `json:"category"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, len(catalog.Default().All()))
	assert.Equal(t, "WEEKLY PASS", resp[0].Name)
	assert.Equal(t, "133", resp[0].Amount)
	assert.Equal(t, "₹", resp[0].Currency)
	assert.Equal(t, "pass", resp[0].Category)
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	handlers.HealthHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestSubmitCustomerHandler_ConfigCheckedBeforeBody(t *testing.T) {
	handler := submitHandler("")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/submit-customer", bytes.NewBufferString(`{"fullName":`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "SHEETS_WEBHOOK_URL not configured", strings.TrimSpace(rr.Body.String()))
}

func TestSubmitCustomerHandler_NonStringFields(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	handler := submitHandler(up.URL)

	body := `{"fullName":"John Gamer","email":"j@x.com","game":"mobile-legends","userId":12345678,"serverId":2001,"product":"WEEKLY PASS"}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/submit-customer", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusOK, rr.Code)

	var forwarded map[string]string
	require.NoError(t, json.Unmarshal(*up.body.Load(), &forwarded))
	assert.Equal(t, "12345678", forwarded["userId"])
	assert.Equal(t, "2001", forwarded["serverId"])
}

func TestSubmitCustomerHandler_FalsyFieldsAreMissing(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	handler := submitHandler(up.URL)

	body := `{"fullName":"John Gamer","email":"j@x.com","game":"mobile-legends","userId":0,"serverId":"1","product":"WEEKLY PASS"}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/submit-customer", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing field: userId", strings.TrimSpace(rr.Body.String()))
	assert.Equal(t, int32(0), up.calls.Load())
}
