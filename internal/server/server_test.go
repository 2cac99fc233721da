package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtaskbot/internal/config"
	"gtaskbot/internal/digest"
	"gtaskbot/internal/server"
)

type recordingHandler struct {
	updates []*models.Update
	err     error
}

func (h *recordingHandler) HandleUpdate(ctx context.Context, update *models.Update) error {
	h.updates = append(h.updates, update)
	return h.err
}

type stubDigest struct {
	runs int
	err  error
}

func (d *stubDigest) Run(ctx context.Context) error {
	d.runs++
	return d.err
}

func newTestServer(cfg *config.Config) (http.Handler, *recordingHandler, *stubDigest) {
	h := &recordingHandler{}
	d := &stubDigest{}
	return server.New(cfg, h, d, nil).Router(), h, d
}

func do(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]string
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

const updateJSON = `{"update_id":7,"message":{"message_id":1,"date":0,"chat":{"id":5005,"type":"private"},"from":{"id":1001,"is_bot":false,"first_name":"A"},"text":"Buy milk"}}`

func TestWebhook_DeliversUpdate(t *testing.T) {
	router, h, _ := newTestServer(&config.Config{})

	req := httptest.NewRequest(http.MethodPost, server.WebhookPath, strings.NewReader(updateJSON))
	rec, body := do(t, router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	require.Len(t, h.updates, 1)
	assert.Equal(t, int64(7), h.updates[0].ID)
	require.NotNil(t, h.updates[0].Message)
	assert.Equal(t, "Buy milk", h.updates[0].Message.Text)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestWebhook_HandlerErrorStillOK(t *testing.T) {
	router, h, _ := newTestServer(&config.Config{})
	h.err = errors.New("send message: bad gateway")

	req := httptest.NewRequest(http.MethodPost, server.WebhookPath, strings.NewReader(updateJSON))
	rec, _ := do(t, router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhook_BadJSON(t *testing.T) {
	router, h, _ := newTestServer(&config.Config{})

	req := httptest.NewRequest(http.MethodPost, server.WebhookPath, strings.NewReader("{not json"))
	rec, _ := do(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, h.updates)
}

func TestWebhook_SecretToken(t *testing.T) {
	cfg := &config.Config{Telegram: config.TelegramConfig{WebhookSecret: "s3cret"}}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusUnauthorized},
		{"correct", "s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, h, _ := newTestServer(cfg)
			req := httptest.NewRequest(http.MethodPost, server.WebhookPath, strings.NewReader(updateJSON))
			if tt.header != "" {
				req.Header.Set("X-Telegram-Bot-Api-Secret-Token", tt.header)
			}

			rec, _ := do(t, router, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				assert.Empty(t, h.updates)
			}
		})
	}
}

func TestCron_SendsDigest(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		router, _, d := newTestServer(&config.Config{})

		rec, body := do(t, router, httptest.NewRequest(method, server.CronPath, nil))

		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, "sent", body["status"], method)
		assert.Equal(t, 1, d.runs, method)
	}
}

func TestCron_Errors(t *testing.T) {
	router, _, d := newTestServer(&config.Config{})

	d.err = digest.ErrNoTarget
	rec, body := do(t, router, httptest.NewRequest(http.MethodGet, server.CronPath, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Target Chat ID not set", body["error"])

	d.err = errors.New("request timed out")
	rec, body = do(t, router, httptest.NewRequest(http.MethodGet, server.CronPath, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "request timed out", body["error"])
}

func TestCron_Secret(t *testing.T) {
	cfg := &config.Config{Digest: config.DigestConfig{CronSecret: "tick"}}
	router, _, d := newTestServer(cfg)

	req := httptest.NewRequest(http.MethodGet, server.CronPath, nil)
	rec, _ := do(t, router, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, server.CronPath, nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec, _ = do(t, router, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, d.runs)

	req = httptest.NewRequest(http.MethodGet, server.CronPath, nil)
	req.Header.Set("Authorization", "Bearer tick")
	rec, _ = do(t, router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, d.runs)
}

func TestHealthAndMetrics(t *testing.T) {
	router, _, _ := newTestServer(&config.Config{})

	rec, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDPreserved(t *testing.T) {
	router, _, _ := newTestServer(&config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec, _ := do(t, router, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}
