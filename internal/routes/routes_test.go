package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksampah/banksampah/internal/config"
	"github.com/banksampah/banksampah/internal/logging"
)

func newTestApp(t *testing.T, autoReject bool) *fiber.App {
	t.Helper()
	cfg := config.Config{
		AppName: "test",
		AppEnv:  "development",
		Ledger:  config.LedgerConfig{AutoRejectInsufficient: autoReject, CommitAttempts: 5},
		Intake:  config.IntakeConfig{RateLimitPerMinute: 100},
	}
	logger := logging.Discard()
	app := NewApp(cfg, logger)
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Logger: logger, Registry: prometheus.NewRegistry()}))
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestSubmissionLifecycle(t *testing.T) {
	app := newTestApp(t, true)

	status, user := call(t, app, http.MethodPost, "/api/v1/admin/users", `{"name":"Wati"}`)
	require.Equal(t, http.StatusCreated, status)
	userID := user["id"].(string)
	require.NotEmpty(t, user["wallet_id"])

	status, sub := call(t, app, http.MethodPost, "/api/v1/submissions",
		`{"user_id":"`+userID+`","category_id":"plastic-bottle","weight_in_grams":"500"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(1500), sub["amount"])
	assert.Equal(t, "pending", sub["status"])
	subID := sub["id"].(string)

	status, pending := call(t, app, http.MethodGet, "/api/v1/submissions/pending?user_id="+userID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), pending["total"])

	status, out := call(t, app, http.MethodPost, "/api/v1/admin/submissions/"+subID+"/approve", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", out["request"].(map[string]any)["status"])
	assert.Equal(t, float64(1500), out["wallet"].(map[string]any)["balance"])

	status, body := call(t, app, http.MethodPost, "/api/v1/admin/submissions/"+subID+"/approve", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_processed", body["code"])

	status, statement := call(t, app, http.MethodGet, "/api/v1/wallets/"+userID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1500), statement["wallet"].(map[string]any)["balance"])
	assert.Len(t, statement["transactions"], 1)

	status, hist := call(t, app, http.MethodGet, "/api/v1/admin/submissions/history?name=wa", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), hist["total"])
}

func TestWithdrawalFlow(t *testing.T) {
	app := newTestApp(t, true)

	_, user := call(t, app, http.MethodPost, "/api/v1/admin/users", `{"name":"Joko"}`)
	userID := user["id"].(string)

	status, body := call(t, app, http.MethodPost, "/api/v1/withdrawals", `{"user_id":"`+userID+`","amount":10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "insufficient_balance", body["code"])

	status, body = call(t, app, http.MethodPost, "/api/v1/withdrawals", `{"user_id":"`+userID+`","amount":0}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_amount", body["code"])

	for _, amount := range []string{`"abc"`, `10.5`} {
		status, body = call(t, app, http.MethodPost, "/api/v1/withdrawals", `{"user_id":"`+userID+`","amount":`+amount+`}`)
		assert.Equal(t, http.StatusBadRequest, status, amount)
		assert.Equal(t, "invalid_amount", body["code"], amount)
	}

	_, sub := call(t, app, http.MethodPost, "/api/v1/submissions",
		`{"user_id":"`+userID+`","category_id":"aluminium-can","weight_in_grams":100}`)
	call(t, app, http.MethodPost, "/api/v1/admin/submissions/"+sub["id"].(string)+"/approve", "")

	_, w1 := call(t, app, http.MethodPost, "/api/v1/withdrawals", `{"user_id":"`+userID+`","amount":1200}`)
	_, w2 := call(t, app, http.MethodPost, "/api/v1/withdrawals", `{"user_id":"`+userID+`","amount":1200}`)

	status, out := call(t, app, http.MethodPost, "/api/v1/admin/withdrawals/"+w1["id"].(string)+"/approve", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), out["wallet"].(map[string]any)["balance"])

	status, body = call(t, app, http.MethodPost, "/api/v1/admin/withdrawals/"+w2["id"].(string)+"/approve", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	req := body["request"].(map[string]any)
	assert.Equal(t, "rejected", req["status"])
	assert.Equal(t, "insufficient balance", req["reason"])
}

func TestValidationAndNotFound(t *testing.T) {
	app := newTestApp(t, true)

	status, body := call(t, app, http.MethodPost, "/api/v1/submissions", `{"category_id":"glass"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_failed", body["code"])

	status, body = call(t, app, http.MethodPost, "/api/v1/submissions", `{"user_id":"ghost","category_id":"glass"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["code"])

	status, _ = call(t, app, http.MethodPost, "/api/v1/admin/withdrawals/nope/reject", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/admin/withdrawals/history?page_size=9999", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, categories := call(t, app, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, categories["items"], 4)
}
