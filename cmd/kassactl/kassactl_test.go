package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/kassa-sdk/internal/sandbox"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testShopID = "shop-1"
	testSecret = "secret"
)

func startSandbox(t *testing.T) (*sandbox.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv := sandbox.New(sandbox.Config{ShopID: testShopID, SecretKey: testSecret, Queues: []string{"3"}}, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts.URL
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func connArgs(host string, args ...string) []string {
	return append(args, "--host", host, "--shop-id", testShopID, "--secret", testSecret)
}

func TestVATParse(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"vat", "parse", "20%"}, "20"},
		{[]string{"vat", "parse", "10/110"}, "110"},
		{[]string{"vat", "parse", "18"}, "20"},
		{[]string{"vat", "parse", "--legacy", "18"}, "18"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}

	_, err := run(t, "", "vat", "parse", "7")
	assert.Error(t, err)
}

func TestQueueStatus(t *testing.T) {
	srv, host := startSandbox(t)

	out, err := run(t, "", connArgs(host, "queue", "status", "3")...)
	require.NoError(t, err)
	assert.JSONEq(t, `{"queue_id":"3","active":true}`, out)

	srv.Store().SetQueueState("3", "passive")
	out, err = run(t, "", connArgs(host, "queue", "status", "3")...)
	require.NoError(t, err)
	assert.JSONEq(t, `{"queue_id":"3","active":false}`, out)
}

func TestMissingCredentials(t *testing.T) {
	t.Setenv("KASSA_SHOP_ID", "")
	t.Setenv("KASSA_SECRET_KEY", "")

	_, err := run(t, "", "queue", "status", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop ID and secret key are required")
}

const checkRequest = `{
  "external_id": "cli-1",
  "intent": "sell",
  "company": {"payment_address": "shop.example.ru", "sno": 0},
  "positions": [{"name": "Tea", "price": 120, "quantity": 2, "vat": "20%"}],
  "payments": [{"sum": 240, "type": "cash"}],
  "strict_totals": true
}`

func TestTaskSubmitAndInfo(t *testing.T) {
	_, host := startSandbox(t)

	out, err := run(t, checkRequest, connArgs(host, "task", "submit", "--queue", "3")...)
	require.NoError(t, err)

	var task map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, "cli-1", task["external_id"])
	assert.Equal(t, "new", task["state"])
	taskID, ok := task["id"].(string)
	require.True(t, ok)

	out, err = run(t, "", connArgs(host, "task", "info", taskID)...)
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "done", info["state"])
	assert.NotEmpty(t, info["fiscal_data"])
}

func TestTaskSubmitFromFile(t *testing.T) {
	_, host := startSandbox(t)

	path := filepath.Join(t.TempDir(), "check.json")
	require.NoError(t, os.WriteFile(path, []byte(checkRequest), 0o600))

	_, err := run(t, "", connArgs(host, "task", "submit", "-f", path, "-q", "3")...)
	require.NoError(t, err)

	_, err = run(t, "", connArgs(host, "task", "submit", "-f", path, "-q", "3")...)
	require.Error(t, err, "the sandbox rejects a repeated external_id")
}

func TestTaskSubmitRejectsMismatchedTotals(t *testing.T) {
	_, host := startSandbox(t)

	body := strings.Replace(checkRequest, `"sum": 240`, `"sum": 200`, 1)
	_, err := run(t, body, connArgs(host, "task", "submit", "-q", "3")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payments")
}

func TestOrdersAndEmployeesList(t *testing.T) {
	srv, host := startSandbox(t)

	_, err := srv.Store().PutOrder("", map[string]any{
		"external_id": "ord-1",
		"courier_id":  7,
		"items":       []any{map[string]any{"name": "Pizza", "total": 500}},
	})
	require.NoError(t, err)
	_, err = srv.Store().PutEmployee("", map[string]any{
		"type": "courier", "name": "Petrov", "login": "petrov", "password": "x", "pos_id": "pos-1",
	})
	require.NoError(t, err)

	out, err := run(t, "", connArgs(host, "orders", "list", "--courier-id", "7")...)
	require.NoError(t, err)
	var orders map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &orders))
	assert.Len(t, orders["orders"], 1)

	out, err = run(t, "", connArgs(host, "employees", "list", "--type", "courier")...)
	require.NoError(t, err)
	var employees map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &employees))
	assert.Len(t, employees["account_employees"], 1)
	assert.Equal(t, map[string]any{"total": 1.0, "total_pages": 1.0}, employees["meta"])
}
