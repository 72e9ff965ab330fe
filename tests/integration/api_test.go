package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"squad-backend/application/ports"
	"squad-backend/application/services"
	"squad-backend/infrastructure/config"
	"squad-backend/infrastructure/persistence/memory"
	"squad-backend/interfaces/http/rest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestServer stands the full router up against the in-memory store, the
// same wiring a process gets after a durable-store fallback.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>squad</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "App.tsx"), []byte("export default 1;"), 0o644))

	cfg := &config.Config{
		ServerAddress: ":0",
		Environment:   "development",
		AWSRegion:     "us-west-2",
		DynamoDBTable: "squad-availability",
		StoreTimeout:  1,
		StaticDir:     staticDir,
		APIKey:        `secret"key`,
		EnableCORS:    true,
	}

	store := memory.NewWeekendStore()
	svc := services.NewWeekendService(store, nil, zap.NewNop())
	status := ports.StorageStatus{
		Mode:           ports.StorageModeEphemeral,
		FallbackReason: "dynamodb connectivity probe failed",
	}

	router := rest.NewRouter(svc, status, cfg, nil, zap.NewNop())
	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPI_WeekendLifecycle(t *testing.T) {
	server := newTestServer(t)

	// Empty store lists as an empty array, not null.
	resp, err := http.Get(server.URL + "/api/weekends")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store, no-cache, must-revalidate, max-age=0", resp.Header.Get("Cache-Control"))

	var list []map[string]interface{}
	decode(t, resp, &list)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	// Bulk initialize.
	resp = postJSON(t, server.URL+"/api/initialize",
		`[{"id":"2024-01-06","party":"A"},{"id":"2024-01-13","party":"B"}]`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var initResp struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	decode(t, resp, &initResp)
	assert.True(t, initResp.Success)
	assert.Equal(t, "initialized", initResp.Status)

	// Merge an update into the first weekend.
	resp = postJSON(t, server.URL+"/api/weekends", `{"id":"2024-01-06","party":"C","note":"x"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/weekends")
	require.NoError(t, err)
	decode(t, resp, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-06", list[0]["id"])
	assert.Equal(t, "C", list[0]["party"])
	assert.Equal(t, "x", list[0]["note"])
	assert.Equal(t, "B", list[1]["party"])

	// Re-initialize is a no-op.
	resp = postJSON(t, server.URL+"/api/initialize", `[{"id":"2024-01-06","party":"Z"}]`)
	decode(t, resp, &initResp)
	assert.Equal(t, "already_populated", initResp.Status)

	resp, err = http.Get(server.URL + "/api/weekends")
	require.NoError(t, err)
	decode(t, resp, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0]["party"])
}

func TestAPI_UpsertWithoutIDIsBadRequest(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/weekends", `{"party":"A"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, resp, &errResp)
	assert.Equal(t, "VALIDATION", errResp.Error.Code)
}

func TestAPI_HealthReportsStorageMode(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status            string `json:"status"`
		StorageMode       string `json:"storage_mode"`
		DatabaseConnected bool   `json:"database_connected"`
		FallbackReason    string `json:"fallback_reason"`
	}
	decode(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ephemeral", health.StorageMode)
	assert.True(t, health.DatabaseConnected)
	assert.NotEmpty(t, health.FallbackReason)
}

func TestAPI_EnvJSEscapesKey(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/env.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/javascript", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `window.process.env.API_KEY = "secret\"key";`)
}

func TestAPI_StaticServing(t *testing.T) {
	server := newTestServer(t)

	// Extensionless module path resolves to the .tsx source as plain text.
	resp, err := http.Get(server.URL + "/App")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
	resp.Body.Close()

	// Unknown API endpoints are JSON 404s, not static lookups.
	resp, err = http.Get(server.URL + "/api/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Unknown files are plain 404s.
	resp, err = http.Get(server.URL + "/missing.js")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
