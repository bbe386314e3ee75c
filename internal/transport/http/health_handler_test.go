package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BipinP21/fda-submission-tracker/internal/config"
)

func TestGetHealth(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Data: config.DataConfig{Dir: dir}}
	srv := httptest.NewServer(NewHealthHandler(cfg).Routes())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "missing", body["dataset"])

	// Once the workbook exists the dataset reports available.
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.MergedWorkbookFile), []byte("x"), 0644))

	resp2, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, "available", body["dataset"])
}
