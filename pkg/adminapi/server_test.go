package adminapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/meshrunner/pkg/adminapi"
	"github.com/eventflow/meshrunner/pkg/demoapp"
	"github.com/eventflow/meshrunner/pkg/runner/singlethread"
	"github.com/eventflow/meshrunner/pkg/topology"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func buildTestSystem(t *testing.T) (*topology.System, *singlethread.Runner) {
	t.Helper()
	registry := demoapp.BuildRegistry([][]string{{"orders", "billing", "ledger"}}, "second")
	pipe := topology.Pipe{}
	for _, topic := range []string{"orders", "billing", "ledger"} {
		cls, err := registry.Resolve(topic)
		require.NoError(t, err)
		pipe = append(pipe, cls)
	}
	sys, err := topology.New(registry, pipe)
	require.NoError(t, err)

	rnr := singlethread.New(sys)
	require.NoError(t, rnr.Start())
	t.Cleanup(rnr.Stop)
	return sys, rnr
}

func TestHandleHealth(t *testing.T) {
	sys, rnr := buildTestSystem(t)
	srv := adminapi.NewServer(sys, rnr)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleSystem_ReportsClassification(t *testing.T) {
	sys, rnr := buildTestSystem(t)
	srv := adminapi.NewServer(sys, rnr)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/system", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp adminapi.SystemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"orders"}, resp.LeadersOnly)
	assert.ElementsMatch(t, []string{"billing"}, resp.Processors)
	assert.Len(t, resp.Edges, 2)
}

func TestHandlePrompt_InjectsIntoRunner(t *testing.T) {
	sys, rnr := buildTestSystem(t)
	srv := adminapi.NewServer(sys, rnr)

	body, err := json.Marshal(adminapi.PromptRequest{Leader: "orders"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/prompt", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHandlePrompt_RejectsMissingLeaderField(t *testing.T) {
	sys, rnr := buildTestSystem(t)
	srv := adminapi.NewServer(sys, rnr)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/prompt", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
