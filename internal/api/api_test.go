package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/prk7048/LOA-AGENT/internal/engine"
	"github.com/prk7048/LOA-AGENT/internal/storage"
)

type stubSource struct{}

func (stubSource) FetchProfile(ctx context.Context, name string) (*engine.Profile, error) {
	if name == "Ghost" {
		return nil, engine.ErrNotFound
	}
	return &engine.Profile{Name: name, Server: "Luperon", Class: "Bard", ItemLevel: 1680}, nil
}

func (stubSource) FetchRoster(ctx context.Context, name string) ([]engine.RosterEntry, error) {
	return []engine.RosterEntry{{Name: name}, {Name: "Ghost"}}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *engine.Service) {
	t.Helper()
	store, err := storage.Open(context.Background(), storage.DialectSQLite, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	start := time.Date(2025, 1, 16, 1, 0, 0, 0, time.UTC)
	svc := engine.NewService(store,
		engine.WithSource(stubSource{}),
		engine.WithClock(engine.NewFakeClock(start)),
		engine.WithLogger(zaptest.NewLogger(t)),
	)
	srv := httptest.NewServer((&API{Service: svc, Log: zaptest.NewLogger(t)}).Router())
	t.Cleanup(srv.Close)
	return srv, svc
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRosterSyncAndTasks(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/rosters/Eunje/sync", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report engine.SyncReport
	decode(t, resp, &report)
	assert.Equal(t, 1, report.Count(engine.StatusSynced))
	assert.Equal(t, 1, report.Count(engine.StatusUnreachable))

	resp = do(t, http.MethodGet, srv.URL+"/tasks?character=Eunje", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tasks []taskResponse
	decode(t, resp, &tasks)
	require.Len(t, tasks, 5)

	resp = do(t, http.MethodPut, srv.URL+"/tasks/"+itoa(tasks[0].ID)+"/progress", map[string]bool{"done": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated taskResponse
	decode(t, resp, &updated)
	assert.True(t, updated.Done)

	resp = do(t, http.MethodPut, srv.URL+"/tasks/9999/progress", map[string]int{"value": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/tasks/abc/progress", map[string]int{"value": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCharacters(t *testing.T) {
	srv, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/characters/Eunje/sync", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPost, srv.URL+"/characters/Ghost/sync", nil).StatusCode)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodPut, srv.URL+"/characters/Eunje/memo", map[string]string{"memo": "hi"}).StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPut, srv.URL+"/characters/Eunje/spent", map[string]int{"gold": -5}).StatusCode)

	resp := do(t, http.MethodGet, srv.URL+"/characters?order=progress", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chars []characterResponse
	decode(t, resp, &chars)
	require.Len(t, chars, 1)
	assert.Equal(t, "hi", chars[0].Memo)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, srv.URL+"/characters?order=name", nil).StatusCode)
	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, srv.URL+"/characters/Eunje", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodDelete, srv.URL+"/characters/Eunje", nil).StatusCode)
}

func TestResetsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/resets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string][]string
	decode(t, resp, &body)
	assert.NotNil(t, body["log"])
	assert.Empty(t, body["log"])
}

func TestRecommendations(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/recommendations?progress=1680&power=0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tiers []struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	}
	decode(t, resp, &tiers)
	require.Len(t, tiers, 3)
	assert.Equal(t, "Act 3: Mordum", tiers[0].Name)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, srv.URL+"/recommendations?progress=x", nil).StatusCode)
}

func TestExpeditionsAndSettings(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/expeditions", expeditionRequest{Name: "Chaos Gate", ResetCycle: "interval", IntervalDays: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]int64
	decode(t, resp, &created)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, srv.URL+"/expeditions", expeditionRequest{Name: "x", ResetCycle: "hourly"}).StatusCode)
	assert.Equal(t, http.StatusNoContent, do(t, http.MethodPut, srv.URL+"/expeditions/"+itoa(created["id"])+"/checked", checkedRequest{Checked: true}).StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/expeditions", nil)
	var exps []expeditionResponse
	decode(t, resp, &exps)
	require.Len(t, exps, 1)
	assert.True(t, exps[0].Checked)
	assert.Equal(t, "INTERVAL", exps[0].ResetCycle)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, srv.URL+"/expeditions/"+itoa(created["id"]), nil).StatusCode)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/settings/target_date", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPut, srv.URL+"/settings/target_date", settingRequest{Value: "soon"}).StatusCode)
	assert.Equal(t, http.StatusNoContent, do(t, http.MethodPut, srv.URL+"/settings/target_date", settingRequest{Value: "2025-02-01"}).StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/income", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inc engine.Income
	decode(t, resp, &inc)
	assert.Equal(t, "2025-02-01", inc.TargetDate)
}

func TestStorageUnavailableMapsTo503(t *testing.T) {
	srv, svc := newTestServer(t)
	require.NoError(t, svc.Store().Close())

	resp := do(t, http.MethodPost, srv.URL+"/resets", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var body errorResponse
	decode(t, resp, &body)
	assert.Equal(t, "STORAGE_UNAVAILABLE", body.Error.Code)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
