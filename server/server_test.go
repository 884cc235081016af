package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/bylaw/zoning"
	"github.com/parcelworks/bylaw/zoning/registry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)

	srv := New(&zoning.Evaluator{Registry: reg}, Options{})
	mux := http.NewServeMux()
	srv.RegisterHTTPHandlers(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postEvaluate(t *testing.T, ts *httptest.Server, req EvaluateRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+"/api/v1/evaluate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleEvaluate(t *testing.T) {
	ts := newTestServer(t)

	resp := postEvaluate(t, ts, EvaluateRequest{
		Designation: "RL2-0",
		Geometry: zoning.LotGeometry{
			AreaM2:             zoning.Float64(1898.52),
			FrontageM:          zoning.Float64(30.0),
			DepthM:             zoning.Float64(63.0),
			ExistingFrontYardM: zoning.Float64(9.5),
			ProposedHeightM:    zoning.Float64(6.5),
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out EvaluateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.ReportID)
	assert.False(t, out.GeneratedAt.IsZero())
	assert.False(t, out.Cached)

	require.NotNil(t, out.Result)
	assert.Equal(t, "RL2-0", out.Result.Designation)
	assert.True(t, out.Result.MeetsMinimumRequirements)
	require.NotNil(t, out.Result.MaxCoveragePercent)
	assert.Equal(t, 30.0, *out.Result.MaxCoveragePercent)
	require.NotNil(t, out.Result.FinalBuildable)
	require.NotNil(t, out.Result.FinalBuildable.FinalBuildableFt2)
	assert.InDelta(t, 11511.3, *out.Result.FinalBuildable.FinalBuildableFt2, 0.1)
}

func TestHandleEvaluate_AbsentFieldsStayAbsent(t *testing.T) {
	ts := newTestServer(t)

	resp := postEvaluate(t, ts, EvaluateRequest{Designation: "RL2-0"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Decode into a raw map so omitted fields are distinguishable from
	// zero values.
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	result, ok := out["result"].(map[string]any)
	require.True(t, ok)

	setbacks, ok := result["setbacks"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, setbacks, "front_m")
	assert.NotContains(t, result, "buildable_area_m2")
	assert.NotContains(t, result, "max_floor_area_m2")

	warnings, ok := result["warnings"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, warnings)
}

func TestHandleEvaluate_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	t.Run("unknown designation", func(t *testing.T) {
		resp := postEvaluate(t, ts, EvaluateRequest{Designation: "C1"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("out of range geometry", func(t *testing.T) {
		resp := postEvaluate(t, ts, EvaluateRequest{
			Designation: "RL3",
			Geometry:    zoning.LotGeometry{AreaM2: zoning.Float64(-1)},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/v1/evaluate", "application/json", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/evaluate")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestHandleZones(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/zones")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var zones []ZoneSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&zones))
	require.Len(t, zones, 17)
	assert.Equal(t, "RL1", zones[0].Code)
	assert.Equal(t, "RH", zones[len(zones)-1].Code)
}

func TestHandleZone(t *testing.T) {
	ts := newTestServer(t)

	t.Run("known zone", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/zones/RL6")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var detail ZoneDetail
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
		assert.Equal(t, "RL6", detail.Code)
		assert.Equal(t, "Residential Low 6", detail.Name)
		require.NotNil(t, detail.MinLotArea)
		assert.Equal(t, 250.0, *detail.MinLotArea)
	})

	t.Run("unknown zone", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/zones/C1")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(17), body["zones"])
}
