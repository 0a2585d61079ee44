// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianInsights/services/insights/calc"
	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
	"github.com/AleutianAI/AleutianInsights/services/insights/enrich"
	"github.com/AleutianAI/AleutianInsights/services/insights/session"
	"github.com/AleutianAI/AleutianInsights/services/insights/store"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router  *gin.Engine
	store   *store.Store
	manager *session.Manager
}

func newTestEnv() *testEnv {
	resultStore := store.New(nil)
	manager := session.NewManager(nil, nil, resultStore.Delete)
	merger := enrich.NewMerger(nil)
	evaluator := calc.NewEvaluator(nil)

	router := gin.New()
	router.GET("/health", HealthCheck)
	router.POST("/sessions", CreateSession(manager))
	router.GET("/sessions", ListSessions(manager))
	router.GET("/sessions/:sessionId", GetSession(manager))
	router.DELETE("/sessions/:sessionId", DeleteSession(manager))
	router.POST("/sessions/:sessionId/messages", AddSessionMessage(manager))
	router.POST("/sessions/:sessionId/insights", ReportInsight(manager))
	router.GET("/sessions/:sessionId/insights", DrainInsights(manager))
	router.POST("/sessions/:sessionId/result", CreateResult(resultStore))
	router.GET("/sessions/:sessionId/result", GetResult(resultStore))
	router.POST("/sessions/:sessionId/result/enrich", EnrichResult(resultStore, merger))
	router.POST("/sessions/:sessionId/result/calculate", AddCalculatedColumn(resultStore, evaluator))
	router.GET("/sessions/:sessionId/result/export/csv", ExportResultCSV(resultStore))
	router.POST("/sessions/:sessionId/result/chart", BuildChart(resultStore))

	return &testEnv{router: router, store: resultStore, manager: manager}
}

// performRequest executes an HTTP request against the test router.
func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createResultBody() map[string]any {
	return map[string]any{
		"columns": []map[string]any{
			{"name": "state", "data_type": "STRING"},
			{"name": "population", "data_type": "FLOAT64"},
			{"name": "stores", "data_type": "INTEGER"},
			{"name": "revenue", "data_type": "FLOAT64"},
		},
		"rows": []map[string]any{
			{"state": "CA", "population": 39500000, "stores": 150, "revenue": 1200},
			{"state": "TX", "population": 29100000, "stores": 120, "revenue": 950},
		},
		"sql": "SELECT state, population, stores, revenue FROM sales",
	}
}

// =============================================================================
// Health
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	env := newTestEnv()
	w := performRequest(env.router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
}

// =============================================================================
// Sessions
// =============================================================================

func TestSessions_CreateGetDelete(t *testing.T) {
	env := newTestEnv()

	w := performRequest(env.router, "POST", "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = performRequest(env.router, "GET", "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(env.router, "DELETE", "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(env.router, "GET", "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_MalformedIDRejected(t *testing.T) {
	env := newTestEnv()
	w := performRequest(env.router, "GET", "/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessions_DeleteCascadesToResult(t *testing.T) {
	env := newTestEnv()
	s := env.manager.Create()

	w := performRequest(env.router, "POST", "/sessions/"+s.ID+"/result", createResultBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(env.router, "DELETE", "/sessions/"+s.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(env.router, "GET", "/sessions/"+s.ID+"/result", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_InsightsRoundTrip(t *testing.T) {
	env := newTestEnv()
	s := env.manager.Create()

	w := performRequest(env.router, "POST", "/sessions/"+s.ID+"/insights",
		map[string]string{"type": "trend", "message": "revenue climbing 3 weeks straight"})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = performRequest(env.router, "GET", "/sessions/"+s.ID+"/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Insights []session.Insight `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Insights, 1)
	assert.Equal(t, session.InsightTrend, response.Insights[0].Type)

	// Drained on read.
	w = performRequest(env.router, "GET", "/sessions/"+s.ID+"/insights", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Insights)
}

// =============================================================================
// Results
// =============================================================================

func TestCreateResult_StoresAtVersionZero(t *testing.T) {
	env := newTestEnv()

	w := performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var result datatypes.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Version)
	assert.Equal(t, 2, result.TotalRows)
	assert.Len(t, result.Columns, 4)
}

func TestGetResult_NotFound(t *testing.T) {
	env := newTestEnv()
	w := performRequest(env.router, "GET", "/sessions/abc/result", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateResult_MissingColumnsRejected(t *testing.T) {
	env := newTestEnv()
	w := performRequest(env.router, "POST", "/sessions/abc/result",
		map[string]any{"rows": []map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateResult_DuplicateColumnRejected(t *testing.T) {
	env := newTestEnv()
	body := createResultBody()
	body["columns"] = []map[string]any{
		{"name": "state", "data_type": "STRING"},
		{"name": "state", "data_type": "STRING"},
	}
	w := performRequest(env.router, "POST", "/sessions/abc/result", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate column name")
}

func TestCreateResult_ConflictingColumnFlagsRejected(t *testing.T) {
	env := newTestEnv()
	body := createResultBody()
	body["columns"] = []map[string]any{
		{"name": "state", "data_type": "STRING", "is_enriched": true, "is_calculated": true},
	}
	w := performRequest(env.router, "POST", "/sessions/abc/result", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// Enrichment
// =============================================================================

func enrichBody(version int) map[string]any {
	return map[string]any{
		"source_column": "state",
		"version":       version,
		"entries": []map[string]any{
			{
				"original_value": "CA",
				"fields": map[string]any{
					"capital": map[string]any{
						"value": "Sacramento", "source": "knowledge_base", "confidence": "high",
					},
				},
			},
		},
	}
}

func TestEnrichResult_PartialFailureReported(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())

	w := performRequest(env.router, "POST", "/sessions/abc/result/enrich", enrichBody(0))
	require.Equal(t, http.StatusOK, w.Code)

	var result datatypes.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Version)

	require.NotNil(t, result.Enrichment)
	assert.Equal(t, 1, result.Enrichment.TotalEnriched)
	assert.True(t, result.Enrichment.PartialFailure)
	assert.Contains(t, result.Enrichment.Warnings, "no enrichment data found for TX")
	assert.True(t, result.HasColumn("_enriched_capital"))
}

func TestEnrichResult_StaleVersionConflict(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())

	w := performRequest(env.router, "POST", "/sessions/abc/result/enrich", enrichBody(0))
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(env.router, "POST", "/sessions/abc/result/enrich", enrichBody(0))
	require.Equal(t, http.StatusConflict, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["expected_version"])
	assert.Equal(t, float64(1), response["current_version"])
}

func TestEnrichResult_UnknownSourceColumn(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())

	body := enrichBody(0)
	body["source_column"] = "county"
	w := performRequest(env.router, "POST", "/sessions/abc/result/enrich", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// Calculated Columns
// =============================================================================

func TestAddCalculatedColumn_Success(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())

	w := performRequest(env.router, "POST", "/sessions/abc/result/calculate", map[string]any{
		"column_name": "people_per_store",
		"expression":  "population / stores",
		"format_type": "integer",
		"version":     0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result datatypes.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Version)
	assert.Equal(t, 263333.0, result.Rows[0]["people_per_store"].Value())
	assert.Equal(t, 242500.0, result.Rows[1]["people_per_store"].Value())
}

func TestAddCalculatedColumn_InvalidExpression(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())

	w := performRequest(env.router, "POST", "/sessions/abc/result/calculate", map[string]any{
		"column_name": "bad",
		"expression":  "revenue; drop_everything()",
		"version":     0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response, "position")

	// The rejected operation did not bump the version.
	stored, err := env.store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Version)
}

func TestAddCalculatedColumn_MissingColumn(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())

	w := performRequest(env.router, "POST", "/sessions/abc/result/calculate", map[string]any{
		"column_name": "margin",
		"expression":  "(revenue - cost) / revenue",
		"version":     0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response, "missing_columns")
	assert.Contains(t, response, "available_columns")
}

func TestAddCalculatedColumn_BadNameRejected(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())

	w := performRequest(env.router, "POST", "/sessions/abc/result/calculate", map[string]any{
		"column_name": "1; DROP TABLE",
		"expression":  "revenue * 2",
		"version":     0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// Export and Chart
// =============================================================================

func TestExportResultCSV(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())
	performRequest(env.router, "POST", "/sessions/abc/result/enrich", enrichBody(0))

	w := performRequest(env.router, "GET", "/sessions/abc/result/export/csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "result_abc.csv")

	body := w.Body.String()
	assert.Contains(t, body, "_enriched_capital")
	assert.Contains(t, body, "Sacramento")
	assert.NotContains(t, body, "knowledge_base")
}

func TestBuildChart(t *testing.T) {
	env := newTestEnv()
	performRequest(env.router, "POST", "/sessions/abc/result", createResultBody())

	w := performRequest(env.router, "POST", "/sessions/abc/result/chart", map[string]any{
		"chart_type": "bar",
		"x_column":   "state",
		"y_columns":  []string{"revenue"},
		"title":      "Revenue by State",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "bar", response["chart_type"])

	w = performRequest(env.router, "POST", "/sessions/abc/result/chart", map[string]any{
		"chart_type": "sparkline",
		"x_column":   "state",
		"y_columns":  []string{"revenue"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
