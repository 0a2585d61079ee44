// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianInsights/services/insights/calc"
	"github.com/AleutianAI/AleutianInsights/services/insights/enrich"
	"github.com/AleutianAI/AleutianInsights/services/insights/session"
	"github.com/AleutianAI/AleutianInsights/services/insights/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(apiKey string) *gin.Engine {
	resultStore := store.New(nil)
	manager := session.NewManager(nil, nil, resultStore.Delete)
	router := gin.New()
	SetupRoutes(router, resultStore, manager, enrich.NewMerger(nil), calc.NewEvaluator(nil), apiKey)
	return router
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutes_HealthAndMetricsUnauthenticated(t *testing.T) {
	router := setupTestRouter("secret")

	assert.Equal(t, http.StatusOK, get(router, "/health", "").Code)
	assert.Equal(t, http.StatusOK, get(router, "/metrics", "").Code)
}

func TestRoutes_V1RequiresToken(t *testing.T) {
	router := setupTestRouter("secret")

	assert.Equal(t, http.StatusUnauthorized, get(router, "/v1/sessions", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/v1/sessions", "wrong").Code)
	assert.Equal(t, http.StatusOK, get(router, "/v1/sessions", "secret").Code)
}

func TestRoutes_OpenWithoutKey(t *testing.T) {
	router := setupTestRouter("")

	assert.Equal(t, http.StatusOK, get(router, "/v1/sessions", "").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/v1/sessions/unknown/result", "").Code)
}
