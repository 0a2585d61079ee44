// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authedRouter(key string) *gin.Engine {
	router := gin.New()
	router.Use(APIKeyAuth(key))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func request(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth_EmptyKeyDisablesEnforcement(t *testing.T) {
	router := authedRouter("")
	assert.Equal(t, http.StatusOK, request(router, "").Code)
}

func TestAPIKeyAuth_ValidToken(t *testing.T) {
	router := authedRouter("secret-key")
	assert.Equal(t, http.StatusOK, request(router, "Bearer secret-key").Code)
}

func TestAPIKeyAuth_MissingToken(t *testing.T) {
	router := authedRouter("secret-key")
	assert.Equal(t, http.StatusUnauthorized, request(router, "").Code)
}

func TestAPIKeyAuth_WrongToken(t *testing.T) {
	router := authedRouter("secret-key")
	assert.Equal(t, http.StatusUnauthorized, request(router, "Bearer nope").Code)
}

func TestAPIKeyAuth_NonBearerSchemeRejected(t *testing.T) {
	router := authedRouter("secret-key")
	assert.Equal(t, http.StatusUnauthorized, request(router, "Basic c2VjcmV0").Code)
}
