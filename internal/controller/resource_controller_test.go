package controller

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceControllerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repository.NewStore(repository.NewMemoryBackend())
	topics, err := repository.Register[model.Topic](store, model.ResourceTopics)
	require.NoError(t, err)

	r := gin.New()
	NewResourceController(topics).Register(r.Group("/topics"))

	var routes []string
	for _, info := range r.Routes() {
		routes = append(routes, info.Method+" "+info.Path)
	}
	sort.Strings(routes)
	assert.Equal(t, []string{
		"DELETE /topics/:id",
		"GET /topics",
		"GET /topics/:id",
		"POST /topics",
		"PUT /topics/:id",
	}, routes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/topics", strings.NewReader(`{"name":"Chủ đề 3","order":3}`)))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/topics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
