// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the CRUD and health handlers

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CommandCenter/services/orchestrator/datatypes"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestStore(t *testing.T) *store.GraphStore {
	t.Helper()
	s, err := store.Open(store.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newCRUDRouter(s *store.GraphStore) *gin.Engine {
	router := gin.New()
	router.GET("/health", HealthCheck(false))
	router.POST("/api/projects", CreateProject(s))
	router.GET("/api/projects", ListProjects(s))
	router.GET("/api/projects/:id", GetProject(s))
	router.PATCH("/api/projects/:id", UpdateProject(s))
	router.DELETE("/api/projects/:id", DeleteProject(s))
	router.POST("/api/ideas", CreateIdea(s))
	router.POST("/api/ideas/batch", CreateIdeasBatch(s))
	router.GET("/api/ideas", ListIdeas(s))
	router.GET("/api/ideas/:id", GetIdea(s))
	router.PATCH("/api/ideas/:id", UpdateIdea(s))
	router.DELETE("/api/ideas/:id", DeleteIdea(s))
	router.POST("/api/connections", CreateConnection(s))
	router.GET("/api/connections", ListConnections(s))
	router.GET("/api/connections/:id", GetConnection(s))
	router.PATCH("/api/connections/:id", UpdateConnection(s))
	router.DELETE("/api/connections/:id", DeleteConnection(s))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck(true))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	body := w.Body.String()
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, `"calibrated_forecasting":true`)
}

// =============================================================================
// Project Handler Tests
// =============================================================================

func TestProjectHandlers_CRUDFlow(t *testing.T) {
	router := newCRUDRouter(newTestStore(t))

	w := doJSON(t, router, "POST", "/api/projects",
		gin.H{"name": "Launch", "goal": "100 customers"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeBody[datatypes.Project](t, w)
	require.NotEmpty(t, created.ID)

	w = doJSON(t, router, "GET", "/api/projects/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "PATCH", "/api/projects/"+created.ID,
		gin.H{"goal": "200 customers"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody[datatypes.Project](t, w)
	assert.Equal(t, "200 customers", updated.Goal)
	assert.Equal(t, "Launch", updated.Name)

	w = doJSON(t, router, "GET", "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	projects := decodeBody[[]datatypes.Project](t, w)
	assert.Len(t, projects, 1)

	w = doJSON(t, router, "DELETE", "/api/projects/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)

	w = doJSON(t, router, "GET", "/api/projects/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProject_MissingName(t *testing.T) {
	router := newCRUDRouter(newTestStore(t))

	w := doJSON(t, router, "POST", "/api/projects", gin.H{"goal": "nameless"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjects_EmptyIsArray(t *testing.T) {
	router := newCRUDRouter(newTestStore(t))

	w := doJSON(t, router, "GET", "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

// =============================================================================
// Idea Handler Tests
// =============================================================================

func TestIdeaHandlers_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	router := newCRUDRouter(s)
	project, err := s.CreateProject("Launch", "")
	require.NoError(t, err)

	w := doJSON(t, router, "POST", "/api/ideas",
		gin.H{"project_id": project.ID, "title": "Try a wedge"})
	require.Equal(t, http.StatusOK, w.Code)
	idea := decodeBody[datatypes.Idea](t, w)
	assert.Equal(t, datatypes.StatusResonance, idea.Status)

	w = doJSON(t, router, "GET", "/api/ideas?project_id="+project.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ideas := decodeBody[[]datatypes.Idea](t, w)
	assert.Len(t, ideas, 1)
}

func TestCreateIdea_InvalidStatus(t *testing.T) {
	s := newTestStore(t)
	router := newCRUDRouter(s)
	project, err := s.CreateProject("Launch", "")
	require.NoError(t, err)

	w := doJSON(t, router, "POST", "/api/ideas",
		gin.H{"project_id": project.ID, "title": "t", "status": "brainwave"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "brainwave")
}

func TestCreateIdea_MissingProject(t *testing.T) {
	router := newCRUDRouter(newTestStore(t))

	w := doJSON(t, router, "POST", "/api/ideas",
		gin.H{"project_id": "ghost", "title": "orphan"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListIdeas_RequiresProjectID(t *testing.T) {
	router := newCRUDRouter(newTestStore(t))

	w := doJSON(t, router, "GET", "/api/ideas", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIdeasBatch(t *testing.T) {
	s := newTestStore(t)
	router := newCRUDRouter(s)
	project, err := s.CreateProject("Launch", "")
	require.NoError(t, err)

	t.Run("valid batch preserves order", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/ideas/batch", []gin.H{
			{"project_id": project.ID, "title": "one"},
			{"project_id": project.ID, "title": "two"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		ideas := decodeBody[[]datatypes.Idea](t, w)
		require.Len(t, ideas, 2)
		assert.Equal(t, "one", ideas[0].Title)
		assert.Equal(t, "two", ideas[1].Title)
	})

	t.Run("member without title rejected", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/ideas/batch", []gin.H{
			{"project_id": project.ID, "title": "good"},
			{"project_id": project.ID},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/ideas/batch", []gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateIdea_ConfidenceFields(t *testing.T) {
	s := newTestStore(t)
	router := newCRUDRouter(s)
	project, err := s.CreateProject("Launch", "")
	require.NoError(t, err)
	idea, err := s.CreateIdea(store.IdeaDraft{ProjectID: project.ID, Title: "h"})
	require.NoError(t, err)

	w := doJSON(t, router, "PATCH", "/api/ideas/"+idea.ID, gin.H{
		"status":                "hypothesis",
		"confidence":            0.7,
		"calibrated_confidence": 0.4,
		"validation_reasoning":  "solid signal",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody[datatypes.Idea](t, w)
	require.NotNil(t, updated.Confidence)
	require.NotNil(t, updated.CalibratedConfidence)
	assert.Equal(t, 0.7, *updated.Confidence)
	assert.Equal(t, 0.4, *updated.CalibratedConfidence)
}

// =============================================================================
// Connection Handler Tests
// =============================================================================

func TestConnectionHandlers(t *testing.T) {
	s := newTestStore(t)
	router := newCRUDRouter(s)
	p1, err := s.CreateProject("One", "")
	require.NoError(t, err)
	p2, err := s.CreateProject("Two", "")
	require.NoError(t, err)
	a, err := s.CreateIdea(store.IdeaDraft{ProjectID: p1.ID, Title: "a"})
	require.NoError(t, err)
	b, err := s.CreateIdea(store.IdeaDraft{ProjectID: p1.ID, Title: "b"})
	require.NoError(t, err)
	far, err := s.CreateIdea(store.IdeaDraft{ProjectID: p2.ID, Title: "far"})
	require.NoError(t, err)

	t.Run("create and list", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/connections",
			gin.H{"source_id": a.ID, "target_id": b.ID, "label": "supports"})
		require.Equal(t, http.StatusOK, w.Code)
		conn := decodeBody[datatypes.Connection](t, w)
		assert.Equal(t, "supports", conn.Label)

		w = doJSON(t, router, "GET", "/api/connections?project_id="+p1.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		conns := decodeBody[[]datatypes.Connection](t, w)
		assert.Len(t, conns, 1)

		w = doJSON(t, router, "DELETE", "/api/connections/"+conn.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"deleted":true`)
	})

	t.Run("get and relabel", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/connections",
			gin.H{"source_id": a.ID, "target_id": b.ID, "label": "supports"})
		require.Equal(t, http.StatusOK, w.Code)
		conn := decodeBody[datatypes.Connection](t, w)

		w = doJSON(t, router, "GET", "/api/connections/"+conn.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody[datatypes.Connection](t, w)
		assert.Equal(t, conn.ID, got.ID)

		w = doJSON(t, router, "PATCH", "/api/connections/"+conn.ID,
			gin.H{"label": "contradicts"})
		require.Equal(t, http.StatusOK, w.Code)
		patched := decodeBody[datatypes.Connection](t, w)
		assert.Equal(t, "contradicts", patched.Label)
		assert.Equal(t, a.ID, patched.SourceID)

		w = doJSON(t, router, "GET", "/api/connections/does-not-exist", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing endpoint is 404", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/connections",
			gin.H{"source_id": a.ID, "target_id": "ghost"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("cross project edge is 400", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/connections",
			gin.H{"source_id": a.ID, "target_id": far.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteIdea_ViaHTTPCascades(t *testing.T) {
	s := newTestStore(t)
	router := newCRUDRouter(s)
	p, err := s.CreateProject("Launch", "")
	require.NoError(t, err)
	a, err := s.CreateIdea(store.IdeaDraft{ProjectID: p.ID, Title: "a"})
	require.NoError(t, err)
	b, err := s.CreateIdea(store.IdeaDraft{ProjectID: p.ID, Title: "b"})
	require.NoError(t, err)
	_, err = s.CreateConnection(a.ID, b.ID, "")
	require.NoError(t, err)

	w := doJSON(t, router, "DELETE", "/api/ideas/"+a.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET",
		fmt.Sprintf("/api/connections?project_id=%s", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
