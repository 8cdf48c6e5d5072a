package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/duration"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/sampling"
)

func calcRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCalculationHandler()
	router.POST("/calculations/duration", h.ValidateDuration)
	router.POST("/calculations/sampling", h.CalculateSampling)
	router.POST("/calculations/site-selection", h.ValidateSiteSelection)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestValidateDurationEndpoint(t *testing.T) {
	router := calcRouter()

	t.Run("valid plan", func(t *testing.T) {
		w := postJSON(t, router, "/calculations/duration",
			`{"planned_hours": 25, "employee_count": 100, "is_initial_certification": true}`)
		require.Equal(t, http.StatusOK, w.Code)

		var result duration.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.IsValid)
		assert.Equal(t, 21.0, result.BaseDuration)
	})

	t.Run("under-planned audit reports shortfall", func(t *testing.T) {
		w := postJSON(t, router, "/calculations/duration",
			`{"planned_hours": 10, "employee_count": 100, "is_initial_certification": true}`)
		require.Equal(t, http.StatusOK, w.Code)

		var result duration.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.IsValid)
		assert.Greater(t, result.ShortfallHours, 0.0)
	})

	t.Run("invalid employee count", func(t *testing.T) {
		w := postJSON(t, router, "/calculations/duration",
			`{"planned_hours": 10, "employee_count": -5}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := postJSON(t, router, "/calculations/duration", `{"planned_hours": "lots"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCalculateSamplingEndpoint(t *testing.T) {
	router := calcRouter()

	t.Run("initial certification of nine sites", func(t *testing.T) {
		w := postJSON(t, router, "/calculations/sampling",
			`{"total_sites": 9, "is_initial_certification": true}`)
		require.Equal(t, http.StatusOK, w.Code)

		var result sampling.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 3, result.MinimumSites)
	})

	t.Run("zero sites", func(t *testing.T) {
		w := postJSON(t, router, "/calculations/sampling", `{"total_sites": 0}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValidateSiteSelectionEndpoint(t *testing.T) {
	router := calcRouter()

	t.Run("shortfall", func(t *testing.T) {
		w := postJSON(t, router, "/calculations/site-selection",
			`{"selected_sites": 2, "required_minimum": 4, "total_sites": 10}`)
		require.Equal(t, http.StatusOK, w.Code)

		var result sampling.SelectionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.IsValid)
		assert.Equal(t, 2, result.Shortfall)
	})

	t.Run("zero selected sites is a valid request", func(t *testing.T) {
		w := postJSON(t, router, "/calculations/site-selection",
			`{"selected_sites": 0, "required_minimum": 3, "total_sites": 10}`)
		require.Equal(t, http.StatusOK, w.Code)

		var result sampling.SelectionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.IsValid)
		assert.Equal(t, 3, result.Shortfall)
	})
}
