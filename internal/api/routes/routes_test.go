package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/config"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/workflow"
)

type env struct {
	router *gin.Engine
	db     *gorm.DB

	adminToken string
	dmToken    string
	leadToken  string
}

func setupEnv(t *testing.T) *env {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	router := gin.New()
	cfg := config.Config{Environment: "development", JWTSecret: "test-secret"}
	require.NoError(t, Register(router, db, cfg))

	e := &env{router: router, db: db}

	seed := []struct {
		email string
		role  string
		token *string
	}{
		{"admin@cb.example", models.RoleCBAdmin, &e.adminToken},
		{"dm@cb.example", models.RoleDecisionMaker, &e.dmToken},
		{"lead@cb.example", models.RoleLeadAuditor, &e.leadToken},
	}
	for i, s := range seed {
		user := models.User{UUID: fmt.Sprintf("u-%d", i), Email: s.email, Role: s.role, Enabled: true}
		require.NoError(t, user.SetPassword("correct-horse"))
		require.NoError(t, db.Create(&user).Error)

		w := e.do(t, http.MethodPost, "/api/v1/auth/login", "",
			fmt.Sprintf(`{"email": %q, "password": "correct-horse"}`, s.email))
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		*s.token = resp["token"]
	}

	return e
}

func (e *env) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := setupEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"email": "admin@cb.example", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuditLifecycleOverHTTP(t *testing.T) {
	e := setupEnv(t)

	// Client organization
	w := e.do(t, http.MethodPost, "/api/v1/organizations", e.adminToken,
		`{"name": "Acme Manufacturing", "employee_count": 120}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var org models.Organization
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &org))

	// Draft audit
	w = e.do(t, http.MethodPost, "/api/v1/audits", e.leadToken,
		fmt.Sprintf(`{"organization_id": %d, "audit_type": "stage1", "standard_code": "ISO 9001", "planned_duration_hours": 24}`, org.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var audit models.Audit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &audit))
	assert.Equal(t, workflow.StatusDraft, audit.Status)

	auditPath := fmt.Sprintf("/api/v1/audits/%d", audit.ID)
	transition := func(token, target string) *httptest.ResponseRecorder {
		return e.do(t, http.MethodPost, auditPath+"/transition", token,
			fmt.Sprintf(`{"target": %q}`, target))
	}

	// Schedule and start
	require.Equal(t, http.StatusOK, transition(e.leadToken, "scheduled").Code)
	require.Equal(t, http.StatusOK, transition(e.leadToken, "in_progress").Code)

	// Report needs a finding first
	w = transition(e.leadToken, "report_draft")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "at least one finding")

	w = e.do(t, http.MethodPost, auditPath+"/findings", e.leadToken,
		`{"finding_type": "observation", "description": "Training records kept on paper"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	require.Equal(t, http.StatusOK, transition(e.leadToken, "report_draft").Code)
	require.Equal(t, http.StatusOK, transition(e.leadToken, "client_review").Code)
	require.Equal(t, http.StatusOK, transition(e.leadToken, "submitted").Code)

	// Technical review gate
	w = transition(e.leadToken, "technical_review")
	require.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPost, auditPath+"/technical-review", e.leadToken,
		`{"decision": "approved", "comments": "Report is complete"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	require.Equal(t, http.StatusOK, transition(e.leadToken, "technical_review").Code)
	require.Equal(t, http.StatusOK, transition(e.leadToken, "decision_pending").Code)

	// Decision edges belong to the decision maker
	w = transition(e.leadToken, "closed")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, http.StatusOK, transition(e.dmToken, "closed").Code)

	// One log row per applied transition
	w = e.do(t, http.MethodGet, auditPath+"/status-log", e.leadToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.AuditStatusLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 8)
	assert.Equal(t, workflow.StatusDraft, entries[0].FromStatus)
	assert.Equal(t, workflow.StatusClosed, entries[len(entries)-1].ToStatus)

	// A notification per transition landed in the feed
	w = e.do(t, http.MethodGet, "/api/v1/notifications", e.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var notifications []models.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifications))
	assert.Len(t, notifications, 8)
}

func TestAvailableTransitionsEndpoint(t *testing.T) {
	e := setupEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/organizations", e.adminToken, `{"name": "Beta Ltd"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var org models.Organization
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &org))

	w = e.do(t, http.MethodPost, "/api/v1/audits", e.leadToken,
		fmt.Sprintf(`{"organization_id": %d, "audit_type": "stage1"}`, org.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var audit models.Audit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &audit))

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/audits/%d/transitions", audit.ID), e.leadToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Transitions []workflow.StatusOption `json:"transitions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Transitions, 2)
	assert.Equal(t, workflow.StatusScheduled, resp.Transitions[0].Code)
	assert.Equal(t, workflow.StatusCancelled, resp.Transitions[1].Code)
}

func TestUserAdministrationRequiresAdmin(t *testing.T) {
	e := setupEnv(t)

	body := `{"email": "new@cb.example", "password": "long-enough", "role": "auditor"}`

	w := e.do(t, http.MethodPost, "/api/v1/users", e.leadToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/users", e.adminToken, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}
