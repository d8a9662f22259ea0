package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memorySink struct {
	mu    sync.Mutex
	logs  []models.OperationLog
	fails int
}

func (s *memorySink) Save(_ context.Context, log *models.OperationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fails > 0 {
		s.fails--
		return errors.New("insert failed")
	}
	s.logs = append(s.logs, *log)
	return nil
}

func newAdminRouter(issuer *utils.TokenIssuer, sink AuditSink) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	admin := r.Group("/api/admin")
	admin.Use(OperationLoggerMiddleware(sink), AdminGate(issuer))
	admin.GET("/projects", func(c *gin.Context) {
		session, err := utils.GetAdmin(c)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": session.Role})
	})
	admin.POST("/projects", func(c *gin.Context) {
		var body map[string]any
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": body})
	})
	return r
}

func TestAdminGateMissingToken(t *testing.T) {
	r := newAdminRouter(utils.NewTokenIssuer("k", time.Hour), &memorySink{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_TOKEN")
}

func TestAdminGateInvalidToken(t *testing.T) {
	r := newAdminRouter(utils.NewTokenIssuer("k", time.Hour), &memorySink{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAdminGateAcceptsCookieAndBearer(t *testing.T) {
	issuer := utils.NewTokenIssuer("k", time.Hour)
	token, _, err := issuer.GenerateToken("s1")
	require.NoError(t, err)
	r := newAdminRouter(issuer, &memorySink{})

	cookieReq := httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil)
	cookieReq.AddCookie(&http.Cookie{Name: utils.AdminCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, cookieReq)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"admin"}`, w.Body.String())

	bearerReq := httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil)
	bearerReq.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, bearerReq)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOperationLoggerRecordsWrites(t *testing.T) {
	issuer := utils.NewTokenIssuer("k", time.Hour)
	token, _, err := issuer.GenerateToken("s1")
	require.NoError(t, err)
	sink := &memorySink{}
	r := newAdminRouter(issuer, sink)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/projects",
		strings.NewReader(`{"title":"X","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	// 下游仍然能读到请求体
	assert.Contains(t, w.Body.String(), `"title":"X"`)

	require.Len(t, sink.logs, 1)
	log := sink.logs[0]
	assert.Equal(t, "req-42", log.RequestID)
	assert.Equal(t, "projects", log.Collection)
	assert.Equal(t, utils.AdminRole, log.OperatorRole)
	assert.True(t, log.Success)
	assert.Equal(t, map[string]interface{}{"title": "X", "password": "******"}, log.RequestBody)
	assert.Equal(t, "Bearer "+token[:8]+"...", log.RequestHeader.(map[string]interface{})["Authorization"])
}

func TestOperationLoggerRecordsRejectedWrites(t *testing.T) {
	sink := &memorySink{}
	r := newAdminRouter(utils.NewTokenIssuer("k", time.Hour), sink)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/projects", nil))

	require.Len(t, sink.logs, 1)
	assert.False(t, sink.logs[0].Success)
	assert.Equal(t, "anonymous", sink.logs[0].OperatorRole)
	assert.Equal(t, "Unauthorized", sink.logs[0].ErrorMessage)
}

func TestOperationLoggerSkipsReads(t *testing.T) {
	sink := &memorySink{}
	r := newAdminRouter(utils.NewTokenIssuer("k", time.Hour), sink)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil))

	assert.Empty(t, sink.logs)
}

func TestOperationLoggerFallsBackToMinimalLog(t *testing.T) {
	sink := &memorySink{fails: 1}
	r := newAdminRouter(utils.NewTokenIssuer("k", time.Hour), sink)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/admin/projects", nil))

	require.Len(t, sink.logs, 1)
	assert.Nil(t, sink.logs[0].ResponseData)
	assert.Contains(t, sink.logs[0].ErrorMessage, "insert failed")
}

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
}

func TestRecoveryReturnsJSON(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestErrorHandlerRendersContextErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(utils.CreateNotFoundError("paper")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RESOURCE_NOT_FOUND")
}

func TestCollectionFromPath(t *testing.T) {
	assert.Equal(t, "team", collectionFromPath("/api/admin/team/3"))
	assert.Equal(t, "research", collectionFromPath("/api/admin/research/upload"))
	assert.Equal(t, "", collectionFromPath("/api/content/team"))
}
