package controller

import (
	"course_progress_backend/internal/config"
	"course_progress_backend/pkg/database"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func serve(t *testing.T, method, target, body string, h gin.HandlerFunc, route string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, route, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDecodeBodyKeepsNumbers(t *testing.T) {
	var got QuizAttemptRequest
	w := serve(t, http.MethodPost, "/", `{"answers":[1, "2", {"choice": 3}]}`, func(c *gin.Context) {
		if decodeBody(c, &got) {
			c.Status(http.StatusNoContent)
		}
	}, "/")
	require.Equal(t, http.StatusNoContent, w.Code)

	answers, ok := got.Answers.([]interface{})
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), answers[0])
	assert.Equal(t, "2", answers[1])
	assert.Equal(t, map[string]interface{}{"choice": json.Number("3")}, answers[2])
}

func TestDecodeBodyRejectsMalformedJSON(t *testing.T) {
	var got LessonCompletionRequest
	w := serve(t, http.MethodPut, "/", `[true]`, func(c *gin.Context) {
		if decodeBody(c, &got) {
			c.Status(http.StatusNoContent)
		}
	}, "/")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeBodyAllowsEmptyBody(t *testing.T) {
	var got AssignmentSubmitRequest
	w := serve(t, http.MethodPost, "/", ``, func(c *gin.Context) {
		if decodeBody(c, &got) {
			c.Status(http.StatusNoContent)
		}
	}, "/")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, got.Payload)
}

func TestIDParam(t *testing.T) {
	handler := func(c *gin.Context) {
		if id, ok := idParam(c, "courseId"); ok {
			c.JSON(http.StatusOK, id)
		}
	}
	assert.Equal(t, http.StatusOK, serve(t, http.MethodGet, "/c/12", "", handler, "/c/:courseId").Code)
	for _, bad := range []string{"0", "-1", "x", "99999999999"} {
		assert.Equal(t, http.StatusBadRequest, serve(t, http.MethodGet, "/c/"+bad, "", handler, "/c/:courseId").Code, bad)
	}
}

func TestHandlersRequireCaller(t *testing.T) {
	c := &ProgressController{}
	w := serve(t, http.MethodGet, "/c/1", "", c.GetCourseProgress, "/c/:courseId")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthCheck(t *testing.T) {
	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, logger.Silent)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	h := NewHealthController(db, rdb)
	w := serve(t, http.MethodGet, "/health", "", h.HealthCheck, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"redis":"up"`)

	mr.Close()
	w = serve(t, http.MethodGet, "/health", "", h.HealthCheck, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	w = serve(t, http.MethodGet, "/health", "", h.HealthCheck, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
