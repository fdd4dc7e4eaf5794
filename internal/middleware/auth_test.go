package middleware

import (
	"course_progress_backend/internal/config"
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newRouter(roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret

	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	if len(roles) > 0 {
		r.Use(RoleMiddleware(roles...))
	}
	r.GET("/me", func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		c.String(http.StatusOK, "%d:%s", user.UserID, user.Role)
	})
	return r
}

func token(t *testing.T, id uint, role model.UserRole, secret string, ttl time.Duration) string {
	t.Helper()
	tok, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: id}, Role: role}, secret, ttl)
	require.NoError(t, err)
	return tok
}

func get(r *gin.Engine, header, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me"+query, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	w := get(r, "Bearer "+token(t, 7, model.Student, testSecret, time.Hour), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7:student", w.Body.String())

	w = get(r, "", "?token="+token(t, 8, model.Teacher, testSecret, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8:teacher", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer garbage", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token(t, 7, model.Student, "another-secret-another-secret-xx", time.Hour), "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token(t, 7, model.Student, testSecret, -time.Minute), "").Code)
}

func TestAuthMiddlewareRejectsOtherAlgorithms(t *testing.T) {
	claims := &util.Claims{UserID: 1, Role: model.Admin}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(newRouter(), "Bearer "+tok, "").Code)
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(model.Teacher)

	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token(t, 1, model.Teacher, testSecret, time.Hour), "").Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token(t, 2, model.Admin, testSecret, time.Hour), "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+token(t, 3, model.Student, testSecret, time.Hour), "").Code)
}
