package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kinship/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	id := uuid.New()
	token, err := jwt.GenerateToken(secret, id, time.Hour)
	require.NoError(t, err)
	r := newRouter(Middleware(secret))

	w := do(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	for _, header := range []string{"", "Bearer", "Token " + token, "Bearer garbage"} {
		w := do(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestOptionalMiddleware(t *testing.T) {
	id := uuid.New()
	token, err := jwt.GenerateToken(secret, id, time.Hour)
	require.NoError(t, err)
	r := newRouter(OptionalMiddleware(secret))

	assert.Equal(t, id.String(), do(r, "Bearer "+token).Body.String())
	assert.Equal(t, "anonymous", do(r, "").Body.String())
	assert.Equal(t, "anonymous", do(r, "Bearer garbage").Body.String())
}
