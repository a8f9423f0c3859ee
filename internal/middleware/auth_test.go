package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classroom_backend/internal/config"
	"classroom_backend/internal/model"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthAndRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret", ExpireTime: time.Hour}}

	r := gin.New()
	r.Use(ConfigMiddleware(func() *config.Config { return cfg }))
	r.GET("/teacher", AuthMiddleware(), RoleMiddleware(model.Teacher), func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).UserID)
	})

	teacherToken, err := util.GenerateJWT(model.User{Base: model.Base{ID: "user-gv-1"}, Role: model.Teacher}, "secret", time.Hour)
	require.NoError(t, err)
	studentToken, err := util.GenerateJWT(model.User{Base: model.Base{ID: "user-hs-1"}, Role: model.Student}, "secret", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
		{"student", "Bearer " + studentToken, "", http.StatusForbidden},
		{"teacher", "Bearer " + teacherToken, "", http.StatusOK},
		{"lowercase scheme", "bearer " + teacherToken, "", http.StatusOK},
		{"query token", "", "?token=" + teacherToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/teacher"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "user-gv-1", w.Body.String())
			}
		})
	}
}
