package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetJWTSecret("test-secret")
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString("firebase_uid"), "type": c.GetString("user_type")})
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r := setupAuthRouter()
	token := signed(t, jwt.SigningMethodHS256, []byte("test-secret"), Claims{
		FirebaseUID:      "parent-1",
		UserType:         "parent",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})

	w := request(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"parent-1","type":"parent"}`, w.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := setupAuthRouter()
	expired := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}

	cases := map[string]string{
		"missing header":  "",
		"garbage":         "not-a-token",
		"wrong key":       signed(t, jwt.SigningMethodHS256, []byte("other"), Claims{FirebaseUID: "p", UserType: "parent"}),
		"expired":         signed(t, jwt.SigningMethodHS256, []byte("test-secret"), Claims{FirebaseUID: "p", UserType: "parent", RegisteredClaims: expired}),
		"no firebase_uid": signed(t, jwt.SigningMethodHS256, []byte("test-secret"), Claims{UserType: "parent"}),
		"no user_type":    signed(t, jwt.SigningMethodHS256, []byte("test-secret"), Claims{FirebaseUID: "p"}),
		"other algorithm": signed(t, jwt.SigningMethodHS512, []byte("test-secret"), Claims{FirebaseUID: "p", UserType: "parent"}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, request(r, token).Code)
		})
	}
}
