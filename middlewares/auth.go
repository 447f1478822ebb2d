package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtKey []byte

var signingMethod = jwt.SigningMethodHS256

// SetJWTSecret sets the HMAC key tokens are verified with.
func SetJWTSecret(secret string) {
	jwtKey = []byte(secret)
}

// Claims issued by the account service for parents and children.
type Claims struct {
	FirebaseUID string `json:"firebase_uid"`
	UserType    string `json:"user_type"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the bearer token and puts firebase_uid and
// user_type into the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return jwtKey, nil
		}, jwt.WithValidMethods([]string{signingMethod.Alg()}))
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Проверяем и извлекаем firebase_uid
		if claims.FirebaseUID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: missing firebase_uid"})
			c.Abort()
			return
		}
		// Проверяем и извлекаем user_type
		if claims.UserType == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: missing user_type"})
			c.Abort()
			return
		}

		c.Set("firebase_uid", claims.FirebaseUID)
		c.Set("user_type", claims.UserType)
		c.Next()
	}
}
