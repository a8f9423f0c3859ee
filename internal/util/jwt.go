package util

import (
	"errors"
	"time"

	"classroom_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "classroom-backend"

var ErrInvalidToken = errors.New("invalid token")

// Claims 登录令牌携带的用户信息，学生令牌额外带班级 id
type Claims struct {
	UserID   string         `json:"user_id"`
	Role     model.UserRole `json:"role"`
	Username string         `json:"username"`
	ClassID  string         `json:"class_id,omitempty"`
	jwt.RegisteredClaims
}

func GenerateJWT(user model.User, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Role:     user.Role,
		Username: user.Username,
		ClassID:  user.ClassID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseJWT 只接受本服务签发的 HS256 令牌
func ParseJWT(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUserFromContext 取 AuthMiddleware 写入的 Claims，未登录时返回 nil
func GetUserFromContext(c *gin.Context) *Claims {
	claims, _ := c.Value("user").(*Claims)
	return claims
}
