/**
 * 工具类:令牌编解码
 * @author: sun977
 * @date: 2025.08.29
 * @description: 访问令牌/刷新令牌的签发与校验，令牌类型写入签名载荷，校验时必须匹配
 * @func:
 * 	1.Issue 签发指定类型令牌
 * 	2.Verify 按期望类型校验令牌
 * 	3.CreateTokenPair 同一时刻签发令牌对
 */

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind 令牌类型
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"  // 访问令牌
	TokenKindRefresh TokenKind = "refresh" // 刷新令牌
)

var (
	// ErrTokenExpired 令牌已过期(当前时间 >= exp)
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenMalformed 签名无效或载荷无法解析
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrInvalidTokenKind 令牌类型与期望不符
	ErrInvalidTokenKind = errors.New("invalid token kind")
)

// JWTClaims JWT声明结构
type JWTClaims struct {
	UserID    uint      `json:"user_id"`
	TokenType TokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // 访问令牌有效期(秒)
}

// JWTManager JWT管理器，初始化后只读，可并发使用
type JWTManager struct {
	secretKey       []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

// NewJWTManager 创建JWT管理器
func NewJWTManager(secretKey, issuer string, accessTokenTTL, refreshTokenTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:       []byte(secretKey),
		issuer:          issuer,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		now:             time.Now,
	}
}

// WithClock 返回使用指定时钟的副本
func (j *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *j
	cp.now = now
	return &cp
}

// AccessTokenTTL 访问令牌有效期
func (j *JWTManager) AccessTokenTTL() time.Duration {
	return j.accessTokenTTL
}

// Issue 签发指定类型的令牌
func (j *JWTManager) Issue(userID uint, kind TokenKind) (string, error) {
	return j.issueAt(userID, kind, j.now())
}

func (j *JWTManager) issueAt(userID uint, kind TokenKind, now time.Time) (string, error) {
	var ttl time.Duration
	switch kind {
	case TokenKindAccess:
		ttl = j.accessTokenTTL
	case TokenKindRefresh:
		ttl = j.refreshTokenTTL
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTokenKind, kind)
	}

	claims := &JWTClaims{
		UserID:    userID,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// Verify 校验令牌签名、过期时间与类型
func (j *JWTManager) Verify(tokenString string, expected TokenKind) (*JWTClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	if claims.TokenType != expected {
		return nil, ErrInvalidTokenKind
	}

	return claims, nil
}

// CreateTokenPair 生成令牌对，两个令牌使用同一签发时间
func (j *JWTManager) CreateTokenPair(userID uint) (*TokenPair, error) {
	now := j.now()

	accessToken, err := j.issueAt(userID, TokenKindAccess, now)
	if err != nil {
		return nil, err
	}

	refreshToken, err := j.issueAt(userID, TokenKindRefresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(j.accessTokenTTL.Seconds()),
	}, nil
}

// ExtractTokenFromHeader 从Authorization头中提取令牌
func ExtractTokenFromHeader(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(authHeader[len(prefix):])
	}
	return ""
}
