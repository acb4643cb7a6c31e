package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/veloshop-next/internal/config"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/repository"
)

// AdminClaims 管理端 JWT 载荷
type AdminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	IsSuper  bool   `json:"is_super"`
	jwt.RegisteredClaims
}

// AuthService 管理员认证服务
type AuthService struct {
	adminRepo repository.AdminRepository
	jwtConfig config.JWTConfig
}

func NewAuthService(adminRepo repository.AdminRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{adminRepo: adminRepo, jwtConfig: jwtConfig}
}

// Login 校验账号密码并签发令牌。
// 账号不存在与密码错误返回同一错误,不暴露存在性。
func (s *AuthService) Login(username, password string) (string, *models.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrLoginFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		logger.Warnw("admin_login_rejected", "username", username)
		return "", nil, ErrLoginFailed
	}

	token, err := s.issueToken(admin)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// ParseToken 解析并校验管理端令牌
func (s *AuthService) ParseToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func (s *AuthService) issueToken(admin *models.Admin) (string, error) {
	expireHours := s.jwtConfig.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	claims := AdminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		IsSuper:  admin.IsSuper,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SecretKey))
}
