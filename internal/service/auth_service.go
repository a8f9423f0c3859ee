package service

import (
	"context"
	"strings"

	"classroom_backend/internal/config"
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Repo *repository.Collections
	Cfg  *config.Config
}

func NewAuthService(repo *repository.Collections, cfg *config.Config) *AuthService {
	return &AuthService{
		Repo: repo,
		Cfg:  cfg,
	}
}

// LoginResult 登录成功后返回给客户端
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login 用户名不区分大小写
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	matches, err := s.Repo.Users.Find(ctx, func(u model.User) bool {
		return strings.EqualFold(u.Username, strings.TrimSpace(username))
	})
	if err != nil {
		return LoginResult{}, err
	}
	if len(matches) == 0 {
		return LoginResult{}, util.ErrInvalidCredentials
	}

	user := matches[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user.Public()}, nil
}
