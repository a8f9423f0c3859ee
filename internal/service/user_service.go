package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultStudentPassword 新建学生账号的初始密码
const DefaultStudentPassword = "123"

const minPasswordLength = 3

var ErrPasswordTooShort = errors.New("password must be at least 3 characters")

type UserService struct {
	Repo     *repository.Collections
	Validate *validator.Validate
}

func NewUserService(repo *repository.Collections) *UserService {
	return &UserService{
		Repo:     repo,
		Validate: validator.New(),
	}
}

// StudentInput 创建或修改学生时可编辑的字段
type StudentInput struct {
	Name              string `json:"name" binding:"required"`
	Username          string `json:"username" binding:"required"`
	ClassID           string `json:"classId"`
	DateOfBirth       string `json:"dateOfBirth"`
	ParentPhoneNumber string `json:"parentPhoneNumber"`
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ensureUsernameFree 用户名不区分大小写唯一，exceptID 为正在修改的用户
func (s *UserService) ensureUsernameFree(ctx context.Context, username, exceptID string) error {
	clash, err := s.Repo.Users.Find(ctx, func(u model.User) bool {
		return u.ID != exceptID && strings.EqualFold(u.Username, username)
	})
	if err != nil {
		return err
	}
	if len(clash) > 0 {
		return fmt.Errorf("%w: %s", util.ErrUsernameTaken, username)
	}
	return nil
}

func (s *UserService) CreateStudent(ctx context.Context, in StudentInput) (model.User, error) {
	user := model.User{
		Name:              strings.TrimSpace(in.Name),
		Username:          strings.TrimSpace(in.Username),
		Role:              model.Student,
		ClassID:           in.ClassID,
		DateOfBirth:       in.DateOfBirth,
		ParentPhoneNumber: in.ParentPhoneNumber,
	}
	if err := s.Validate.Struct(user); err != nil {
		return model.User{}, err
	}
	if err := s.ensureUsernameFree(ctx, user.Username, ""); err != nil {
		return model.User{}, err
	}

	hash, err := HashPassword(DefaultStudentPassword)
	if err != nil {
		return model.User{}, err
	}
	user.PasswordHash = hash

	created, err := s.Repo.Users.Create(ctx, user)
	if err != nil {
		return model.User{}, err
	}
	logger.Log.Info("学生账号已创建", zap.String("userId", created.ID), zap.String("username", created.Username))
	return created.Public(), nil
}

func (s *UserService) getStudent(ctx context.Context, id string) (model.User, error) {
	user, ok, err := s.Repo.Users.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !ok || user.Role != model.Student {
		return model.User{}, fmt.Errorf("%w: %s", util.ErrUserNotFound, id)
	}
	return user, nil
}

// UpdateStudent 修改资料，不会改动密码和角色
func (s *UserService) UpdateStudent(ctx context.Context, id string, in StudentInput) (model.User, error) {
	user, err := s.getStudent(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	user.Name = strings.TrimSpace(in.Name)
	user.Username = strings.TrimSpace(in.Username)
	user.ClassID = in.ClassID
	user.DateOfBirth = in.DateOfBirth
	user.ParentPhoneNumber = in.ParentPhoneNumber

	if err := s.Validate.Struct(user); err != nil {
		return model.User{}, err
	}
	if err := s.ensureUsernameFree(ctx, user.Username, id); err != nil {
		return model.User{}, err
	}

	updated, err := s.Repo.Users.Update(ctx, user)
	if err != nil {
		return model.User{}, err
	}
	return updated.Public(), nil
}

func (s *UserService) ResetPassword(ctx context.Context, id, password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	user, err := s.getStudent(ctx, id)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	_, err = s.Repo.Users.Update(ctx, user)
	return err
}

func (s *UserService) DeleteStudent(ctx context.Context, id string) error {
	if _, err := s.getStudent(ctx, id); err != nil {
		return err
	}
	return s.Repo.Users.Delete(ctx, id)
}

// ListStudents search 匹配姓名或用户名（不区分大小写），classID 为空表示全部班级
func (s *UserService) ListStudents(ctx context.Context, search, classID string) ([]model.User, error) {
	term := strings.ToLower(strings.TrimSpace(search))
	students, err := s.Repo.Users.Find(ctx, func(u model.User) bool {
		if u.Role != model.Student {
			return false
		}
		if classID != "" && u.ClassID != classID {
			return false
		}
		return term == "" ||
			strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Username), term)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].Name < students[j].Name
	})
	for i := range students {
		students[i] = students[i].Public()
	}
	return students, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (model.User, error) {
	user, ok, err := s.Repo.Users.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, fmt.Errorf("%w: %s", util.ErrUserNotFound, id)
	}
	return user.Public(), nil
}
