package service

import (
	"context"
	"strings"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
)

type QuestionService struct {
	Repo *repository.Collections
}

func NewQuestionService(repo *repository.Collections) *QuestionService {
	return &QuestionService{Repo: repo}
}

// QuestionFilter 空字段表示不限制；Text 为不区分大小写的子串匹配
type QuestionFilter struct {
	Type       model.QuestionType `form:"type"`
	Difficulty model.Difficulty   `form:"difficulty"`
	TopicID    string             `form:"topicId"`
	Text       string             `form:"q"`
}

func (s *QuestionService) Filter(ctx context.Context, f QuestionFilter) ([]model.Question, error) {
	term := strings.ToLower(strings.TrimSpace(f.Text))
	return s.Repo.Questions.Find(ctx, func(q model.Question) bool {
		if f.Type != "" && q.Type != f.Type {
			return false
		}
		if f.Difficulty != "" && q.Difficulty != f.Difficulty {
			return false
		}
		if f.TopicID != "" && q.TopicID != f.TopicID {
			return false
		}
		return term == "" || strings.Contains(strings.ToLower(q.Text), term)
	})
}
