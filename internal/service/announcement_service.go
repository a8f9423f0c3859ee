package service

import (
	"context"
	"sort"
	"time"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
)

type AnnouncementService struct {
	Repo *repository.Collections
	Now  func() time.Time
}

func NewAnnouncementService(repo *repository.Collections) *AnnouncementService {
	return &AnnouncementService{Repo: repo, Now: time.Now}
}

// Publish 作者和时间由服务端填写
func (s *AnnouncementService) Publish(ctx context.Context, authorID string, a model.Announcement) (model.Announcement, error) {
	a.AuthorID = authorID
	a.CreatedAt = s.Now()
	if a.TargetAudience == "" {
		a.TargetAudience = model.AudienceAll
	}
	return s.Repo.Announcements.Create(ctx, a)
}

// ListForAudience 面向所有人的公告总是包含在内，按时间倒序；audience 为空返回全部
func (s *AnnouncementService) ListForAudience(ctx context.Context, audience model.Audience, classID string) ([]model.Announcement, error) {
	items, err := s.Repo.Announcements.Find(ctx, func(a model.Announcement) bool {
		if classID != "" && a.ClassID != "" && a.ClassID != classID {
			return false
		}
		return audience == "" || a.TargetAudience == model.AudienceAll || a.TargetAudience == audience
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
