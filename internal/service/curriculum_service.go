package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"

	"go.uber.org/zap"
)

// CurriculumService 主题、课程以及学习进度
type CurriculumService struct {
	Repo    *repository.Collections
	Storage *StorageService
	Now     func() time.Time
}

func NewCurriculumService(repo *repository.Collections, storage *StorageService) *CurriculumService {
	return &CurriculumService{
		Repo:    repo,
		Storage: storage,
		Now:     time.Now,
	}
}

// ListTopics 按 Order 排序
func (s *CurriculumService) ListTopics(ctx context.Context) ([]model.Topic, error) {
	topics, err := s.Repo.Topics.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Order < topics[j].Order
	})
	return topics, nil
}

// DeleteTopic 删除主题及其下所有课程
func (s *CurriculumService) DeleteTopic(ctx context.Context, topicID string) (int, error) {
	_, ok, err := s.Repo.Topics.Get(ctx, topicID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", util.ErrTopicNotFound, topicID)
	}

	removed, err := s.Repo.Lessons.DeleteWhere(ctx, func(l model.Lesson) bool {
		return l.TopicID == topicID
	})
	if err != nil {
		return 0, err
	}
	if err := s.Repo.Topics.Delete(ctx, topicID); err != nil {
		return removed, err
	}

	logger.Log.Info("主题已删除",
		zap.String("topicId", topicID),
		zap.Int("lessonsRemoved", removed))
	return removed, nil
}

// ListLessons topicID 为空时返回全部课程；publishedOnly 用于学生端
func (s *CurriculumService) ListLessons(ctx context.Context, topicID string, publishedOnly bool) ([]model.Lesson, error) {
	return s.Repo.Lessons.Find(ctx, func(l model.Lesson) bool {
		if topicID != "" && l.TopicID != topicID {
			return false
		}
		return !publishedOnly || l.Status == model.LessonPublished
	})
}

func (s *CurriculumService) getLesson(ctx context.Context, lessonID string) (model.Lesson, error) {
	lesson, ok, err := s.Repo.Lessons.Get(ctx, lessonID)
	if err != nil {
		return model.Lesson{}, err
	}
	if !ok {
		return model.Lesson{}, fmt.Errorf("%w: %s", util.ErrLessonNotFound, lessonID)
	}
	return lesson, nil
}

func (s *CurriculumService) SetLessonStatus(ctx context.Context, lessonID string, status model.LessonStatus) (model.Lesson, error) {
	if status != model.LessonDraft && status != model.LessonPublished {
		return model.Lesson{}, fmt.Errorf("%w: %s", util.ErrInvalidStatusTransition, status)
	}
	lesson, err := s.getLesson(ctx, lessonID)
	if err != nil {
		return model.Lesson{}, err
	}
	lesson.Status = status
	return s.Repo.Lessons.Update(ctx, lesson)
}

// MarkLessonComplete 每个 (学生, 课程) 只保留一条进度记录，重复调用返回已有记录
func (s *CurriculumService) MarkLessonComplete(ctx context.Context, studentID, lessonID string) (model.Progress, error) {
	if _, err := s.getLesson(ctx, lessonID); err != nil {
		return model.Progress{}, err
	}

	existing, err := s.Repo.Progress.Find(ctx, func(p model.Progress) bool {
		return p.StudentID == studentID && p.LessonID == lessonID
	})
	if err != nil {
		return model.Progress{}, err
	}
	if len(existing) > 0 {
		p := existing[0]
		if p.Completed {
			return p, nil
		}
		p.Completed = true
		p.CompletedAt = s.Now()
		return s.Repo.Progress.Update(ctx, p)
	}

	return s.Repo.Progress.Create(ctx, model.Progress{
		StudentID:   studentID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: s.Now(),
	})
}

// AttachLessonMedia 上传课程附件；视频会尽量用 ffprobe 读出时长
func (s *CurriculumService) AttachLessonMedia(ctx context.Context, lessonID, filename string, r io.Reader) (model.Lesson, error) {
	lesson, err := s.getLesson(ctx, lessonID)
	if err != nil {
		return model.Lesson{}, err
	}

	tmp, err := os.CreateTemp("", "lesson-media-*"+filepath.Ext(filename))
	if err != nil {
		return model.Lesson{}, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, r); err != nil {
		return model.Lesson{}, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return model.Lesson{}, err
	}
	mimeType, mediaType, err := util.SniffMediaFile(tmp, filename)
	if err != nil {
		return model.Lesson{}, err
	}

	var duration float64
	if mediaType == model.MediaVideo && util.ProbeAvailable() {
		info, err := util.GetVideoInfo(tmp.Name())
		if err != nil {
			logger.Log.Warn("读取视频时长失败", zap.String("lessonId", lessonID), zap.Error(err))
		} else {
			duration = info.Duration
		}
	}

	key := fmt.Sprintf("lessons/%s/%d%s", lessonID, s.Now().UnixNano(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.Storage.UploadFile(ctx, key, tmp.Name(), mimeType)
	if err != nil {
		return model.Lesson{}, err
	}

	lesson.MediaType = mediaType
	lesson.DocumentURL = url
	lesson.MediaDurationSeconds = duration
	return s.Repo.Lessons.Update(ctx, lesson)
}
