package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"classroom_backend/internal/model"
	"classroom_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCurriculum(t *testing.T, env *testEnv) (*CurriculumService, string) {
	root := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{Root: root}}
	return NewCurriculumService(env.repo, storage), root
}

func TestDeleteTopicCascades(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc, _ := newCurriculum(t, env)

	removed, err := svc.DeleteTopic(ctx, "topic-2")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	lessons, err := svc.ListLessons(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, lessons, 2)
	for _, l := range lessons {
		assert.Equal(t, "topic-1", l.TopicID)
	}

	_, err = svc.DeleteTopic(ctx, "topic-2")
	assert.True(t, errors.Is(err, util.ErrTopicNotFound))
}

func TestListTopicsSortedByOrder(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc, _ := newCurriculum(t, env)
	_, err := env.repo.Topics.Create(ctx, model.Topic{Name: "Chủ đề 0: Mở đầu", Order: 0})
	require.NoError(t, err)

	topics, err := svc.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 3)
	assert.Equal(t, "Chủ đề 0: Mở đầu", topics[0].Name)
}

func TestLessonStatusAndVisibility(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc, _ := newCurriculum(t, env)

	published, err := svc.ListLessons(ctx, "topic-2", true)
	require.NoError(t, err)
	assert.Len(t, published, 1)

	_, err = svc.SetLessonStatus(ctx, "bai-giang-4", model.LessonPublished)
	require.NoError(t, err)
	published, err = svc.ListLessons(ctx, "topic-2", true)
	require.NoError(t, err)
	assert.Len(t, published, 2)

	_, err = svc.SetLessonStatus(ctx, "bai-giang-4", "archived")
	assert.True(t, errors.Is(err, util.ErrInvalidStatusTransition))
	_, err = svc.SetLessonStatus(ctx, "missing", model.LessonDraft)
	assert.True(t, errors.Is(err, util.ErrLessonNotFound))
}

func TestMarkLessonCompleteOnce(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc, _ := newCurriculum(t, env)

	first, err := svc.MarkLessonComplete(ctx, "user-hs-2", "bai-giang-1")
	require.NoError(t, err)
	assert.True(t, first.Completed)

	again, err := svc.MarkLessonComplete(ctx, "user-hs-2", "bai-giang-1")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	progress, err := env.repo.Progress.Find(ctx, func(p model.Progress) bool { return p.StudentID == "user-hs-2" })
	require.NoError(t, err)
	assert.Len(t, progress, 1)

	_, err = svc.MarkLessonComplete(ctx, "user-hs-2", "missing")
	assert.True(t, errors.Is(err, util.ErrLessonNotFound))
}

func TestAttachLessonMedia(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc, root := newCurriculum(t, env)

	pdf := []byte("%PDF-1.4\nnoi dung bai giang\n")
	lesson, err := svc.AttachLessonMedia(ctx, "bai-giang-2", "Tai Lieu.PDF", bytes.NewReader(pdf))
	require.NoError(t, err)
	assert.Equal(t, model.MediaDocument, lesson.MediaType)
	require.True(t, strings.HasPrefix(lesson.DocumentURL, "/uploads/lessons/bai-giang-2/"))
	assert.True(t, strings.HasSuffix(lesson.DocumentURL, ".pdf"))

	key := strings.TrimPrefix(lesson.DocumentURL, "/uploads/")
	saved, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, pdf, saved)

	_, err = svc.AttachLessonMedia(ctx, "bai-giang-2", "setup.exe", bytes.NewReader([]byte{0x4d, 0x5a, 0x90}))
	assert.True(t, errors.Is(err, util.ErrUnsupportedMediaType))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	p := &LocalStorageProvider{Root: t.TempDir()}
	_, err := p.Upload(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}
