package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"classroom_backend/internal/model"
	"classroom_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAssignment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	submittedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewSubmissionService(env.repo)
	svc.Now = fixedClock(submittedAt)

	first, err := svc.SubmitAssignment(ctx, SubmitInput{AssignmentID: "bt-1", StudentID: "user-hs-1", Content: "bài làm"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, first.Status)
	assert.True(t, submittedAt.Equal(first.SubmittedAt))
	assert.NotEmpty(t, first.ID)

	// 同一学生重复提交会产生新记录
	second, err := svc.SubmitAssignment(ctx, SubmitInput{AssignmentID: "bt-1", StudentID: "user-hs-1", Content: "bài làm 2"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := env.repo.Submissions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, ok, err := env.repo.Submissions.Get(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestGradeSubmission(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc := NewSubmissionService(env.repo)

	graded, err := svc.GradeSubmission(ctx, "nop-bai-2", 7, "Khá")
	require.NoError(t, err)
	assert.Equal(t, model.StatusGraded, graded.Status)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 7.0, *graded.Grade)

	regraded, err := svc.GradeSubmission(ctx, "nop-bai-2", 9, "Tốt")
	require.NoError(t, err)
	assert.Equal(t, model.StatusGraded, regraded.Status)
	assert.Equal(t, 9.0, *regraded.Grade)
	assert.Equal(t, "Tốt", regraded.Feedback)

	stored, ok, err := env.repo.Submissions.Get(ctx, "nop-bai-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, regraded, stored)
}

func TestGradeUnknownSubmission(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	before := env.raw(t, model.ResourceSubmissions)

	_, err := NewSubmissionService(env.repo).GradeSubmission(ctx, "does-not-exist", 8, "ok")
	assert.True(t, errors.Is(err, util.ErrSubmissionNotFound))
	assert.Equal(t, before, env.raw(t, model.ResourceSubmissions))
}

func TestGetReport(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc := NewSubmissionService(env.repo)

	report, err := svc.GetReport(ctx, "user-hs-1")
	require.NoError(t, err)
	require.Len(t, report.Submissions, 1)
	assert.Equal(t, "nop-bai-1", report.Submissions[0].ID)
	require.Len(t, report.Progress, 1)
	assert.Equal(t, "bai-giang-1", report.Progress[0].LessonID)

	empty, err := svc.GetReport(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.Submissions)
	assert.Empty(t, empty.Progress)
}

func TestListByAssignmentPutsUngradedFirst(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc := NewSubmissionService(env.repo)

	queue, err := svc.ListByAssignment(ctx, "bt-1")
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "nop-bai-2", queue[0].ID)
	assert.Equal(t, "nop-bai-1", queue[1].ID)
}

func TestFindLatest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewSubmissionService(env.repo)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, content := range []string{"v1", "v2"} {
		svc.Now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		_, err := svc.SubmitAssignment(ctx, SubmitInput{AssignmentID: "a", StudentID: "s", Content: content})
		require.NoError(t, err)
	}

	latest, ok, err := svc.FindLatest(ctx, "s", "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", latest.Content)

	_, ok, err = svc.FindLatest(ctx, "s", "other")
	require.NoError(t, err)
	assert.False(t, ok)
}
