package service

import (
	"context"
	"testing"
	"time"

	"classroom_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverviewWithSeedData(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)

	overview, err := NewReportService(env.repo).Overview(ctx)
	require.NoError(t, err)

	// 1 条完成记录 / (4 名学生 × 3 个已发布课程)
	assert.InDelta(t, 100.0/12, overview.LessonCompletionRate, 1e-9)
	assert.InDelta(t, 100.0, overview.OnTimeSubmissionRate, 1e-9)
	assert.Empty(t, overview.AtRiskStudents)
}

func TestOverviewFlagsLateAndLowGrades(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := env.repo.Assignments.Create(ctx, model.Assignment{Title: "late", LessonID: "bai-giang-1", DueDate: due})
	require.NoError(t, err)
	assignments, err := env.repo.Assignments.Find(ctx, func(a model.Assignment) bool { return a.Title == "late" })
	require.NoError(t, err)
	lateID := assignments[0].ID

	for i := 0; i < 3; i++ {
		_, err := env.repo.Submissions.Create(ctx, model.Submission{
			AssignmentID: lateID,
			StudentID:    "user-hs-3",
			SubmittedAt:  due.Add(time.Hour),
			Status:       model.StatusSubmitted,
		})
		require.NoError(t, err)
	}
	low := 4.0
	_, err = env.repo.Submissions.Create(ctx, model.Submission{
		AssignmentID: "bt-1",
		StudentID:    "user-hs-4",
		SubmittedAt:  time.Now(),
		Grade:        &low,
		Status:       model.StatusGraded,
	})
	require.NoError(t, err)

	overview, err := NewReportService(env.repo).Overview(ctx)
	require.NoError(t, err)
	require.Len(t, overview.AtRiskStudents, 2)

	byID := map[string]AtRiskStudent{}
	for _, s := range overview.AtRiskStudents {
		byID[s.ID] = s
	}
	assert.Equal(t, 3, byID["user-hs-3"].LateSubmissions)
	require.NotNil(t, byID["user-hs-4"].AverageGrade)
	assert.Equal(t, 4.0, *byID["user-hs-4"].AverageGrade)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)

	dash, err := NewReportService(env.repo).Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, dash.StudentCount)
	assert.Equal(t, 1, dash.ClassCount)
	assert.Equal(t, 1, dash.PendingSubmissions)
	assert.Equal(t, 2, dash.UpcomingAssignments)
	require.Len(t, dash.Announcements, 3)
	assert.Equal(t, "tb-1", dash.Announcements[0].ID)
}

func TestAnnouncementsForAudience(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc := NewAnnouncementService(env.repo)

	forStudents, err := svc.ListForAudience(ctx, model.AudienceStudent, "lop-7a1")
	require.NoError(t, err)
	require.Len(t, forStudents, 2)
	assert.Equal(t, "tb-1", forStudents[0].ID)
	assert.Equal(t, "tb-3", forStudents[1].ID)

	everything, err := svc.ListForAudience(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, everything, 3)

	created, err := svc.Publish(ctx, "user-gv-1", model.Announcement{Title: "Mới", ClassID: "lop-7a1"})
	require.NoError(t, err)
	assert.Equal(t, model.AudienceAll, created.TargetAudience)
	assert.Equal(t, "user-gv-1", created.AuthorID)
}

func TestQuestionFilter(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t)
	svc := NewQuestionService(env.repo)

	easy, err := svc.Filter(ctx, QuestionFilter{Difficulty: model.Easy})
	require.NoError(t, err)
	assert.Len(t, easy, 2)

	byText, err := svc.Filter(ctx, QuestionFilter{Text: "MẶT TRỜI", TopicID: "topic-1"})
	require.NoError(t, err)
	require.Len(t, byText, 1)
	assert.Equal(t, "q-3", byText[0].ID)
}
