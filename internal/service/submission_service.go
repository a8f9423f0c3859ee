package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"

	"go.uber.org/zap"
)

type SubmissionService struct {
	Repo *repository.Collections
	Now  func() time.Time
}

func NewSubmissionService(repo *repository.Collections) *SubmissionService {
	return &SubmissionService{
		Repo: repo,
		Now:  time.Now,
	}
}

// SubmitInput 学生提交作业的内容，Status 为空时默认为 submitted
type SubmitInput struct {
	AssignmentID string                 `json:"assignmentId" binding:"required"`
	StudentID    string                 `json:"studentId"`
	Content      string                 `json:"content"`
	Status       model.SubmissionStatus `json:"status" binding:"omitempty,oneof=submitted graded"`
}

// SubmitAssignment 每次调用都会新建一条提交记录，不检查同一学生是否已经提交过
func (s *SubmissionService) SubmitAssignment(ctx context.Context, in SubmitInput) (model.Submission, error) {
	status := in.Status
	if status == "" {
		status = model.StatusSubmitted
	}

	submission, err := s.Repo.Submissions.Create(ctx, model.Submission{
		AssignmentID: in.AssignmentID,
		StudentID:    in.StudentID,
		SubmittedAt:  s.Now(),
		Content:      in.Content,
		Status:       status,
	})
	if err != nil {
		return model.Submission{}, err
	}

	logger.Log.Info("作业已提交",
		zap.String("submissionId", submission.ID),
		zap.String("assignmentId", in.AssignmentID),
		zap.String("studentId", in.StudentID))
	return submission, nil
}

// GradeSubmission 评分并把状态置为 graded，允许重复评分
func (s *SubmissionService) GradeSubmission(ctx context.Context, id string, score float64, feedback string) (model.Submission, error) {
	submission, ok, err := s.Repo.Submissions.Get(ctx, id)
	if err != nil {
		return model.Submission{}, err
	}
	if !ok {
		return model.Submission{}, fmt.Errorf("%w: %s", util.ErrSubmissionNotFound, id)
	}

	submission.Grade = &score
	submission.Feedback = feedback
	submission.Status = model.StatusGraded

	return s.Repo.Submissions.Update(ctx, submission)
}

// GetReport 汇总某个学生的全部提交和学习进度
func (s *SubmissionService) GetReport(ctx context.Context, studentID string) (model.StudentReport, error) {
	submissions, err := s.Repo.Submissions.Find(ctx, func(sub model.Submission) bool {
		return sub.StudentID == studentID
	})
	if err != nil {
		return model.StudentReport{}, err
	}
	progress, err := s.Repo.Progress.Find(ctx, func(p model.Progress) bool {
		return p.StudentID == studentID
	})
	if err != nil {
		return model.StudentReport{}, err
	}
	return model.StudentReport{Submissions: submissions, Progress: progress}, nil
}

// ListByAssignment 评分队列：未评分的在前，其余按提交时间排序
func (s *SubmissionService) ListByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error) {
	submissions, err := s.Repo.Submissions.Find(ctx, func(sub model.Submission) bool {
		return sub.AssignmentID == assignmentID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(submissions, func(i, j int) bool {
		gi := submissions[i].Status == model.StatusGraded
		gj := submissions[j].Status == model.StatusGraded
		if gi != gj {
			return !gi
		}
		return submissions[i].SubmittedAt.Before(submissions[j].SubmittedAt)
	})
	return submissions, nil
}

// FindLatest 学生在某个作业上最近的一次提交
func (s *SubmissionService) FindLatest(ctx context.Context, studentID, assignmentID string) (model.Submission, bool, error) {
	submissions, err := s.Repo.Submissions.Find(ctx, func(sub model.Submission) bool {
		return sub.StudentID == studentID && sub.AssignmentID == assignmentID
	})
	if err != nil || len(submissions) == 0 {
		return model.Submission{}, false, err
	}
	latest := submissions[0]
	for _, sub := range submissions[1:] {
		if sub.SubmittedAt.After(latest.SubmittedAt) {
			latest = sub
		}
	}
	return latest, true, nil
}
