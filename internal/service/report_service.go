package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
)

// lateSubmissionThreshold 迟交次数超过该值的学生需要关注
const lateSubmissionThreshold = 2

type ReportService struct {
	Repo *repository.Collections
	Now  func() time.Time
}

func NewReportService(repo *repository.Collections) *ReportService {
	return &ReportService{Repo: repo, Now: time.Now}
}

type AtRiskStudent struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	LateSubmissions int      `json:"lateSubmissions"`
	AverageGrade    *float64 `json:"averageGrade"`
	Reasons         []string `json:"reasons"`
}

// Overview 百分比取值 0~100
type Overview struct {
	LessonCompletionRate float64         `json:"lessonCompletionRate"`
	OnTimeSubmissionRate float64         `json:"onTimeSubmissionRate"`
	AtRiskStudents       []AtRiskStudent `json:"atRiskStudents"`
}

type Dashboard struct {
	StudentCount        int                  `json:"studentCount"`
	ClassCount          int                  `json:"classCount"`
	PendingSubmissions  int                  `json:"pendingSubmissions"`
	UpcomingAssignments int                  `json:"upcomingAssignments"`
	Announcements       []model.Announcement `json:"announcements"`
}

func (s *ReportService) students(ctx context.Context) ([]model.User, error) {
	return s.Repo.Users.Find(ctx, func(u model.User) bool { return u.Role == model.Student })
}

func (s *ReportService) Overview(ctx context.Context) (Overview, error) {
	out := Overview{AtRiskStudents: []AtRiskStudent{}}

	students, err := s.students(ctx)
	if err != nil || len(students) == 0 {
		return out, err
	}
	lessons, err := s.Repo.Lessons.List(ctx)
	if err != nil {
		return out, err
	}
	progress, err := s.Repo.Progress.List(ctx)
	if err != nil {
		return out, err
	}
	assignments, err := s.Repo.Assignments.List(ctx)
	if err != nil {
		return out, err
	}
	submissions, err := s.Repo.Submissions.List(ctx)
	if err != nil {
		return out, err
	}

	published := 0
	for _, l := range lessons {
		if l.Status == model.LessonPublished {
			published++
		}
	}
	completed := 0
	for _, p := range progress {
		if p.Completed {
			completed++
		}
	}
	if possible := len(students) * published; possible > 0 {
		out.LessonCompletionRate = float64(completed) / float64(possible) * 100
	}

	due := make(map[string]time.Time, len(assignments))
	for _, a := range assignments {
		due[a.ID] = a.DueDate
	}
	isLate := func(sub model.Submission) bool {
		d, ok := due[sub.AssignmentID]
		return ok && sub.SubmittedAt.After(d)
	}

	onTime := 0
	var classTotal float64
	graded := 0
	for _, sub := range submissions {
		if d, ok := due[sub.AssignmentID]; ok && !sub.SubmittedAt.After(d) {
			onTime++
		}
		if sub.Grade != nil {
			classTotal += *sub.Grade
			graded++
		}
	}
	if len(submissions) > 0 {
		out.OnTimeSubmissionRate = float64(onTime) / float64(len(submissions)) * 100
	}
	var classAverage float64
	if graded > 0 {
		classAverage = classTotal / float64(graded)
	}

	for _, st := range students {
		late := 0
		var total float64
		count := 0
		for _, sub := range submissions {
			if sub.StudentID != st.ID {
				continue
			}
			if isLate(sub) {
				late++
			}
			if sub.Grade != nil {
				total += *sub.Grade
				count++
			}
		}

		var avg *float64
		if count > 0 {
			v := total / float64(count)
			avg = &v
		}

		var reasons []string
		if late > lateSubmissionThreshold {
			reasons = append(reasons, fmt.Sprintf("%d bài nộp muộn", late))
		}
		if avg != nil && classAverage > 0 && *avg < classAverage {
			reasons = append(reasons, fmt.Sprintf("Điểm TB thấp (%.1f)", *avg))
		}
		if len(reasons) == 0 {
			continue
		}
		out.AtRiskStudents = append(out.AtRiskStudents, AtRiskStudent{
			ID:              st.ID,
			Name:            st.Name,
			LateSubmissions: late,
			AverageGrade:    avg,
			Reasons:         reasons,
		})
	}
	return out, nil
}

// Dashboard 教师首页统计，公告只取最新 3 条
func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard

	students, err := s.students(ctx)
	if err != nil {
		return out, err
	}
	classes, err := s.Repo.Classes.List(ctx)
	if err != nil {
		return out, err
	}
	submissions, err := s.Repo.Submissions.List(ctx)
	if err != nil {
		return out, err
	}
	assignments, err := s.Repo.Assignments.List(ctx)
	if err != nil {
		return out, err
	}
	announcements, err := s.Repo.Announcements.List(ctx)
	if err != nil {
		return out, err
	}

	out.StudentCount = len(students)
	out.ClassCount = len(classes)
	for _, sub := range submissions {
		if sub.Grade == nil {
			out.PendingSubmissions++
		}
	}
	now := s.Now()
	for _, a := range assignments {
		if a.DueDate.After(now) {
			out.UpcomingAssignments++
		}
	}

	sort.SliceStable(announcements, func(i, j int) bool {
		return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
	})
	if len(announcements) > 3 {
		announcements = announcements[:3]
	}
	out.Announcements = announcements
	return out, nil
}
