package model

import "time"

type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "submitted"
	StatusGraded    SubmissionStatus = "graded"
)

// swagger:model Submission
type Submission struct {
	Base
	AssignmentID string           `json:"assignmentId"`
	StudentID    string           `json:"studentId"`
	SubmittedAt  time.Time        `json:"submittedAt"`
	Content      string           `json:"content"` // 文本内容或文件链接
	Grade        *float64         `json:"grade,omitempty"`
	Feedback     string           `json:"feedback,omitempty"`
	Status       SubmissionStatus `json:"status"`
}

func (s Submission) WithID(id string) Submission {
	s.ID = id
	return s
}

// swagger:model Progress
type Progress struct {
	Base
	StudentID   string    `json:"studentId"`
	LessonID    string    `json:"lessonId"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
}

func (p Progress) WithID(id string) Progress {
	p.ID = id
	return p
}

// StudentReport 单个学生的提交与学习进度
type StudentReport struct {
	Submissions []Submission `json:"submissions"`
	Progress    []Progress   `json:"progress"`
}
