package model

import "time"

type SubmissionKind string

const (
	SubmissionText SubmissionKind = "text"
	SubmissionFile SubmissionKind = "file"
)

// swagger:model Assignment
type Assignment struct {
	Base
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	LessonID    string         `json:"lessonId" binding:"required"`
	DueDate     time.Time      `json:"dueDate"`
	MaxPoints   int            `json:"maxPoints"`
	Type        SubmissionKind `json:"type" binding:"omitempty,oneof=text file"`
	Rubric      string         `json:"rubric"` // 纯文本评分标准，不做解析
}

func (a Assignment) WithID(id string) Assignment {
	a.ID = id
	return a
}
