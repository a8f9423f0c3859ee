package model

type LessonStatus string

const (
	LessonDraft     LessonStatus = "draft"
	LessonPublished LessonStatus = "published"
)

type MediaType string

const (
	MediaVideo        MediaType = "video"
	MediaPresentation MediaType = "presentation"
	MediaDocument     MediaType = "document"
	MediaNone         MediaType = "none"
)

// swagger:model Lesson
type Lesson struct {
	Base
	Title                string       `json:"title" binding:"required"`
	Content              string       `json:"content"` // markdown 或 HTML
	TopicID              string       `json:"topicId" binding:"required"`
	Status               LessonStatus `json:"status" binding:"omitempty,oneof=draft published"`
	MediaType            MediaType    `json:"mediaType,omitempty"`
	DocumentURL          string       `json:"documentUrl,omitempty"`
	MediaDurationSeconds float64      `json:"mediaDurationSeconds,omitempty"` // 仅视频
}

func (l Lesson) WithID(id string) Lesson {
	l.ID = id
	return l
}
