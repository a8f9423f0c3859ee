package model

import "time"

type Audience string

const (
	AudienceStudent Audience = "student"
	AudienceParent  Audience = "parent"
	AudienceAll     Audience = "all"
)

// swagger:model Announcement
type Announcement struct {
	Base
	Title          string    `json:"title" binding:"required"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"authorId"`
	CreatedAt      time.Time `json:"createdAt"`
	ClassID        string    `json:"classId"`
	TargetAudience Audience  `json:"targetAudience" binding:"omitempty,oneof=student parent all"`
}

func (a Announcement) WithID(id string) Announcement {
	a.ID = id
	return a
}
