package model

// swagger:model Topic
type Topic struct {
	Base
	Name      string `json:"name" binding:"required"`
	Order     int    `json:"order"`
	SubjectID string `json:"subjectId,omitempty"`
}

func (t Topic) WithID(id string) Topic {
	t.ID = id
	return t
}
