package model

// swagger:model Class
type Class struct {
	Base
	Name       string `json:"name" binding:"required"`
	TeacherID  string `json:"teacherId"`
	SchoolYear string `json:"schoolYear"`
	JoinCode   string `json:"joinCode"`
}

func (c Class) WithID(id string) Class {
	c.ID = id
	return c
}

// swagger:model Subject
type Subject struct {
	Base
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s Subject) WithID(id string) Subject {
	s.ID = id
	return s
}
