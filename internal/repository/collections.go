package repository

import (
	"classroom_backend/internal/model"
)

// Collections 应用使用的全部资源
type Collections struct {
	Users         *Collection[model.User]
	Classes       *Collection[model.Class]
	Subjects      *Collection[model.Subject]
	Topics        *Collection[model.Topic]
	Lessons       *Collection[model.Lesson]
	Assignments   *Collection[model.Assignment]
	Submissions   *Collection[model.Submission]
	Progress      *Collection[model.Progress]
	Announcements *Collection[model.Announcement]
	Questions     *Collection[model.Question]
}

func NewCollections(s *Store) (*Collections, error) {
	var (
		c   Collections
		err error
	)
	if c.Users, err = Register[model.User](s, model.ResourceUsers); err != nil {
		return nil, err
	}
	if c.Classes, err = Register[model.Class](s, model.ResourceClasses); err != nil {
		return nil, err
	}
	if c.Subjects, err = Register[model.Subject](s, model.ResourceSubjects); err != nil {
		return nil, err
	}
	if c.Topics, err = Register[model.Topic](s, model.ResourceTopics); err != nil {
		return nil, err
	}
	if c.Lessons, err = Register[model.Lesson](s, model.ResourceLessons); err != nil {
		return nil, err
	}
	if c.Assignments, err = Register[model.Assignment](s, model.ResourceAssignments); err != nil {
		return nil, err
	}
	if c.Submissions, err = Register[model.Submission](s, model.ResourceSubmissions); err != nil {
		return nil, err
	}
	if c.Progress, err = Register[model.Progress](s, model.ResourceProgress); err != nil {
		return nil, err
	}
	if c.Announcements, err = Register[model.Announcement](s, model.ResourceAnnouncements); err != nil {
		return nil, err
	}
	if c.Questions, err = Register[model.Question](s, model.ResourceQuestions); err != nil {
		return nil, err
	}
	return &c, nil
}
