package model

// 已注册的资源名称，每个名称对应存储中的一个集合
const (
	ResourceUsers         = "users"
	ResourceClasses       = "classes"
	ResourceSubjects      = "subjects"
	ResourceTopics        = "topics"
	ResourceLessons       = "lessons"
	ResourceAssignments   = "assignments"
	ResourceSubmissions   = "submissions"
	ResourceProgress      = "progress"
	ResourceAnnouncements = "announcements"
	ResourceQuestions     = "questions"
)
