package util

import "errors"

var (
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUsernameTaken           = errors.New("用户名已被使用")
	ErrInvalidCredentials      = errors.New("用户名或密码错误")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrSubmissionNotFound      = errors.New("submission not found")
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrLessonNotFound          = errors.New("lesson not found")
	ErrTopicNotFound           = errors.New("topic not found")
	ErrImportSessionNotFound   = errors.New("import session not found or expired")
	ErrImportNotReady          = errors.New("import session is not ready to commit")
	ErrImportNothingToCommit   = errors.New("import session has no accepted rows")
	ErrImportFileTooLarge      = errors.New("import file is too large")
	ErrUnsupportedMediaType    = errors.New("unsupported media type")
	ErrInvalidStatusTransition = errors.New("invalid status")
)
