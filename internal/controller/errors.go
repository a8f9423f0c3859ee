package controller

import (
	"errors"
	"net/http"

	"classroom_backend/internal/repository"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError 把服务层错误映射为 HTTP 状态码，未识别的错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrSubmissionNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrTopicNotFound),
		errors.Is(err, util.ErrImportSessionNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrUsernameTaken),
		errors.Is(err, util.ErrImportNotReady):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrImportNothingToCommit),
		errors.Is(err, util.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrPasswordTooShort):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrImportFileTooLarge):
		util.Error(ctx, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, util.ErrUnsupportedMediaType):
		util.Error(ctx, http.StatusUnsupportedMediaType, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
