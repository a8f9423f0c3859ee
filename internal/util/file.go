package util

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"classroom_backend/internal/model"
)

// SniffMediaFile 读取文件头判断 MIME 和课程附件类型，读完后回到文件开头
func SniffMediaFile(r io.ReadSeeker, filename string) (string, model.MediaType, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}

	mimeType := http.DetectContentType(head[:n])
	mediaType, err := ClassifyMedia(filename, mimeType)
	if err != nil {
		return mimeType, "", fmt.Errorf("%w: %s (%s)", err, filename, mimeType)
	}
	return mimeType, mediaType, nil
}

// IsVideo 检测是否为视频
func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeVideo) || mimeType == "application/x-mpegURL"
}

// ClassifyMedia 根据嗅探到的 MIME 和扩展名判断课程附件类型
//
// pptx、docx 都是 zip 容器，只能靠扩展名区分。
func ClassifyMedia(filename, mimeType string) (model.MediaType, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case IsVideo(mimeType) || slices.Contains(AllowedVideoExtensions, ext):
		return model.MediaVideo, nil
	case slices.Contains(AllowedPresentationExtensions, ext):
		return model.MediaPresentation, nil
	case mimeType == MimePDF || slices.Contains(AllowedDocumentExtensions, ext):
		return model.MediaDocument, nil
	}
	return "", ErrUnsupportedMediaType
}
