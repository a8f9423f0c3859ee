package util

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"classroom_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := model.User{Base: model.Base{ID: "users-1"}, Username: "gv_an", Role: model.Teacher}

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "users-1", claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)
	assert.Equal(t, "gv_an", claims.Username)

	_, err = ParseJWT(token, "other-secret")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(model.User{Base: model.Base{ID: "u"}}, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(token, "secret")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestClassifyMedia(t *testing.T) {
	cases := []struct {
		filename string
		mime     string
		want     model.MediaType
	}{
		{"bai1.mp4", "video/mp4", model.MediaVideo},
		{"bai1.webm", MimeOctetStream, model.MediaVideo},
		{"slide.pptx", MimeZip, model.MediaPresentation},
		{"tai_lieu.pdf", MimePDF, model.MediaDocument},
		{"ghi_chu.docx", MimeZip, model.MediaDocument},
	}
	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			got, err := ClassifyMedia(tc.filename, tc.mime)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ClassifyMedia("virus.exe", MimeOctetStream)
	assert.True(t, errors.Is(err, ErrUnsupportedMediaType))
}

func TestSniffMediaFile(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n")
	r := bytes.NewReader(pdf)
	mime, media, err := SniffMediaFile(r, "tai_lieu.pdf")
	require.NoError(t, err)
	assert.Equal(t, MimePDF, mime)
	assert.Equal(t, model.MediaDocument, media)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, pdf, rest, "reader is rewound after sniffing")

	_, _, err = SniffMediaFile(bytes.NewReader([]byte("MZ\x90\x00")), "setup.exe")
	assert.True(t, errors.Is(err, ErrUnsupportedMediaType))
}

func TestParseProbeOutput(t *testing.T) {
	out := `{"streams":[{"codec_type":"audio"},{"codec_type":"video","width":1280,"height":720}],
		"format":{"duration":"93.5","size":"1048576","format_name":"mov,mp4,m4a"}}`

	info, err := parseProbeOutput(out, 1)
	require.NoError(t, err)
	assert.Equal(t, 93.5, info.Duration)
	assert.Equal(t, 1280, info.Width)
	assert.Equal(t, int64(1048576), info.Size)
	assert.Equal(t, "mov", info.Format)

	info, err = parseProbeOutput(`{"format":{}}`, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), info.Size)
	assert.Equal(t, "unknown", info.Format)
}
