package sheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		head     []byte
		want     Format
		wantErr  bool
	}{
		{"xlsx extension", "cau_hoi.XLSX", nil, FormatXLSX, false},
		{"csv extension", "questions.csv", nil, FormatCSV, false},
		{"zip magic", "upload", []byte("PK\x03\x04rest"), FormatXLSX, false},
		{"unknown", "notes.txt", []byte("hello"), "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(tc.filename, tc.head)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffType, De_Bai ,dap_an\n" +
		"multiple-choice,Q1?,opt1\n" +
		"\n" +
		",,\n" +
		"short-answer,\"multi\nline\",\n" +
		"ordering,Q3?\n"

	rows, err := Read(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	v, ok := rows[0].Get("type")
	assert.True(t, ok)
	assert.Equal(t, "multiple-choice", v)

	assert.Equal(t, 5, rows[1].Line)
	body, _ := rows[1].Get("de_bai")
	assert.Equal(t, "multi\nline", body)
	answer, ok := rows[1].Get("dap_an")
	assert.True(t, ok, "empty trailing field is still present")
	assert.Equal(t, "", answer)

	_, ok = rows[2].Get("dap_an")
	assert.False(t, ok, "short record has no answer cell")
}

func TestReadEmptyCSV(t *testing.T) {
	_, err := Read(strings.NewReader(""), FormatCSV)
	assert.True(t, errors.Is(err, ErrEmptySheet))
}

func TestWriteThenReadXLSX(t *testing.T) {
	header := []string{"loai_cau_hoi", "de_bai", "lua_chon_1", "dap_an"}
	rows := [][]string{
		{"Lựa chọn", "2 + 2 = ?", "4", "opt1"},
		{"", "", "", ""},
		{"Trả lời ngắn", "Thủ đô?", "", "Hà Nội"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "MauCauHoi", header, rows))

	format, err := DetectFormat("upload", buf.Bytes()[:4])
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	got, err := Read(bytes.NewReader(buf.Bytes()), FormatXLSX)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, "2 + 2 = ?", got[0].Cells["de_bai"])

	assert.Equal(t, 4, got[1].Line)
	_, ok := got[1].Get("lua_chon_1")
	assert.False(t, ok)
	assert.Equal(t, "Hà Nội", got[1].Cells["dap_an"])
}

func TestReadGarbageXLSX(t *testing.T) {
	_, err := Read(strings.NewReader("definitely not a zip"), FormatXLSX)
	assert.Error(t, err)
}
