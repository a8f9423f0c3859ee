// Package sheet 把表格文件（xlsx、csv）解码成按表头取值的行
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported sheet format")
	ErrEmptySheet        = errors.New("sheet has no header row")
)

var zipMagic = []byte("PK\x03\x04")

var utf8BOM = "\ufeff"

// Row 一行数据，Line 为表格中的行号（表头是第 1 行）
//
// 某一列在该行没有值时，Cells 中不包含对应的 key。
type Row struct {
	Line  int
	Cells map[string]string
}

// Get 返回单元格内容以及该单元格是否存在
func (r Row) Get(key string) (string, bool) {
	v, ok := r.Cells[key]
	return v, ok
}

// DetectFormat 优先根据扩展名判断，否则检查文件头
func DetectFormat(filename string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// NormalizeHeader 表头统一为去空格的小写形式
func NormalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, utf8BOM)))
}

// Read 读取第一个工作表（csv 即整个文件），跳过全空的行
func Read(r io.Reader, format Format) ([]Row, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	case FormatCSV:
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func readXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}

	header := normalizeAll(records[0])
	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		cells := make(map[string]string, len(header))
		for j, v := range record {
			// xlsx 里空单元格等同于不存在
			if j >= len(header) || header[j] == "" || v == "" {
				continue
			}
			if _, dup := cells[header[j]]; !dup {
				cells[header[j]] = v
			}
		}
		rows = append(rows, Row{Line: i + 2, Cells: cells})
	}
	return rows, nil
}

func readCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySheet
	}
	if err != nil {
		return nil, err
	}
	header := normalizeAll(first)

	rows := []Row{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)
		cells := make(map[string]string, len(header))
		for j, v := range record {
			if j >= len(header) || header[j] == "" {
				continue
			}
			if _, dup := cells[header[j]]; !dup {
				cells[header[j]] = v
			}
		}
		rows = append(rows, Row{Line: line, Cells: cells})
	}
	return rows, nil
}

func normalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeHeader(n)
	}
	return out
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteXLSX 写出只有一个工作表的 xlsx，首行为加粗表头
func WriteXLSX(w io.Writer, sheetName string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &rows[i]); err != nil {
			return err
		}
	}

	if len(header) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return err
		}
		lastCol, _, err := excelize.SplitCellName(last)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, "A", lastCol, 20); err != nil {
			return err
		}
	}

	return f.Write(w)
}

