package service

import (
	"io"

	"classroom_backend/internal/util"
	"classroom_backend/pkg/sheet"
)

// 模板示例覆盖除排序题以外的三种题型
var templateRows = [][]string{
	{
		"multiple-choice", "easy", "Chủ đề 1: Tiếng nói vạn vật",
		`Truyện "Bầy chim chìa vôi" của tác giả nào?`,
		"Tô Hoài", "Nguyễn Quang Sáng", "Đoàn Giỏi", "",
		"opt2",
	},
	{
		"short-answer", "medium", "Chủ đề 2: Những góc nhìn cuộc sống",
		`Nhân vật "tôi" trong truyện "Đi lấy mật" tên là gì?`,
		"", "", "", "",
		"An",
	},
	{
		"fill-in-the-blank", "easy", "Chủ đề 1: Tiếng nói vạn vật",
		"Mặt trời mọc ở hướng [BLANK] và lặn ở hướng [BLANK].",
		"", "", "", "",
		"đông,tây",
	},
}

// WriteTemplate 生成导入模板 mau_nhap_cau_hoi.xlsx
func (s *QuestionImportService) WriteTemplate(w io.Writer) error {
	return sheet.WriteXLSX(w, util.ImportTemplateSheet, TemplateHeader, templateRows)
}
