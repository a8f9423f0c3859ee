package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimePDF         = "application/pdf"
	MimeZip         = "application/zip"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedVideoExtensions        = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedPresentationExtensions = []string{".ppt", ".pptx", ".odp", ".key"}
	AllowedDocumentExtensions     = []string{".pdf", ".doc", ".docx", ".odt", ".txt"}
)

// 题目导入
const (
	ImportTemplateFileName = "mau_nhap_cau_hoi.xlsx"
	ImportTemplateSheet    = "MauCauHoi"
	MimeXLSX               = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
