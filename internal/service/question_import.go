package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"
	"classroom_backend/pkg/monitoring"
	"classroom_backend/pkg/sheet"
	"classroom_backend/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// 行校验失败的提示，按检查顺序排列
const (
	MsgMissingText         = "missing body text"
	MsgTopicNotFound       = "topic not found"
	MsgInvalidType         = "invalid type"
	MsgInvalidDifficulty   = "invalid difficulty"
	MsgMissingAnswer       = "missing answer"
	MsgInsufficientOptions = "insufficient options"
	MsgUnreadableFile      = "file could not be read"
)

const (
	maxImportOptions        = 4
	minChoiceOptions        = 2
	defaultImportMaxFileMiB = 5
)

// 导入表格的规范列名
const (
	ColType       = "type"
	ColDifficulty = "difficulty"
	ColTopic      = "topic"
	ColText       = "text"
	ColAnswer     = "answer"
)

// ColOption 第 n 个选项列（从 1 开始）
func ColOption(n int) string {
	return "option" + strconv.Itoa(n)
}

// TemplateHeader 模板文件使用的表头
var TemplateHeader = []string{
	"loai_cau_hoi", "do_kho", "ten_chu_de", "de_bai",
	"lua_chon_1", "lua_chon_2", "lua_chon_3", "lua_chon_4",
	"dap_an",
}

// columnAlias 一个规范列可接受的表头，靠前的优先
type columnAlias struct {
	key     string
	headers []string
}

var columnAliases = buildColumnAliases()

func buildColumnAliases() []columnAlias {
	aliases := []columnAlias{
		{ColType, []string{"loai_cau_hoi", "type"}},
		{ColDifficulty, []string{"do_kho", "difficulty"}},
		{ColTopic, []string{"ten_chu_de", "topic"}},
		{ColText, []string{"de_bai", "text", "question"}},
		{ColAnswer, []string{"dap_an", "answer", "answers"}},
	}
	for n := 1; n <= maxImportOptions; n++ {
		col := ColOption(n)
		aliases = append(aliases, columnAlias{col, []string{
			fmt.Sprintf("lua_chon_%d", n), fmt.Sprintf("option_%d", n), col,
		}})
	}
	return aliases
}

// canonicalCells 把表头别名换成规范列名，未知列丢弃
//
// 同一规范列有多个表头时取第一个非空的别名；都为空时取第一个出现的别名。
func canonicalCells(row sheet.Row) map[string]string {
	normalized := make(map[string]string, len(row.Cells))
	for _, header := range slices.Sorted(maps.Keys(row.Cells)) {
		name := sheet.NormalizeHeader(header)
		if _, dup := normalized[name]; !dup {
			normalized[name] = row.Cells[header]
		}
	}

	cells := make(map[string]string, len(columnAliases))
	for _, alias := range columnAliases {
		for _, header := range alias.headers {
			v, ok := normalized[header]
			if !ok {
				continue
			}
			if _, set := cells[alias.key]; !set || strings.TrimSpace(cells[alias.key]) == "" {
				cells[alias.key] = v
			}
			if strings.TrimSpace(v) != "" {
				break
			}
		}
	}
	return cells
}

var topicPrefix = regexp.MustCompile(`^(?i:chủ đề|topic)\s*\d*\s*:\s*`)

// CleanTopicName 去掉 "Chủ đề 1:" / "Topic 1:" 这类前缀
func CleanTopicName(name string) string {
	return strings.TrimSpace(topicPrefix.ReplaceAllString(strings.TrimSpace(name), ""))
}

// ValidateQuestionRows 逐行校验，坏行只记录错误，不影响其他行
func ValidateQuestionRows(rows []sheet.Row, topics []model.Topic) ImportResult {
	topicByName := make(map[string]string, len(topics))
	for _, t := range topics {
		name := CleanTopicName(t.Name)
		if _, dup := topicByName[name]; !dup {
			topicByName[name] = t.ID
		}
	}

	result := ImportResult{
		Accepted: []model.Question{},
		Errors:   []RowError{},
	}
	for _, row := range rows {
		q, msg := validateQuestionRow(canonicalCells(row), topicByName)
		if msg != "" {
			result.Errors = append(result.Errors, RowError{Row: row.Line, Message: msg})
			continue
		}
		result.Accepted = append(result.Accepted, q)
	}
	return result
}

func validateQuestionRow(cells map[string]string, topicByName map[string]string) (model.Question, string) {
	text := strings.TrimSpace(cells[ColText])
	if text == "" {
		return model.Question{}, MsgMissingText
	}

	topicName := CleanTopicName(cells[ColTopic])
	topicID, ok := topicByName[topicName]
	if !ok || topicName == "" {
		return model.Question{}, MsgTopicNotFound
	}

	qType, ok := model.ParseQuestionType(cells[ColType])
	if !ok {
		return model.Question{}, MsgInvalidType
	}

	difficulty, ok := model.ParseDifficulty(cells[ColDifficulty])
	if !ok {
		return model.Question{}, MsgInvalidDifficulty
	}

	answer, ok := cells[ColAnswer]
	if !ok {
		return model.Question{}, MsgMissingAnswer
	}

	q := model.Question{
		Text:       text,
		Type:       qType,
		Difficulty: difficulty,
		TopicID:    topicID,
	}

	if qType.HasOptions() {
		for n := 1; n <= maxImportOptions; n++ {
			v := strings.TrimSpace(cells[ColOption(n)])
			if v == "" {
				continue
			}
			q.Options = append(q.Options, model.QuestionOption{
				ID:   fmt.Sprintf("opt%d", len(q.Options)+1),
				Text: v,
			})
		}
		if len(q.Options) < minChoiceOptions {
			return model.Question{}, MsgInsufficientOptions
		}
	}

	parts := strings.Split(answer, ",")
	q.Answers = make([]string, 0, len(parts))
	for _, p := range parts {
		q.Answers = append(q.Answers, strings.TrimSpace(p))
	}
	return q, ""
}

// CommitResult Committed 为实际写入的题目数量
type CommitResult struct {
	SessionID   string   `json:"sessionId"`
	Total       int      `json:"total"`
	Committed   int      `json:"committed"`
	QuestionIDs []string `json:"questionIds"`
}

type QuestionImportService struct {
	Repo     *repository.Collections
	Sessions ImportSessionStore
	Now      func() time.Time

	maxFileSize atomic.Int64
}

func NewQuestionImportService(repo *repository.Collections, sessions ImportSessionStore, maxFileSizeMB int64) *QuestionImportService {
	s := &QuestionImportService{
		Repo:     repo,
		Sessions: sessions,
		Now:      time.Now,
	}
	s.SetMaxFileSize(maxFileSizeMB)
	return s
}

// SetMaxFileSize 配置热更新时调用
func (s *QuestionImportService) SetMaxFileSize(mb int64) {
	if mb <= 0 {
		mb = defaultImportMaxFileMiB
	}
	s.maxFileSize.Store(mb << 20)
}

func (s *QuestionImportService) MaxFileSize() int64 {
	return s.maxFileSize.Load()
}

// Parse 读取上传的表格并校验，结果保存在新的导入会话中等待确认
func (s *QuestionImportService) Parse(ctx context.Context, filename string, r io.Reader, createdBy string) (ImportSession, error) {
	ctx, span := tracing.Tracer.Start(ctx, "question_import.parse")
	defer span.End()

	limit := s.MaxFileSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return ImportSession{}, err
	}
	if int64(len(data)) > limit {
		return ImportSession{}, fmt.Errorf("%w: limit %d bytes", util.ErrImportFileTooLarge, limit)
	}

	session := ImportSession{
		ID:        uuid.NewString(),
		FileName:  filename,
		State:     ImportParsing,
		CreatedBy: createdBy,
		CreatedAt: s.Now(),
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return ImportSession{}, err
	}

	result, err := s.decode(ctx, filename, data)
	if err != nil {
		s.Sessions.Delete(ctx, session.ID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ImportSession{}, err
	}

	session.State = ImportParsed
	session.Result = result
	if err := s.Sessions.Save(ctx, session); err != nil {
		return ImportSession{}, err
	}

	monitoring.QuestionImportRows.WithLabelValues("accepted").Add(float64(len(result.Accepted)))
	monitoring.QuestionImportRows.WithLabelValues("rejected").Add(float64(len(result.Errors)))
	span.SetAttributes(
		attribute.String("import.session", session.ID),
		attribute.Int("import.accepted", len(result.Accepted)),
		attribute.Int("import.rejected", len(result.Errors)),
	)
	logger.Log.Info("题目文件解析完成",
		zap.String("sessionId", session.ID),
		zap.String("file", filename),
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Errors)))
	return session, nil
}

// decode 文件无法解析时返回只含一条 row 0 错误的结果，不做任何行级校验
func (s *QuestionImportService) decode(ctx context.Context, filename string, data []byte) (ImportResult, error) {
	unreadable := ImportResult{
		Accepted: []model.Question{},
		Errors:   []RowError{{Row: 0, Message: MsgUnreadableFile}},
	}

	format, err := sheet.DetectFormat(filename, data)
	if err != nil {
		logger.Log.Warn("无法识别的导入文件格式", zap.String("file", filename), zap.Error(err))
		return unreadable, nil
	}
	rows, err := sheet.Read(bytes.NewReader(data), format)
	if err != nil {
		logger.Log.Warn("导入文件解析失败", zap.String("file", filename), zap.Error(err))
		return unreadable, nil
	}

	topics, err := s.Repo.Topics.List(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	return ValidateQuestionRows(rows, topics), nil
}

func (s *QuestionImportService) Get(ctx context.Context, id string) (ImportSession, error) {
	return s.Sessions.Get(ctx, id)
}

// Commit 按顺序逐条写入通过校验的题目
//
// 遇到第一个失败（包括 ctx 被取消）即停止，已写入的题目不会回滚。
// 会话无论成功与否都会被消费，避免重复提交产生重复题目。
func (s *QuestionImportService) Commit(ctx context.Context, id string) (CommitResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "question_import.commit")
	defer span.End()

	current, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return CommitResult{}, err
	}
	if current.State == ImportParsed && len(current.Result.Accepted) == 0 {
		return CommitResult{}, util.ErrImportNothingToCommit
	}

	session, err := s.Sessions.Transition(ctx, id, ImportParsed, ImportCommitting)
	if err != nil {
		return CommitResult{}, err
	}

	result := CommitResult{
		SessionID:   id,
		Total:       len(session.Result.Accepted),
		QuestionIDs: []string{},
	}
	var commitErr error
	for _, q := range session.Result.Accepted {
		if err := ctx.Err(); err != nil {
			commitErr = err
			break
		}
		created, err := s.Repo.Questions.Create(ctx, q)
		if err != nil {
			commitErr = err
			break
		}
		result.Committed++
		result.QuestionIDs = append(result.QuestionIDs, created.ID)
	}

	if err := s.Sessions.Delete(context.WithoutCancel(ctx), id); err != nil {
		logger.Log.Warn("删除导入会话失败", zap.String("sessionId", id), zap.Error(err))
	}

	span.SetAttributes(
		attribute.Int("import.total", result.Total),
		attribute.Int("import.committed", result.Committed),
	)
	if commitErr != nil {
		monitoring.QuestionImportCommits.WithLabelValues("failed").Inc()
		span.RecordError(commitErr)
		span.SetStatus(codes.Error, commitErr.Error())
		logger.Log.Error("题目导入中途停止",
			zap.String("sessionId", id),
			zap.Int("committed", result.Committed),
			zap.Int("total", result.Total),
			zap.Error(commitErr))
		return result, fmt.Errorf("committed %d of %d questions: %w", result.Committed, result.Total, commitErr)
	}

	monitoring.QuestionImportCommits.WithLabelValues("success").Inc()
	logger.Log.Info("题目导入完成", zap.String("sessionId", id), zap.Int("committed", result.Committed))
	return result, nil
}

// Discard 放弃一个已解析的会话
func (s *QuestionImportService) Discard(ctx context.Context, id string) error {
	if _, err := s.Sessions.Transition(ctx, id, ImportParsed, ImportIdle); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, id)
}
