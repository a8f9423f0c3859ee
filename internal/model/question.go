package model

import "strings"

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	ShortAnswer    QuestionType = "short-answer"
	Ordering       QuestionType = "ordering"
	FillInTheBlank QuestionType = "fill-in-the-blank"
)

var QuestionTypes = []QuestionType{MultipleChoice, ShortAnswer, Ordering, FillInTheBlank}

// QuestionTypeLabels 界面上显示的本地化名称
var QuestionTypeLabels = map[QuestionType]string{
	MultipleChoice: "Lựa chọn",
	ShortAnswer:    "Trả lời ngắn",
	Ordering:       "Sắp xếp",
	FillInTheBlank: "Điền khuyết",
}

// HasOptions 只有选择题和排序题带选项
func (t QuestionType) HasOptions() bool {
	return t == MultipleChoice || t == Ordering
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var Difficulties = []Difficulty{Easy, Medium, Hard}

var DifficultyLabels = map[Difficulty]string{
	Easy:   "Dễ",
	Medium: "Trung bình",
	Hard:   "Khó",
}

// ParseQuestionType 接受规范值或本地化名称，不区分大小写
func ParseQuestionType(value string) (QuestionType, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, t := range QuestionTypes {
		if v == string(t) || v == strings.ToLower(QuestionTypeLabels[t]) {
			return t, true
		}
	}
	return "", false
}

func ParseDifficulty(value string) (Difficulty, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, d := range Difficulties {
		if v == string(d) || v == strings.ToLower(DifficultyLabels[d]) {
			return d, true
		}
	}
	return "", false
}

// QuestionOption id 在题目内唯一，例如 opt1、opt2
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// swagger:model Question
//
// Answers 的含义随题型变化：
//   - multiple-choice: 正确选项 id 集合
//   - ordering: 按正确顺序排列的选项 id
//   - short-answer: 可接受的答案（不区分大小写）
//   - fill-in-the-blank: 按空位顺序的填空答案
type Question struct {
	Base
	Text       string           `json:"text" binding:"required"` // 填空题用 [BLANK] 占位
	Type       QuestionType     `json:"type" binding:"required,oneof=multiple-choice short-answer ordering fill-in-the-blank"`
	Options    []QuestionOption `json:"options,omitempty"`
	Answers    []string         `json:"answers"`
	Difficulty Difficulty       `json:"difficulty" binding:"required,oneof=easy medium hard"`
	TopicID    string           `json:"topicId" binding:"required"`
}

func (q Question) WithID(id string) Question {
	q.ID = id
	return q
}
