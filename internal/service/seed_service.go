package service

import (
	"context"
	"time"

	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/pkg/logger"

	"go.uber.org/zap"
)

// SeedVersionFlag 修改示例数据时递增版本号
const SeedVersionFlag = "seeded_v7"

// fixturePassword 示例账号的登录密码
const fixturePassword = "123"

type SeedService struct {
	Store *repository.Store
	Repo  *repository.Collections
	Now   func() time.Time
}

func NewSeedService(store *repository.Store, repo *repository.Collections) *SeedService {
	return &SeedService{Store: store, Repo: repo, Now: time.Now}
}

// Seed 首次运行时写入示例数据，返回是否真正执行了写入
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	seeded, err := s.Store.Flag(ctx, SeedVersionFlag)
	if err != nil {
		return false, err
	}
	if seeded {
		logger.Log.Debug("示例数据已存在，跳过初始化", zap.String("flag", SeedVersionFlag))
		return false, nil
	}

	hash, err := HashPassword(fixturePassword)
	if err != nil {
		return false, err
	}
	now := s.Now()
	day := 24 * time.Hour

	teacher := model.User{Base: model.Base{ID: "user-gv-1"}, Name: "Cô Thu Hà", Username: "thuhagv", Role: model.Teacher, PasswordHash: hash}
	users := []model.User{
		teacher,
		{Base: model.Base{ID: "user-hs-1"}, Name: "Nguyễn Văn An", Username: "an.nv", Role: model.Student, ClassID: "lop-7a1", DateOfBirth: "2011-05-10", ParentPhoneNumber: "0901234567", PasswordHash: hash},
		{Base: model.Base{ID: "user-hs-2"}, Name: "Trần Thị Bích", Username: "bich.tt", Role: model.Student, ClassID: "lop-7a1", DateOfBirth: "2011-08-15", ParentPhoneNumber: "0912345678", PasswordHash: hash},
		{Base: model.Base{ID: "user-hs-3"}, Name: "Lê Minh Cường", Username: "cuong.lm", Role: model.Student, ClassID: "lop-7a1", DateOfBirth: "2011-02-20", ParentPhoneNumber: "0987654321", PasswordHash: hash},
		{Base: model.Base{ID: "user-hs-4"}, Name: "Phạm Thị Dung", Username: "dung.pt", Role: model.Student, ClassID: "lop-7a1", DateOfBirth: "2011-11-30", ParentPhoneNumber: "0978123456", PasswordHash: hash},
	}

	class := model.Class{Base: model.Base{ID: "lop-7a1"}, Name: "Lớp 7A1", TeacherID: teacher.ID, SchoolYear: "2023-2024", JoinCode: "XYZ123"}

	subjects := []model.Subject{
		{Base: model.Base{ID: "mon-ngu-van"}, Name: "Ngữ Văn 7", Description: "Chương trình Ngữ Văn lớp 7"},
	}

	topics := []model.Topic{
		{Base: model.Base{ID: "topic-1"}, Name: "Chủ đề 1: Tiếng nói vạn vật", Order: 1, SubjectID: "mon-ngu-van"},
		{Base: model.Base{ID: "topic-2"}, Name: "Chủ đề 2: Những góc nhìn cuộc sống", Order: 2, SubjectID: "mon-ngu-van"},
	}

	lessons := []model.Lesson{
		{Base: model.Base{ID: "bai-giang-1"}, TopicID: "topic-1", Title: "Đọc hiểu: Bầy chim chìa vôi", Content: "<h2>Phần 1: Giới thiệu tác giả, tác phẩm</h2><p>Nội dung chi tiết về tác phẩm Bầy chim chìa vôi...</p>", Status: model.LessonPublished, MediaType: model.MediaDocument, DocumentURL: "https://example.com/tai-lieu-1.pdf"},
		{Base: model.Base{ID: "bai-giang-2"}, TopicID: "topic-1", Title: "Thực hành Tiếng Việt", Content: "<h2>Nội dung: Trạng ngữ</h2><p>Ôn tập và thực hành về trạng ngữ...</p>", Status: model.LessonPublished},
		{Base: model.Base{ID: "bai-giang-3"}, TopicID: "topic-2", Title: "Đọc hiểu: Đi lấy mật", Content: "<h2>Phần 1: Bối cảnh</h2><p>Nội dung chi tiết về trích đoạn Đi lấy mật...</p>", Status: model.LessonPublished},
		{Base: model.Base{ID: "bai-giang-4"}, TopicID: "topic-2", Title: "Viết: Bài văn biểu cảm về con người", Content: "Hướng dẫn các bước viết bài văn biểu cảm...", Status: model.LessonDraft},
	}

	questions := []model.Question{
		{
			Base:       model.Base{ID: "q-1"},
			Type:       model.MultipleChoice,
			Text:       `Nhân vật chính trong truyện "Bầy chim chìa vôi" là ai?`,
			TopicID:    "topic-1",
			Difficulty: model.Easy,
			Options: []model.QuestionOption{
				{ID: "q-1-opt-1", Text: "An và Cò"},
				{ID: "q-1-opt-2", Text: "Mon và Mên"},
				{ID: "q-1-opt-3", Text: "Dế Mèn"},
			},
			Answers: []string{"q-1-opt-2"},
		},
		{
			Base:       model.Base{ID: "q-2"},
			Type:       model.ShortAnswer,
			Text:       `Tác phẩm "Đất rừng phương Nam" của nhà văn nào?`,
			TopicID:    "topic-2",
			Difficulty: model.Medium,
			Answers:    []string{"Đoàn Giỏi"},
		},
		{
			Base:       model.Base{ID: "q-3"},
			Type:       model.FillInTheBlank,
			Text:       "Mặt trời mọc ở hướng [BLANK] và lặn ở hướng [BLANK].",
			TopicID:    "topic-1",
			Difficulty: model.Easy,
			Answers:    []string{"đông", "tây"},
		},
	}

	assignments := []model.Assignment{
		{Base: model.Base{ID: "bt-1"}, Title: "Phân tích nhân vật Mon và Mên", Description: `Viết một đoạn văn (khoảng 200 chữ) phân tích tình cảm anh em của hai nhân vật Mon và Mên trong truyện "Bầy chim chìa vôi".`, LessonID: "bai-giang-1", DueDate: now.Add(10 * day), MaxPoints: 10, Type: model.SubmissionText, Rubric: "1. Đúng nội dung: 4đ\n2. Diễn đạt: 3đ\n3. Sáng tạo: 3đ"},
		{Base: model.Base{ID: "bt-2"}, Title: `Cảm nhận về đoạn trích "Đi lấy mật"`, Description: `Nêu cảm nhận của em về vẻ đẹp thiên nhiên và con người trong đoạn trích "Đi lấy mật". Nộp bài bằng link Google Docs.`, LessonID: "bai-giang-3", DueDate: now.Add(15 * day), MaxPoints: 10, Type: model.SubmissionFile, Rubric: "1. Cảm nhận sâu sắc: 5đ\n2. Bố cục rõ ràng: 5đ"},
	}

	progress := []model.Progress{
		{Base: model.Base{ID: "progress-1"}, StudentID: "user-hs-1", LessonID: "bai-giang-1", Completed: true, CompletedAt: now.Add(-2 * day)},
	}

	grade := 8.0
	submissions := []model.Submission{
		{Base: model.Base{ID: "nop-bai-1"}, AssignmentID: "bt-1", StudentID: "user-hs-1", SubmittedAt: now, Content: "Bài làm của em Nguyễn Văn An...", Grade: &grade, Feedback: "Bài viết tốt, cần chi tiết hơn về cảm xúc nhân vật.", Status: model.StatusGraded},
		{Base: model.Base{ID: "nop-bai-2"}, AssignmentID: "bt-1", StudentID: "user-hs-2", SubmittedAt: now, Content: "Bài làm của em Trần Thị Bích...", Status: model.StatusSubmitted},
	}

	announcements := []model.Announcement{
		{Base: model.Base{ID: "tb-1"}, Title: "Chào mừng đến với lớp học Ngữ Văn 7!", Content: "Chào các em, đây là hệ thống học tập trực tuyến của chúng ta. Các em hãy thường xuyên truy cập để cập nhật bài giảng và bài tập nhé.", AuthorID: teacher.ID, CreatedAt: now, ClassID: class.ID, TargetAudience: model.AudienceStudent},
		{Base: model.Base{ID: "tb-2"}, Title: "Thông báo họp Phụ huynh", Content: "Kính mời quý Phụ huynh tham dự buổi họp cuối học kỳ I. Thời gian: 8h00, Chủ nhật tuần này.", AuthorID: teacher.ID, CreatedAt: now.Add(-2 * day), ClassID: class.ID, TargetAudience: model.AudienceParent},
		{Base: model.Base{ID: "tb-3"}, Title: "Lịch nghỉ lễ", Content: "Toàn bộ học sinh sẽ được nghỉ lễ từ ngày X đến hết ngày Y.", AuthorID: teacher.ID, CreatedAt: now.Add(-5 * day), ClassID: class.ID, TargetAudience: model.AudienceAll},
	}

	steps := []func() error{
		func() error { return s.Repo.Users.ReplaceAll(ctx, users) },
		func() error { return s.Repo.Classes.ReplaceAll(ctx, []model.Class{class}) },
		func() error { return s.Repo.Subjects.ReplaceAll(ctx, subjects) },
		func() error { return s.Repo.Topics.ReplaceAll(ctx, topics) },
		func() error { return s.Repo.Lessons.ReplaceAll(ctx, lessons) },
		func() error { return s.Repo.Questions.ReplaceAll(ctx, questions) },
		func() error { return s.Repo.Assignments.ReplaceAll(ctx, assignments) },
		func() error { return s.Repo.Progress.ReplaceAll(ctx, progress) },
		func() error { return s.Repo.Submissions.ReplaceAll(ctx, submissions) },
		func() error { return s.Repo.Announcements.ReplaceAll(ctx, announcements) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return false, err
		}
	}

	if err := s.Store.SetFlag(ctx, SeedVersionFlag); err != nil {
		return false, err
	}
	logger.Log.Info("示例数据已初始化", zap.String("flag", SeedVersionFlag))
	return true, nil
}
