package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"classroom_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type backendFactory struct {
	name string
	open func(t *testing.T) Backend
}

func backends() []backendFactory {
	return []backendFactory{
		{"memory", func(t *testing.T) Backend { return NewMemoryBackend() }},
		{"bolt", func(t *testing.T) Backend {
			db, err := bbolt.Open(filepath.Join(t.TempDir(), "store.bolt"), 0600, &bbolt.Options{Timeout: time.Second})
			require.NoError(t, err)
			b, err := NewBoltBackend(db)
			require.NoError(t, err)
			t.Cleanup(func() { b.Close() })
			return b
		}},
		{"sqlite", func(t *testing.T) Backend {
			db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			require.NoError(t, err)
			b, err := NewGormBackend(db)
			require.NoError(t, err)
			t.Cleanup(func() { b.Close() })
			return b
		}},
	}
}

func newTopics(t *testing.T, backend Backend) (*Store, *Collection[model.Topic]) {
	t.Helper()
	s := NewStore(backend)
	topics, err := Register[model.Topic](s, model.ResourceTopics)
	require.NoError(t, err)
	return s, topics
}

func TestCollectionLifecycle(t *testing.T) {
	for _, f := range backends() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			_, topics := newTopics(t, f.open(t))

			items, err := topics.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, items)
			assert.NotNil(t, items)

			created, err := topics.Create(ctx, model.Topic{Name: "Chủ đề 1: Số tự nhiên", Order: 1})
			require.NoError(t, err)
			assert.Regexp(t, `^topics-\d+$`, created.ID)

			got, ok, err := topics.Get(ctx, created.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, created, got)

			created.Name = "Chủ đề 1: Số nguyên"
			updated, err := topics.Update(ctx, created)
			require.NoError(t, err)
			assert.Equal(t, "Chủ đề 1: Số nguyên", updated.Name)

			require.NoError(t, topics.Delete(ctx, created.ID))
			_, ok, err = topics.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	fixed := time.Unix(1700000000, 0)
	s := NewStore(NewMemoryBackend(), WithClock(func() time.Time { return fixed }))
	topics, err := Register[model.Topic](s, model.ResourceTopics)
	require.NoError(t, err)

	a, err := topics.Create(ctx, model.Topic{Name: "a"})
	require.NoError(t, err)
	b, err := topics.Create(ctx, model.Topic{Name: "b"})
	require.NoError(t, err)

	assert.Equal(t, "topics-1700000000000000000", a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateOverridesCallerID(t *testing.T) {
	ctx := context.Background()
	_, topics := newTopics(t, NewMemoryBackend())

	created, err := topics.Create(ctx, model.Topic{Base: model.Base{ID: "mine"}, Name: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, "mine", created.ID)
}

func TestUpdatePreservesOtherElementsVerbatim(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	raw := `[{"id":"t1","name":"A","order":1,"legacyField":"keep me"},{"id":"t2","name":"B","order":2}]`
	require.NoError(t, backend.Write(ctx, model.ResourceTopics, []byte(raw)))

	_, topics := newTopics(t, backend)
	_, err := topics.Update(ctx, model.Topic{Base: model.Base{ID: "t2"}, Name: "B2", Order: 2})
	require.NoError(t, err)

	payload, err := backend.Read(ctx, model.ResourceTopics)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `{"id":"t1","name":"A","order":1,"legacyField":"keep me"}`)
	assert.Contains(t, string(payload), `"name":"B2"`)
}

func TestUpdateMissingID(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	_, topics := newTopics(t, backend)
	_, err := topics.Create(ctx, model.Topic{Name: "A"})
	require.NoError(t, err)
	before, _ := backend.Read(ctx, model.ResourceTopics)

	_, err = topics.Update(ctx, model.Topic{Base: model.Base{ID: "nope"}, Name: "B"})
	assert.True(t, errors.Is(err, ErrNotFound))

	after, _ := backend.Read(ctx, model.ResourceTopics)
	assert.Equal(t, before, after)
}

func TestUpdateReplacesOnlyFirstMatch(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Write(ctx, model.ResourceTopics,
		[]byte(`[{"id":"dup","name":"first"},{"id":"dup","name":"second"}]`)))
	_, topics := newTopics(t, backend)

	_, err := topics.Update(ctx, model.Topic{Base: model.Base{ID: "dup"}, Name: "changed"})
	require.NoError(t, err)

	items, err := topics.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "changed", items[0].Name)
	assert.Equal(t, "second", items[1].Name)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	_, topics := newTopics(t, NewMemoryBackend())
	a, err := topics.Create(ctx, model.Topic{Name: "A"})
	require.NoError(t, err)
	_, err = topics.Create(ctx, model.Topic{Name: "B"})
	require.NoError(t, err)

	require.NoError(t, topics.Delete(ctx, a.ID))
	once, err := topics.List(ctx)
	require.NoError(t, err)

	require.NoError(t, topics.Delete(ctx, a.ID))
	require.NoError(t, topics.Delete(ctx, "never-existed"))
	twice, err := topics.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Len(t, twice, 1)
}

func TestCorruptPayloadReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Write(ctx, model.ResourceTopics, []byte(`{not json`)))
	_, topics := newTopics(t, backend)

	items, err := topics.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, ok, err := topics.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteWhere(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend())
	lessons, err := Register[model.Lesson](s, model.ResourceLessons)
	require.NoError(t, err)

	for _, topic := range []string{"t1", "t2", "t1"} {
		_, err := lessons.Create(ctx, model.Lesson{Title: "l", TopicID: topic})
		require.NoError(t, err)
	}
	n, err := lessons.DeleteWhere(ctx, func(l model.Lesson) bool { return l.TopicID == "t1" })
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rest, err := lessons.List(ctx)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "t2", rest[0].TopicID)
}

func TestBindChecksRegistration(t *testing.T) {
	s := NewStore(NewMemoryBackend())

	_, err := Bind[model.Topic](s, model.ResourceTopics)
	assert.True(t, errors.Is(err, ErrUnregistered))

	require.NoError(t, s.Register(model.ResourceTopics, model.Topic{}))
	_, err = Bind[model.Lesson](s, model.ResourceTopics)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = Bind[model.Topic](s, model.ResourceTopics)
	assert.NoError(t, err)

	err = s.Register(model.ResourceTopics, model.Lesson{})
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestFlags(t *testing.T) {
	for _, f := range backends() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			s := NewStore(f.open(t))

			set, err := s.Flag(ctx, "seeded_v7")
			require.NoError(t, err)
			assert.False(t, set)

			require.NoError(t, s.SetFlag(ctx, "seeded_v7"))
			set, err = s.Flag(ctx, "seeded_v7")
			require.NoError(t, err)
			assert.True(t, set)
		})
	}
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	_, topics := newTopics(t, NewMemoryBackend())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := topics.Create(ctx, model.Topic{Name: "t"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := topics.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestNewCollections(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	c, err := NewCollections(s)
	require.NoError(t, err)
	assert.Equal(t, model.ResourceQuestions, c.Questions.Name())
	assert.Len(t, s.Resources(), 10)

	// 重复绑定同一类型是允许的
	_, err = NewCollections(s)
	assert.NoError(t, err)
}
