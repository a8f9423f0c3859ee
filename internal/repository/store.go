package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"classroom_backend/pkg/logger"
	"classroom_backend/pkg/monitoring"

	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnregistered = errors.New("resource not registered")
	ErrTypeMismatch = errors.New("resource registered with another type")
)

const metaPrefix = "meta:"

// Store 按资源名称持久化整个集合，所有资源共享同一个 Backend
type Store struct {
	backend Backend
	now     func() time.Time

	mu     sync.Mutex
	types  map[string]reflect.Type
	locks  map[string]*sync.Mutex
	lastID int64
}

type Option func(*Store)

// WithClock 替换生成 id 时使用的时钟
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		types:   make(map[string]reflect.Type),
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register 把资源名称绑定到一个 Go 类型，重复注册同一类型是允许的
func (s *Store) Register(name string, sample any) error {
	if name == "" {
		return errors.New("resource name is empty")
	}
	t := reflect.TypeOf(sample)
	if t == nil {
		return fmt.Errorf("resource %s: nil sample", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.types[name]; ok && existing != t {
		return fmt.Errorf("%w: %s is %s, not %s", ErrTypeMismatch, name, existing, t)
	}
	s.types[name] = t
	return nil
}

func (s *Store) registered(name string) (reflect.Type, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.types[name]
	return t, ok
}

// Resources 返回已注册的资源名称
func (s *Store) Resources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	return names
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// nextID 生成 <resource>-<unix 纳秒>，同一进程内保证单调递增
func (s *Store) nextID(name string) string {
	s.mu.Lock()
	n := s.now().UnixNano()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	s.lastID = n
	s.mu.Unlock()
	return fmt.Sprintf("%s-%d", name, n)
}

// readRaw 读取集合的原始元素；内容损坏时记录日志并按空集合处理
func (s *Store) readRaw(ctx context.Context, name string) ([]json.RawMessage, error) {
	payload, err := s.backend.Read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(payload) == 0 {
		return []json.RawMessage{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(payload, &elems); err != nil {
		logger.Log.Warn("集合内容无法解析，按空集合处理",
			zap.String("resource", name),
			zap.Error(err))
		return []json.RawMessage{}, nil
	}
	if elems == nil {
		elems = []json.RawMessage{}
	}
	return elems, nil
}

func (s *Store) writeRaw(ctx context.Context, name string, elems []json.RawMessage) error {
	if elems == nil {
		elems = []json.RawMessage{}
	}
	payload, err := json.Marshal(elems)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.backend.Write(ctx, name, payload); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Flag 读取持久化的标记，例如初始化数据版本
func (s *Store) Flag(ctx context.Context, key string) (bool, error) {
	defer monitoring.ObserveStore(metaPrefix+key, "flag", time.Now())

	payload, err := s.backend.Read(ctx, metaPrefix+key)
	if err != nil {
		return false, fmt.Errorf("read flag %s: %w", key, err)
	}
	if len(payload) == 0 {
		return false, nil
	}
	var v bool
	if err := json.Unmarshal(payload, &v); err != nil {
		logger.Log.Warn("标记内容无法解析", zap.String("flag", key), zap.Error(err))
		return false, nil
	}
	return v, nil
}

func (s *Store) SetFlag(ctx context.Context, key string) error {
	defer monitoring.ObserveStore(metaPrefix+key, "set_flag", time.Now())

	if err := s.backend.Write(ctx, metaPrefix+key, []byte("true")); err != nil {
		return fmt.Errorf("write flag %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}
