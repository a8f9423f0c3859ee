package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"classroom_backend/internal/model"
	"classroom_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// ImportState 导入流程的状态：idle → parsing → parsed → committing → idle
type ImportState string

const (
	ImportIdle       ImportState = "idle"
	ImportParsing    ImportState = "parsing"
	ImportParsed     ImportState = "parsed"
	ImportCommitting ImportState = "committing"
)

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult 校验通过的题目与被拒绝的行
type ImportResult struct {
	Accepted []model.Question `json:"accepted"`
	Errors   []RowError       `json:"errors"`
}

// ImportSession 一次上传对应一个会话，提交或放弃后删除
type ImportSession struct {
	ID        string       `json:"id"`
	FileName  string       `json:"fileName"`
	State     ImportState  `json:"state"`
	Result    ImportResult `json:"result"`
	CreatedBy string       `json:"createdBy,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

type ImportSessionStore interface {
	Save(ctx context.Context, s ImportSession) error
	// Get 会话不存在或已过期时返回 util.ErrImportSessionNotFound
	Get(ctx context.Context, id string) (ImportSession, error)
	// Transition 仅当当前状态为 from 时切换到 to，否则返回 util.ErrImportNotReady
	Transition(ctx context.Context, id string, from, to ImportState) (ImportSession, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore 单实例部署使用，过期的会话在访问时清理
type MemorySessionStore struct {
	TTL time.Duration
	Now func() time.Time

	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	session   ImportSession
	expiresAt time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		TTL:      ttl,
		Now:      time.Now,
		sessions: make(map[string]memorySession),
	}
}

func (m *MemorySessionStore) Save(ctx context.Context, s ImportSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	for id, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
	m.sessions[s.ID] = memorySession{session: s, expiresAt: now.Add(m.TTL)}
	return nil
}

func (m *MemorySessionStore) lookup(id string) (memorySession, bool) {
	entry, ok := m.sessions[id]
	if !ok {
		return memorySession{}, false
	}
	if m.Now().After(entry.expiresAt) {
		delete(m.sessions, id)
		return memorySession{}, false
	}
	return entry, true
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (ImportSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(id)
	if !ok {
		return ImportSession{}, fmt.Errorf("%w: %s", util.ErrImportSessionNotFound, id)
	}
	return entry.session, nil
}

func (m *MemorySessionStore) Transition(ctx context.Context, id string, from, to ImportState) (ImportSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(id)
	if !ok {
		return ImportSession{}, fmt.Errorf("%w: %s", util.ErrImportSessionNotFound, id)
	}
	if entry.session.State != from {
		return ImportSession{}, fmt.Errorf("%w: state is %s", util.ErrImportNotReady, entry.session.State)
	}
	entry.session.State = to
	m.sessions[id] = entry
	return entry.session, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// RedisSessionStore 多实例部署时共享导入会话，过期交给 redis TTL
type RedisSessionStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, prefix string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, Prefix: prefix + "import_session:", TTL: ttl}
}

func (r *RedisSessionStore) key(id string) string {
	return r.Prefix + id
}

func (r *RedisSessionStore) Save(ctx context.Context, s ImportSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, r.key(s.ID), data, r.TTL).Err()
}

func decodeSession(data []byte, id string) (ImportSession, error) {
	var s ImportSession
	if err := json.Unmarshal(data, &s); err != nil {
		return ImportSession{}, fmt.Errorf("decode import session %s: %w", id, err)
	}
	return s, nil
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (ImportSession, error) {
	data, err := r.Client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ImportSession{}, fmt.Errorf("%w: %s", util.ErrImportSessionNotFound, id)
	}
	if err != nil {
		return ImportSession{}, err
	}
	return decodeSession(data, id)
}

// Transition 使用 WATCH/MULTI，两个实例同时提交同一会话时只有一个能成功
func (r *RedisSessionStore) Transition(ctx context.Context, id string, from, to ImportState) (ImportSession, error) {
	key := r.key(id)
	var out ImportSession
	err := r.Client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", util.ErrImportSessionNotFound, id)
		}
		if err != nil {
			return err
		}
		s, err := decodeSession(data, id)
		if err != nil {
			return err
		}
		if s.State != from {
			return fmt.Errorf("%w: state is %s", util.ErrImportNotReady, s.State)
		}
		s.State = to
		encoded, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		out = s
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ImportSession{}, fmt.Errorf("%w: session changed concurrently", util.ErrImportNotReady)
	}
	return out, err
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.Client.Del(ctx, r.key(id)).Err()
}
