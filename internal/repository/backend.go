package repository

import (
	"context"
	"sync"
)

// Backend 保存序列化后的整个集合，key 为资源名称
//
// Write 必须是一次原子替换：读者只会看到完整提交的集合，不会看到部分写入。
type Backend interface {
	// Read 返回 key 对应的内容，不存在时返回 nil, nil
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, payload []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// MemoryBackend 进程内实现，用于测试和 store.driver=memory
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (b *MemoryBackend) Write(ctx context.Context, key string, payload []byte) error {
	v := make([]byte, len(payload))
	copy(v, payload)
	b.mu.Lock()
	b.data[key] = v
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Ping(ctx context.Context) error {
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
