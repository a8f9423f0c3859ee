package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"classroom_backend/pkg/logger"
	"classroom_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// Entity 所有可存储的记录都带字符串 id
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
}

// Collection 某个资源的类型化视图
//
// 元素以原始 JSON 保存，Update 只重写匹配的那一个元素，其余元素逐字节保持不变。
type Collection[T Entity[T]] struct {
	store *Store
	name  string
}

// Bind 返回已注册资源的类型化集合
func Bind[T Entity[T]](s *Store, name string) (*Collection[T], error) {
	t, ok := s.registered(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnregistered, name)
	}
	var zero T
	if want := reflect.TypeOf(zero); t != want {
		return nil, fmt.Errorf("%w: %s is %s, not %s", ErrTypeMismatch, name, t, want)
	}
	return &Collection[T]{store: s, name: name}, nil
}

// Register 注册并绑定，等价于 s.Register + Bind
func Register[T Entity[T]](s *Store, name string) (*Collection[T], error) {
	var zero T
	if err := s.Register(name, zero); err != nil {
		return nil, err
	}
	return Bind[T](s, name)
}

func (c *Collection[T]) Name() string {
	return c.name
}

type idProbe struct {
	ID string `json:"id"`
}

func elementID(raw json.RawMessage) string {
	var p idProbe
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}
	return p.ID
}

func (c *Collection[T]) decode(raw json.RawMessage) (T, error) {
	var item T
	err := json.Unmarshal(raw, &item)
	return item, err
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	defer monitoring.ObserveStore(c.name, "list", time.Now())

	elems, err := c.store.readRaw(ctx, c.name)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(elems))
	for i, raw := range elems {
		item, err := c.decode(raw)
		if err != nil {
			logger.Log.Warn("跳过无法解析的记录",
				zap.String("resource", c.name),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Find 返回满足条件的记录，保持存储顺序
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) ([]T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	defer monitoring.ObserveStore(c.name, "get", time.Now())

	var zero T
	elems, err := c.store.readRaw(ctx, c.name)
	if err != nil {
		return zero, false, err
	}
	for _, raw := range elems {
		if elementID(raw) != id {
			continue
		}
		item, err := c.decode(raw)
		if err != nil {
			return zero, false, fmt.Errorf("decode %s %s: %w", c.name, id, err)
		}
		return item, true, nil
	}
	return zero, false, nil
}

// Create 分配新 id 并追加到集合末尾，返回的值与之后读取到的完全一致
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	defer monitoring.ObserveStore(c.name, "create", time.Now())

	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	var zero T
	elems, err := c.store.readRaw(ctx, c.name)
	if err != nil {
		return zero, err
	}

	item = item.WithID(c.store.nextID(c.name))
	raw, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.store.writeRaw(ctx, c.name, append(elems, raw)); err != nil {
		return zero, err
	}
	return c.decode(raw)
}

// Update 替换第一个 id 相同的记录；找不到时返回 ErrNotFound，集合不做任何改动
func (c *Collection[T]) Update(ctx context.Context, item T) (T, error) {
	defer monitoring.ObserveStore(c.name, "update", time.Now())

	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	var zero T
	elems, err := c.store.readRaw(ctx, c.name)
	if err != nil {
		return zero, err
	}

	id := item.GetID()
	idx := -1
	for i, raw := range elems {
		if elementID(raw) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return zero, fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", c.name, err)
	}
	elems[idx] = raw
	if err := c.store.writeRaw(ctx, c.name, elems); err != nil {
		return zero, err
	}
	return c.decode(raw)
}

// Delete 删除所有 id 相同的记录，不存在时什么也不做
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	defer monitoring.ObserveStore(c.name, "delete", time.Now())

	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	elems, err := c.store.readRaw(ctx, c.name)
	if err != nil {
		return err
	}
	kept := make([]json.RawMessage, 0, len(elems))
	for _, raw := range elems {
		if elementID(raw) != id {
			kept = append(kept, raw)
		}
	}
	if len(kept) == len(elems) {
		return nil
	}
	return c.store.writeRaw(ctx, c.name, kept)
}

// DeleteWhere 删除满足条件的记录，返回删除数量
func (c *Collection[T]) DeleteWhere(ctx context.Context, match func(T) bool) (int, error) {
	defer monitoring.ObserveStore(c.name, "delete", time.Now())

	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	elems, err := c.store.readRaw(ctx, c.name)
	if err != nil {
		return 0, err
	}
	kept := make([]json.RawMessage, 0, len(elems))
	for _, raw := range elems {
		item, err := c.decode(raw)
		if err == nil && match(item) {
			continue
		}
		kept = append(kept, raw)
	}
	removed := len(elems) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, c.store.writeRaw(ctx, c.name, kept)
}

// ReplaceAll 用给定记录整体覆盖集合，id 保持调用方提供的值
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	defer monitoring.ObserveStore(c.name, "replace_all", time.Now())

	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	elems := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.name, err)
		}
		elems = append(elems, raw)
	}
	return c.store.writeRaw(ctx, c.name, elems)
}
