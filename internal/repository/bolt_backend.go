package repository

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var collectionsBucket = []byte("Collections")

// BoltBackend 单文件嵌入式存储，适合单机部署
type BoltBackend struct {
	db *bbolt.DB
}

func NewBoltBackend(db *bbolt.DB) (*BoltBackend, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(collectionsBucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionsBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", collectionsBucket)
		}
		v := bucket.Get([]byte(key))
		if v == nil {
			return nil
		}
		// bbolt 返回的切片只在事务内有效
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	return out, err
}

func (b *BoltBackend) Write(ctx context.Context, key string, payload []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(collectionsBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), payload)
	})
}

func (b *BoltBackend) Ping(ctx context.Context) error {
	return b.db.View(func(tx *bbolt.Tx) error { return nil })
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
