package database

import (
	"os"
	"path/filepath"
	"time"

	"classroom_backend/pkg/logger"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// InitBolt 打开 bbolt 文件，文件被其他进程占用时一秒后超时
func InitBolt(path string) (*bbolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Bolt database opened", zap.String("path", path))
	return db, nil
}
