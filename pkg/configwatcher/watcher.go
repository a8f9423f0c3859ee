package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"classroom_backend/internal/config"
	"classroom_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

const debounce = time.Second

// Watch 监听配置目录下的 config.yaml，写入停止 1 秒后重新加载并回调
//
// 监听目录而不是文件，编辑器先删后建的保存方式也能被捕获。ctx 取消后返回。
func Watch(ctx context.Context, dir string, reload ConfigReloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := watcher.Add(absDir); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != "config.yaml" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// 防抖
			timer.Reset(debounce)
		case <-timer.C:
			cfg, err := config.LoadConfig(dir)
			if err != nil {
				logger.Log.Error("重新加载配置失败", zap.Error(err))
				continue
			}
			logger.Log.Info("配置已重新加载", zap.String("dir", absDir))
			reload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("配置监听出错", zap.Error(err))
		}
	}
}
