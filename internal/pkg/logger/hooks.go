package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"neoadmin/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// typeFiles 日志类型与文件名的对应关系
var typeFiles = map[LogType]string{
	AccessLog:   "access.log",
	BusinessLog: "business.log",
	ErrorLog:    "error.log",
	SystemLog:   "system.log",
	AuditLog:    "audit.log",
	DebugLog:    "debug.log",
}

// FileHook 按日志 type 字段把日志写入不同的滚动文件
// 没有 type 字段的日志在 output=file 时写入主日志文件
type FileHook struct {
	logConfig *config.LogConfig
	writers   map[string]*lumberjack.Logger
	formatter logrus.Formatter
	mutex     sync.Mutex
}

// NewFileHook 创建一个新的FileHook实例
func NewFileHook(logConfig *config.LogConfig) *FileHook {
	return &FileHook{
		logConfig: logConfig,
		writers:   make(map[string]*lumberjack.Logger),
		formatter: newJSONFormatter(),
	}
}

// Levels 返回此Hook关心的所有日志级别
func (hook *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire 在日志触发时执行
func (hook *FileHook) Fire(entry *logrus.Entry) error {
	hook.mutex.Lock()
	defer hook.mutex.Unlock()

	writer := hook.writerFor(entryType(entry))
	if writer == nil {
		return nil
	}

	formatted, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = writer.Write(formatted)
	return err
}

// Reset 配置变更后关闭已打开的文件，后续按新配置重新创建
func (hook *FileHook) Reset(logConfig *config.LogConfig) {
	hook.mutex.Lock()
	defer hook.mutex.Unlock()
	hook.closeWriters()
	hook.logConfig = logConfig
}

// Close 关闭所有文件
func (hook *FileHook) Close() error {
	hook.mutex.Lock()
	defer hook.mutex.Unlock()
	return hook.closeWriters()
}

func (hook *FileHook) closeWriters() error {
	var firstErr error
	for key, w := range hook.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(hook.writers, key)
	}
	return firstErr
}

// entryType 读取日志条目的 type 字段
func entryType(entry *logrus.Entry) string {
	lt, ok := entry.Data["type"]
	if !ok {
		return ""
	}
	switch t := lt.(type) {
	case LogType:
		return string(t)
	case string:
		return t
	}
	return ""
}

// writerFor 获取指定类型的writer，不存在时按需创建，调用方需持有锁
func (hook *FileHook) writerFor(logType string) io.Writer {
	if hook.logConfig.FilePath == "" {
		return nil
	}

	filename, known := typeFiles[LogType(logType)]
	if !known {
		// 未分类日志只在输出到文件时写主日志
		if hook.logConfig.Output != "file" {
			return nil
		}
		logType = "default"
		filename = filepath.Base(hook.logConfig.FilePath)
	}

	if w, exists := hook.writers[logType]; exists {
		return w
	}

	logDir := filepath.Dir(hook.logConfig.FilePath)
	_ = os.MkdirAll(logDir, 0755)

	w := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, filename),
		MaxSize:    hook.logConfig.MaxSize,
		MaxBackups: hook.logConfig.MaxBackups,
		MaxAge:     hook.logConfig.MaxAge,
		Compress:   hook.logConfig.Compress,
	}
	hook.writers[logType] = w
	return w
}
