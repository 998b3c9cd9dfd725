/*
ConfigWatcher 配置文件监听器
监听配置目录的变化，配置文件或附加监听文件(如敏感词文件)写入后重新加载配置，
并按注册顺序执行回调，回调拿到旧配置和新配置。

注意事项：
- 编辑器保存文件时往往连续触发多次写事件，这里用 500ms 防抖合并为一次重载。
- 新配置加载失败时保留旧配置，不执行回调。
- 单个回调失败不影响后续回调。
*/
package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify" // 文件系统监听库
)

// ConfigWatcher 配置文件监听器
type ConfigWatcher struct {
	watcher    *fsnotify.Watcher   // 文件系统监听器
	configPath string              // 配置文件目录
	env        string              // 环境标识
	extraFiles map[string]struct{} // 额外监听的文件(绝对路径)
	callbacks  []ReloadCallback    // 重载回调函数列表
	current    *Config             // 最近一次成功加载的配置
	debounce   time.Duration       // 防抖间隔
	mu         sync.RWMutex        // 读写锁
	ctx        context.Context     // 上下文
	cancel     context.CancelFunc  // 取消函数
	done       chan struct{}       // 完成信号
}

// ReloadCallback 配置重载回调函数类型
type ReloadCallback func(oldConfig, newConfig *Config) error

// NewConfigWatcher 创建配置文件监听器
// current 为启动时已加载的配置，作为第一次回调的 oldConfig
func NewConfigWatcher(configPath, env string, current *Config) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	ctx, cancel := context.WithCancel(context.Background())

	cw := &ConfigWatcher{
		watcher:    watcher,
		configPath: configPath,
		env:        env,
		extraFiles: make(map[string]struct{}),
		callbacks:  make([]ReloadCallback, 0),
		current:    current,
		debounce:   500 * time.Millisecond,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	return cw, nil
}

// WatchFile 额外监听一个文件所在目录，该文件变化同样触发重载
func (cw *ConfigWatcher) WatchFile(path string) error {
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve watch file %s: %w", path, err)
	}

	cw.mu.Lock()
	cw.extraFiles[abs] = struct{}{}
	cw.mu.Unlock()

	dir := filepath.Dir(abs)
	cfgDir, _ := filepath.Abs(cw.configPath)
	if dir == cfgDir {
		return nil
	}
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", dir, err)
	}
	return nil
}

// Start 启动配置文件监听
func (cw *ConfigWatcher) Start() error {
	if err := cw.watcher.Add(cw.configPath); err != nil {
		return fmt.Errorf("failed to add config path to watcher: %w", err)
	}

	go cw.watchLoop()

	log.Printf("Config watcher started, watching path: %s", cw.configPath)
	return nil
}

// Stop 停止配置文件监听
func (cw *ConfigWatcher) Stop() error {
	cw.cancel()

	select {
	case <-cw.done:
	case <-time.After(5 * time.Second):
		log.Println("Config watcher stop timeout")
	}

	return cw.watcher.Close()
}

// AddCallback 添加配置重载回调函数
func (cw *ConfigWatcher) AddCallback(callback ReloadCallback) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// Current 返回最近一次成功加载的配置
func (cw *ConfigWatcher) Current() *Config {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.current
}

// watchLoop 监听循环
func (cw *ConfigWatcher) watchLoop() {
	defer close(cw.done)

	// 防抖动定时器
	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}

	for {
		select {
		case <-cw.ctx.Done():
			log.Println("Config watcher stopped")
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				log.Println("Config watcher events channel closed")
				return
			}

			// 只处理写入和创建事件
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if cw.isConfigFile(event.Name) || cw.isExtraFile(event.Name) {
					log.Printf("Config file changed: %s", event.Name)
					debounceTimer.Reset(cw.debounce)
				}
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				log.Println("Config watcher errors channel closed")
				return
			}
			log.Printf("Config watcher error: %v", err)

		case <-debounceTimer.C:
			if err := cw.reloadConfig(); err != nil {
				log.Printf("Failed to reload config: %v", err)
			}
		}
	}
}

// isConfigFile 检查是否为配置文件
func (cw *ConfigWatcher) isConfigFile(filename string) bool {
	baseName := filepath.Base(filename)

	if filepath.Ext(baseName) != ".yaml" && filepath.Ext(baseName) != ".yml" {
		return false
	}

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.test.yaml",
		"config.test.yml",
		"config.prod.yaml",
		"config.prod.yml",
	}

	return contains(configFiles, baseName)
}

// isExtraFile 检查是否为额外监听文件
func (cw *ConfigWatcher) isExtraFile(filename string) bool {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return false
	}
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	_, ok := cw.extraFiles[abs]
	return ok
}

// reloadConfig 重载配置
func (cw *ConfigWatcher) reloadConfig() error {
	newConfig, err := LoadConfig(cw.configPath, cw.env)
	if err != nil {
		return fmt.Errorf("failed to load new config: %w", err)
	}

	cw.mu.Lock()
	oldConfig := cw.current
	cw.current = newConfig
	callbacks := make([]ReloadCallback, len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mu.Unlock()

	for _, callback := range callbacks {
		if err := callback(oldConfig, newConfig); err != nil {
			log.Printf("Config reload callback error: %v", err)
		}
	}

	log.Println("Config reloaded successfully")
	return nil
}
