/**
 * 敏感词过滤
 * @author: sun977
 * @date: 2025.09.10
 * @description: 基于 Aho–Corasick 自动机的敏感词检测，支持普通文本与 SSE 流式分片。
 *               词表构建失败时关闭过滤放行全部内容，可在运行时重载。
 * @func:
 * 	1.Contains 检测文本
 * 	2.FilterText 命中时返回提示语
 * 	3.FilterStreamChunk 命中时压制当前分片
 * 	4.Reload 重建词表
 */
package sensitive

import (
	"fmt"
	"strings"
	"sync"

	"neoadmin/internal/config"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// DefaultResponseMessage 默认命中提示
const DefaultResponseMessage = "您的输入包含敏感内容，请修改后重试"

// ssePrefix SSE 数据行前缀
const ssePrefix = "data:"

// streamTextFields 流式分片中需要检查的字段
var streamTextFields = []string{"answer", "text", "content"}

// Options 过滤器构建参数
type Options struct {
	Enabled         bool
	Words           []string
	WordsFile       string // 可选，每行一个词，# 开头为注释
	ResponseMessage string
}

// OptionsFromConfig 从配置生成构建参数
func OptionsFromConfig(cfg *config.SensitiveConfig) Options {
	return Options{
		Enabled:         cfg.Enabled,
		Words:           cfg.Words,
		WordsFile:       cfg.WordsFile,
		ResponseMessage: cfg.ResponseMessage,
	}
}

// Filter 敏感词过滤器，读多写少，重载时整体替换自动机
type Filter struct {
	mu              sync.RWMutex
	enabled         bool
	automaton       *Automaton
	responseMessage string
}

// NewFilter 创建过滤器，构建失败时返回禁用状态的过滤器
func NewFilter(opts Options) *Filter {
	f := &Filter{}
	f.Reload(opts)
	return f
}

// Reload 按新参数重建词表，返回是否成功
// 失败时过滤器保持禁用，不影响请求处理
func (f *Filter) Reload(opts Options) bool {
	message := opts.ResponseMessage
	if message == "" {
		message = DefaultResponseMessage
	}

	if !opts.Enabled {
		f.swap(false, nil, message)
		logger.WithFields(logrus.Fields{
			"path":      "pkg/sensitive",
			"operation": "sensitive_reload",
			"func_name": "Filter.Reload",
		}).Info("Sensitive word filtering is disabled")
		return true
	}

	automaton, err := buildAutomaton(opts)
	if err != nil {
		f.swap(false, nil, message)
		logger.WithFields(logrus.Fields{
			"path":      "pkg/sensitive",
			"operation": "sensitive_reload",
			"func_name": "Filter.Reload",
			"error":     err.Error(),
		}).Warn("Failed to build sensitive word automaton, filtering disabled")
		return false
	}

	f.swap(true, automaton, message)
	logger.WithFields(logrus.Fields{
		"path":       "pkg/sensitive",
		"operation":  "sensitive_reload",
		"func_name":  "Filter.Reload",
		"word_count": automaton.Size(),
	}).Info("Sensitive word filter loaded")
	return true
}

// buildAutomaton 合并配置词表与文件词表后构建自动机
func buildAutomaton(opts Options) (*Automaton, error) {
	words := make([]string, 0, len(opts.Words))
	words = append(words, opts.Words...)

	if opts.WordsFile != "" {
		fileWords, err := utils.ReadFileLines(opts.WordsFile)
		if err != nil {
			return nil, fmt.Errorf("load words file: %w", err)
		}
		words = append(words, fileWords...)
	}

	return NewAutomaton(words), nil
}

func (f *Filter) swap(enabled bool, automaton *Automaton, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
	f.automaton = automaton
	f.responseMessage = message
}

func (f *Filter) snapshot() (bool, *Automaton) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.enabled, f.automaton
}

// Enabled 过滤是否生效
func (f *Filter) Enabled() bool {
	enabled, automaton := f.snapshot()
	return enabled && automaton != nil
}

// ResponseMessage 命中后的提示语
func (f *Filter) ResponseMessage() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.responseMessage
}

// Contains 检测文本是否包含敏感词，返回命中词的原始写法
func (f *Filter) Contains(text string) (bool, string) {
	enabled, automaton := f.snapshot()
	if !enabled || automaton == nil || text == "" {
		return false, ""
	}

	word, ok := automaton.FindFirst(text)
	if !ok {
		return false, ""
	}

	logger.WithFields(logrus.Fields{
		"path":      "pkg/sensitive",
		"operation": "sensitive_detect",
		"func_name": "Filter.Contains",
		"word":      word,
	}).Warn("Detected sensitive word")
	return true, word
}

// FilterText 命中时返回提示语，否则原样返回
func (f *Filter) FilterText(text string) string {
	if hit, _ := f.Contains(text); hit {
		return f.ResponseMessage()
	}
	return text
}

// FilterStreamChunk 检查单个SSE分片
// 返回 false 表示该分片需要被压制，已发送的分片不受影响
func (f *Filter) FilterStreamChunk(chunk string) (string, bool) {
	if chunk == "" || !f.Enabled() {
		return chunk, true
	}

	if !strings.HasPrefix(chunk, ssePrefix) {
		return chunk, true
	}

	payload := strings.TrimSpace(chunk[len(ssePrefix):])
	if payload == "" || payload == "[DONE]" {
		return chunk, true
	}

	text := payload
	if gjson.Valid(payload) {
		text = streamText(gjson.Parse(payload))
	}

	if hit, _ := f.Contains(text); hit {
		return "", false
	}
	return chunk, true
}

// streamText 拼接分片中可能携带文本的字段，字段之间用换行分隔
func streamText(event gjson.Result) string {
	if !event.IsObject() {
		return ""
	}

	var b strings.Builder
	for _, field := range streamTextFields {
		v := event.Get(field)
		if !v.Exists() {
			continue
		}
		if v.Type == gjson.String {
			b.WriteString(v.Str)
		} else {
			b.WriteString(v.Raw)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
