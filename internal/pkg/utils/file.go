// 文件处理工具包
// 提供文件读取、文件名清洗、扩展名判断等操作
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// unsafeFileNameChars 文件名中不允许出现的字符
var unsafeFileNameChars = regexp.MustCompile(`[^\w.\-\p{Han}]`)

// ReadFileLines 从文件读取内容返回列表
// 去除首尾空白，跳过空行与 # 开头的注释行
func ReadFileLines(filePath string) ([]string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("文件不存在: %s", filePath)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取文件内容失败: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" && !strings.HasPrefix(line, "#") {
			result = append(result, line)
		}
	}

	return result, nil
}

// FileExtension 返回小写且不带点的扩展名
func FileExtension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// SanitizeFileName 清洗上传文件名
// 去掉路径部分，非法字符替换为下划线，结果为空时返回 file
func SanitizeFileName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "file"
	}
	name = unsafeFileNameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "file"
	}
	return name
}
