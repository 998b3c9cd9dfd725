/**
 * 权限匹配
 * @author: sun977
 * @date: 2025.09.05
 * @description: API 授权以 (method, path 模式) 表示，路径中的 {param} 占位符匹配单个路径段。
 *               匹配区分大小写且整串锚定，不允许前缀匹配。
 * @func:
 * 	1.CompilePattern 编译路径模式
 * 	2.NewPermissionSet 预编译一组授权
 * 	3.PermissionSet.Match 首个命中即放行
 */
package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe 路径参数占位符，如 {id}
var placeholderRe = regexp.MustCompile(`\{[^}]+\}`)

// segmentWildcard 单个路径段通配
const segmentWildcard = `[^/]+`

// Permission 单条授权
type Permission struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// String method+path 形式
func (p Permission) String() string {
	return p.Method + " " + p.Path
}

type compiledPermission struct {
	Permission
	re *regexp.Regexp
}

// PermissionSet 预编译的授权集合，构建后只读
type PermissionSet struct {
	entries []compiledPermission
}

// CompilePattern 将路径模式编译为正则：字面部分转义，占位符替换为单段通配，两端锚定
func CompilePattern(path string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")

	last := 0
	for _, loc := range placeholderRe.FindAllStringIndex(path, -1) {
		b.WriteString(regexp.QuoteMeta(path[last:loc[0]]))
		b.WriteString(segmentWildcard)
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(path[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid permission pattern %q: %w", path, err)
	}
	return re, nil
}

// NewPermissionSet 预编译授权，重复的 (method, path) 只保留一条
func NewPermissionSet(perms []Permission) (*PermissionSet, error) {
	set := &PermissionSet{entries: make([]compiledPermission, 0, len(perms))}
	seen := make(map[Permission]struct{}, len(perms))

	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}

		re, err := CompilePattern(p.Path)
		if err != nil {
			return nil, err
		}
		set.entries = append(set.entries, compiledPermission{Permission: p, re: re})
	}
	return set, nil
}

// Len 授权条数
func (s *PermissionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Match 方法完全相等且路径命中模式时返回该授权
func (s *PermissionSet) Match(method, path string) (Permission, bool) {
	if s == nil {
		return Permission{}, false
	}
	for _, e := range s.entries {
		if e.Method != method {
			continue
		}
		if e.re.MatchString(path) {
			return e.Permission, true
		}
	}
	return Permission{}, false
}
