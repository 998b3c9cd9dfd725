package utils

import "strings"

// RouteTag 路由分组名，如 /api/v1/user/list -> user
// 非 /api/vN/ 开头的路径取第一段
func RouteTag(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) >= 3 && segments[0] == "api" && strings.HasPrefix(segments[1], "v") {
		return segments[2]
	}
	if len(segments) > 0 {
		return segments[0]
	}
	return ""
}

// GinPathToPattern 把 gin 的 :name 与 *name 段转成 {name} 占位符
func GinPathToPattern(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if len(seg) > 1 && (seg[0] == ':' || seg[0] == '*') {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}
