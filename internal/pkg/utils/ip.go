package utils

import (
	"net"
	"net/netip"
	"strings"
)

// NormalizeIP 统一IP格式：去掉端口，IPv4-mapped IPv6 转成 IPv4
// 无法解析的输入去掉首尾空白后原样返回
func NormalizeIP(input string) string {
	host := strings.TrimSpace(input)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return host
	}
	return addr.Unmap().String()
}
