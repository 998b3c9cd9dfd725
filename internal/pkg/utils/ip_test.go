package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "ipv4", input: "192.168.1.1", want: "192.168.1.1"},
		{name: "ipv4_with_port", input: "192.168.1.1:8080", want: "192.168.1.1"},
		{name: "padded", input: " 10.0.0.1 ", want: "10.0.0.1"},
		{name: "ipv4_mapped", input: "::ffff:192.0.2.1", want: "192.0.2.1"},
		{name: "ipv6_with_port", input: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "not_ip", input: "unknown", want: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeIP(tt.input); got != tt.want {
				t.Errorf("NormalizeIP(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded_for_trusted", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, remote: "10.0.0.1:1234", want: "203.0.113.5"},
		{name: "real_ip_trusted", headers: map[string]string{"X-Real-IP": "203.0.113.9"}, remote: "10.0.0.1:1234", want: "203.0.113.9"},
		{name: "forwarded_for_untrusted", headers: map[string]string{"X-Forwarded-For": "203.0.113.5"}, remote: "198.51.100.7:5678", want: "198.51.100.7"},
		{name: "real_ip_untrusted", headers: map[string]string{"X-Real-IP": "203.0.113.9"}, remote: "198.51.100.7:5678", want: "198.51.100.7"},
		{name: "remote_addr", remote: "198.51.100.7:5678", want: "198.51.100.7"},
		{name: "mapped_remote", remote: "[::ffff:198.51.100.8]:5678", want: "198.51.100.8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, engine := gin.CreateTestContext(httptest.NewRecorder())
			if err := engine.SetTrustedProxies([]string{"10.0.0.0/8"}); err != nil {
				t.Fatal(err)
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			c.Request = req
			if got := GetClientIP(c); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestMetaContext(t *testing.T) {
	ctx := WithRequestMeta(context.Background(), "req-1", "10.0.0.1", 42)
	if got := GetRequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("GetRequestIDFromContext() = %q", got)
	}
	if got := GetClientIPFromContext(ctx); got != "10.0.0.1" {
		t.Errorf("GetClientIPFromContext() = %q", got)
	}
	if got := GetUserIDFromContext(ctx); got != 42 {
		t.Errorf("GetUserIDFromContext() = %d", got)
	}
	if got := GetUserIDFromContext(context.Background()); got != 0 {
		t.Errorf("GetUserIDFromContext(empty) = %d", got)
	}
}

func TestGenerateHexID(t *testing.T) {
	a, b := GenerateHexID(), GenerateHexID()
	if len(a) != 32 || a == b {
		t.Errorf("GenerateHexID() = %q, %q", a, b)
	}
	id, err := GenerateUUID()
	if err != nil || len(id) != 36 {
		t.Errorf("GenerateUUID() = %q, %v", id, err)
	}
}

func TestReadFileLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# comment\r\nalpha\r\n\n  beta  \n#skip\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadFileLines(path)
	if err != nil {
		t.Fatalf("ReadFileLines() error = %v", err)
	}
	if len(lines) != 2 || lines[0] != "alpha" || lines[1] != "beta" {
		t.Errorf("ReadFileLines() = %v", lines)
	}

	if _, err := ReadFileLines(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("ReadFileLines() expected error for missing file")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "report.pdf", want: "report.pdf"},
		{input: "../../etc/passwd", want: "passwd"},
		{input: "C:\\temp\\a b.txt", want: "a_b.txt"},
		{input: ".hidden", want: "hidden"},
		{input: "报告.docx", want: "报告.docx"},
		{input: "..", want: "file"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.input); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if got := FileExtension("Archive.TAR.GZ"); got != "gz" {
		t.Errorf("FileExtension() = %q", got)
	}
}
