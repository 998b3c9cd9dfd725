package config

import (
	"fmt"
	"time"
)

// Config 应用配置结构体 [这里的字段和配置文件中一级字段保持一致，否则会没有值]
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`       // 服务器配置
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`   // 数据库配置
	Log       LogConfig       `yaml:"log" mapstructure:"log"`             // 日志配置
	Security  SecurityConfig  `yaml:"security" mapstructure:"security"`   // 安全配置
	Upload    UploadConfig    `yaml:"upload" mapstructure:"upload"`       // 文件上传配置
	Sensitive SensitiveConfig `yaml:"sensitive" mapstructure:"sensitive"` // 敏感词过滤配置
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`         // 缓存配置
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`         // 审计日志配置
	Superuser SuperuserConfig `yaml:"superuser" mapstructure:"superuser"` // 初始超级管理员配置
	App       AppConfig       `yaml:"app" mapstructure:"app"`             // 应用配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string        `yaml:"host" mapstructure:"host"`                         // 服务器主机地址
	Port           int           `yaml:"port" mapstructure:"port"`                         // 服务器端口
	Mode           string        `yaml:"mode" mapstructure:"mode"`                         // 运行模式: debug, release, test
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`         // 读取超时时间
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`       // 写入超时时间
	IdleTimeout    time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`         // 空闲超时时间
	MaxHeaderBytes int           `yaml:"max_header_bytes" mapstructure:"max_header_bytes"` // 最大请求头字节数
	TLS            bool          `yaml:"tls" mapstructure:"tls"`                           // 是否处于HTTPS之后(决定是否下发HSTS)
	TrustedProxies []string      `yaml:"trusted_proxies" mapstructure:"trusted_proxies"`   // 可信代理(IP或CIDR)，为空时不信任任何转发头
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string       `yaml:"driver" mapstructure:"driver"` // 数据库驱动: mysql, sqlite
	MySQL  MySQLConfig  `yaml:"mysql" mapstructure:"mysql"`   // MySQL配置
	SQLite SQLiteConfig `yaml:"sqlite" mapstructure:"sqlite"` // SQLite配置(本地开发)
	Redis  RedisConfig  `yaml:"redis" mapstructure:"redis"`   // Redis配置
}

// SQLiteConfig SQLite配置
type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // 数据库文件路径，:memory: 为内存库
}

// MySQLConfig MySQL数据库配置
type MySQLConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`                             // 数据库主机
	Port            int           `yaml:"port" mapstructure:"port"`                             // 数据库端口
	Username        string        `yaml:"username" mapstructure:"username"`                     // 用户名
	Password        string        `yaml:"password" mapstructure:"password"`                     // 密码
	Database        string        `yaml:"database" mapstructure:"database"`                     // 数据库名
	Charset         string        `yaml:"charset" mapstructure:"charset"`                       // 字符集
	ParseTime       bool          `yaml:"parse_time" mapstructure:"parse_time"`                 // 是否解析时间
	Loc             string        `yaml:"loc" mapstructure:"loc"`                               // 时区
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`         // 最大空闲连接数
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`         // 最大打开连接数
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`   // 连接最大生存时间
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"` // 连接最大空闲时间
	LogLevel        string        `yaml:"log_level" mapstructure:"log_level"`                   // 日志级别
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`               // 是否启用Redis(关闭时缓存降级为直查)
	Host         string        `yaml:"host" mapstructure:"host"`                     // Redis主机
	Port         int           `yaml:"port" mapstructure:"port"`                     // Redis端口
	Password     string        `yaml:"password" mapstructure:"password"`             // Redis密码
	Database     int           `yaml:"database" mapstructure:"database"`             // Redis数据库索引
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`           // 连接池大小
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"` // 最小空闲连接数
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`     // 连接超时
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`     // 读取超时
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`   // 写入超时
	PoolTimeout  time.Duration `yaml:"pool_timeout" mapstructure:"pool_timeout"`     // 连接池超时
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`     // 空闲超时
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`             // 日志级别
	Format     string `yaml:"format" mapstructure:"format"`           // 日志格式: json, text
	Output     string `yaml:"output" mapstructure:"output"`           // 输出方式: stdout, stderr, file
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`     // 日志文件路径
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // 单个日志文件最大大小(MB)
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // 保留的日志文件数量
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // 是否压缩日志文件
	Caller     bool   `yaml:"caller" mapstructure:"caller"`           // 是否显示调用者信息
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWT           JWTConfig       `yaml:"jwt" mapstructure:"jwt"`                         // JWT配置
	CORS          CORSConfig      `yaml:"cors" mapstructure:"cors"`                       // CORS配置
	RateLimit     RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`           // 全局限流配置
	AuthRateLimit AuthRateLimit   `yaml:"auth_rate_limit" mapstructure:"auth_rate_limit"` // 登录/刷新接口限流配置
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret             string        `yaml:"secret" mapstructure:"secret"`                             // JWT密钥
	Issuer             string        `yaml:"issuer" mapstructure:"issuer"`                             // 签发者
	AccessTokenExpire  time.Duration `yaml:"access_token_expire" mapstructure:"access_token_expire"`   // 访问令牌过期时间
	RefreshTokenExpire time.Duration `yaml:"refresh_token_expire" mapstructure:"refresh_token_expire"` // 刷新令牌过期时间
}

// CORSConfig CORS配置
type CORSConfig struct {
	Enabled          bool          `yaml:"enabled" mapstructure:"enabled"`                     // 是否启用CORS
	AllowOrigins     []string      `yaml:"allow_origins" mapstructure:"allow_origins"`         // 允许的源
	AllowMethods     []string      `yaml:"allow_methods" mapstructure:"allow_methods"`         // 允许的方法
	AllowHeaders     []string      `yaml:"allow_headers" mapstructure:"allow_headers"`         // 允许的请求头
	ExposeHeaders    []string      `yaml:"expose_headers" mapstructure:"expose_headers"`       // 暴露的响应头
	AllowCredentials bool          `yaml:"allow_credentials" mapstructure:"allow_credentials"` // 是否允许凭证
	MaxAge           time.Duration `yaml:"max_age" mapstructure:"max_age"`                     // 预检请求缓存时间
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool     `yaml:"enabled" mapstructure:"enabled"`                         // 是否启用限流
	RequestsPerSecond int      `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 每秒请求数限制
	BurstSize         int      `yaml:"burst_size" mapstructure:"burst_size"`                   // 突发请求数
	StatusCode        int      `yaml:"status_code" mapstructure:"status_code"`                 // 限流时返回的状态码
	Message           string   `yaml:"message" mapstructure:"message"`                         // 限流时返回的消息
	SkipPaths         []string `yaml:"skip_paths" mapstructure:"skip_paths"`                   // 跳过限流的路径
	SkipIPs           []string `yaml:"skip_ips" mapstructure:"skip_ips"`                       // 跳过限流的IP
}

// AuthRateLimit 认证接口限流(每分钟次数)
type AuthRateLimit struct {
	Enabled          bool `yaml:"enabled" mapstructure:"enabled"`                       // 是否启用
	LoginPerMinute   int  `yaml:"login_per_minute" mapstructure:"login_per_minute"`     // 登录接口每分钟次数
	RefreshPerMinute int  `yaml:"refresh_per_minute" mapstructure:"refresh_per_minute"` // 刷新接口每分钟次数
}

// UploadConfig 文件上传配置
type UploadConfig struct {
	MaxSize    int64  `yaml:"max_size" mapstructure:"max_size"`       // 最大文件大小(字节)
	UploadPath string `yaml:"upload_path" mapstructure:"upload_path"` // 上传路径
}

// SensitiveConfig 敏感词过滤配置
type SensitiveConfig struct {
	Enabled         bool     `yaml:"enabled" mapstructure:"enabled"`                   // 是否启用
	Words           []string `yaml:"words" mapstructure:"words"`                       // 敏感词列表
	WordsFile       string   `yaml:"words_file" mapstructure:"words_file"`             // 敏感词文件(每行一个，#开头为注释)
	ResponseMessage string   `yaml:"response_message" mapstructure:"response_message"` // 命中后返回的提示
	CheckPaths      []string `yaml:"check_paths" mapstructure:"check_paths"`           // 需要检查输入的路径前缀
}

// CacheConfig 缓存配置
type CacheConfig struct {
	TTL    time.Duration `yaml:"ttl" mapstructure:"ttl"`       // 默认过期时间
	Prefix string        `yaml:"prefix" mapstructure:"prefix"` // 全局key前缀
}

// AuditConfig 审计日志配置
type AuditConfig struct {
	Enabled         bool     `yaml:"enabled" mapstructure:"enabled"`                     // 是否启用
	Methods         []string `yaml:"methods" mapstructure:"methods"`                     // 记录的HTTP方法
	ExcludePaths    []string `yaml:"exclude_paths" mapstructure:"exclude_paths"`         // 排除的路径(正则)
	MaxResponseBody int      `yaml:"max_response_body" mapstructure:"max_response_body"` // 响应体记录上限(字节)
}

// SuperuserConfig 初始超级管理员
type SuperuserConfig struct {
	Username             string `yaml:"username" mapstructure:"username"`                             // 用户名
	Email                string `yaml:"email" mapstructure:"email"`                                   // 邮箱
	Password             string `yaml:"password" mapstructure:"password"`                             // 初始密码
	DefaultResetPassword string `yaml:"default_reset_password" mapstructure:"default_reset_password"` // 重置密码时使用的默认密码
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`               // 应用名称
	Version     string `yaml:"version" mapstructure:"version"`         // 应用版本
	Environment string `yaml:"environment" mapstructure:"environment"` // 运行环境
	Debug       bool   `yaml:"debug" mapstructure:"debug"`             // 是否调试模式(错误信息附带细节)
	Timezone    string `yaml:"timezone" mapstructure:"timezone"`       // 时区
}

// GetAddress 获取服务器完整地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment 判断是否为开发环境
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction 判断是否为生产环境
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// IsTest 判断是否为测试环境
func (a *AppConfig) IsTest() bool {
	return a.Environment == "test"
}

// GetMySQLDSN 获取MySQL数据源名称
func (m *MySQLConfig) GetMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		m.Username, m.Password, m.Host, m.Port, m.Database, m.Charset, m.ParseTime, m.Loc)
}

// GetRedisAddress 获取Redis地址
func (r *RedisConfig) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
