package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// GlobalConfig 全局配置实例(仅供cmd入口使用，各组件通过构造函数接收配置)
	GlobalConfig *Config
)

// LoadConfig 加载配置文件
// configPath: 配置文件目录，如果为空则使用默认路径
// env: 环境标识，支持 development, test, production
func LoadConfig(configPath, env string) (*Config, error) {
	// 设置默认环境
	if env == "" {
		env = getEnvFromEnvironment()
	}

	// 创建viper实例
	v := viper.New()

	// 设置配置文件类型
	v.SetConfigType("yaml")

	// 设置配置文件路径
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	// 根据环境选择配置文件
	configFile := getConfigFileName(configPath, env)
	v.SetConfigFile(configFile)

	// 设置环境变量前缀
	v.SetEnvPrefix("NEOADMIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 默认值
	setDefaults(v)

	// 绑定环境变量
	bindEnvironmentVariables(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	// 解析配置到结构体
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 设置全局配置
	GlobalConfig = &config

	return &config, nil
}

// getEnvFromEnvironment 从环境变量获取环境标识
func getEnvFromEnvironment() string {
	env := os.Getenv("NEOADMIN_ENV")
	if env == "" {
		env = os.Getenv("GO_ENV")
	}
	if env == "" {
		env = "development" // 默认开发环境
	}
	return env
}

// getDefaultConfigPath 获取默认配置文件路径
func getDefaultConfigPath() string {
	if configPath := os.Getenv("NEOADMIN_CONFIG_PATH"); configPath != "" {
		return configPath
	}
	return "configs"
}

// getConfigFileName 根据环境获取配置文件名
func getConfigFileName(configPath, env string) string {
	var configFile string

	switch env {
	case "production", "prod":
		configFile = filepath.Join(configPath, "config.prod.yaml")
	case "test", "testing":
		configFile = filepath.Join(configPath, "config.test.yaml")
	default:
		configFile = filepath.Join(configPath, "config.yaml")
	}

	// 检查文件是否存在，如果不存在则使用默认配置文件
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		defaultConfig := filepath.Join(configPath, "config.yaml")
		if _, err := os.Stat(defaultConfig); err == nil {
			return defaultConfig
		}
	}

	return configFile
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 9999)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.driver", "mysql")

	v.SetDefault("security.jwt.issuer", "neoadmin")
	v.SetDefault("security.jwt.access_token_expire", 4*time.Hour)
	v.SetDefault("security.jwt.refresh_token_expire", 7*24*time.Hour)
	v.SetDefault("security.auth_rate_limit.enabled", true)
	v.SetDefault("security.auth_rate_limit.login_per_minute", 5)
	v.SetDefault("security.auth_rate_limit.refresh_per_minute", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("upload.max_size", int64(500*1024*1024))
	v.SetDefault("upload.upload_path", "uploads")

	v.SetDefault("sensitive.response_message", "您的输入包含敏感内容，请修改后重试")

	v.SetDefault("cache.ttl", 300*time.Second)
	v.SetDefault("cache.prefix", "neoadmin")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.methods", []string{"GET", "POST", "PUT", "DELETE"})
	v.SetDefault("audit.exclude_paths", []string{"^/api/v1/base/access_token$", "^/docs", "^/openapi.json"})
	v.SetDefault("audit.max_response_body", 1024*1024)

	v.SetDefault("superuser.username", "admin")
	v.SetDefault("superuser.email", "admin@admin.com")
	v.SetDefault("superuser.default_reset_password", "123456")

	v.SetDefault("app.name", "neoadmin")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")
}

// bindEnvironmentVariables 绑定环境变量
func bindEnvironmentVariables(v *viper.Viper) {
	// 数据库配置
	v.BindEnv("database.mysql.host", "NEOADMIN_MYSQL_HOST")
	v.BindEnv("database.mysql.port", "NEOADMIN_MYSQL_PORT")
	v.BindEnv("database.mysql.username", "NEOADMIN_MYSQL_USERNAME")
	v.BindEnv("database.mysql.password", "NEOADMIN_MYSQL_PASSWORD")
	v.BindEnv("database.mysql.database", "NEOADMIN_MYSQL_DATABASE")

	v.BindEnv("database.redis.host", "NEOADMIN_REDIS_HOST")
	v.BindEnv("database.redis.port", "NEOADMIN_REDIS_PORT")
	v.BindEnv("database.redis.password", "NEOADMIN_REDIS_PASSWORD")
	v.BindEnv("database.redis.database", "NEOADMIN_REDIS_DATABASE")

	// JWT配置
	v.BindEnv("security.jwt.secret", "NEOADMIN_JWT_SECRET")
	v.BindEnv("security.jwt.access_token_expire", "NEOADMIN_JWT_ACCESS_TOKEN_EXPIRE")
	v.BindEnv("security.jwt.refresh_token_expire", "NEOADMIN_JWT_REFRESH_TOKEN_EXPIRE")

	// 超级管理员
	v.BindEnv("superuser.password", "NEOADMIN_SUPERUSER_PASSWORD")

	// 服务器配置
	v.BindEnv("server.host", "NEOADMIN_SERVER_HOST")
	v.BindEnv("server.port", "NEOADMIN_SERVER_PORT")
	v.BindEnv("server.mode", "NEOADMIN_SERVER_MODE")

	// 应用配置
	v.BindEnv("app.environment", "NEOADMIN_APP_ENVIRONMENT")
	v.BindEnv("app.debug", "NEOADMIN_APP_DEBUG")
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	// 验证服务器配置
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Server.Mode != "debug" && config.Server.Mode != "release" && config.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s", config.Server.Mode)
	}

	// 验证数据库配置
	switch config.Database.Driver {
	case "mysql":
		if config.Database.MySQL.Host == "" {
			return fmt.Errorf("mysql host is required")
		}
		if config.Database.MySQL.Database == "" {
			return fmt.Errorf("mysql database name is required")
		}
	case "sqlite":
		if config.Database.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("invalid database driver: %s", config.Database.Driver)
	}

	if config.Database.Redis.Enabled && config.Database.Redis.Host == "" {
		return fmt.Errorf("redis host is required")
	}

	// 验证JWT配置
	if config.Security.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	if len(config.Security.JWT.Secret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters long")
	}

	if config.Security.JWT.AccessTokenExpire <= 0 || config.Security.JWT.RefreshTokenExpire <= 0 {
		return fmt.Errorf("jwt token expire must be positive")
	}

	// 验证日志配置
	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, config.Log.Level) {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, config.Log.Format) {
		return fmt.Errorf("invalid log format: %s", config.Log.Format)
	}

	validLogOutputs := []string{"stdout", "stderr", "file"}
	if !contains(validLogOutputs, config.Log.Output) {
		return fmt.Errorf("invalid log output: %s", config.Log.Output)
	}

	// 如果日志输出到文件，验证文件路径
	if config.Log.Output == "file" && config.Log.FilePath == "" {
		return fmt.Errorf("log file path is required when output is file")
	}

	if config.Upload.MaxSize <= 0 {
		return fmt.Errorf("upload max_size must be positive")
	}

	for _, p := range config.Audit.ExcludePaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("audit exclude path cannot be empty")
		}
	}

	if config.App.IsProduction() {
		return validateProduction(config)
	}

	return nil
}

// validateProduction 生产环境额外校验
func validateProduction(config *Config) error {
	if config.App.Debug {
		return fmt.Errorf("debug must be disabled in production")
	}

	for _, origin := range config.Security.CORS.AllowOrigins {
		if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
			return fmt.Errorf("localhost cors origin is not allowed in production: %s", origin)
		}
	}

	if config.Database.Driver == "mysql" && config.Database.MySQL.Password == "" {
		return fmt.Errorf("mysql password is required in production")
	}

	return nil
}

// contains 检查切片是否包含指定元素
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return GlobalConfig
}

// MustLoadConfig 加载配置，如果失败则panic
func MustLoadConfig(configPath, env string) *Config {
	config, err := LoadConfig(configPath, env)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	return config
}
