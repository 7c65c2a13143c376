package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	applog "github.com/taskboard/backend/internal/infrastructure/log"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigFile 配置文件路径环境变量
	EnvConfigFile = "TASKS_CONFIG"
	// EnvHTTPPort HTTP 端口环境变量
	EnvHTTPPort = "TASKS_HTTP_PORT"
	// EnvDataFile 任务文档路径环境变量
	EnvDataFile = "TASKS_DATA_FILE"
	// EnvLockWrites 是否串行化写入
	EnvLockWrites = "TASKS_LOCK_WRITES"

	// DefaultHTTPPort 默认监听端口
	DefaultHTTPPort = ":3001"
	// DefaultDataFileName 默认任务文档文件名
	DefaultDataFileName = "tasks.json"
	// DefaultConfigFileName 数据目录下的默认配置文件名
	DefaultConfigFileName = "config.yaml"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Log       applog.Config   `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"`
}

// StorageConfig 任务文档存储配置
type StorageConfig struct {
	// DataFile 任务文档 JSON 文件路径
	DataFile string `yaml:"data_file"`

	// LockWrites 为 true 时用文件锁串行化 读-改-写，默认 false（后写覆盖）
	LockWrites bool `yaml:"lock_writes"`

	// Watch 是否监听文档变更并推送给 WebSocket 客户端
	Watch bool `yaml:"watch"`
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
		Storage: StorageConfig{
			DataFile:   filepath.Join(GetDataDir(), DefaultDataFileName),
			LockWrites: false,
			Watch:      true,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Log: *applog.NewConfigFromEnv(),
	}
}

// NewConfig 创建配置：默认值 <- 配置文件 <- 环境变量
// 配置文件不存在时忽略，格式错误时返回错误
func NewConfig() (*Config, error) {
	cfg := Default()

	path := os.Getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(GetDataDir(), DefaultConfigFileName)
	}

	if err := cfg.loadFile(path); err != nil && (explicit || !os.IsNotExist(err)) {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// loadFile 从 YAML 文件覆盖配置
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv 环境变量覆盖
func (c *Config) applyEnv() {
	if port := os.Getenv(EnvHTTPPort); port != "" {
		c.Server.HTTPPort = NormalizePort(port)
	}
	if file := os.Getenv(EnvDataFile); file != "" {
		c.Storage.DataFile = file
	}
	if v := os.Getenv(EnvLockWrites); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.LockWrites = b
		}
	}
	c.Server.HTTPPort = NormalizePort(c.Server.HTTPPort)
	c.Storage.DataFile = ExpandPath(c.Storage.DataFile)
}

// NormalizePort 允许写成 "3001" 或 ":3001"
func NormalizePort(port string) string {
	if port == "" {
		return DefaultHTTPPort
	}
	if _, err := strconv.Atoi(port); err == nil {
		return ":" + port
	}
	return port
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewStorageConfig 创建存储配置
func NewStorageConfig(cfg *Config) *StorageConfig {
	return &cfg.Storage
}

// NewWebSocketConfig 创建 WebSocket 配置
func NewWebSocketConfig(cfg *Config) *WebSocketConfig {
	return &cfg.WebSocket
}
