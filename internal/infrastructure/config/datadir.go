package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "TASKS_DATA_DIR"
	// DefaultDataDirName 默认数据目录名（位于用户主目录下）
	DefaultDataDirName = ".tasks"
)

var (
	dataDirOnce sync.Once
	dataDirPath string
)

// GetDataDir 返回任务文档和配置文件所在目录
// TASKS_DATA_DIR 优先，支持 ~ 前缀；默认 ~/.tasks，取不到主目录时用当前目录下的 .tasks
func GetDataDir() string {
	dataDirOnce.Do(func() {
		dataDirPath = resolveDataDir(os.Getenv(EnvDataDir))
	})
	return dataDirPath
}

func resolveDataDir(fromEnv string) string {
	if fromEnv != "" {
		return ExpandPath(fromEnv)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, DefaultDataDirName)
	}
	return DefaultDataDirName
}

// ExpandPath 展开 ~ 前缀并清理路径，空串原样返回
// 配置文件、环境变量和命令行里的 data_file 都经过这里
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(path)
}

// ResetDataDir 重置数据目录缓存（仅用于测试）
func ResetDataDir() {
	dataDirOnce = sync.Once{}
	dataDirPath = ""
}
