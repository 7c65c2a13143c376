package config

import "github.com/google/wire"

// ProviderSet 配置 ProviderSet，*Config 由调用方注入
var ProviderSet = wire.NewSet(
	NewServerConfig,
	NewStorageConfig,
	NewWebSocketConfig,
)
