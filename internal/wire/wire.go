//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
	"github.com/taskboard/backend/internal/infrastructure"
	"github.com/taskboard/backend/internal/infrastructure/config"
	"github.com/taskboard/backend/internal/interfaces"
)

// InitializeAll 按配置组装应用
func InitializeAll(cfg *config.Config) (*App, error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		interfaces.ProviderSet,     // 接口层
		NewApp,                     // 组合所有服务的应用结构
	)
	return nil, nil
}
