package http

import (
	"go.uber.org/fx"

	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
)

// Module 返回HTTP服务模块
func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewServer),

		// 确保HTTP服务器被实例化并注册生命周期
		fx.Invoke(func(server *Server, logger log.Logger) {
			if server != nil {
				logger.Info("HTTP API模块加载")
			}
		}),
	)
}
