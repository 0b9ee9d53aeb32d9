// Package app 负责装配并运行原产地声明验证节点
//
// 🏗️ 分层装配：
//   - 基础设施层：配置、日志、逻辑时钟
//   - 通信与数据层：事件总线、Badger 镜像
//   - 业务逻辑层：origin 服务与调度驱动
//   - 应用层：HTTP API（可关闭）
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// App 对外暴露的应用接口
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 阻塞直到收到退出信号，然后停止应用
	Wait()
}

type internalApp struct {
	bootstrap *Bootstrap
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	sig := <-signals
	fmt.Printf("\n🛑 收到信号 %v，正在退出...\n", sig)

	if err := a.Stop(); err != nil {
		fmt.Printf("⚠️ 停止应用时出错: %v\n", err)
	}
}

// Start 加载配置并启动应用
//
// 未通过 WithAppConfig 传入配置时，从 configFilePath 与 ORIGIN_* 环境变量加载。
func Start(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)
	if opts.appConfig == nil {
		cfg, err := LoadAppConfig(opts.configFilePath)
		if err != nil {
			return nil, err
		}
		opts.appConfig = cfg
	}
	return BootstrapApp(opts)
}
