// Package version provides version information for the application.
package version

import (
	"fmt"
	"runtime"
)

// 构建时通过 ldflags 注入
var (
	Version   = "v0.1.0"
	Commit    = "unknown"
	BuildTime = "unknown" // RFC3339
	BuildEnv  = "development"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	BuildEnv  string `json:"build_env"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersion 获取版本号
func GetVersion() string {
	return Version
}

// GetBuildInfo 获取完整构建信息
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		BuildEnv:  BuildEnv,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetFullVersion 获取多行版本描述（用于 version 命令）
func GetFullVersion() string {
	info := GetBuildInfo()
	return fmt.Sprintf("originverifier %s\n提交: %s\n构建时间: %s\n构建环境: %s\nGo版本: %s\n平台: %s",
		info.Version, info.Commit, info.BuildTime, info.BuildEnv, info.GoVersion, info.Platform)
}
