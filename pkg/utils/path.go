// Package utils provides path manipulation utility functions.
package utils

import (
	"os"
	"path/filepath"
)

// HomeEnv 数据根目录环境变量
const HomeEnv = "ORIGIN_HOME"

// GetBaseDir 获取相对路径解析的基准目录
// 优先使用 ORIGIN_HOME，其次为当前工作目录
func GetBaseDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// ResolveDataPath 解析数据目录路径为绝对路径
// 如果path已经是绝对路径，直接返回
func ResolveDataPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(GetBaseDir(), path)
}
