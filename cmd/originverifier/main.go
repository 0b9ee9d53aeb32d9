// originverifier 原产地声明验证节点
//
// 📋 子命令：
//   - run      启动节点（HTTP API + 调度驱动）
//   - inspect  离线查看 Badger 状态镜像
//   - version  显示版本信息
package main

func main() {
	Execute()
}
