package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weisyn/originverifier/internal/app"
	"github.com/weisyn/originverifier/internal/app/version"
)

var rootCmd = &cobra.Command{
	Use:   "originverifier",
	Short: "原产地声明验证节点",
	Long: `originverifier - 产品原产地声明的登记、验证与费用结算

声明提交时锁定验证费；授权验证人或后台调度器裁决后结算。
跨链声明通过投递通道发送到对端链，结果到达或超时后结算。`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "启动验证节点",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []app.Option
		if path := viper.GetString("config"); path != "" {
			opts = append(opts, app.WithConfigFile(path))
		}
		if viper.GetBool("no-api") {
			opts = append(opts, app.WithoutAPI())
		}

		spinner, _ := pterm.DefaultSpinner.WithText("正在启动验证节点...").Start()
		node, err := app.Start(opts...)
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Success("验证节点已启动，按 Ctrl+C 停止")

		node.Wait()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetFullVersion())
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "配置文件路径 (JSON/YAML)")
	runCmd.Flags().Bool("no-api", false, "不启动HTTP API")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("no-api", runCmd.Flags().Lookup("no-api"))
	viper.SetEnvPrefix(app.EnvPrefix)
	_ = viper.BindEnv("config")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}
