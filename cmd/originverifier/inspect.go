package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weisyn/originverifier/internal/api/format"
	"github.com/weisyn/originverifier/internal/app"
	"github.com/weisyn/originverifier/internal/config"
	badgerconfig "github.com/weisyn/originverifier/internal/config/storage/badger"
	"github.com/weisyn/originverifier/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/originverifier/internal/core/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "离线查看状态镜像（节点需已停止）",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadAppConfig(viper.GetString("config"))
		if err != nil {
			return err
		}
		storeCfg := badgerconfig.NewFromOptions(config.NewProvider(cfg).GetBadger())
		if storeCfg.IsInMemory() || storeCfg.IsDisabled() {
			return fmt.Errorf("当前配置未启用磁盘镜像")
		}

		store, err := badger.OpenReadOnly(storeCfg, nil)
		if err != nil {
			return fmt.Errorf("打开状态镜像失败: %w", err)
		}
		defer store.Close()

		mirror, err := origin.ReadMirror(context.Background(), store)
		if err != nil {
			return err
		}
		if mirror == nil {
			pterm.Warning.Printfln("%s 下没有状态镜像", storeCfg.GetPath())
			return nil
		}
		renderMirror(mirror)
		return nil
	},
}

func renderMirror(m *origin.Mirror) {
	pterm.DefaultSection.Printfln("状态镜像 (区块 %d)", m.Now)

	products := pterm.TableData{{"产品", "所有者", "原产国", "已验证", "启用", "声明数"}}
	for _, p := range m.Products {
		products = append(products, []string{
			string(p.ID),
			format.AccountToBase58(p.Owner),
			p.OriginCountry,
			strconv.FormatBool(p.OriginVerified),
			strconv.FormatBool(p.Active),
			strconv.Itoa(len(m.Claims[p.ID])),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader(true).WithData(products).Render()

	claims := pterm.TableData{{"产品", "声明", "类型", "状态", "费用", "跨链", "提交者"}}
	for _, p := range m.Products {
		for _, c := range m.Claims[p.ID] {
			claims = append(claims, []string{
				string(c.ProductID),
				string(c.ID),
				c.Type.String(),
				c.Status.String(),
				strconv.FormatUint(uint64(c.Fee), 10),
				strconv.FormatBool(c.IsCrossChain),
				format.AccountToBase58(c.Submitter),
			})
		}
	}
	if len(claims) > 1 {
		pterm.DefaultSection.Println("声明")
		_ = pterm.DefaultTable.WithHasHeader(true).WithData(claims).Render()
	}

	ids := make([]types.AccountID, 0, len(m.Accounts))
	for id := range m.Accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	accounts := pterm.TableData{{"账户", "可用", "锁定"}}
	for _, id := range ids {
		b := m.Accounts[id]
		accounts = append(accounts, []string{
			format.AccountToBase58(id),
			strconv.FormatUint(uint64(b.Free), 10),
			strconv.FormatUint(uint64(b.Reserved), 10),
		})
	}
	pterm.DefaultSection.Println("账户")
	_ = pterm.DefaultTable.WithHasHeader(true).WithData(accounts).Render()
}
