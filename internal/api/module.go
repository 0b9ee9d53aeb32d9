package api

import (
	"go.uber.org/fx"

	"github.com/weisyn/originverifier/internal/api/http"
)

// Module 返回API模块选项
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),
	)
}
