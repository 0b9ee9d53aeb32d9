package config

import (
	"errors"
	"fmt"

	"github.com/weisyn/originverifier/internal/config/delivery"
	"github.com/weisyn/originverifier/internal/config/origin"
	"github.com/weisyn/originverifier/internal/config/storage/badger"
	"github.com/weisyn/originverifier/pkg/interfaces/config"
)

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置验证失败 [%s]: %s", e.Field, e.Message)
}

// ValidateConfig 验证合并后的配置
//
// 返回所有分区的错误（errors.Join），便于一次性修正配置文件。
func ValidateConfig(provider config.Provider) error {
	var errs []error

	if err := origin.NewFromOptions(provider.GetOrigin()).Validate(); err != nil {
		errs = append(errs, &ValidationError{Field: "origin", Message: err.Error()})
	}

	if err := badger.NewFromOptions(provider.GetBadger()).Validate(); err != nil {
		errs = append(errs, &ValidationError{Field: "storage", Message: err.Error()})
	}

	deliveryCfg := delivery.New(provider.GetAppConfig().Delivery)
	if err := deliveryCfg.Validate(); err != nil {
		errs = append(errs, &ValidationError{Field: "delivery", Message: err.Error()})
	}

	api := provider.GetAPI()
	if api.HTTP.Enabled && (api.HTTP.Port <= 0 || api.HTTP.Port > 65535) {
		errs = append(errs, &ValidationError{
			Field:   "api.port",
			Message: fmt.Sprintf("端口超出范围: %d", api.HTTP.Port),
		})
	}

	return errors.Join(errs...)
}
