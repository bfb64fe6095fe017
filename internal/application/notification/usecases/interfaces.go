package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/setting"
)

// Notifier creates and delivers a notification; false means nothing was created.
type Notifier interface {
	Notify(ctx context.Context, to dto.Recipient, msg dto.Message) bool
}

// SettingReader reads runtime switches stored in system settings.
type SettingReader interface {
	GetByKey(ctx context.Context, key string) (*setting.Setting, error)
}
