package session

import (
	"context"

	"github.com/google/uuid"

	"PosFM/core/auth"
	"PosFM/logger"
)

// Binder 把认证状态变化翻译成会话生命周期：登录时建立服务端会话，
// 登出时销毁。视图层只需关心认证状态，不直接操作会话存储。
type Binder struct {
	store Store
	sid   string
}

// BindAuth 订阅认证状态并返回Binder。Binder持有当前会话ID，
// 供客户端把它写进Cookie。
func BindAuth(state *auth.State, store Store) *Binder {
	b := &Binder{store: store}
	state.OnChange(func(principalID string) {
		ctx := context.Background()
		if principalID == "" {
			if b.sid != "" {
				if err := store.Destroy(ctx, b.sid); err != nil {
					logger.Error("[Session] 登出销毁会话失败", logger.ErrorField(err))
				}
				b.sid = ""
			}
			return
		}

		sid := uuid.New().String()
		if err := store.Create(ctx, sid, principalID); err != nil {
			logger.Error("[Session] 登录建立会话失败",
				logger.String("principalId", principalID),
				logger.ErrorField(err))
			return
		}
		b.sid = sid
	})
	return b
}

// SID 返回当前会话ID，未登录时为空串
func (b *Binder) SID() string {
	return b.sid
}
