package model

import "time"

// ServerSession is the server-held fact that a browser session belongs to
// an authenticated principal. Absence of a session (and of a valid fallback
// token) is the sole condition under which the stream gateway refuses service.
type ServerSession struct {
	PrincipalID string    `json:"principalId"`
	CreatedAt   time.Time `json:"createdAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"` // 最近一次活动时间，滑动窗口依据
}
