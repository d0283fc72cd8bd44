package auth

import "sync"

// State 进程内的当前登录主体。外部认证方（登录接口）写入，
// 订阅者（会话生命周期、视图）通过回调观察变化。
type State struct {
	mu        sync.Mutex
	principal string
	watchers  []func(principalID string)
}

// NewState 创建未登录的认证状态
func NewState() *State {
	return &State{}
}

// SignIn 记录主体登录并通知订阅者
func (s *State) SignIn(principalID string) {
	s.mu.Lock()
	s.principal = principalID
	watchers := append([]func(string){}, s.watchers...)
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(principalID)
	}
}

// SignOut 清除登录主体并以空串通知订阅者
func (s *State) SignOut() {
	s.mu.Lock()
	s.principal = ""
	watchers := append([]func(string){}, s.watchers...)
	s.mu.Unlock()

	for _, fn := range watchers {
		fn("")
	}
}

// CurrentPrincipal 返回当前主体，未登录时ok为false
func (s *State) CurrentPrincipal() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal, s.principal != ""
}

// OnChange 订阅登录状态变化。登录时回调收到主体ID，登出时收到空串。
func (s *State) OnChange(fn func(principalID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}
