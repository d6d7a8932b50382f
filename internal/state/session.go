package state

import (
	"context"
	"time"

	"github.com/umedzhan/agromarket/internal/api"
	"github.com/umedzhan/agromarket/internal/constants"
	"github.com/umedzhan/agromarket/internal/logger"
	"github.com/umedzhan/agromarket/internal/models"
	"github.com/umedzhan/agromarket/internal/notify"
	"github.com/umedzhan/agromarket/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

// Session 会话状态：持有当前用户主体及其生命周期。
// 所有状态组件都运行在单一事件线程上，不做并发访问（与存储层的约定一致）。
type Session struct {
	store     store.Store
	apiClient *api.Client
	notifier  notify.Notifier

	principal *models.Principal
	loading   bool
	listeners []func(*models.Principal)
}

// NewSession 创建会话状态，Initialize 执行前 loading 为 true
func NewSession(s store.Store, apiClient *api.Client, notifier notify.Notifier) *Session {
	return &Session{
		store:     s,
		apiClient: apiClient,
		notifier:  notifier,
		loading:   true,
	}
}

// Initialize 从存储恢复会话，进程启动时执行且仅执行一次。
// 已过期的 token 视同未登录，避免带着失效凭证访问后端。
func (s *Session) Initialize() {
	defer func() { s.loading = false }()

	var principal models.Principal
	if !s.store.Get(constants.StorageKeyUserInfo, &principal) {
		return
	}
	if !principal.Valid() {
		logger.Debugw("session_restore_invalid_principal")
		return
	}
	if tokenExpired(principal.Token) {
		logger.Infow("session_restore_token_expired", "user_id", principal.ID)
		if err := s.store.Remove(constants.StorageKeyUserInfo); err != nil {
			logger.Warnw("session_remove_expired_failed", "error", err)
		}
		return
	}
	s.principal = &principal
	s.fireChange()
}

// Login 登录；失败时通知错误并保持状态不变，从不向调用方抛出错误
func (s *Session) Login(ctx context.Context, email, password string) bool {
	principal, err := s.apiClient.Login(ctx, email, password)
	if err != nil {
		s.notifier.Error(api.Message(err))
		return false
	}
	s.adopt(principal)
	s.notifier.Success("Login successful!")
	return true
}

// Register 注册，语义与 Login 对称
func (s *Session) Register(ctx context.Context, name, email, password string) bool {
	principal, err := s.apiClient.Register(ctx, name, email, password)
	if err != nil {
		s.notifier.Error(api.Message(err))
		return false
	}
	s.adopt(principal)
	s.notifier.Success("Registration successful!")
	return true
}

// UpdateProfile 原地更新用户资料并重新持久化；
// 后端响应缺省 token 时沿用现有 token，不强制重新登录
func (s *Session) UpdateProfile(ctx context.Context, name, email, password string) bool {
	if !s.Authenticated() {
		s.notifier.Error("Please login first")
		return false
	}
	current := s.principal
	updated, err := s.apiClient.UpdateProfile(ctx, current.Token, current.ID, name, email, password)
	if err != nil {
		s.notifier.Error(api.Message(err))
		return false
	}
	if updated.Token == "" {
		updated.Token = current.Token
	}
	s.adopt(updated)
	s.notifier.Success("Profile updated")
	return true
}

// Logout 清除持久化主体并无条件转为未登录，从不失败
func (s *Session) Logout() {
	if err := s.store.Remove(constants.StorageKeyUserInfo); err != nil {
		logger.Warnw("session_remove_failed", "error", err)
	}
	s.principal = nil
	s.fireChange()
	s.notifier.Success("Logged out")
}

// Current 返回当前主体，未登录时为 nil
func (s *Session) Current() *models.Principal {
	return s.principal
}

// Authenticated 判断是否已登录
func (s *Session) Authenticated() bool {
	return s.principal != nil
}

// Loading 返回初始化窗口标志；为 true 时未登录状态不可作为最终结论
func (s *Session) Loading() bool {
	return s.loading
}

// Token 返回当前认证 token，未登录时为空串
func (s *Session) Token() string {
	if s.principal == nil {
		return ""
	}
	return s.principal.Token
}

// OnChange 注册主体变更监听（登录、登出、资料更新均触发）
func (s *Session) OnChange(fn func(*models.Principal)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) adopt(principal *models.Principal) {
	s.principal = principal
	if err := s.store.Set(constants.StorageKeyUserInfo, principal); err != nil {
		logger.Warnw("session_persist_failed", "error", err)
	}
	s.fireChange()
}

func (s *Session) fireChange() {
	for _, fn := range s.listeners {
		fn(s.principal)
	}
}

// tokenExpired 解析 token 的 exp 声明（不校验签名，签名由后端负责）。
// 非 JWT 格式或没有 exp 声明的 token 一律放行，由后端裁决。
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
