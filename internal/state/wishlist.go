package state

import (
	"context"

	"github.com/umedzhan/agromarket/internal/api"
	"github.com/umedzhan/agromarket/internal/logger"
	"github.com/umedzhan/agromarket/internal/models"
	"github.com/umedzhan/agromarket/internal/notify"
)

// Wishlist 心愿单状态：后端持有权威数据，本地只是读穿缓存。
// 每次 add/remove 都以后端返回的完整列表整体替换本地状态，杜绝漂移；
// 会话身份变化时缓存立即失效。
type Wishlist struct {
	apiClient *api.Client
	session   *Session
	notifier  notify.Notifier

	items   []models.Product
	loading bool
}

// NewWishlist 创建心愿单状态并挂接会话变更监听
func NewWishlist(apiClient *api.Client, session *Session, notifier notify.Notifier) *Wishlist {
	w := &Wishlist{
		apiClient: apiClient,
		session:   session,
		notifier:  notifier,
	}
	session.OnChange(func(principal *models.Principal) {
		if principal == nil {
			// 登出即清空，不发网络请求
			w.items = nil
			return
		}
		if err := w.Fetch(context.Background()); err != nil {
			logger.Warnw("wishlist_refresh_failed", "error", err)
		}
	})
	return w
}

// Fetch 拉取完整心愿单并整体替换本地缓存
func (w *Wishlist) Fetch(ctx context.Context) error {
	if !w.session.Authenticated() {
		w.items = nil
		return nil
	}
	w.loading = true
	defer func() { w.loading = false }()

	items, err := w.apiClient.GetWishlist(ctx, w.session.Token())
	if err != nil {
		return err
	}
	w.items = items
	return nil
}

// Add 加入心愿单；未登录时仅通知错误，不发请求
func (w *Wishlist) Add(ctx context.Context, productID string) {
	if !w.session.Authenticated() {
		w.notifier.Error("Please login to add to wishlist")
		return
	}
	items, err := w.apiClient.AddToWishlist(ctx, w.session.Token(), productID)
	if err != nil {
		w.notifier.Error(api.Message(err))
		return
	}
	w.items = items
	w.notifier.Success("Added to wishlist")
}

// Remove 移出心愿单；未登录时为静默空操作
func (w *Wishlist) Remove(ctx context.Context, productID string) {
	if !w.session.Authenticated() {
		return
	}
	items, err := w.apiClient.RemoveFromWishlist(ctx, w.session.Token(), productID)
	if err != nil {
		w.notifier.Error(api.Message(err))
		return
	}
	w.items = items
	w.notifier.Success("Removed from wishlist")
}

// Contains 判断商品是否在心愿单内
func (w *Wishlist) Contains(productID string) bool {
	for _, item := range w.items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// Items 返回当前缓存的心愿单
func (w *Wishlist) Items() []models.Product {
	items := make([]models.Product, len(w.items))
	copy(items, w.items)
	return items
}

// Loading 返回拉取中标志
func (w *Wishlist) Loading() bool {
	return w.loading
}
