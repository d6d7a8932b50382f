package provider

import (
	"fmt"

	"github.com/umedzhan/agromarket/internal/api"
	"github.com/umedzhan/agromarket/internal/config"
	"github.com/umedzhan/agromarket/internal/notify"
	"github.com/umedzhan/agromarket/internal/service"
	"github.com/umedzhan/agromarket/internal/state"
	"github.com/umedzhan/agromarket/internal/store"
)

// Container 依赖注入容器：状态组件之间不做环境查找，
// 全部通过构造参数显式传递引用
type Container struct {
	Config    *config.Config
	Store     store.Store
	APIClient *api.Client
	Notifier  notify.Notifier

	Session  *state.Session
	Cart     *state.Cart
	Checkout *state.Checkout
	Wishlist *state.Wishlist

	OrderService *service.OrderService
}

// NewContainer 初始化容器并恢复会话。
// 接线顺序：存储 → API 客户端 → 通知器 → 各状态组件 → 订单服务；
// 心愿单在会话初始化之前挂接监听，保证恢复的登录态也会触发首次拉取。
func NewContainer(cfg *config.Config) (*Container, error) {
	kv, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("init store failed: %w", err)
	}

	apiClient := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout())
	notifier := notify.NewLogNotifier()

	session := state.NewSession(kv, apiClient, notifier)
	cart := state.NewCart(kv, notifier)
	checkout := state.NewCheckout(kv)
	wishlist := state.NewWishlist(apiClient, session, notifier)

	session.Initialize()

	return &Container{
		Config:       cfg,
		Store:        kv,
		APIClient:    apiClient,
		Notifier:     notifier,
		Session:      session,
		Cart:         cart,
		Checkout:     checkout,
		Wishlist:     wishlist,
		OrderService: service.NewOrderService(session, cart, checkout, apiClient, notifier),
	}, nil
}
