package service

import (
	"context"
	"errors"

	"github.com/umedzhan/agromarket/internal/api"
	"github.com/umedzhan/agromarket/internal/constants"
	"github.com/umedzhan/agromarket/internal/logger"
	"github.com/umedzhan/agromarket/internal/models"
	"github.com/umedzhan/agromarket/internal/notify"
	"github.com/umedzhan/agromarket/internal/pricing"
	"github.com/umedzhan/agromarket/internal/state"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrNoShippingAddress = errors.New("shipping address missing")
	ErrNoPaymentMethod   = errors.New("payment method missing")
)

// OrderService 订单提交流程：按固定顺序评估闸口，全部通过后才允许提交。
// 草稿携带客户端生成的幂等键，同一草稿重试时保持不变，提交成功后丢弃。
type OrderService struct {
	session   *state.Session
	cart      *state.Cart
	checkout  *state.Checkout
	apiClient *api.Client
	notifier  notify.Notifier

	draftKey string
}

// NewOrderService 创建订单提交服务
func NewOrderService(session *state.Session, cart *state.Cart, checkout *state.Checkout, apiClient *api.Client, notifier notify.Notifier) *OrderService {
	return &OrderService{
		session:   session,
		cart:      cart,
		checkout:  checkout,
		apiClient: apiClient,
		notifier:  notifier,
	}
}

// NextStep 按闸口顺序返回结算界面应跳转的步骤：
// 未登录 → login，空车 → cart，无地址 → shipping，无支付方式 → payment，
// 全部通过 → ready
func (s *OrderService) NextStep() string {
	if !s.session.Authenticated() {
		return constants.CheckoutStepLogin
	}
	if s.cart.IsEmpty() {
		return constants.CheckoutStepCart
	}
	if _, ok := s.checkout.ShippingAddress(); !ok {
		return constants.CheckoutStepShipping
	}
	if s.checkout.PaymentMethod() == "" {
		return constants.CheckoutStepPayment
	}
	return constants.CheckoutStepReady
}

// Breakdown 按当前购物车即时计算分项价格（用于实时展示）
func (s *OrderService) Breakdown() models.PricingBreakdown {
	return pricing.Compute(s.cart.Items())
}

// PlaceOrder 组装订单草稿并提交后端。提交前重新计算价格以防展示值过期；
// 任一闸口未通过时直接返回对应错误，不接触后端。
// 成功后清空购物车；失败时购物车与结算状态原样保留，可安全重试。
func (s *OrderService) PlaceOrder(ctx context.Context) (*models.Order, error) {
	if err := s.checkGates(); err != nil {
		return nil, err
	}

	address, _ := s.checkout.ShippingAddress()
	breakdown := pricing.Compute(s.cart.Items())

	if s.draftKey == "" {
		s.draftKey = uuid.NewString()
	}

	lines := s.cart.Items()
	orderItems := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		orderItems = append(orderItems, models.OrderItem{
			Product:      line.ProductID,
			Name:         line.Name,
			Image:        line.Image,
			Price:        line.Price,
			Qty:          line.Qty,
			CountInStock: line.CountInStock,
		})
	}

	draft := models.OrderDraft{
		OrderItems:      orderItems,
		ShippingAddress: address,
		PaymentMethod:   s.checkout.PaymentMethod(),
		ItemsPrice:      breakdown.ItemsPrice,
		ShippingPrice:   breakdown.ShippingPrice,
		TaxPrice:        breakdown.TaxPrice,
		TotalPrice:      breakdown.TotalPrice,
		IdempotencyKey:  s.draftKey,
	}

	order, err := s.apiClient.CreateOrder(ctx, s.session.Token(), draft)
	if err != nil {
		s.notifier.Error(api.Message(err))
		return nil, err
	}

	s.cart.ClearCart()
	s.draftKey = ""
	s.notifier.Success("Order Placed Successfully")
	logger.Infow("order_placed", "order_id", order.ID, "total", order.TotalPrice.String())
	return order, nil
}

// MyOrders 查询当前用户历史订单
func (s *OrderService) MyOrders(ctx context.Context) ([]models.Order, error) {
	if !s.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.apiClient.ListMyOrders(ctx, s.session.Token())
}

// GetOrder 查询订单详情
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if !s.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.apiClient.GetOrder(ctx, s.session.Token(), id)
}

func (s *OrderService) checkGates() error {
	switch s.NextStep() {
	case constants.CheckoutStepLogin:
		return ErrNotAuthenticated
	case constants.CheckoutStepCart:
		return ErrCartEmpty
	case constants.CheckoutStepShipping:
		return ErrNoShippingAddress
	case constants.CheckoutStepPayment:
		return ErrNoPaymentMethod
	}
	return nil
}
