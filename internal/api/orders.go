package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/umedzhan/agromarket/internal/models"
)

// CreateOrder 提交订单草稿，成功时返回后端已持久化的订单
func (c *Client) CreateOrder(ctx context.Context, token string, draft models.OrderDraft) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders", token, nil, draft, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders 查询当前用户历史订单
func (c *Client) ListMyOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders", token, nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder 查询订单详情
func (c *Client) GetOrder(ctx context.Context, token, id string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), token, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrderPaid 管理员标记订单已支付
func (c *Client) MarkOrderPaid(ctx context.Context, token, id string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id)+"/pay/admin", token, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrderDelivered 标记订单已送达（管理员或农户）
func (c *Client) MarkOrderDelivered(ctx context.Context, token, id string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id)+"/deliver", token, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
