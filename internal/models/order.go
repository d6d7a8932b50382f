package models

import "time"

// OrderItem 订单行项，product 字段携带商品ID（后端契约）
type OrderItem struct {
	Product      string `json:"product"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	Price        Money  `json:"price"`
	Qty          int    `json:"qty"`
	CountInStock int    `json:"countInStock,omitempty"`
}

// OrderDraft 提交前临时组装的订单草稿，从不落盘；
// idempotencyKey 由客户端生成，同一草稿重试时保持不变
type OrderDraft struct {
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      Money           `json:"itemsPrice"`
	ShippingPrice   Money           `json:"shippingPrice"`
	TaxPrice        Money           `json:"taxPrice"`
	TotalPrice      Money           `json:"totalPrice"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
}

// Order 后端已持久化的订单
type Order struct {
	ID              string          `json:"_id"`
	User            string          `json:"user,omitempty"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      Money           `json:"itemsPrice"`
	ShippingPrice   Money           `json:"shippingPrice"`
	TaxPrice        Money           `json:"taxPrice"`
	TotalPrice      Money           `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
}

// PricingBreakdown 订单分项价格，totalPrice 恒等于三个分项之和
type PricingBreakdown struct {
	ItemsPrice    Money `json:"itemsPrice"`
	ShippingPrice Money `json:"shippingPrice"`
	TaxPrice      Money `json:"taxPrice"`
	TotalPrice    Money `json:"totalPrice"`
}
