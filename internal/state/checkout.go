package state

import (
	"errors"
	"fmt"

	"github.com/umedzhan/agromarket/internal/constants"
	"github.com/umedzhan/agromarket/internal/logger"
	"github.com/umedzhan/agromarket/internal/models"
	"github.com/umedzhan/agromarket/internal/store"

	"github.com/go-playground/validator/v10"
)

var (
	ErrAddressIncomplete    = errors.New("shipping address incomplete")
	ErrPaymentMethodUnknown = errors.New("payment method unknown")
)

// Checkout 结算状态：收货地址与支付方式各自独立持久化。
// 本组件只校验值本身是否合法，闸口顺序由订单提交流程负责。
type Checkout struct {
	store    store.Store
	validate *validator.Validate

	address    models.ShippingAddress
	hasAddress bool
	method     string
}

// NewCheckout 创建结算状态并从存储恢复
func NewCheckout(s store.Store) *Checkout {
	c := &Checkout{
		store:    s,
		validate: validator.New(),
	}
	var address models.ShippingAddress
	if s.Get(constants.StorageKeyShippingAddress, &address) && address.Complete() {
		c.address = address
		c.hasAddress = true
	}
	var method string
	if s.Get(constants.StorageKeyPaymentMethod, &method) && constants.IsValidPaymentMethod(method) {
		c.method = method
	}
	return c
}

// SaveShippingAddress 整体覆盖收货地址，不支持部分更新；
// 四个字段齐全才会持久化
func (c *Checkout) SaveShippingAddress(address models.ShippingAddress) error {
	if err := c.validate.Struct(address); err != nil {
		return fmt.Errorf("%w: %v", ErrAddressIncomplete, err)
	}
	c.address = address
	c.hasAddress = true
	if err := c.store.Set(constants.StorageKeyShippingAddress, address); err != nil {
		logger.Warnw("checkout_persist_address_failed", "error", err)
	}
	return nil
}

// SavePaymentMethod 覆盖保存支付方式，必须属于闭合集合
func (c *Checkout) SavePaymentMethod(method string) error {
	if !constants.IsValidPaymentMethod(method) {
		return fmt.Errorf("%w: %q", ErrPaymentMethodUnknown, method)
	}
	c.method = method
	if err := c.store.Set(constants.StorageKeyPaymentMethod, method); err != nil {
		logger.Warnw("checkout_persist_method_failed", "error", err)
	}
	return nil
}

// ShippingAddress 返回收货地址及其是否已设置
func (c *Checkout) ShippingAddress() (models.ShippingAddress, bool) {
	return c.address, c.hasAddress
}

// PaymentMethod 返回支付方式，未设置时为空串
func (c *Checkout) PaymentMethod() string {
	return c.method
}
