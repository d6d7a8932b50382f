package state

import (
	"github.com/umedzhan/agromarket/internal/constants"
	"github.com/umedzhan/agromarket/internal/logger"
	"github.com/umedzhan/agromarket/internal/models"
	"github.com/umedzhan/agromarket/internal/notify"
	"github.com/umedzhan/agromarket/internal/store"
)

// Cart 购物车状态：按插入顺序保存行项，每次变更同步持久化。
// 数量上限由调用方（绑定 countInStock 的数量选择器）保证，
// 本组件不做静默二次校验，这是一条显式的信任边界。
type Cart struct {
	store    store.Store
	notifier notify.Notifier
	items    []models.CartLine
}

// NewCart 创建购物车状态并从存储恢复
func NewCart(s store.Store, notifier notify.Notifier) *Cart {
	c := &Cart{store: s, notifier: notifier}
	var items []models.CartLine
	if s.Get(constants.StorageKeyCartItems, &items) {
		c.items = items
	}
	return c
}

// Items 返回行项副本，插入顺序即展示顺序
func (c *Cart) Items() []models.CartLine {
	items := make([]models.CartLine, len(c.items))
	copy(items, c.items)
	return items
}

// IsEmpty 判断购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// AddToCart 加入商品：已存在时数量累加、快照字段整体刷新；
// 不存在时追加到末尾。变更在返回前写入存储。
func (c *Cart) AddToCart(product models.Product, qty int) {
	for i, item := range c.items {
		if item.ProductID == product.ID {
			line := models.NewCartLine(product, item.Qty+qty)
			c.items[i] = line
			c.persist()
			c.notifier.Success("Added to cart")
			return
		}
	}
	c.items = append(c.items, models.NewCartLine(product, qty))
	c.persist()
	c.notifier.Success("Added to cart")
}

// RemoveFromCart 移除行项，不存在时为空操作
func (c *Cart) RemoveFromCart(productID string) {
	filtered := c.items[:0]
	for _, item := range c.items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	c.items = filtered
	c.persist()
	c.notifier.Success("Removed from cart")
}

// ClearCart 清空购物车并整体删除持久化记录（区别于写入空数组）
func (c *Cart) ClearCart() {
	c.items = nil
	if err := c.store.Remove(constants.StorageKeyCartItems); err != nil {
		logger.Warnw("cart_remove_failed", "error", err)
	}
}

func (c *Cart) persist() {
	if err := c.store.Set(constants.StorageKeyCartItems, c.items); err != nil {
		logger.Warnw("cart_persist_failed", "error", err)
	}
}
