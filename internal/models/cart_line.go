package models

// CartLine 购物车行项：加入时刻的商品快照加数量。
// 同一商品在购物车中至多出现一行；countInStock 为加入时的库存上限，
// 此后不再与在线库存核对（已知的陈旧窗口，由结算方信任边界承担）。
type CartLine struct {
	ProductID    string `json:"_id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	Price        Money  `json:"price"`
	CountInStock int    `json:"countInStock"`
	Qty          int    `json:"qty"`
}

// NewCartLine 由商品快照生成购物车行项
func NewCartLine(product Product, qty int) CartLine {
	return CartLine{
		ProductID:    product.ID,
		Name:         product.Name,
		Image:        product.Image,
		Price:        product.Price,
		CountInStock: product.CountInStock,
		Qty:          qty,
	}
}
