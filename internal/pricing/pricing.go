package pricing

import (
	"github.com/umedzhan/agromarket/internal/models"

	"github.com/shopspring/decimal"
)

// 定价常量：满 100 免运费，固定运费 10，税率 15%
var (
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingPrice     = decimal.NewFromInt(10)
	taxRate               = decimal.NewFromFloat(0.15)
)

// Compute 由购物车行项计算订单分项价格。纯函数，相同输入恒得相同输出。
// 总价由已舍入的三个分项相加得出，保证展示的总价与分项之和严格一致。
func Compute(lines []models.CartLine) models.PricingBreakdown {
	itemsPrice := decimal.Zero
	for _, line := range lines {
		itemsPrice = itemsPrice.Add(line.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	itemsPrice = itemsPrice.Round(2)

	shippingPrice := flatShippingPrice
	if itemsPrice.GreaterThan(freeShippingThreshold) {
		shippingPrice = decimal.Zero
	}
	shippingPrice = shippingPrice.Round(2)

	taxPrice := taxRate.Mul(itemsPrice).Round(2)

	totalPrice := itemsPrice.Add(shippingPrice).Add(taxPrice).Round(2)

	return models.PricingBreakdown{
		ItemsPrice:    models.NewMoneyFromDecimal(itemsPrice),
		ShippingPrice: models.NewMoneyFromDecimal(shippingPrice),
		TaxPrice:      models.NewMoneyFromDecimal(taxPrice),
		TotalPrice:    models.NewMoneyFromDecimal(totalPrice),
	}
}
