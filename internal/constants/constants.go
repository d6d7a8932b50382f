package constants

// 支付方式常量（与后端约定的闭合集合）
const (
	PaymentMethodPayPal         = "PayPal"
	PaymentMethodStripe         = "Stripe"
	PaymentMethodCashOnDelivery = "CashOnDelivery"
)

// PaymentMethods 所有可选支付方式
var PaymentMethods = []string{
	PaymentMethodPayPal,
	PaymentMethodStripe,
	PaymentMethodCashOnDelivery,
}

// IsValidPaymentMethod 判断支付方式是否在闭合集合内
func IsValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// 本地存储键常量，每个键由且仅由一个状态组件持有
const (
	StorageKeyUserInfo        = "userInfo"
	StorageKeyCartItems       = "cartItems"
	StorageKeyShippingAddress = "shippingAddress"
	StorageKeyPaymentMethod   = "paymentMethod"
)

// 下单流程步骤常量，按照闸口顺序排列
const (
	CheckoutStepLogin    = "login"
	CheckoutStepCart     = "cart"
	CheckoutStepShipping = "shipping"
	CheckoutStepPayment  = "payment"
	CheckoutStepReady    = "ready"
)
