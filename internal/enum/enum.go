package enum

import "strings"

// ── Group A: Persisted values (stored inside the JSON blobs) ──

const (
	CategoryFood     = "FOOD"
	CategoryBeverage = "BEVERAGE"
	CategoryAddOn    = "ADD_ON"
)

const (
	OrderSourceOffline  = "OFFLINE"
	OrderSourceGrab     = "ONLINE_GRAB"
	OrderSourceGojek    = "ONLINE_GOJEK"
	OrderSourceShopee   = "ONLINE_SHOPEE"
	OrderSourceWhatsApp = "WHATSAPP"
)

// OnlinePrefix marks delivery-platform order sources.
const OnlinePrefix = "ONLINE_"

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodQRIS     = "QRIS"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodEWallet  = "E_WALLET"
)

// ── Group B: Query values (never stored) ──

const (
	TimeFilterToday    = "TODAY"
	TimeFilterWeek     = "WEEK"
	TimeFilterMonth    = "MONTH"
	TimeFilterLifetime = "LIFETIME"
	TimeFilterCustom   = "CUSTOM"
)

// CategoryAll is the browse filter that matches every category.
const CategoryAll = "ALL"

func IsCategory(s string) bool {
	switch s {
	case CategoryFood, CategoryBeverage, CategoryAddOn:
		return true
	}
	return false
}

func IsOrderSource(s string) bool {
	switch s {
	case OrderSourceOffline, OrderSourceGrab, OrderSourceGojek, OrderSourceShopee, OrderSourceWhatsApp:
		return true
	}
	return false
}

func IsPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodQRIS, PaymentMethodTransfer, PaymentMethodEWallet:
		return true
	}
	return false
}

func IsTimeFilter(s string) bool {
	switch s {
	case TimeFilterToday, TimeFilterWeek, TimeFilterMonth, TimeFilterLifetime, TimeFilterCustom:
		return true
	}
	return false
}

// SourceLabel strips the ONLINE_ prefix used for delivery platforms ("ONLINE_GRAB" -> "GRAB").
func SourceLabel(source string) string {
	return strings.TrimPrefix(source, OnlinePrefix)
}
