package gateway

import "strings"

const MethodCard = "card"

// alternate method kinds accepted verbatim, with their receipt labels
var alternateMethods = map[string]string{
	"paypal":      "PayPal",
	"link":        "Link",
	"klarna":      "Klarna",
	"alipay":      "Alipay",
	"wechat_pay":  "WeChat Pay",
	"cashapp":     "Cash App Pay",
	"amazon_pay":  "Amazon Pay",
	"revolut_pay": "Revolut Pay",
}

// NormalizeMethod maps a requested payment method to the provider kind.
// Anything unrecognised is charged by card.
func NormalizeMethod(requested string) string {
	kind := strings.ToLower(strings.TrimSpace(requested))
	if _, ok := alternateMethods[kind]; ok {
		return kind
	}
	return MethodCard
}

func MethodKinds(requested string) []string {
	return []string{NormalizeMethod(requested)}
}

// MethodLabel is the human readable name stored with the booking.
func MethodLabel(requested string) string {
	kind := NormalizeMethod(requested)
	if label, ok := alternateMethods[kind]; ok {
		return label
	}
	return "Card"
}
