package domain

import (
	"fmt"
	"strings"

	pricingdomain "shop-checkout/internal/features/pricing/domain"
)

// ItemsSummary renders the priced lines, applied promotions and shipping fee as the
// human-readable text stored with the order.
func ItemsSummary(quote *pricingdomain.Quote, shippingFee int64) string {
	var b strings.Builder
	for _, line := range quote.Lines {
		name := line.ProductName
		if line.SpecLabel != "" {
			name = fmt.Sprintf("%s (%s)", name, line.SpecLabel)
		}
		fmt.Fprintf(&b, "%s x%d = %d\n", name, line.Quantity, line.LineTotal())
	}
	for _, promo := range quote.Promotions {
		fmt.Fprintf(&b, "Promotion %s: -%d\n", promo.Name, promo.Amount)
	}
	if shippingFee > 0 {
		fmt.Fprintf(&b, "Shipping: %d\n", shippingFee)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
