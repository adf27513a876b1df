package service

import (
	"sort"
	"time"

	"shop-checkout/internal/features/pricing/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ApplyPromotions evaluates bundle promotions against the resolved lines.
// Eligible promotions stack in (SortOrder, ID) order and the total never exceeds the subtotal.
func ApplyPromotions(lines []domain.ResolvedLine, promotions []domain.Promotion, now time.Time) (int64, []domain.AppliedPromotion) {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.LineTotal()
	}

	active := make([]domain.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.ActiveAt(now) {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].SortOrder != active[j].SortOrder {
			return active[i].SortOrder < active[j].SortOrder
		}
		return active[i].ID < active[j].ID
	})

	var total int64
	var applied []domain.AppliedPromotion

	for i := range active {
		remaining := subtotal - total
		if remaining <= 0 {
			break
		}

		amount := promotionDiscount(&active[i], lines)
		if amount <= 0 {
			continue
		}
		if amount > remaining {
			amount = remaining
		}

		total += amount
		applied = append(applied, domain.AppliedPromotion{
			PromotionID: active[i].ID,
			Name:        active[i].Name,
			Amount:      amount,
		})
	}

	return total, applied
}

// promotionDiscount returns the discount of a single promotion, zero when ineligible.
func promotionDiscount(p *domain.Promotion, lines []domain.ResolvedLine) int64 {
	var matchQty, matchSubtotal int64
	for _, line := range lines {
		for _, target := range p.TargetItems {
			if target.Matches(line) {
				matchQty += line.Quantity
				matchSubtotal += line.LineTotal()
				break
			}
		}
	}

	minQty := p.MinQuantity
	if minQty <= 0 {
		minQty = 1
	}
	if matchQty < minQty {
		return 0
	}

	value := decimal.NewFromFloat(p.DiscountValue)

	switch p.DiscountType {
	case domain.DiscountPercent:
		// DiscountValue is the retained percentage: 80 keeps 80% and takes 20% off.
		d := decimal.NewFromInt(matchSubtotal).Mul(hundred.Sub(value)).Div(hundred).Round(0)
		return d.IntPart()
	case domain.DiscountAmount:
		sets := matchQty / minQty
		return decimal.NewFromInt(sets).Mul(value).Round(0).IntPart()
	default:
		return 0
	}
}
