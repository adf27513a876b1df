package service

import (
	"math"

	"shop-checkout/internal/features/pricing/domain"
)

// Price resolves each cart line against the catalog and sums the subtotal.
// A line on a product with specs is priced at the spec price, otherwise at the base price.
func Price(lines []domain.CartLine, catalog map[int64]*domain.Product) (int64, []domain.ResolvedLine, error) {
	if len(lines) == 0 {
		return 0, nil, domain.ErrEmptyCart
	}

	var subtotal int64
	resolved := make([]domain.ResolvedLine, 0, len(lines))

	for _, line := range lines {
		product, ok := catalog[line.ProductID]
		if !ok || product == nil {
			return 0, nil, domain.ErrUnknownProduct.WithMessage("product %d not found", line.ProductID)
		}
		if !product.Enabled {
			return 0, nil, domain.ErrProductDisabled.WithMessage("%s is no longer available", product.Name)
		}

		r := domain.ResolvedLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    normalizeQuantity(line.Quantity),
			UnitPrice:   product.BasePrice,
		}

		if len(product.Specs) > 0 {
			if line.SpecKey == "" {
				return 0, nil, domain.ErrSpecRequired.WithMessage("please select a spec for %s", product.Name)
			}
			spec, found := product.FindSpec(line.SpecKey)
			if !found {
				return 0, nil, domain.ErrUnknownSpec.WithMessage("spec %q of %s not found", line.SpecKey, product.Name)
			}
			if !spec.Enabled {
				return 0, nil, domain.ErrSpecDisabled.WithMessage("%s (%s) is no longer available", product.Name, spec.Label)
			}
			r.SpecKey = spec.Key
			r.SpecLabel = spec.Label
			r.UnitPrice = spec.Price
		} else if line.SpecKey != "" {
			return 0, nil, domain.ErrUnexpectedSpec.WithMessage("%s has no specs, please refresh the cart", product.Name)
		}

		subtotal += r.LineTotal()
		resolved = append(resolved, r)
	}

	return subtotal, resolved, nil
}

// normalizeQuantity floors q and clamps it to at least 1.
func normalizeQuantity(q float64) int64 {
	if math.IsNaN(q) || q < 1 {
		return 1
	}
	if q > math.MaxInt32 {
		return math.MaxInt32
	}
	return int64(math.Floor(q))
}

// ProductIDs returns the distinct product ids referenced by the cart, in first-seen order.
func ProductIDs(lines []domain.CartLine) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
