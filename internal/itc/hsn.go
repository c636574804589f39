package itc

import "github.com/Riftal-Studios/TaxHive-sub007/internal/domain"

// HSNCategoryHints maps HSN/SAC code prefixes to likely statutory categories,
// for pre-classifying line items that arrive without category metadata. It is
// a hint only; an explicit category on the record always wins. Immutable after
// construction and safe for concurrent access.
type HSNCategoryHints struct {
	byPrefix map[string]domain.ItemCategory
}

// DefaultHSNCategoryHints returns the built-in prefix table. Prefixes are
// indicative chapter/heading codes, not an exhaustive tariff.
func DefaultHSNCategoryHints() *HSNCategoryHints {
	return &HSNCategoryHints{byPrefix: map[string]domain.ItemCategory{
		// Motor vehicles for transport of persons.
		"8702": domain.CategoryMotorVehicle,
		"8703": domain.CategoryMotorVehicle,
		"8711": domain.CategoryMotorVehicle,
		// Food, beverage and catering services.
		"9963": domain.CategoryFoodAndBeverage,
		"2106": domain.CategoryFoodAndBeverage,
		// Insurance services: life/health headings vs property.
		"997132": domain.CategoryLifeHealthIns,
		"997133": domain.CategoryLifeHealthIns,
		"997134": domain.CategoryPropertyIns,
		"997135": domain.CategoryPropertyIns,
		// Construction and works contract services.
		"9954": domain.CategoryWorksContract,
		// Club, gym and fitness services.
		"999721": domain.CategoryClubMembership,
		"999723": domain.CategoryClubMembership,
	}}
}

// Hint returns the category for an HSN/SAC code, checking the exact code first
// and then progressively shorter prefixes.
func (h *HSNCategoryHints) Hint(code string) (domain.ItemCategory, bool) {
	if code == "" {
		return "", false
	}
	if cat, ok := h.byPrefix[code]; ok {
		return cat, true
	}
	for _, prefixLen := range []int{6, 4, 2} {
		if len(code) > prefixLen {
			if cat, ok := h.byPrefix[code[:prefixLen]]; ok {
				return cat, true
			}
		}
	}
	return "", false
}

// HintForRecord scans a record's line items and returns the first category hint
// found.
func (h *HSNCategoryHints) HintForRecord(rec *domain.PurchaseRecord) (domain.ItemCategory, bool) {
	for i := range rec.LineItems {
		if cat, ok := h.Hint(rec.LineItems[i].HSNSACCode); ok {
			return cat, true
		}
	}
	return "", false
}
