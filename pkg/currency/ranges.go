package currency

// PriceRange is a browse filter bucket. Max == 0 means no upper bound.
type PriceRange struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max,omitempty"`
}

func (r PriceRange) Contains(amount int64) bool {
	if amount < r.Min {
		return false
	}
	return r.Max == 0 || amount < r.Max
}

var ProductPriceRanges = []PriceRange{
	{Label: "Under ₹2,000", Value: "under-2000", Min: 0, Max: 2000},
	{Label: "₹2,000 - ₹4,000", Value: "2000-4000", Min: 2000, Max: 4000},
	{Label: "₹4,000 - ₹8,000", Value: "4000-8000", Min: 4000, Max: 8000},
	{Label: "Over ₹8,000", Value: "over-8000", Min: 8000},
}

var CoursePriceRanges = []PriceRange{
	{Label: "Under ₹4,000", Value: "under-4000", Min: 0, Max: 4000},
	{Label: "₹4,000 - ₹8,000", Value: "4000-8000", Min: 4000, Max: 8000},
	{Label: "Over ₹8,000", Value: "over-8000", Min: 8000},
}

func RangeByValue(ranges []PriceRange, value string) (PriceRange, bool) {
	for _, r := range ranges {
		if r.Value == value {
			return r, true
		}
	}
	return PriceRange{}, false
}
