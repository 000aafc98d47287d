package models

// Discount tags recorded on a quote.
const (
	DiscountDuration = "duration"
	DiscountBulk     = "bulk"
	DiscountPackage  = "package"
)

// PriceQuote is the result of a duration/bulk price calculation. All credit
// amounts are whole credits; TotalCredits always equals DiscountedPrice and
// DiscountedPrice never exceeds BasePrice.
type PriceQuote struct {
	BasePrice        int64    `json:"basePrice"`
	DiscountedPrice  int64    `json:"discountedPrice"`
	TotalCredits     int64    `json:"totalCredits"`
	PricePerVessel   float64  `json:"pricePerVessel"`
	PricePerDay      float64  `json:"pricePerDay"`
	AppliedDiscounts []string `json:"appliedDiscounts"`
}
