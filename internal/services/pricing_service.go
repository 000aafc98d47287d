package services

import (
	"math"

	"github.com/vesseliq/backend/internal/models"
)

// QuoteRequest is the input to a duration/bulk price calculation. Criteria
// are resolved catalog entries; DurationDays may be fractional and is
// rounded up to whole billable days.
type QuoteRequest struct {
	Criteria     []models.TrackingCriterion
	DurationDays float64
	VesselCount  int
	Tier         string
}

// durationTier maps a minimum day count to the price multiplier applied for
// that duration. Longer commitments pay less per day.
type durationTier struct {
	minDays    int
	multiplier float64
}

// bulkTier maps a minimum vessel count to the discount fraction for that
// fleet size. Counts 2-4 intentionally stay at the single-vessel rate.
type bulkTier struct {
	minVessels int
	discount   float64
}

// Ordered largest threshold first; lookup takes the first tier that fits.
var durationTiers = []durationTier{
	{180, 0.70},
	{90, 0.80},
	{30, 0.90},
	{8, 0.95},
	{0, 1.00},
}

var bulkTiers = []bulkTier{
	{50, 0.25},
	{25, 0.20},
	{10, 0.15},
	{5, 0.10},
	{0, 0.00},
}

var packageDiscounts = map[string]float64{
	"bronze":   0.00,
	"silver":   0.05,
	"gold":     0.10,
	"platinum": 0.15,
}

type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// CalculateDurationPrice computes the credit cost of running the requested
// criteria against vesselCount vessels for durationDays days.
//
// basePrice = sum(criteria costs) * ceil(days) * vessels. Duration, bulk and
// package discounts compound multiplicatively and the discounted total is
// rounded to a whole credit. Degenerate inputs (no billable criteria, zero
// or negative duration or vessel count) produce an all-zero quote rather
// than an error; purchase flows validate their inputs before quoting.
func (ps *PricingService) CalculateDurationPrice(req QuoteRequest) models.PriceQuote {
	quote := models.PriceQuote{AppliedDiscounts: []string{}}

	var unitCost int64
	for _, criterion := range req.Criteria {
		unitCost += criterion.CreditCost
	}

	effectiveDays := int(math.Ceil(req.DurationDays))
	if unitCost <= 0 || effectiveDays <= 0 || req.VesselCount <= 0 {
		return quote
	}

	basePrice := unitCost * int64(effectiveDays) * int64(req.VesselCount)

	durationMultiplier := durationMultiplierFor(effectiveDays)
	bulkDiscount := bulkDiscountFor(req.VesselCount)
	packageDiscount := packageDiscountFor(req.Tier)

	combined := durationMultiplier * (1 - bulkDiscount) * (1 - packageDiscount)
	discounted := int64(math.Round(float64(basePrice) * combined))

	if durationMultiplier < 1 {
		quote.AppliedDiscounts = append(quote.AppliedDiscounts, models.DiscountDuration)
	}
	if bulkDiscount > 0 {
		quote.AppliedDiscounts = append(quote.AppliedDiscounts, models.DiscountBulk)
	}
	if packageDiscount > 0 {
		quote.AppliedDiscounts = append(quote.AppliedDiscounts, models.DiscountPackage)
	}

	quote.BasePrice = basePrice
	quote.DiscountedPrice = discounted
	quote.TotalCredits = discounted
	quote.PricePerVessel = float64(discounted) / float64(req.VesselCount)
	quote.PricePerDay = float64(discounted) / float64(effectiveDays)
	return quote
}

// Packages lists the selectable pricing packages with their discounts.
func (ps *PricingService) Packages() []models.PricingPackage {
	return []models.PricingPackage{
		{Tier: "bronze", Name: "Bronze", Discount: 0.00, Description: "Pay-as-you-go baseline rate"},
		{Tier: "silver", Name: "Silver", Discount: 0.05, Description: "5% off all tracking services"},
		{Tier: "gold", Name: "Gold", Discount: 0.10, Description: "10% off all tracking services"},
		{Tier: "platinum", Name: "Platinum", Discount: 0.15, Description: "15% off all tracking services"},
	}
}

func durationMultiplierFor(days int) float64 {
	for _, tier := range durationTiers {
		if days >= tier.minDays {
			return tier.multiplier
		}
	}
	return 1.00
}

func bulkDiscountFor(vessels int) float64 {
	for _, tier := range bulkTiers {
		if vessels >= tier.minVessels {
			return tier.discount
		}
	}
	return 0.00
}

// Unknown tiers price as bronze; the storefront treats tier as advisory and
// a bad value must never block a quote.
func packageDiscountFor(tier string) float64 {
	if discount, ok := packageDiscounts[tier]; ok {
		return discount
	}
	return packageDiscounts["bronze"]
}
