package models

import "encoding/json"

// TrackingCriterion is an immutable catalog entry for a single data point a
// tracking service can monitor (AIS position, port call, dark activity, ...).
// CreditCost is the per-vessel per-day cost in credits.
type TrackingCriterion struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	CreditCost  int64           `json:"creditCost" db:"credit_cost"`
	Config      json.RawMessage `json:"config,omitempty" db:"config"`
}

// Criterion categories as stored in the catalog.
const (
	CategoryVesselTracking = "vessel-tracking"
	CategoryAreaMonitoring = "area-monitoring"
	CategoryFleetTracking  = "fleet-tracking"
	CategoryAnalytics      = "analytics"
)

// PricingPackage is a named subscription tier with a flat discount applied
// multiplicatively on top of duration and bulk discounts.
type PricingPackage struct {
	Tier        string  `json:"tier"`
	Name        string  `json:"name"`
	Discount    float64 `json:"discount"`
	Description string  `json:"description"`
	IconData    string  `json:"iconData,omitempty"`
}
