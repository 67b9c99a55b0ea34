package domain

import "time"

// Product is the immutable catalog identity of a SKU. It is owned by the
// catalog feed and read-only to the planning engine.
type Product struct {
	Code               string  `json:"code"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	UnitsPerPack       float64 `json:"units_per_pack"`
	UnitWeight         float64 `json:"unit_weight"`
	UnitCost           float64 `json:"unit_cost"`
	IsTrafficGenerator bool    `json:"is_traffic_generator"`
}

// SalesRecord is one day's sold quantity for a product at a location.
type SalesRecord struct {
	ProductCode string    `json:"product_code"`
	LocationID  string    `json:"location_id"`
	Date        time.Time `json:"date"`
	Quantity    float64   `json:"quantity_units"`
}

// StockSnapshot is the on-hand position of a product at an inventory node
// at the moment a planning run starts.
type StockSnapshot struct {
	ProductCode    string  `json:"product_code"`
	NodeID         string  `json:"node_id"`
	OnHandUnits    float64 `json:"on_hand_units"`
	InTransitUnits float64 `json:"in_transit_units"`
}

// Node is an inventory-holding location in the supply hierarchy. A node with
// children is a distribution center whose demand is the aggregate of its
// downstream locations.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Children []string `json:"children,omitempty"`
}

// DemandProfile holds the demand statistics for one (product, location)
// pair, or for a hierarchical aggregate of locations.
type DemandProfile struct {
	ProductCode         string  `json:"product_code"`
	LocationID          string  `json:"location_id"`
	P75DailyUnits       float64 `json:"p75_daily_units"`
	AvgDaily20d         float64 `json:"avg_daily_units_20d"`
	StdDevDaily         float64 `json:"stddev_daily_units"`
	MaxDaily            float64 `json:"max_daily_units"`
	WeeklyMean          float64 `json:"weekly_mean"`
	WeeklyStdDev        float64 `json:"weekly_stddev"`
	WeeksWithSales      int     `json:"weeks_with_sales"`
	CV                  float64 `json:"coefficient_of_variation"`
	ExcludedDays        int     `json:"excluded_days"`
	Reliability         string  `json:"reliability"`
	IsExtremelyVolatile bool    `json:"is_extremely_volatile"`
}

// Demand reliability labels, keyed to weeks with at least one sale.
const (
	ReliabilityAlta  = "ALTA"
	ReliabilityMedia = "MEDIA"
	ReliabilityBaja  = "BAJA"
)

// Velocity classes from pack-per-day throughput.
const (
	VelocityA    = "A"
	VelocityAB   = "AB"
	VelocityB    = "B"
	VelocityBC   = "BC"
	VelocityC    = "C"
	VelocityNone = "-"
)

// Value classes from Pareto contribution to consumption value. NUEVO and
// ERROR_COSTO are data-quality outcomes, not tiers, and must never be
// conflated with a genuine D.
const (
	ValueA          = "A"
	ValueB          = "B"
	ValueC          = "C"
	ValueD          = "D"
	ValueNuevo      = "NUEVO"
	ValueErrorCosto = "ERROR_COSTO"
)

// XYZ variability classes from coefficient of variation.
const (
	XYZX = "X"
	XYZY = "Y"
	XYZZ = "Z"
)

// Discrepancy alerts between the two ABC views. The high-value/low-velocity
// direction is the operationally dangerous one and stays distinguishable.
const (
	AlertNone                 = ""
	AlertHighVelocityLowValue = "HIGH_VELOCITY_LOW_VALUE"
	AlertHighValueLowVelocity = "HIGH_VALUE_LOW_VELOCITY"
)

// Classification carries the three independent labels for a product plus
// the derived matrix and effective class.
type Classification struct {
	ProductCode      string `json:"product_code"`
	ABCVelocity      string `json:"abc_velocity"`
	ABCValue         string `json:"abc_value"`
	XYZ              string `json:"xyz"`
	Matrix           string `json:"matrix"`
	EffectiveClass   string `json:"effective_class"`
	OverrideApplied  bool   `json:"override_applied"`
	LowConfidenceXYZ bool   `json:"low_confidence_xyz"`
	Alert            string `json:"alert,omitempty"`
}

// Policy computation methods.
const (
	MethodStatistical  = "statistical"
	MethodConservative = "conservative"
)

// InventoryPolicy is the SS/ROP/MAX triple for one (product, node), in base
// units. Always replaced wholesale on a new run, never mutated.
type InventoryPolicy struct {
	ProductCode  string  `json:"product_code"`
	NodeID       string  `json:"node_id"`
	SafetyStock  float64 `json:"safety_stock"`
	ReorderPoint float64 `json:"reorder_point"`
	MaxStock     float64 `json:"max_stock"`
	Method       string  `json:"method"`
}

// SupplyLane binds a product to its replenishment path for one run.
type SupplyLane struct {
	ProductCode        string  `json:"product_code"`
	OriginNodeID       string  `json:"origin_node_id"`
	DestinationNodeID  string  `json:"destination_node_id"`
	StockAtOrigin      float64 `json:"stock_at_origin"`
	StockAtDestination float64 `json:"stock_at_destination"`
	StockInTransit     float64 `json:"stock_in_transit"`
	LeadTimeDays       float64 `json:"lead_time_days"`
}

// OrderLine is the engine's output for one (product, lane). Quantities are
// whole packs. The engine never mutates a line after emitting it.
type OrderLine struct {
	ProductCode       string  `json:"product_code"`
	OriginNodeID      string  `json:"origin_node_id"`
	DestinationNodeID string  `json:"destination_node_id"`
	IdealUnits        float64 `json:"ideal_units"`
	IdealQuantity     int     `json:"ideal_quantity"`
	SuggestedQuantity int     `json:"suggested_quantity"`
	UrgencyLevel      int     `json:"urgency_level"`
	Urgency           string  `json:"urgency"`
	Priority          int     `json:"priority"`
	CriticalityScore  int     `json:"criticality_score"`
	SupplyConstrained bool    `json:"supply_constrained"`
	Excluded          bool    `json:"excluded"`
}

// ProductIssue records a per-product failure that was isolated from the
// rest of the batch.
type ProductIssue struct {
	ProductCode string `json:"product_code"`
	NodeID      string `json:"node_id,omitempty"`
	Reason      string `json:"reason"`
}

// RunSummary is the run-level rollup consumed by dashboard banners. The
// excluded / insufficient-data / supply-constrained counts stay separate
// because each calls for a different corrective action.
type RunSummary struct {
	RunID               string    `json:"run_id"`
	PlannedAt           time.Time `json:"planned_at"`
	TotalProducts       int       `json:"total_products"`
	TotalLanes          int       `json:"total_lanes"`
	OrdersProposed      int       `json:"orders_proposed"`
	Excluded            int       `json:"excluded"`
	InsufficientData    int       `json:"insufficient_data"`
	SupplyConstrained   int       `json:"supply_constrained"`
	InvalidCost         int       `json:"invalid_cost"`
	InvariantViolations int       `json:"invariant_violations"`
}
