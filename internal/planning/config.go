package planning

import "github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"

// DemandConfig tunes the demand estimator.
type DemandConfig struct {
	WindowDays          int     // trailing window for the daily series
	AvgWindowDays       int     // shorter window for the 20-day average
	MinSaleDays         int     // below this many sale-days the profile is insufficient
	OutlierRollingDays  int     // rolling window used to detect stockout days
	OutlierSpreadFactor float64 // multiple of rolling stddev that flags an outlier
	MinWeeks            int     // weekly variability span
	ExtremeVolatilityCV float64 // CV above this raises the volatility flag
}

func DefaultDemandConfig() DemandConfig {
	return DemandConfig{
		WindowDays:          30,
		AvgWindowDays:       20,
		MinSaleDays:         3,
		OutlierRollingDays:  7,
		OutlierSpreadFactor: 3.0,
		MinWeeks:            12,
		ExtremeVolatilityCV: 2.0,
	}
}

// VelocityThreshold maps a minimum packs-per-day throughput to a class.
// Thresholds are checked in descending order with inclusive bounds.
type VelocityThreshold struct {
	MinPacksPerDay float64
	Class          string
}

// ClassifyConfig tunes the classifier. Cut points are cumulative shares of
// total consumption value, in ascending order.
type ClassifyConfig struct {
	VelocityThresholds []VelocityThreshold
	ValueCutA          float64
	ValueCutB          float64
	ValueCutC          float64
	XYZXMax            float64 // CV below this is X
	XYZYMax            float64 // CV below this is Y, above is Z
	ReliableWeeksFloor int     // weeks-with-sales floor for a confident XYZ
}

func DefaultClassifyConfig() ClassifyConfig {
	return ClassifyConfig{
		VelocityThresholds: []VelocityThreshold{
			{MinPacksPerDay: 20, Class: domain.VelocityA},
			{MinPacksPerDay: 5, Class: domain.VelocityAB},
			{MinPacksPerDay: 0.45, Class: domain.VelocityB},
			{MinPacksPerDay: 0.20, Class: domain.VelocityBC},
			{MinPacksPerDay: 0.001, Class: domain.VelocityC},
		},
		ValueCutA:          0.80,
		ValueCutB:          0.95,
		ValueCutC:          0.99,
		XYZXMax:            0.5,
		XYZYMax:            1.0,
		ReliableWeeksFloor: 4,
	}
}

// ClassPolicy selects the policy method and its parameters for one
// effective class.
type ClassPolicy struct {
	Method       string
	ZFactor      float64
	CoverageDays float64
}

// PolicyConfig maps effective classes to their policy parameters.
type PolicyConfig struct {
	Classes map[string]ClassPolicy
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		Classes: map[string]ClassPolicy{
			domain.VelocityA:    {Method: domain.MethodStatistical, ZFactor: 2.33, CoverageDays: 7},   // 99% service level
			domain.VelocityAB:   {Method: domain.MethodStatistical, ZFactor: 2.05, CoverageDays: 7},   // 98%
			domain.VelocityB:    {Method: domain.MethodStatistical, ZFactor: 1.88, CoverageDays: 10},  // 97%
			domain.VelocityBC:   {Method: domain.MethodConservative, CoverageDays: 14},
			domain.VelocityC:    {Method: domain.MethodConservative, CoverageDays: 14},
			domain.VelocityNone: {Method: domain.MethodConservative, CoverageDays: 14},
		},
	}
}

// AllocateConfig tunes the order allocator.
type AllocateConfig struct {
	Exclusions map[string]bool // product codes never allocated, by policy
}

// Config aggregates the per-stage configuration for a planning run.
type Config struct {
	Demand   DemandConfig
	Classify ClassifyConfig
	Policy   PolicyConfig
	Allocate AllocateConfig
	Priority PriorityMatrix
	Workers  int64 // fan-out ceiling over products
}

func DefaultConfig() Config {
	return Config{
		Demand:   DefaultDemandConfig(),
		Classify: DefaultClassifyConfig(),
		Policy:   DefaultPolicyConfig(),
		Allocate: AllocateConfig{Exclusions: map[string]bool{}},
		Priority: DefaultPriorityMatrix(),
		Workers:  8,
	}
}
