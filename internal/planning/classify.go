package planning

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

// Classifier assigns the three independent labels per product: ABC by
// rotation velocity, ABC by economic value, and XYZ by demand variability.
type Classifier struct {
	cfg ClassifyConfig
}

func NewClassifier(cfg ClassifyConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify labels one product. valueClass comes from a prior RankByValue
// pass over the whole catalog, since Pareto ranking is a cross-product
// computation.
func (c *Classifier) Classify(p domain.Product, dp domain.DemandProfile, valueClass string) domain.Classification {
	cls := domain.Classification{
		ProductCode: p.Code,
		ABCVelocity: c.velocityClass(p, dp),
		ABCValue:    valueClass,
	}

	cls.XYZ = c.xyzClass(dp.CV)
	cls.LowConfidenceXYZ = dp.WeeksWithSales < c.cfg.ReliableWeeksFloor
	cls.Matrix = cls.ABCValue + cls.XYZ
	cls.Alert = c.detectDiscrepancy(cls.ABCVelocity, cls.ABCValue)

	cls.EffectiveClass = cls.ABCVelocity
	if p.IsTrafficGenerator {
		// Traffic generators are forced to A so they get A-grade service
		// levels downstream; the override stays visible in the output.
		cls.EffectiveClass = domain.VelocityA
		cls.OverrideApplied = true
	}

	return cls
}

// velocityClass tiers a product by packs-per-day throughput. Ties go to the
// higher threshold (inclusive bounds), and thresholds are checked in
// descending order so the class is monotonic in throughput.
func (c *Classifier) velocityClass(p domain.Product, dp domain.DemandProfile) string {
	unitsPerPack := p.UnitsPerPack
	if unitsPerPack <= 0 {
		unitsPerPack = 1
	}
	packsPerDay := dp.AvgDaily20d / unitsPerPack

	for _, t := range c.cfg.VelocityThresholds {
		if packsPerDay >= t.MinPacksPerDay {
			return t.Class
		}
	}
	return domain.VelocityNone
}

func (c *Classifier) xyzClass(cv float64) string {
	switch {
	case cv < c.cfg.XYZXMax:
		return domain.XYZX
	case cv < c.cfg.XYZYMax:
		return domain.XYZY
	default:
		return domain.XYZZ
	}
}

// detectDiscrepancy compares the two ABC views. The two directions are
// semantically opposite alerts: a high-value item that rotates slowly is
// easy to under-stock and is the operationally dangerous case.
func (c *Classifier) detectDiscrepancy(velocity, value string) string {
	highVelocity := velocity == domain.VelocityA || velocity == domain.VelocityAB
	lowVelocity := velocity == domain.VelocityBC || velocity == domain.VelocityC || velocity == domain.VelocityNone
	lowValue := value == domain.ValueC || value == domain.ValueD
	highValue := value == domain.ValueA

	switch {
	case lowVelocity && highValue:
		return domain.AlertHighValueLowVelocity
	case highVelocity && lowValue:
		return domain.AlertHighVelocityLowValue
	default:
		return domain.AlertNone
	}
}

// Consumption is one product's trailing consumption, input to the Pareto
// value ranking.
type Consumption struct {
	ProductCode string
	UnitCost    float64
	Units       float64 // units consumed over the trailing window
}

// RankByValue ranks products descending by trailing consumption value and
// assigns A/B/C/D by cumulative share of total value. Products without
// consumption history are NUEVO; products with a missing or non-positive
// cost are ERROR_COSTO. Neither is a genuine D.
//
// Money arithmetic runs on decimals so the cumulative shares do not drift.
func (c *Classifier) RankByValue(items []Consumption) map[string]string {
	classes := make(map[string]string, len(items))

	type ranked struct {
		code  string
		value decimal.Decimal
	}
	valued := make([]ranked, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		if it.UnitCost <= 0 {
			classes[it.ProductCode] = domain.ValueErrorCosto
			continue
		}
		if it.Units <= 0 {
			classes[it.ProductCode] = domain.ValueNuevo
			continue
		}
		v := decimal.NewFromFloat(it.UnitCost).Mul(decimal.NewFromFloat(it.Units))
		valued = append(valued, ranked{code: it.ProductCode, value: v})
		total = total.Add(v)
	}

	if total.IsZero() {
		for _, r := range valued {
			classes[r.code] = domain.ValueNuevo
		}
		return classes
	}

	sort.SliceStable(valued, func(i, j int) bool {
		return valued[i].value.GreaterThan(valued[j].value)
	})

	cutA := decimal.NewFromFloat(c.cfg.ValueCutA)
	cutB := decimal.NewFromFloat(c.cfg.ValueCutB)
	cutC := decimal.NewFromFloat(c.cfg.ValueCutC)

	// The item that crosses a cut point still belongs to the tier above it,
	// so the share is taken before adding the item's own value. The top
	// contributor is always A.
	cum := decimal.Zero
	for _, r := range valued {
		share := cum.Div(total)
		switch {
		case share.LessThan(cutA):
			classes[r.code] = domain.ValueA
		case share.LessThan(cutB):
			classes[r.code] = domain.ValueB
		case share.LessThan(cutC):
			classes[r.code] = domain.ValueC
		default:
			classes[r.code] = domain.ValueD
		}
		cum = cum.Add(r.value)
	}

	return classes
}
