// Command finmath-lib, run without arguments, is a short demonstration of
// the joint Levenberg-Marquardt curve fit: it bootstraps a small OIS curve,
// then recalibrates its zero rates against the same par quotes through
// swap/model.Calibrate instead of the sequential per-pillar bootstrap, and
// reports how many iterations the optimizer needed to reconverge.
//
// cmd/calibrate is the real, config-driven entrypoint; this file stays at
// module root only to give the library a zero-argument "hello world".
package main

import (
	"fmt"
	"time"

	"github.com/bookreader/finmath-lib/calendar"
	"github.com/bookreader/finmath-lib/optimizer"
	"github.com/bookreader/finmath-lib/swap/curve"
	"github.com/bookreader/finmath-lib/swap/market"
	"github.com/bookreader/finmath-lib/swap/model"
)

func main() {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	quotes := map[string]float64{
		"3M":  2.76,
		"1Y":  2.7225,
		"2Y":  2.8075,
		"5Y":  3.0189,
		"10Y": 3.1578,
	}

	c := curve.BuildCurve(settlement, quotes, calendar.TARGET, 3)
	curveModel := &model.CurveModel{Discount: c}

	residuals := make([]model.ParRateResidual, 0, len(quotes))
	targets := make([]float64, 0, len(quotes))
	weights := make([]float64, 0, len(quotes))
	for tenor, rate := range quotes {
		years := tenorYears(tenor)
		leg := market.LegConvention{
			LegType:        market.LegFixed,
			DayCount:       market.Act360,
			PayFrequency:   market.FreqAnnual,
			ResetFrequency: market.FreqAnnual,
			Calendar:       calendar.TARGET,
		}
		residuals = append(residuals, model.ParRateResidual{
			Spec: market.SwapSpec{
				Notional:      1,
				EffectiveDate: settlement,
				MaturityDate:  settlement.AddDate(0, int(years*12), 0),
			},
			Leg:           leg,
			ValuationDate: settlement,
		})
		targets = append(targets, rate/100)
		weights = append(weights, 1)
	}

	result, err := model.Calibrate(curveModel, residuals, targets, weights, optimizer.DefaultOptions())
	if err != nil {
		fmt.Printf("calibration failed: %v\n", err)
		return
	}

	fmt.Printf("recalibrated %d quotes against the bootstrapped curve\n", len(quotes))
	fmt.Printf("state: %s, iterations: %d, weighted error: %.3e\n", result.State, result.Iterations, result.Error)
}

func tenorYears(tenor string) float64 {
	n := len(tenor)
	if n == 0 {
		return 0
	}
	switch tenor[n-1] {
	case 'Y', 'y':
		var years float64
		fmt.Sscanf(tenor[:n-1], "%f", &years)
		return years
	case 'M', 'm':
		var months float64
		fmt.Sscanf(tenor[:n-1], "%f", &months)
		return months / 12
	default:
		return 0
	}
}
