package reports

import (
	"math"

	"evaltrack/internal/domain/evaluations"
)

// CanonicalPeriods is the fixed reporting bucket order clients render in.
// Output always contains all six buckets in exactly this order regardless of
// which periods actually hold evaluations.
var CanonicalPeriods = []string{"Q1", "Q2", "Q3", "Q4", "Mid-Year", "Year-End"}

type PeriodScore struct {
	Period   string  `json:"period"`
	AvgScore float64 `json:"avgScore"`
}

type Dashboard struct {
	TotalEvaluations int           `json:"totalEvaluations"`
	OverallAvg       float64       `json:"overallAvg"`
	Periods          []PeriodScore `json:"periods"`
}

// AggregateByPeriod groups evaluations by period name and averages their
// total points per canonical bucket. Buckets without evaluations report zero.
// Multiple submissions for the same subject and period simply average
// together.
func AggregateByPeriod(evals []evaluations.Evaluation) []PeriodScore {
	sums := make(map[string]float64, len(CanonicalPeriods))
	counts := make(map[string]int, len(CanonicalPeriods))
	for _, eval := range evals {
		if eval.PeriodName == "" {
			continue
		}
		sums[eval.PeriodName] += eval.TotalPoints
		counts[eval.PeriodName]++
	}

	out := make([]PeriodScore, 0, len(CanonicalPeriods))
	for _, period := range CanonicalPeriods {
		avg := 0.0
		if counts[period] > 0 {
			avg = round2(sums[period] / float64(counts[period]))
		}
		out = append(out, PeriodScore{Period: period, AvgScore: avg})
	}
	return out
}

// BuildDashboard rolls the period buckets up into the self-service dashboard
// figures. The overall average deliberately spans all six buckets including
// the zero-filled ones; that matches what clients have always displayed, so
// empty periods drag the overall score down.
func BuildDashboard(evals []evaluations.Evaluation) Dashboard {
	periods := AggregateByPeriod(evals)

	active := 0
	sum := 0.0
	for _, bucket := range periods {
		if bucket.AvgScore > 0 {
			active++
		}
		sum += bucket.AvgScore
	}

	return Dashboard{
		TotalEvaluations: active,
		OverallAvg:       round2(sum / float64(len(periods))),
		Periods:          periods,
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
