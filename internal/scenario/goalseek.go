package scenario

import (
	"fmt"
	"math"
)

// Levers a goal-seek plan can pull, cheapest first: improving yield
// touches admitted students already won over, widening admission
// changes the class profile, and growing the applicant pool is the
// most expensive lever of the three.
const (
	LeverYieldRate  = "yield_rate"
	LeverAdmitRate  = "admit_rate"
	LeverApplicants = "applicants"
)

// Bounds cap how far a plan may push each lever.
type Bounds struct {
	// MaxRateLiftPP caps admit and yield rate lifts, in percentage
	// points.
	MaxRateLiftPP float64
	// MaxApplicantGrowthPct caps applicant pool growth, in percent.
	MaxApplicantGrowthPct float64
}

// DefaultBounds returns the standard realism caps.
func DefaultBounds() Bounds {
	return Bounds{
		MaxRateLiftPP:         10,
		MaxApplicantGrowthPct: 30,
	}
}

// Recommendation is one lever pull in a goal-seek plan.
type Recommendation struct {
	Lever    string  `json:"lever"`
	Change   float64 `json:"change"`
	Unit     string  `json:"unit"`
	Priority int     `json:"priority"`
	Message  string  `json:"message"`
}

// Plan is the outcome of a goal seek: the lever pulls in priority
// order and the enrollment they project to.
type Plan struct {
	GoalMet           bool             `json:"goal_met"`
	TargetEnrolled    int              `json:"target_enrolled"`
	BaselineEnrolled  int              `json:"baseline_enrolled"`
	ProjectedEnrolled int              `json:"projected_enrolled"`
	Message           string           `json:"message"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// GoalSeek finds lever pulls that reach the enrollment target,
// preferring cheap levers: lift yield first, then admit rate, then
// grow the applicant pool. Each lever stops at its bound; when all
// three are maxed out and the target is still short, the plan reports
// the best reachable enrollment with GoalMet false.
func GoalSeek(base Baseline, targetEnrolled int, bounds Bounds) (Plan, error) {
	if err := base.Validate(); err != nil {
		return Plan{}, err
	}
	if targetEnrolled < 0 {
		return Plan{}, fmt.Errorf("enrollment target must be non-negative, got %d", targetEnrolled)
	}

	plan := Plan{
		TargetEnrolled:   targetEnrolled,
		BaselineEnrolled: base.Enrolled(),
	}

	if targetEnrolled <= plan.BaselineEnrolled {
		plan.GoalMet = true
		plan.ProjectedEnrolled = plan.BaselineEnrolled
		plan.Message = fmt.Sprintf("Current funnel already projects %d enrolled, meeting the target of %d",
			plan.BaselineEnrolled, targetEnrolled)
		return plan, nil
	}

	applicants := float64(base.Applicants)
	admitRate := base.AdmitRate
	yieldRate := base.YieldRate
	target := float64(targetEnrolled)

	// Yield first. The lift that exactly hits the target solves
	// target = A * r/100 * y/100 for y.
	yieldCap := math.Min(yieldRate+bounds.MaxRateLiftPP, 100)
	if required, ok := solveRate(target, applicants, admitRate); ok && required <= yieldCap {
		lift := required - yieldRate
		if lift > 0 {
			yieldRate = required
			plan.Recommendations = append(plan.Recommendations,
				rateRecommendation(LeverYieldRate, "yield rate", lift, yieldRate, 1))
		}
	} else if lift := yieldCap - yieldRate; lift > 0 {
		yieldRate = yieldCap
		plan.Recommendations = append(plan.Recommendations,
			rateRecommendation(LeverYieldRate, "yield rate", lift, yieldRate, 1))
	}

	// Admit rate next, against the lifted yield.
	if projectEnrolled(applicants, admitRate, yieldRate) < targetEnrolled {
		admitCap := math.Min(admitRate+bounds.MaxRateLiftPP, 100)
		if required, ok := solveRate(target, applicants, yieldRate); ok && required <= admitCap {
			lift := required - admitRate
			if lift > 0 {
				admitRate = required
				plan.Recommendations = append(plan.Recommendations,
					rateRecommendation(LeverAdmitRate, "admit rate", lift, admitRate, 2))
			}
		} else if lift := admitCap - admitRate; lift > 0 {
			admitRate = admitCap
			plan.Recommendations = append(plan.Recommendations,
				rateRecommendation(LeverAdmitRate, "admit rate", lift, admitRate, 2))
		}
	}

	// Applicant growth last, against both lifted rates.
	if projectEnrolled(applicants, admitRate, yieldRate) < targetEnrolled && applicants > 0 {
		if requiredApplicants, ok := solveVolume(target, admitRate, yieldRate); ok {
			growth := (requiredApplicants/applicants - 1) * 100
			if growth > bounds.MaxApplicantGrowthPct {
				growth = bounds.MaxApplicantGrowthPct
			}
			if growth > 0 {
				applicants = math.Round(applicants * (1 + growth/100))
				plan.Recommendations = append(plan.Recommendations, Recommendation{
					Lever:    LeverApplicants,
					Change:   growth,
					Unit:     "%",
					Priority: 3,
					Message:  fmt.Sprintf("Grow the applicant pool by %.1f%% (to %.0f applicants)", growth, applicants),
				})
			}
		}
	}

	plan.ProjectedEnrolled = projectEnrolled(applicants, admitRate, yieldRate)
	plan.GoalMet = plan.ProjectedEnrolled >= targetEnrolled
	if plan.GoalMet {
		plan.Message = fmt.Sprintf("Target of %d enrolled is reachable, projecting %d",
			targetEnrolled, plan.ProjectedEnrolled)
	} else {
		plan.Message = fmt.Sprintf("Target of %d enrolled is not reachable within realistic bounds; best projection is %d",
			targetEnrolled, plan.ProjectedEnrolled)
	}
	return plan, nil
}

// solveRate returns the percent rate that makes
// volume * otherRate/100 * rate/100 hit the target. Not solvable when
// the other factors are zero.
func solveRate(target, volume, otherRate float64) (float64, bool) {
	denom := volume * otherRate / 100
	if denom <= 0 {
		return 0, false
	}
	return target / denom * 100, true
}

// solveVolume returns the applicant volume that hits the target at the
// given rates.
func solveVolume(target, admitRate, yieldRate float64) (float64, bool) {
	denom := admitRate / 100 * yieldRate / 100
	if denom <= 0 {
		return 0, false
	}
	return target / denom, true
}

func rateRecommendation(lever, label string, liftPP, resulting float64, priority int) Recommendation {
	return Recommendation{
		Lever:    lever,
		Change:   liftPP,
		Unit:     "pp",
		Priority: priority,
		Message:  fmt.Sprintf("Lift %s by %.1fpp (to %.1f%%)", label, liftPP, resulting),
	}
}
