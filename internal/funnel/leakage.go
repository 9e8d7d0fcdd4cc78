package funnel

import "admitpulse/internal/dataset"

// Stage names for leakage reporting.
const (
	StageApplication = "application_to_admit"
	StageYield       = "admit_to_enroll"
)

// LeakageBreakdown quantifies how many prospects drop out at each
// funnel stage and which stage loses the most.
type LeakageBreakdown struct {
	Stage1Count int     `json:"stage1_count"`
	Stage2Count int     `json:"stage2_count"`
	Total       int     `json:"total"`
	Stage1Pct   float64 `json:"stage1_pct"`
	Stage2Pct   float64 `json:"stage2_pct"`
	WorstStage  string  `json:"worst_stage"`
}

// Leakage breaks one fact's funnel losses down by stage. Stage1Pct is
// the share of applicants not admitted; Stage2Pct is the share of
// admits who did not enroll. Ties go to the application stage.
func Leakage(f dataset.Fact) LeakageBreakdown {
	lb := LeakageBreakdown{
		Stage1Count: f.LeakageStage1,
		Stage2Count: f.LeakageStage2,
		Total:       f.LeakageStage1 + f.LeakageStage2,
	}
	if f.Applicants > 0 {
		lb.Stage1Pct = float64(lb.Stage1Count) / float64(f.Applicants) * 100
	}
	if f.Admitted > 0 {
		lb.Stage2Pct = float64(lb.Stage2Count) / float64(f.Admitted) * 100
	}

	if lb.Stage1Pct >= lb.Stage2Pct {
		lb.WorstStage = StageApplication
	} else {
		lb.WorstStage = StageYield
	}
	return lb
}
