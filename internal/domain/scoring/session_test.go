package scoring

import (
	"reflect"
	"testing"
)

func TestAssessSession_FistulaRecirculation(t *testing.T) {
	got := AssessSession("fistula", SessionInputs{RecirculationPct: 6})
	want := []string{AdvisoryRecircFistula}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// 5% is the fistula cutoff; only above triggers.
	if got := AssessSession("fistula", SessionInputs{RecirculationPct: 5}); len(got) != 0 {
		t.Errorf("expected no advisory at cutoff, got %v", got)
	}
}

func TestAssessSession_GraftThresholdHigher(t *testing.T) {
	// 6% recirculation flags a fistula but not a graft.
	if got := AssessSession("graft", SessionInputs{RecirculationPct: 6}); len(got) != 0 {
		t.Errorf("expected no graft advisory at 6%%, got %v", got)
	}
	got := AssessSession("graft", SessionInputs{RecirculationPct: 12})
	if !reflect.DeepEqual(got, []string{AdvisoryRecircGraft}) {
		t.Errorf("expected graft recirculation advisory, got %v", got)
	}
}

func TestAssessSession_GraftVenousPressureCombination(t *testing.T) {
	// Both conditions required.
	if got := AssessSession("graft", SessionInputs{StaticVenousPressure: 45, PressureRatio: 0.35}); len(got) != 0 {
		t.Errorf("expected no advisory without ratio, got %v", got)
	}
	if got := AssessSession("graft", SessionInputs{StaticVenousPressure: 35, PressureRatio: 0.45}); len(got) != 0 {
		t.Errorf("expected no advisory without pressure, got %v", got)
	}
	got := AssessSession("graft", SessionInputs{StaticVenousPressure: 40, PressureRatio: 0.41})
	if !reflect.DeepEqual(got, []string{AdvisoryVenousGraft}) {
		t.Errorf("expected venous advisory, got %v", got)
	}
}

func TestAssessSession_NeedleDifficultyAnyAccess(t *testing.T) {
	for _, access := range []string{"fistula", "graft", "superficialized-artery"} {
		got := AssessSession(access, SessionInputs{NeedleDifficulty: true})
		if len(got) != 1 || got[0] != AdvisoryNeedle {
			t.Errorf("%s: expected needle advisory, got %v", access, got)
		}
	}
}

func TestAssessSession_CleanSession(t *testing.T) {
	got := AssessSession("fistula", SessionInputs{RecirculationPct: 2, StaticVenousPressure: 20, PressureRatio: 0.2})
	if len(got) != 0 {
		t.Errorf("expected no advisories, got %v", got)
	}
}
