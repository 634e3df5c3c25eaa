package selftest

import "testing"

func TestRun_AllScenariosPass(t *testing.T) {
	results := Run()
	if len(results) != 6 {
		t.Fatalf("Run() returned %d results, want 6", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("scenario %q failed: %s", r.Name, r.Detail)
		}
	}
	if !AllPassed(results) {
		t.Error("AllPassed(results) = false, want true")
	}
}

func TestAllPassed_FalseOnAnyFailure(t *testing.T) {
	results := []Result{{Name: "a", Passed: true}, {Name: "b", Passed: false, Detail: "boom"}}
	if AllPassed(results) {
		t.Error("AllPassed should be false when any scenario failed")
	}
}
