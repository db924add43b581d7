package pillars

import "testing"

func TestAll_FourOrderedPillars(t *testing.T) {
	all := All()
	if len(all) != 4 {
		t.Fatalf("pillars = %d, want 4", len(all))
	}

	wantNames := []string{"Freeness", "Wholesomeness", "Non-Meanness", "Fairness"}
	for i, p := range all {
		if p.Number != i+1 {
			t.Errorf("pillar %d has number %d", i, p.Number)
		}
		if p.Name != wantNames[i] {
			t.Errorf("pillar %d name = %q, want %q", i, p.Name, wantNames[i])
		}
		if p.Essence == "" || p.InPractice == "" || p.Under == "" {
			t.Errorf("pillar %q has empty content fields", p.Name)
		}
		if len(p.Examples) == 0 {
			t.Errorf("pillar %q has no examples", p.Name)
		}
	}
}
