package rule

import (
	"context"
	"testing"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/feature"
	"github.com/symbiolab/matchkit/refdata"
	"github.com/symbiolab/matchkit/schema"
)

func makeCandidate(t *testing.T, offer, request *core.Party) *core.MatchCandidate {
	t.Helper()
	e := feature.NewExtractor(refdata.Default(), schema.Build([]string{"plastic", "recycling"}))
	vec, err := e.Extract(offer, request)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	cand := core.NewMatchCandidate(offer, request)
	cand.Features = vec
	return cand
}

func TestEligibilityFilter(t *testing.T) {
	tests := []struct {
		name       string
		offer      *core.Party
		request    *core.Party
		thresholds Thresholds
		want       bool
	}{
		{
			name: "compatible pair passes",
			offer: &core.Party{Company: "A", Location: "NY", Compound: "Polyethylene",
				Quantity: 100, Keywords: []string{"plastic"}},
			request: &core.Party{Company: "B", Location: "PHI", Compound: "Polyethylene",
				Quantity: 90, Keywords: []string{"plastic"}},
			thresholds: DefaultThresholds(),
			want:       true,
		},
		{
			name: "compound mismatch fails even when close",
			offer: &core.Party{Company: "A", Location: "NY", Compound: "Acetone",
				Quantity: 100, Keywords: []string{"plastic"}},
			request: &core.Party{Company: "B", Location: "NY", Compound: "Ethanol",
				Quantity: 90, Keywords: []string{"plastic"}},
			thresholds: DefaultThresholds(),
			want:       false,
		},
		{
			name: "distance over limit fails",
			offer: &core.Party{Company: "A", Location: "NY", Compound: "PVC",
				Quantity: 100, Keywords: []string{"plastic"}},
			request: &core.Party{Company: "B", Location: "LA", Compound: "PVC",
				Quantity: 90, Keywords: []string{"plastic"}},
			thresholds: Thresholds{MaxDistanceKM: 1000},
			want:       false,
		},
		{
			name: "keyword condition is overlap OR jaccard",
			offer: &core.Party{Company: "A", Location: "NY", Compound: "PVC",
				Quantity: 100, Keywords: []string{"plastic"}},
			request: &core.Party{Company: "B", Location: "PHI", Compound: "PVC",
				Quantity: 90, Keywords: []string{"recycling"}},
			thresholds: Thresholds{MaxDistanceKM: 2000, MinKeywordOverlap: 1, MinJaccard: 0},
			want:       true, // overlap=0 但 jaccard=0 >= MinJaccard=0
		},
		{
			name: "both keyword thresholds unmet fails",
			offer: &core.Party{Company: "A", Location: "NY", Compound: "PVC",
				Quantity: 100, Keywords: []string{"plastic"}},
			request: &core.Party{Company: "B", Location: "PHI", Compound: "PVC",
				Quantity: 90, Keywords: []string{"recycling"}},
			thresholds: Thresholds{MaxDistanceKM: 2000, MinKeywordOverlap: 1, MinJaccard: 0.5},
			want:       false,
		},
		{
			name: "default thresholds accept empty keywords",
			offer: &core.Party{Company: "A", Location: "NY", Compound: "PVC",
				Quantity: 100},
			request: &core.Party{Company: "B", Location: "PHI", Compound: "PVC",
				Quantity: 90},
			thresholds: DefaultThresholds(),
			want:       true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewEligibilityFilter(tt.thresholds)
			cand := makeCandidate(t, tt.offer, tt.request)
			if got := f.IsEligible(cand); got != tt.want {
				t.Errorf("IsEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThresholds_Sanitize(t *testing.T) {
	s := Thresholds{MaxDistanceKM: -1, MinKeywordOverlap: -2, MinJaccard: -0.5}.Sanitize()
	if s.MaxDistanceKM != 0 || s.MinKeywordOverlap != 0 || s.MinJaccard != 0 {
		t.Errorf("Sanitize() = %+v, want all zero", s)
	}
}

func TestFilterNode(t *testing.T) {
	eligible := makeCandidate(t,
		&core.Party{Company: "A", Location: "NY", Compound: "PVC", Quantity: 10},
		&core.Party{Company: "B", Location: "PHI", Compound: "PVC", Quantity: 10},
	)
	ineligible := makeCandidate(t,
		&core.Party{Company: "C", Location: "NY", Compound: "PVC", Quantity: 10},
		&core.Party{Company: "D", Location: "NY", Compound: "Acetone", Quantity: 10},
	)

	t.Run("mark only", func(t *testing.T) {
		node := &FilterNode{Filters: []Filter{NewEligibilityFilter(DefaultThresholds())}}
		out, err := node.Process(context.Background(), nil, []*core.MatchCandidate{eligible, ineligible})
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("candidates = %d, want 2", len(out))
		}
		if !out[0].Eligible || out[1].Eligible {
			t.Errorf("eligibility flags = %v/%v, want true/false", out[0].Eligible, out[1].Eligible)
		}
		if lbl, ok := out[1].GetLabel("filtered"); !ok || lbl.Source != "rule.eligibility" {
			t.Errorf("filtered label = %+v (ok=%v)", lbl, ok)
		}
	})

	t.Run("drop mode", func(t *testing.T) {
		node := &FilterNode{
			Filters: []Filter{NewEligibilityFilter(DefaultThresholds())},
			Drop:    true,
		}
		out, err := node.Process(context.Background(), nil, []*core.MatchCandidate{eligible, ineligible})
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if len(out) != 1 || out[0].Offer.Company != "A" {
			t.Errorf("drop mode kept %d candidates", len(out))
		}
	})
}

func TestCELFilter(t *testing.T) {
	cand := makeCandidate(t,
		&core.Party{Company: "A", Location: "NY", Compound: "Acetone", Quantity: 10,
			Keywords: []string{"plastic"}},
		&core.Party{Company: "B", Location: "HOU", Compound: "Acetone", Quantity: 10,
			Keywords: []string{"plastic"}},
	)

	tests := []struct {
		name       string
		expression string
		wantFilter bool
		wantErr    bool
	}{
		// NY 禁 Acetone → regulatory_allowed = 0 → 表达式假 → 过滤
		{name: "regulatory rule filters banned pair",
			expression: "features.regulatory_allowed == 1.0", wantFilter: true},
		{name: "distance rule keeps pair",
			expression: "features.location_distance < 3000.0", wantFilter: false},
		{name: "candidate fields",
			expression: `candidate.offer_compound == "Acetone"`, wantFilter: false},
		{name: "empty expression keeps everything",
			expression: "", wantFilter: false},
		{name: "non-boolean result errors",
			expression: "features.location_distance", wantErr: true},
		{name: "syntax error",
			expression: "features.location_distance <", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewCELFilter(tt.expression)
			got, err := f.ShouldFilter(context.Background(), nil, cand)
			if tt.wantErr {
				if err == nil {
					t.Error("ShouldFilter() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.wantFilter {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.wantFilter)
			}
		})
	}
}
