package service

import (
	"context"
	"testing"

	"github.com/symbiolab/matchkit/bundle"
	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/feature"
	"github.com/symbiolab/matchkit/model"
	"github.com/symbiolab/matchkit/refdata"
	"github.com/symbiolab/matchkit/rule"
	"github.com/symbiolab/matchkit/schema"
	"github.com/symbiolab/matchkit/store"
)

func testBundle(vocab ...string) *bundle.Bundle {
	registry := schema.Build(vocab, schema.WithVersion("v1"))
	lr := model.NewLRClassifier("test-lr", 0, make([]float64, registry.NumColumns()))
	return &bundle.Bundle{Version: "test", Registry: registry, Classifier: lr}
}

func validRequest() *MatchRequest {
	return &MatchRequest{
		Offer:   &core.Party{Company: "A", Location: "NY", Compound: "PVC", Quantity: 10},
		Request: &core.Party{Company: "B", Location: "PHI", Compound: "PVC", Quantity: 8},
	}
}

func TestScoringService_Score(t *testing.T) {
	svc := New(testBundle(), refdata.Default())

	resp, err := svc.Score(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !resp.Scored || resp.MatchScore != 0.5 {
		t.Errorf("resp = %+v, want scored 0.5", resp)
	}
	if resp.SchemaVersion != "v1" || resp.ModelName != "test-lr" {
		t.Errorf("metadata = %s/%s", resp.SchemaVersion, resp.ModelName)
	}
	// 默认不做资格过滤
	if !resp.Eligible {
		t.Error("default service should report eligible")
	}
}

func TestScoringService_InvalidInput(t *testing.T) {
	svc := New(testBundle(), refdata.Default())

	tests := []struct {
		name string
		req  *MatchRequest
	}{
		{name: "nil request", req: nil},
		{name: "missing offer", req: &MatchRequest{Request: &core.Party{Company: "B", Location: "NY", Quantity: 1}}},
		{name: "missing location", req: &MatchRequest{
			Offer:   &core.Party{Company: "A", Quantity: 1},
			Request: &core.Party{Company: "B", Location: "NY", Quantity: 1},
		}},
		{name: "negative quantity", req: &MatchRequest{
			Offer:   &core.Party{Company: "A", Location: "NY", Quantity: -5},
			Request: &core.Party{Company: "B", Location: "NY", Quantity: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Score(context.Background(), tt.req); !core.IsInvalidInput(err) {
				t.Errorf("Score() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestScoringService_UnknownLocation(t *testing.T) {
	svc := New(testBundle(), refdata.Default())
	req := validRequest()
	req.Offer.Location = "ATLANTIS"

	if _, err := svc.Score(context.Background(), req); !core.IsUnknownLocation(err) {
		t.Fatalf("Score() error = %v, want UNKNOWN_LOCATION", err)
	}
}

func TestScoringService_EligibilityCheck(t *testing.T) {
	svc := New(testBundle(), refdata.Default(),
		WithEligibilityCheck(rule.DefaultThresholds()))

	// 化合物不一致 → 不合格 → 不打分
	req := validRequest()
	req.Request.Compound = "Acetone"
	resp, err := svc.Score(context.Background(), req)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if resp.Eligible || resp.Scored {
		t.Errorf("resp = %+v, want ineligible and unscored", resp)
	}
	if _, ok := resp.Labels["filtered"]; !ok {
		t.Error("missing filtered label")
	}

	// 合格配对照常打分
	resp, err = svc.Score(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !resp.Eligible || !resp.Scored {
		t.Errorf("resp = %+v, want eligible and scored", resp)
	}
}

func TestScoringService_Enrichment(t *testing.T) {
	kv := store.NewMemoryStore()
	history := feature.NewStorePartyFeatureService(kv)
	ctx := context.Background()
	if err := history.SetPartyFeatures(ctx, "A", map[string]float64{"reputation": 4.0}); err != nil {
		t.Fatal(err)
	}

	b := testBundle()
	// 信誉列权重为正，补充后的分数应高于未补充
	weights := make([]float64, b.Registry.NumColumns())
	for i, name := range b.Registry.ColumnNames() {
		if name == schema.ColOfferReputation {
			weights[i] = 1.0
		}
	}
	b.Classifier = model.NewLRClassifier("lr", 0, weights)

	plain := New(testBundleWithClassifier(b.Registry, b.Classifier), refdata.Default())
	enriched := New(testBundleWithClassifier(b.Registry, b.Classifier), refdata.Default(),
		WithFeatureService(history))

	respPlain, err := plain.Score(ctx, validRequest())
	if err != nil {
		t.Fatal(err)
	}
	respEnriched, err := enriched.Score(ctx, validRequest())
	if err != nil {
		t.Fatal(err)
	}
	if respEnriched.MatchScore <= respPlain.MatchScore {
		t.Errorf("enriched score %v <= plain score %v", respEnriched.MatchScore, respPlain.MatchScore)
	}
	if respEnriched.Labels["enriched_by"] != "store" {
		t.Errorf("enriched_by = %q, want store", respEnriched.Labels["enriched_by"])
	}
}

func testBundleWithClassifier(r *schema.Registry, c core.Classifier) *bundle.Bundle {
	return &bundle.Bundle{Version: "test", Registry: r, Classifier: c}
}

func TestScoringService_DriftReport(t *testing.T) {
	m := feature.NewDriftMonitor()
	svc := New(testBundle(), refdata.Default(), WithDriftMonitor(m))

	if _, err := svc.Score(context.Background(), validRequest()); err != nil {
		t.Fatal(err)
	}
	report, ok := svc.DriftReport()
	if !ok || report.Vectors != 1 {
		t.Errorf("DriftReport() = %+v, %v; want 1 vector", report, ok)
	}

	// 未启用观测时返回 ok=false
	if _, ok := New(testBundle(), refdata.Default()).DriftReport(); ok {
		t.Error("DriftReport() ok = true without monitor")
	}
}
