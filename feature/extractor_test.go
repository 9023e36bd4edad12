package feature

import (
	"math"
	"testing"
	"time"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/refdata"
	"github.com/symbiolab/matchkit/schema"
)

func testExtractor(vocab ...string) *Extractor {
	return NewExtractor(refdata.Default(), schema.Build(vocab))
}

func TestExtract_CompatiblePlasticPair(t *testing.T) {
	e := testExtractor("plastic", "recycling")
	offer := &core.Party{
		Company: "GreenChem", Location: "NY", Compound: "Polyethylene",
		Quantity: 120, Keywords: []string{"plastic", "recycling"},
	}
	request := &core.Party{
		Company: "PolyWorks", Location: "NY", Compound: "Polyethylene",
		Quantity: 100, Keywords: []string{"recycling", "plastic"},
	}

	vec, err := e.Extract(offer, request)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	wantNumeric := map[string]float64{
		schema.ColLocationDistance:   0,
		schema.ColQuantityDiff:       20,
		schema.ColKeywordOverlap:     2,
		schema.ColKeywordJaccard:     1.0,
		schema.ColChemicalCompatible: 1,
		schema.ColOfferHazardLevel:   1,
		schema.ColReqHazardLevel:     1,
		schema.ColRegulatoryAllowed:  1,
		schema.ColHistoricalFreq:     0,
		"offer_kw_plastic":           1,
		"offer_kw_recycling":         1,
		"request_kw_plastic":         1,
		"request_kw_recycling":       1,
	}
	for name, want := range wantNumeric {
		if got, ok := vec.Get(name); !ok || got != want {
			t.Errorf("%s = %v (ok=%v), want %v", name, got, ok, want)
		}
	}
	if got, _ := vec.GetCategorical(schema.ColOfferCompoundClass); got != refdata.ClassPlastic {
		t.Errorf("offer class = %s, want plastic", got)
	}
	if len(vec.DefaultedColumns()) != 0 {
		t.Errorf("unexpected defaulted columns: %v", vec.DefaultedColumns())
	}
}

func TestExtract_UnknownLocation(t *testing.T) {
	e := testExtractor()
	offer := &core.Party{Company: "A", Location: "ATLANTIS", Compound: "PVC", Quantity: 1}
	request := &core.Party{Company: "B", Location: "NY", Compound: "PVC", Quantity: 1}

	if _, err := e.Extract(offer, request); !core.IsUnknownLocation(err) {
		t.Fatalf("Extract() error = %v, want UNKNOWN_LOCATION", err)
	}
	// 方向对称
	if _, err := e.Extract(request, offer); !core.IsUnknownLocation(err) {
		t.Fatalf("Extract() swapped error = %v, want UNKNOWN_LOCATION", err)
	}
}

func TestExtract_RegulatoryBan(t *testing.T) {
	e := testExtractor()
	tests := []struct {
		name        string
		offerLoc    string
		requestLoc  string
		compound    string
		wantAllowed float64
	}{
		{name: "acetone banned in NY offer side", offerLoc: "NY", requestLoc: "HOU", compound: "Acetone", wantAllowed: 0},
		{name: "acetone banned in NY request side", offerLoc: "HOU", requestLoc: "NY", compound: "Acetone", wantAllowed: 0},
		{name: "acetone fine outside NY", offerLoc: "HOU", requestLoc: "LA", compound: "Acetone", wantAllowed: 1},
		{name: "pvc banned in CHI", offerLoc: "CHI", requestLoc: "NY", compound: "PVC", wantAllowed: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, err := e.Extract(
				&core.Party{Company: "A", Location: tt.offerLoc, Compound: tt.compound, Quantity: 1},
				&core.Party{Company: "B", Location: tt.requestLoc, Compound: tt.compound, Quantity: 1},
			)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got, _ := vec.Get(schema.ColRegulatoryAllowed); got != tt.wantAllowed {
				t.Errorf("regulatory_allowed = %v, want %v", got, tt.wantAllowed)
			}
		})
	}
}

func TestExtract_TemporalFeatures(t *testing.T) {
	e := testExtractor()
	offerDate := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	requestDate := time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		offerDate   time.Time
		requestDate time.Time
		wantOfferM  float64
		wantReqM    float64
		wantRecency float64
	}{
		{name: "both dates present", offerDate: offerDate, requestDate: requestDate,
			wantOfferM: 3, wantReqM: 5, wantRecency: 71},
		{name: "offer date missing", requestDate: requestDate},
		{name: "request date missing", offerDate: offerDate},
		{name: "both missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, err := e.Extract(
				&core.Party{Company: "A", Location: "NY", Compound: "Ethanol", Quantity: 1, Date: tt.offerDate},
				&core.Party{Company: "B", Location: "NY", Compound: "Ethanol", Quantity: 1, Date: tt.requestDate},
			)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got, _ := vec.Get(schema.ColOfferMonth); got != tt.wantOfferM {
				t.Errorf("offer_month = %v, want %v", got, tt.wantOfferM)
			}
			if got, _ := vec.Get(schema.ColRequestMonth); got != tt.wantReqM {
				t.Errorf("request_month = %v, want %v", got, tt.wantReqM)
			}
			if got, _ := vec.Get(schema.ColRecencyDays); got != tt.wantRecency {
				t.Errorf("recency_days = %v, want %v", got, tt.wantRecency)
			}
		})
	}
}

func TestExtract_TransformAndClasses(t *testing.T) {
	e := testExtractor()
	vec, err := e.Extract(
		&core.Party{Company: "A", Location: "NY", Compound: "Polyethylene", Quantity: 10},
		&core.Party{Company: "B", Location: "PHI", Compound: "Polypropylene", Quantity: 10},
	)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got, _ := vec.Get(schema.ColCanTransform); got != 1 {
		t.Errorf("can_transform = %v, want 1", got)
	}
	// 同类（均为 plastic）
	if got, _ := vec.Get(schema.ColChemicalCompatible); got != 1 {
		t.Errorf("chemical_compatible = %v, want 1", got)
	}

	// 未知化合物归为 other，不报错
	vec, err = e.Extract(
		&core.Party{Company: "A", Location: "NY", Compound: "Mystery", Quantity: 10},
		&core.Party{Company: "B", Location: "NY", Compound: "Acetone", Quantity: 10},
	)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got, _ := vec.GetCategorical(schema.ColOfferCompoundClass); got != refdata.ClassOther {
		t.Errorf("unknown compound class = %s, want other", got)
	}
	if got, _ := vec.Get(schema.ColChemicalCompatible); got != 0 {
		t.Errorf("chemical_compatible = %v, want 0", got)
	}
	if got, _ := vec.Get(schema.ColOfferHazardLevel); got != 0 {
		t.Errorf("unknown compound hazard = %v, want 0", got)
	}
}

func TestExtract_Determinism(t *testing.T) {
	e := testExtractor("plastic", "recycling", "granulate")
	offer := &core.Party{
		Company: "A", Location: "CHI", Compound: "PVC", Quantity: 42.5,
		Keywords: []string{"plastic", "granulate", "plastic"},
		Date:     time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
	}
	request := &core.Party{
		Company: "B", Location: "HOU", Compound: "PVC", Quantity: 40,
		Keywords: []string{"granulate"},
		Date:     time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
	}

	v1, err := e.Extract(offer, request)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	v2, err := e.Extract(offer, request)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	d1, d2 := v1.Dense(), v2.Dense()
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("column %d differs between runs: %v vs %v", i, d1[i], d2[i])
		}
	}
}

func TestKeywordStats(t *testing.T) {
	tests := []struct {
		name        string
		a, b        []string
		wantOverlap int
		wantJaccard float64
	}{
		{name: "both empty", wantOverlap: 0, wantJaccard: 0},
		{name: "one empty", a: []string{"x"}, wantOverlap: 0, wantJaccard: 0},
		{name: "disjoint", a: []string{"x"}, b: []string{"y"}, wantOverlap: 0, wantJaccard: 0},
		{name: "identical", a: []string{"x", "y"}, b: []string{"y", "x"}, wantOverlap: 2, wantJaccard: 1},
		{name: "partial", a: []string{"x", "y", "z"}, b: []string{"y", "z", "w"}, wantOverlap: 2, wantJaccard: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := (&core.Party{Keywords: tt.a}).KeywordSet()
			b := (&core.Party{Keywords: tt.b}).KeywordSet()
			if got := OverlapCount(a, b); got != tt.wantOverlap {
				t.Errorf("OverlapCount() = %d, want %d", got, tt.wantOverlap)
			}
			if got := Jaccard(a, b); math.Abs(got-tt.wantJaccard) > 1e-12 {
				t.Errorf("Jaccard() = %v, want %v", got, tt.wantJaccard)
			}
		})
	}
}
