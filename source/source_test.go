package source

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/store"
)

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Load(context.Context) ([]*core.Party, error) {
	return nil, errors.New("backend down")
}

type slowSource struct {
	delay   time.Duration
	parties []*core.Party
}

func (s *slowSource) Name() string { return "slow" }
func (s *slowSource) Load(ctx context.Context) ([]*core.Party, error) {
	select {
	case <-time.After(s.delay):
		return s.parties, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func party(company string) *core.Party {
	return &core.Party{Company: company, Location: "NY", Compound: "PVC", Quantity: 1}
}

func TestStaticSource(t *testing.T) {
	s := &Static{SourceName: "fixtures", Parties: []*core.Party{party("A"), party("B")}}
	if s.Name() != "fixtures" {
		t.Errorf("Name() = %q", s.Name())
	}
	parties, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(parties) != 2 || parties[0].Company != "A" {
		t.Errorf("Load() = %v", parties)
	}
}

func TestStoreSource(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	for _, p := range []*core.Party{party("A"), party("B")} {
		data, _ := json.Marshal(p)
		if err := kv.Set(ctx, "party:"+p.Company, data); err != nil {
			t.Fatal(err)
		}
	}
	index, _ := json.Marshal([]string{"party:A", "party:missing", "party:B"})
	if err := kv.Set(ctx, "offers:index", index); err != nil {
		t.Fatal(err)
	}

	src := &StoreSource{Store: kv, IndexKey: "offers:index"}
	parties, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// 索引里缺失的 key 跳过，其余按索引顺序返回
	got := make([]string, len(parties))
	for i, p := range parties {
		got[i] = p.Company
	}
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("companies = %v, want [A B]", got)
	}
}

func TestStoreSource_MissingIndex(t *testing.T) {
	src := &StoreSource{Store: store.NewMemoryStore(), IndexKey: "no-such-index"}
	parties, err := src.Load(context.Background())
	if err != nil || parties != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", parties, err)
	}
}

func TestStoreSource_CorruptIndex(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	if err := kv.Set(ctx, "bad:index", []byte("not json")); err != nil {
		t.Fatal(err)
	}
	src := &StoreSource{Store: kv, IndexKey: "bad:index"}
	if _, err := src.Load(ctx); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestFanout_MergeAndDedup(t *testing.T) {
	f := &Fanout{
		Sources: []Source{
			&Static{SourceName: "first", Parties: []*core.Party{party("A"), party("B")}},
			&Static{SourceName: "second", Parties: []*core.Party{party("B"), party("C")}},
		},
		Dedup:         true,
		MaxConcurrent: 2,
	}
	parties, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := make([]string, len(parties))
	for i, p := range parties {
		got[i] = p.Company
	}
	// 去重保留 Sources 顺序中先出现的，合并顺序与来源顺序一致
	if !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("companies = %v, want [A B C]", got)
	}
}

func TestFanout_SkipsFailedSource(t *testing.T) {
	f := &Fanout{
		Sources: []Source{
			failingSource{},
			&Static{SourceName: "ok", Parties: []*core.Party{party("A")}},
		},
	}
	parties, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(parties) != 1 || parties[0].Company != "A" {
		t.Errorf("Load() = %v, want only A", parties)
	}
}

func TestFanout_Timeout(t *testing.T) {
	f := &Fanout{
		Sources: []Source{
			&slowSource{delay: 200 * time.Millisecond, parties: []*core.Party{party("SLOW")}},
			&Static{SourceName: "fast", Parties: []*core.Party{party("FAST")}},
		},
		Timeout: 20 * time.Millisecond,
	}
	parties, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(parties) != 1 || parties[0].Company != "FAST" {
		t.Errorf("Load() = %v, want only FAST", parties)
	}
}

func TestFanout_Empty(t *testing.T) {
	parties, err := (&Fanout{}).Load(context.Background())
	if err != nil || parties != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", parties, err)
	}
}
