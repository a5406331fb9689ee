package store

import (
	"testing"
	"time"

	"chatjournal/pkg/models"
)

func openTemp(t *testing.T) {
	t.Helper()
	if err := Open(t.TempDir()); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = Close() })
}

func sample() []models.Message {
	now := time.Now().UnixNano()
	return []models.Message{
		{ID: "msg_1", Kind: models.KindText, Text: "hello", CreatedTS: now,
			Author: models.Author{ID: "journal-owner", Name: "Owner"}},
		{ID: "msg_2", Kind: models.KindImage, MediaRef: "/media/a.png", Text: "wound",
			CreatedTS: now + 1, CompareGroup: "cmp_1", CompareIndex: 1},
		{ID: "msg_3", Kind: models.KindAudio, MediaRef: "/media/n.m4a",
			CreatedTS: now + 2, DurationMS: 4200},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	openTemp(t)
	gen, err := ActiveGeneration()
	if err != nil {
		t.Fatalf("active: %v", err)
	}

	want := sample()
	if err := SaveJournal(gen, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadJournal(gen)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadMissingGenerationIsEmpty(t *testing.T) {
	openTemp(t)
	got, err := LoadJournal("no-such-generation")
	if err != nil {
		t.Fatalf("missing generation must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty journal, got %d messages", len(got))
	}
}

func TestActiveGenerationStable(t *testing.T) {
	openTemp(t)
	g1, err := ActiveGeneration()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if g1 == "" {
		t.Fatal("expected an allocated generation id")
	}
	g2, err := ActiveGeneration()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if g1 != g2 {
		t.Fatalf("active generation changed without rotate: %s vs %s", g1, g2)
	}
}

func TestRotateIsolatesOldGeneration(t *testing.T) {
	openTemp(t)
	old, err := ActiveGeneration()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if err := SaveJournal(old, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh, err := Rotate()
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if fresh == old {
		t.Fatal("rotate must allocate a new generation")
	}
	if cur, _ := ActiveGeneration(); cur != fresh {
		t.Fatalf("active pointer not updated: %s", cur)
	}

	// the new generation starts empty
	got, err := LoadJournal(fresh)
	if err != nil {
		t.Fatalf("load fresh: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh generation should be empty, got %d", len(got))
	}

	// the orphan keeps its data but a write against it cannot reach the
	// visible journal
	if err := SaveJournal(old, append(sample(), models.Message{ID: "late", Kind: models.KindText, Text: "stale"})); err != nil {
		t.Fatalf("stale save: %v", err)
	}
	got, err = LoadJournal(fresh)
	if err != nil {
		t.Fatalf("load fresh: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("stale write leaked into active generation: %d messages", len(got))
	}
}

func TestDeleteGenerationRefusesActive(t *testing.T) {
	openTemp(t)
	gen, err := ActiveGeneration()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if err := DeleteGeneration(gen); err == nil {
		t.Fatal("expected refusal to delete the active generation")
	}
}

func TestDeleteOrphanGeneration(t *testing.T) {
	openTemp(t)
	old, err := ActiveGeneration()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if err := SaveJournal(old, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := Rotate(); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	if err := DeleteGeneration(old); err != nil {
		t.Fatalf("delete orphan: %v", err)
	}
	if got, _ := LoadJournal(old); len(got) != 0 {
		t.Fatalf("deleted generation still has %d messages", len(got))
	}
	if _, ok, err := GetGenMeta(old); err != nil || ok {
		t.Fatalf("deleted generation meta still present (ok=%v err=%v)", ok, err)
	}
}

func TestListGenerations(t *testing.T) {
	openTemp(t)
	g1, err := ActiveGeneration()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if err := SaveJournal(g1, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	g2, err := Rotate()
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if err := SaveJournal(g2, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	gens, err := ListGenerations()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := map[string]bool{}
	for _, g := range gens {
		found[g] = true
	}
	if !found[g1] || !found[g2] {
		t.Fatalf("expected both generations in %v", gens)
	}
}

func TestGetGenMeta(t *testing.T) {
	openTemp(t)
	gen, err := ActiveGeneration()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	m, ok, err := GetGenMeta(gen)
	if err != nil || !ok {
		t.Fatalf("expected meta for active generation (ok=%v err=%v)", ok, err)
	}
	if m.CreatedTS <= 0 {
		t.Fatalf("meta creation time not set: %d", m.CreatedTS)
	}
	if _, ok, err := GetGenMeta("no-such-generation"); err != nil || ok {
		t.Fatalf("unexpected meta for missing generation (ok=%v err=%v)", ok, err)
	}
}

func TestClosedStoreErrors(t *testing.T) {
	if db != nil {
		t.Skip("store already open")
	}
	if _, err := ActiveGeneration(); err == nil {
		t.Fatal("expected error with no open store")
	}
	if err := SaveJournal("g", nil); err == nil {
		t.Fatal("expected error with no open store")
	}
	if _, err := LoadJournal("g"); err == nil {
		t.Fatal("expected error with no open store")
	}
}
