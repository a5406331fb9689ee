package report

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatjournal/pkg/models"
)

// mapReader serves canned base64 payloads and fails for unknown refs.
type mapReader map[string]string

func (r mapReader) ReadBase64(ref string) (string, error) {
	v, ok := r[ref]
	if !ok {
		return "", errors.New("no such file: " + ref)
	}
	return v, nil
}

func testAssembler(reader MediaReader) *Assembler {
	return &Assembler{Title: "Chat Journal Report", Location: time.UTC, Reader: reader}
}

func ns(y int, m time.Month, d, hh, mm int) int64 {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC).UnixNano()
}

func TestGenerateEmptyGolden(t *testing.T) {
	doc := testAssembler(mapReader{}).Generate(nil)
	g := goldie.New(t)
	g.Assert(t, "empty_report", []byte(doc))
}

func TestGenerateIdempotent(t *testing.T) {
	reader := mapReader{"a.png": "QUFB", "b.png": "QkJC"}
	msgs := []models.Message{
		{ID: "m1", Kind: models.KindText, Text: "day one", CreatedTS: ns(2024, 4, 1, 9, 0)},
		{ID: "m2", Kind: models.KindImage, MediaRef: "a.png", Text: "wound", CreatedTS: ns(2024, 4, 1, 9, 5)},
		{ID: "m3", Kind: models.KindVideo, MediaRef: "v.mp4", Text: "walk", CreatedTS: ns(2024, 4, 1, 9, 10)},
	}
	a := testAssembler(reader)
	first := a.Generate(msgs)
	second := a.Generate(msgs)
	require.Equal(t, first, second, "same input must produce byte-identical output")
}

func TestGenerateComparativePair(t *testing.T) {
	reader := mapReader{"before.png": "QmVmb3Jl", "after.png": "QWZ0ZXI="}
	a := []models.Message{
		{ID: "a", Kind: models.KindImage, MediaRef: "before.png", Text: "Before",
			CompareGroup: "g1", CompareIndex: 1, CreatedTS: ns(2024, 4, 1, 10, 0)},
		{ID: "b", Kind: models.KindImage, MediaRef: "after.png", Text: "After",
			CompareGroup: "g1", CompareIndex: 2, CreatedTS: ns(2024, 4, 8, 10, 0)},
	}
	doc := testAssembler(reader).Generate(a)

	assert.Equal(t, 1, strings.Count(doc, `class="image pair"`), "exactly one combined entry")
	assert.Contains(t, doc, "Before vs After")
	assert.Contains(t, doc, "QmVmb3Jl")
	assert.Contains(t, doc, "QWZ0ZXI=")
	// timestamped with the earlier member
	assert.Contains(t, doc, "01/04/2024 10:00:00")
	assert.NotContains(t, doc, "08/04/2024 10:00:00")
	// one message div total
	assert.Equal(t, 1, strings.Count(doc, `<div class="message">`))
}

func TestGeneratePairOrdersByTimestamp(t *testing.T) {
	// the later member appears first in the list; the pair entry must still
	// lead with the earlier image and its timestamp
	reader := mapReader{"before.png": "QmVmb3Jl", "after.png": "QWZ0ZXI="}
	msgs := []models.Message{
		{ID: "b", Kind: models.KindImage, MediaRef: "after.png", Text: "After",
			CompareGroup: "g1", CompareIndex: 2, CreatedTS: ns(2024, 4, 8, 10, 0)},
		{ID: "a", Kind: models.KindImage, MediaRef: "before.png", Text: "Before",
			CompareGroup: "g1", CompareIndex: 1, CreatedTS: ns(2024, 4, 1, 10, 0)},
	}
	doc := testAssembler(reader).Generate(msgs)
	assert.Contains(t, doc, "Before vs After")
	assert.Contains(t, doc, "01/04/2024 10:00:00")
	assert.Less(t, strings.Index(doc, "QmVmb3Jl"), strings.Index(doc, "QWZ0ZXI="))
}

func TestGenerateOrphanPairMember(t *testing.T) {
	reader := mapReader{"before.png": "QmVmb3Jl"}
	msgs := []models.Message{
		{ID: "a", Kind: models.KindImage, MediaRef: "before.png", Text: "Before",
			CompareGroup: "g1", CompareIndex: 1, CreatedTS: ns(2024, 4, 1, 10, 0)},
	}
	doc := testAssembler(reader).Generate(msgs)
	assert.NotContains(t, doc, `class="image pair"`, "orphan renders standalone")
	assert.Contains(t, doc, "Figure 1 - Before")
	assert.Contains(t, doc, "QmVmb3Jl")
}

func TestGenerateUnreadableMediaSkipsEntryOnly(t *testing.T) {
	reader := mapReader{"ok.png": "T0s="}
	msgs := []models.Message{
		{ID: "m1", Kind: models.KindText, Text: "hello", CreatedTS: ns(2024, 4, 1, 9, 0)},
		{ID: "m2", Kind: models.KindImage, MediaRef: "gone.png", Text: "lost", CreatedTS: ns(2024, 4, 1, 9, 5)},
		{ID: "m3", Kind: models.KindImage, MediaRef: "ok.png", CreatedTS: ns(2024, 4, 1, 9, 10)},
	}
	doc := testAssembler(reader).Generate(msgs)

	assert.Contains(t, doc, "<p>hello</p>")
	assert.Contains(t, doc, "T0s=")
	assert.NotContains(t, doc, "gone.png")
	// all three entries are present, each with its timestamp line
	assert.Equal(t, 3, strings.Count(doc, `<div class="message">`))
	assert.Equal(t, 3, strings.Count(doc, `class="timestamp"`))
	// the surviving image takes figure number 1: the broken one consumed none
	assert.Contains(t, doc, "Figure 1")
	assert.NotContains(t, doc, "Figure 2")
}

func TestGeneratePlaceholders(t *testing.T) {
	msgs := []models.Message{
		{ID: "v", Kind: models.KindVideo, MediaRef: "clip.mp4", Text: "session", CreatedTS: ns(2024, 4, 1, 9, 0)},
		{ID: "a", Kind: models.KindAudio, MediaRef: "note.m4a", CreatedTS: ns(2024, 4, 1, 9, 5)},
	}
	doc := testAssembler(mapReader{}).Generate(msgs)
	assert.Contains(t, doc, "[Video is not rendered in the report view]")
	assert.Contains(t, doc, "Video - session")
	assert.Contains(t, doc, "[Audio is not rendered in the report view]")
	assert.NotContains(t, doc, "clip.mp4", "media payloads are never referenced, only inlined")
}

func TestGenerateUnknownKind(t *testing.T) {
	msgs := []models.Message{{ID: "x", Kind: "sticker", CreatedTS: ns(2024, 4, 1, 9, 0)}}
	doc := testAssembler(mapReader{}).Generate(msgs)
	assert.Equal(t, 1, strings.Count(doc, `<div class="message">`))
	assert.Contains(t, doc, "01/04/2024 09:00:00")
	assert.NotContains(t, doc, "<p>")
}

func TestGenerateEscapesText(t *testing.T) {
	msgs := []models.Message{{ID: "m", Kind: models.KindText, Text: `<script>alert("x")</script>`, CreatedTS: ns(2024, 4, 1, 9, 0)}}
	doc := testAssembler(mapReader{}).Generate(msgs)
	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "&lt;script&gt;")
}

func TestGenerateMimeByExtension(t *testing.T) {
	reader := mapReader{"photo.JPG": "QQ==", "shot.webp": "Qg==", "pic": "Qw=="}
	msgs := []models.Message{
		{ID: "1", Kind: models.KindImage, MediaRef: "photo.JPG", CreatedTS: 1},
		{ID: "2", Kind: models.KindImage, MediaRef: "shot.webp", CreatedTS: 2},
		{ID: "3", Kind: models.KindImage, MediaRef: "pic", CreatedTS: 3},
	}
	doc := testAssembler(reader).Generate(msgs)
	assert.Contains(t, doc, "data:image/jpeg;base64,QQ==")
	assert.Contains(t, doc, "data:image/webp;base64,Qg==")
	assert.Contains(t, doc, "data:image/png;base64,Qw==")
}

func TestJoinCaptions(t *testing.T) {
	for _, tc := range []struct{ x, y, want string }{
		{"Before", "After", "Before vs After"},
		{"Before", "", "Before"},
		{"", "After", "After"},
		{"", "", ""},
	} {
		if got := joinCaptions(tc.x, tc.y); got != tc.want {
			t.Fatalf("joinCaptions(%q,%q) = %q, want %q", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestFSReaderMissingFile(t *testing.T) {
	r := FSReader{MaxBytes: 1}
	if _, err := r.ReadBase64("definitely-missing-file.png"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFSReaderSizeCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.png")
	if err := os.WriteFile(path, []byte("0123456789"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := FSReader{MaxBytes: 4}
	if _, err := r.ReadBase64(path); err == nil {
		t.Fatal("expected size-cap rejection")
	}

	r = FSReader{MaxBytes: 64}
	enc, err := r.ReadBase64(path)
	if err != nil {
		t.Fatalf("read under cap: %v", err)
	}
	if enc != base64.StdEncoding.EncodeToString([]byte("0123456789")) {
		t.Fatalf("unexpected encoding %q", enc)
	}
}
