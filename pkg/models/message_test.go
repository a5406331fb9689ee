package models

import "testing"

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindText, KindImage, KindVideo, KindAudio} {
		if !k.Valid() {
			t.Fatalf("%q should be valid", k)
		}
	}
	for _, k := range []Kind{"", "sticker", "Text", "IMAGE"} {
		if k.Valid() {
			t.Fatalf("%q should not be valid", k)
		}
	}
}

func TestKindNeedsMedia(t *testing.T) {
	if KindText.NeedsMedia() {
		t.Fatal("text must not need media")
	}
	for _, k := range []Kind{KindImage, KindVideo, KindAudio} {
		if !k.NeedsMedia() {
			t.Fatalf("%q must need media", k)
		}
	}
}

func TestComparative(t *testing.T) {
	m := Message{Kind: KindImage, CompareGroup: "cmp_1"}
	if !m.Comparative() {
		t.Fatal("tagged image should be comparative")
	}
	if (Message{Kind: KindImage}).Comparative() {
		t.Fatal("untagged image is not comparative")
	}
	if (Message{Kind: KindVideo, CompareGroup: "cmp_1"}).Comparative() {
		t.Fatal("non-image kinds are never comparative")
	}
}
