package models

// Kind identifies the payload type of a journal message.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Valid reports whether k is one of the supported message kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindImage, KindVideo, KindAudio:
		return true
	}
	return false
}

// NeedsMedia reports whether messages of this kind must carry a media reference.
func (k Kind) NeedsMedia() bool {
	return k == KindImage || k == KindVideo || k == KindAudio
}

type Message struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	// Text is the body for text messages and the optional caption otherwise.
	Text string `json:"text,omitempty"`
	// MediaRef is an opaque local file path or URI; set iff Kind needs media.
	MediaRef string `json:"media_ref,omitempty"`
	// CreatedTS is the creation timestamp (ns); the sole ordering key.
	CreatedTS int64  `json:"created_ts"`
	Author    Author `json:"author"`
	// CompareGroup links exactly two image messages rendered side by side
	// in reports; empty for ordinary messages.
	CompareGroup string `json:"compare_group,omitempty"`
	// CompareIndex is 1 or 2 within the pair; display accent only.
	CompareIndex int `json:"compare_index,omitempty"`
	// DurationMS is the recorded media length for audio/video messages.
	DurationMS int64 `json:"duration_ms,omitempty"`
}

// Author identifies the message creator. The app is single-user but the
// author travels on every message so exports stay self-describing.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	AvatarRef string `json:"avatar_ref,omitempty"`
}

// Comparative reports whether the message is tagged as a member of a
// before/after pair.
func (m Message) Comparative() bool {
	return m.CompareGroup != "" && m.Kind == KindImage
}
