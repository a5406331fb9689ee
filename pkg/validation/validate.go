package validation

import (
	"errors"
	"fmt"
	"strings"

	"chatjournal/pkg/models"
)

// Rules holds configurable limits applied on top of the intrinsic message
// invariants. The zero value applies no extra limits.
type Rules struct {
	// MaxTextLen caps Text length; zero means unlimited.
	MaxTextLen int
	// MaxMediaRefLen caps MediaRef length; zero means unlimited.
	MaxMediaRefLen int
	// RequireAuthor also demands a non-empty author id.
	RequireAuthor bool
}

var rules Rules

func SetRules(r Rules) { rules = r }

// ValidateMessage checks the intrinsic invariants of a message plus the
// configured rules. All violations are reported in one error.
func ValidateMessage(m models.Message) error {
	var errs []string
	if !m.Kind.Valid() {
		errs = append(errs, fmt.Sprintf("unknown kind: %q", m.Kind))
	}
	if m.Kind == models.KindText && strings.TrimSpace(m.Text) == "" {
		errs = append(errs, "text message requires a non-empty text")
	}
	if m.Kind.NeedsMedia() && m.MediaRef == "" {
		errs = append(errs, fmt.Sprintf("%s message requires a media reference", m.Kind))
	}
	if m.Kind == models.KindText && m.MediaRef != "" {
		errs = append(errs, "text message must not carry a media reference")
	}
	if m.CompareGroup != "" && m.Kind != models.KindImage {
		errs = append(errs, "comparative group is only valid on image messages")
	}
	if m.CompareIndex != 0 {
		if m.CompareGroup == "" {
			errs = append(errs, "compare index requires a compare group")
		} else if m.CompareIndex != 1 && m.CompareIndex != 2 {
			errs = append(errs, fmt.Sprintf("compare index must be 1 or 2, got %d", m.CompareIndex))
		}
	}
	if rules.MaxTextLen > 0 && len(m.Text) > rules.MaxTextLen {
		errs = append(errs, fmt.Sprintf("text exceeds max length %d", rules.MaxTextLen))
	}
	if rules.MaxMediaRefLen > 0 && len(m.MediaRef) > rules.MaxMediaRefLen {
		errs = append(errs, fmt.Sprintf("media reference exceeds max length %d", rules.MaxMediaRefLen))
	}
	if rules.RequireAuthor && m.Author.ID == "" {
		errs = append(errs, "author id is required")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
