// Package report assembles an ordered list of journal messages into a single
// self-contained HTML document: a chronological illustrated timeline with
// image payloads inlined as base64 data URIs. The assembler performs no
// conversion, printing or sharing; an external renderer turns the markup
// into a paginated document.
package report

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	"chatjournal/pkg/logger"
	"chatjournal/pkg/models"
)

const docHeadPre = `<html>
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
      body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, 'Open Sans', 'Helvetica Neue', sans-serif;
        line-height: 1.6;
        color: #333;
        max-width: 600px;
        margin: 0 auto;
        padding: 20px;
        background-color: #f3f2ef;
      }
      .timeline {
        position: relative;
        padding-left: 30px;
      }
      .timeline::before {
        content: '';
        position: absolute;
        left: 0;
        top: 0;
        bottom: 0;
        width: 2px;
        background: #0a66c2;
      }
      .message {
        background: white;
        border-radius: 8px;
        padding: 15px;
        margin-bottom: 20px;
        box-shadow: 0 1px 3px rgba(0,0,0,0.12), 0 1px 2px rgba(0,0,0,0.24);
        position: relative;
      }
      .message::before {
        content: '';
        position: absolute;
        left: -34px;
        top: 20px;
        width: 10px;
        height: 10px;
        border-radius: 50%;
        background: #0a66c2;
        border: 2px solid white;
      }
      .image {
        text-align: center;
        margin-bottom: 10px;
      }
      .image img {
        max-width: 100%;
        height: auto;
        border-radius: 4px;
      }
      .image.pair img {
        max-width: 48%;
        vertical-align: top;
      }
      .caption {
        font-size: 14px;
        color: #666;
        margin-top: 5px;
      }
      .timestamp {
        font-size: 12px;
        color: #0a66c2;
        margin-top: 10px;
      }
      h1 {
        text-align: center;
        color: #0a66c2;
      }
    </style>
  </head>
  <body>
    <h1>`

const docHeadPost = `</h1>
    <div class="timeline">
`

const docFoot = `    </div>
  </body>
</html>
`

const (
	defaultTitle  = "Chat Journal Report"
	timestampFmt  = "02/01/2006 15:04:05"
	captionJoiner = " vs "
)

// Assembler renders message lists into HTML reports. Callers pass an
// already-sorted list; the assembler never re-sorts.
type Assembler struct {
	Title    string
	Location *time.Location
	Reader   MediaReader
}

// pairSlot is the per-group ownership record consulted during the walk:
// which list positions belong to the group and whether the combined entry
// was already emitted.
type pairSlot struct {
	first   int
	second  int
	emitted bool
}

// Generate walks msgs once, in the given order, and returns the complete
// document. Per-entry media failures are logged and contained: a bad file
// omits that image only and the rest of the report still assembles, so
// Generate has no error path.
func (a *Assembler) Generate(msgs []models.Message) string {
	title := a.Title
	if title == "" {
		title = defaultTitle
	}
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	reader := a.Reader
	if reader == nil {
		reader = FSReader{}
	}

	// Bucket comparative members by group id, first-seen order. A group
	// only pairs when both members survived the caller's filtering;
	// otherwise its lone member renders standalone.
	pairs := make(map[string]*pairSlot)
	for i, m := range msgs {
		if !m.Comparative() {
			continue
		}
		slot, ok := pairs[m.CompareGroup]
		if !ok {
			pairs[m.CompareGroup] = &pairSlot{first: i, second: -1}
			continue
		}
		if slot.second == -1 {
			slot.second = i
		}
		// a third member with the same id is malformed input; it renders
		// standalone since the slot is already full
	}

	var b strings.Builder
	b.WriteString(docHeadPre)
	b.WriteString(html.EscapeString(title))
	b.WriteString(docHeadPost)

	figure := 1
	for i, m := range msgs {
		if slot, ok := pairs[m.CompareGroup]; ok && m.Comparative() && slot.second != -1 && (i == slot.first || i == slot.second) {
			if slot.emitted {
				continue
			}
			slot.emitted = true
			a.writePair(&b, reader, loc, msgs[slot.first], msgs[slot.second], &figure)
			continue
		}
		a.writeEntry(&b, reader, loc, m, &figure)
	}

	b.WriteString(docFoot)
	reportsGenerated.Inc()
	return b.String()
}

// writeEntry renders one standalone message plus its timestamp line.
func (a *Assembler) writeEntry(b *strings.Builder, reader MediaReader, loc *time.Location, m models.Message, figure *int) {
	b.WriteString(`      <div class="message">`)
	switch m.Kind {
	case models.KindText:
		fmt.Fprintf(b, "<p>%s</p>", html.EscapeString(m.Text))
	case models.KindImage:
		if enc, err := reader.ReadBase64(m.MediaRef); err != nil {
			mediaFailures.Inc()
			logger.Error("report_media_read_failed", "ref", m.MediaRef, "error", err)
		} else {
			fmt.Fprintf(b, `<div class="image"><img src="data:%s;base64,%s" alt="Figure %d" /></div>`, mimeFor(m.MediaRef), enc, *figure)
			if m.Text != "" {
				fmt.Fprintf(b, `<div class="caption">Figure %d - %s</div>`, *figure, html.EscapeString(m.Text))
			} else {
				fmt.Fprintf(b, `<div class="caption">Figure %d</div>`, *figure)
			}
			*figure++
		}
	case models.KindVideo:
		b.WriteString("<p>[Video is not rendered in the report view]</p>")
		if m.Text != "" {
			fmt.Fprintf(b, `<div class="caption">Video - %s</div>`, html.EscapeString(m.Text))
		}
	case models.KindAudio:
		b.WriteString("<p>[Audio is not rendered in the report view]</p>")
		if m.Text != "" {
			fmt.Fprintf(b, `<div class="caption">Audio - %s</div>`, html.EscapeString(m.Text))
		}
	default:
		// unknown kind: timestamp line only
	}
	a.writeTimestamp(b, loc, m.CreatedTS)
	b.WriteString("</div>\n")
}

// writePair renders the combined side-by-side entry for a comparative pair.
// The earlier member leads and supplies the entry timestamp; equal
// timestamps keep list order.
func (a *Assembler) writePair(b *strings.Builder, reader MediaReader, loc *time.Location, x, y models.Message, figure *int) {
	if y.CreatedTS < x.CreatedTS {
		x, y = y, x
	}
	b.WriteString(`      <div class="message">`)
	b.WriteString(`<div class="image pair">`)
	for _, m := range []models.Message{x, y} {
		enc, err := reader.ReadBase64(m.MediaRef)
		if err != nil {
			mediaFailures.Inc()
			logger.Error("report_media_read_failed", "ref", m.MediaRef, "error", err)
			continue
		}
		fmt.Fprintf(b, `<img src="data:%s;base64,%s" alt="Figure %d" />`, mimeFor(m.MediaRef), enc, *figure)
		*figure++
	}
	b.WriteString(`</div>`)
	if caption := joinCaptions(x.Text, y.Text); caption != "" {
		fmt.Fprintf(b, `<div class="caption">%s</div>`, html.EscapeString(caption))
	}
	a.writeTimestamp(b, loc, x.CreatedTS)
	b.WriteString("</div>\n")
}

func (a *Assembler) writeTimestamp(b *strings.Builder, loc *time.Location, ts int64) {
	fmt.Fprintf(b, `<div class="timestamp">%s</div>`, time.Unix(0, ts).In(loc).Format(timestampFmt))
}

// joinCaptions combines the pair's captions; a lone caption stands alone.
func joinCaptions(x, y string) string {
	switch {
	case x != "" && y != "":
		return x + captionJoiner + y
	case x != "":
		return x
	default:
		return y
	}
}

// mimeFor maps a media reference's extension to a content type for the data
// URI. Unknown extensions fall back to png, matching what the capture side
// produces by default.
func mimeFor(ref string) string {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
