package store

import (
	"fmt"

	"github.com/zls-tools/docstore/internal/docuri"
	"github.com/zls-tools/docstore/internal/offsetutil"
)

// ContentChange is one textDocument/didChange edit: a range replacement
// (Range non-nil) or a full-text replacement (Range nil), mirroring
// bingo's lsp.TextDocumentContentChangeEvent (langserver/fs.go
// applyContentChanges).
type ContentChange struct {
	RangeSpan   *Range
	RangeLength int
	Text        string
}

// Range is a half-open [Start, End) span over positions in the offset
// encoding ApplyChanges is called with.
type Range struct {
	Start offsetutil.Position
	End   offsetutil.Position
}

// ApplySave is a no-op beyond logging: saves do not change the document
// store's state (spec §6 applySave, §7 "logs only").
func (s *Store) ApplySave(uri docuri.URI) {
	if _, ok := s.handles[uri]; !ok {
		return
	}
	s.log.WithField("uri", uri).Debug("applySave")
}

// ApplyChanges implements spec §6's applyChanges semantics: find the last
// full-text replacement in changes; the starting text is that
// replacement's text (or the current text, if none); edits strictly
// after it are then applied as range replacements. The handle's text is
// replaced and the refresh pipeline runs.
func (s *Store) ApplyChanges(uri docuri.URI, changes []ContentChange, enc offsetutil.Encoding) error {
	h, ok := s.handles[uri]
	if !ok {
		return fmt.Errorf("applyChanges: %s is not open", uri)
	}

	lastFull := -1
	for i, c := range changes {
		if c.RangeSpan == nil {
			lastFull = i
		}
	}

	text := h.Text
	start := 0
	if lastFull >= 0 {
		text = []byte(changes[lastFull].Text)
		start = lastFull + 1
	}

	for _, c := range changes[start:] {
		next, err := applyRangeChange(text, c, enc)
		if err != nil {
			return fmt.Errorf("applyChanges: %s: %w", uri, err)
		}
		text = next
	}

	h.Text = text
	return s.refresh(h)
}

func applyRangeChange(text []byte, c ContentChange, enc offsetutil.Encoding) ([]byte, error) {
	if c.RangeSpan == nil {
		return []byte(c.Text), nil
	}

	start, ok, why := offsetutil.ForPosition(text, enc, c.RangeSpan.Start)
	if !ok {
		return nil, fmt.Errorf("invalid start position %+v: %s", c.RangeSpan.Start, why)
	}

	var end int
	if c.RangeLength != 0 {
		end = start + c.RangeLength
	} else {
		end, ok, why = offsetutil.ForPosition(text, enc, c.RangeSpan.End)
		if !ok {
			return nil, fmt.Errorf("invalid end position %+v: %s", c.RangeSpan.End, why)
		}
	}

	if start < 0 || end > len(text) || end < start {
		return nil, fmt.Errorf("out of range position [%d, %d) in %d-byte text", start, end, len(text))
	}

	out := make([]byte, 0, start+len(c.Text)+len(text)-end)
	out = append(out, text[:start]...)
	out = append(out, c.Text...)
	out = append(out, text[end:]...)
	return out, nil
}
