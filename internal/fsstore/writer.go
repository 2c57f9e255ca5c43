package fsstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"unicode"

	"github.com/natefinch/atomic"

	"github.com/minhokang/reelforge/internal/domain/project"
	"github.com/minhokang/reelforge/internal/repository"
)

// emojiAndPictographs covers the character class stripped by the
// sanitizing retry. Titles pasted from chat apps routinely carry these,
// and some filesystems and tools downstream choke on them.
var emojiAndPictographs = &unicode.RangeTable{
	R32: []unicode.Range32{
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},   // misc symbols, dingbats
		{Lo: 0xFE0F, Hi: 0xFE0F, Stride: 1},   // variation selector
		{Lo: 0x1F300, Hi: 0x1FAFF, Stride: 1}, // emoji planes
	},
}

// stripSymbols removes the emoji/pictograph class from text. Operating
// on serialized JSON is safe: none of these runes are structural.
func stripSymbols(data []byte) []byte {
	var b bytes.Buffer
	b.Grow(len(data))
	for _, r := range string(data) {
		if unicode.Is(emojiAndPictographs, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.Bytes()
}

// writeRecord atomically rewrites the full record document. A failed
// write is retried once with the emoji character class stripped; the
// second failure propagates as an explicit I/O failure rather than
// silently dropping data.
func (s *Store) writeRecord(path string, rec *project.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrEncoding, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		s.logger.Warn("record write failed, retrying sanitized", "path", path, "error", err)
		if err2 := atomic.WriteFile(path, bytes.NewReader(stripSymbols(data))); err2 != nil {
			return fmt.Errorf("writing record: %w", err2)
		}
	}
	return nil
}

// writeTitleFile writes the two-line human-readable marker: title, then
// the RFC 3339 update timestamp. Same sanitize-and-retry contract as the
// record itself.
func (s *Store) writeTitleFile(path, title string, updatedAt time.Time) error {
	content := []byte(title + "\n" + updatedAt.Format(time.RFC3339) + "\n")

	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		s.logger.Warn("title write failed, retrying sanitized", "path", path, "error", err)
		if err2 := atomic.WriteFile(path, bytes.NewReader(stripSymbols(content))); err2 != nil {
			return fmt.Errorf("writing title marker: %w", err2)
		}
	}
	return nil
}
