package ingest

import (
	"context"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// textProcessor is the catch-all for plain text, CSV, JSON, and Markdown:
// formats whose structure the chunker's separator cascade already handles
// well enough without a dedicated grammar. It also serves any extension no
// other processor claims, on the assumption that an unrecognized file is
// more likely to be readable text than a binary format worth rejecting
// outright.
type textProcessor struct{}

func (p *textProcessor) Accepts(ext string) bool { return true }

func (p *textProcessor) Extract(ctx context.Context, filePath string) (Result, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Pages:    []Page{{Number: 1, Content: decodeText(raw)}},
		Metadata: map[string]string{"format": "text", "filename": filepath.Base(filePath)},
	}, nil
}

// decodeText tries UTF-8 first, then Shift-JIS, the code page legacy
// Japanese text exports commonly use. CP932 is Microsoft's superset of
// Shift-JIS; golang.org/x/text has no separate decoder for it, so the one
// Shift-JIS attempt stands in for both. If that also fails, invalid byte
// sequences are dropped and the rest is returned; no decode error is
// reported.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	if decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw); err == nil && utf8.Valid(decoded) {
		return string(decoded)
	}

	// Last resort: scrub invalid sequences rather than fail ingestion
	// outright over an undecodable byte or two.
	return scrubInvalidUTF8(raw)
}

func scrubInvalidUTF8(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size == 1 {
			raw = raw[1:]
			continue
		}
		out = append(out, raw[:size]...)
		raw = raw[size:]
	}
	return string(out)
}
