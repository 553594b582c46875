package export

import (
	"io"

	"github.com/andybalholm/brotli"
)

// WriteArchive writes v as the same indented JSON as WriteJSON, brotli
// compressed at quality (0-11).
func WriteArchive(w io.Writer, v any, quality int) error {
	bw := brotli.NewWriterLevel(w, quality)
	if err := WriteJSON(bw, v); err != nil {
		bw.Close()
		return err
	}
	return bw.Close()
}
