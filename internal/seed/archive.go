package seed

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"uhc/internal/domain"

	"github.com/klauspost/compress/zstd"
)

// Archive is the on-disk UBL export format: a compressed JSON document
// with enough header to identify what it holds.
type Archive struct {
	ExportedAt time.Time         `json:"exportedAt"`
	Count      int               `json:"count"`
	Entries    []domain.BanEntry `json:"entries"`
}

// WriteArchive writes the entries as a compressed JSON archive.
// Supported algorithms are "zstd", "gzip" and "none".
func WriteArchive(w io.Writer, algorithm string, entries []domain.BanEntry) error {
	cw, err := newCompressionWriter(w, algorithm)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cw)
	if err := enc.Encode(Archive{
		ExportedAt: time.Now().UTC(),
		Count:      len(entries),
		Entries:    entries,
	}); err != nil {
		cw.Close()
		return fmt.Errorf("encoding archive: %w", err)
	}
	return cw.Close()
}

// ReadArchive reads an archive written by WriteArchive.
func ReadArchive(r io.Reader, algorithm string) (*Archive, error) {
	cr, err := newDecompressionReader(r, algorithm)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	var archive Archive
	if err := json.NewDecoder(cr).Decode(&archive); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	if archive.Count != len(archive.Entries) {
		return nil, fmt.Errorf("archive header says %d entries, found %d", archive.Count, len(archive.Entries))
	}
	return &archive, nil
}

func newCompressionWriter(w io.Writer, algorithm string) (io.WriteCloser, error) {
	switch algorithm {
	case "gzip":
		return gzip.NewWriter(w), nil
	case "zstd":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	case "none":
		return &nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

func newDecompressionReader(r io.Reader, algorithm string) (io.ReadCloser, error) {
	switch algorithm {
	case "gzip":
		return gzip.NewReader(r)
	case "zstd":
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return decoder.IOReadCloser(), nil
	case "none":
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}
