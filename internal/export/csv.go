package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/qepting91/bydit/internal/domain"
)

// SiteOrigin prefixes relative permalinks in every export.
const SiteOrigin = "https://reddit.com"

var Header = []string{"Type", "Subreddit", "Title", "Content", "Upvotes", "NumComments", "Permalink", "TimestampUTC"}

// FileError is a failed export to path.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// WriteCSV writes items to path, replacing any existing file.
func WriteCSV(path string, items []domain.UnifiedItem) error {
	return writeFile(path, func(w io.Writer) error { return EncodeCSV(w, items) })
}

// EncodeCSV writes the header and one row per item with standard CSV quoting.
func EncodeCSV(w io.Writer, items []domain.UnifiedItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write(record(it)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(it domain.UnifiedItem) []string {
	return []string{
		it.Type.String(),
		subredditLabel(it.Subreddit),
		it.Title,
		it.Content,
		strconv.Itoa(it.Upvotes),
		strconv.Itoa(it.NumComments),
		SiteOrigin + it.Permalink,
		formatTimestamp(it.CreatedUTC),
	}
}

func subredditLabel(name string) string {
	if name == "" {
		return ""
	}
	return "r/" + name
}

// formatTimestamp uses the shortest exact decimal: 1700000000, 1700000000.5.
func formatTimestamp(ts float64) string {
	return strconv.FormatFloat(ts, 'f', -1, 64)
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	if err := encode(f); err != nil {
		f.Close()
		return &FileError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &FileError{Path: path, Err: err}
	}
	return nil
}
