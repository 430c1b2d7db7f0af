package pinflow

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mholt/archives"

	"github.com/mhpenta/pinflow/datauri"
)

// Export file names.
const (
	CSVFilename = "pinterest_upload_links.csv"
	ZipFilename = "pinterest_pins.zip"
)

var csvHeader = []string{"Focus Keyword", "Image Link"}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// PinFilename is the archive and repository file name of a keyword's pin:
// "pin-" followed by the lower-cased keyword with every run of characters
// outside [a-z0-9] replaced by one hyphen, then ".jpg".
func PinFilename(keyword string) string {
	return "pin-" + nonSlug.ReplaceAllString(strings.ToLower(keyword), "-") + ".jpg"
}

// SortByCreated returns pins ordered oldest first. Pins created at the same
// instant keep their relative order.
func SortByCreated(pins []*Pin) []*Pin {
	sorted := slices.Clone(pins)
	slices.SortStableFunc(sorted, func(a, b *Pin) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return sorted
}

// WriteCSV writes the keyword to link mapping of pins, oldest first, with a
// header row. Every field is quoted; pins without a link get an empty one.
func WriteCSV(w io.Writer, pins []*Pin) error {
	bw := bufio.NewWriter(w)

	writeRow := func(fields ...string) {
		for i, f := range fields {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(f, `"`, `""`))
			bw.WriteByte('"')
		}
	}

	bw.WriteString(strings.Join(csvHeader, ","))
	for _, pin := range SortByCreated(pins) {
		bw.WriteByte('\n')
		writeRow(pin.Keyword, pin.UploadLink)
	}

	return bw.Flush()
}

// WriteZip writes a zip archive holding the composite of every pin that has
// one, named by PinFilename. When two pins share a file name the later pin's
// image is stored at the earlier entry's position.
func WriteZip(ctx context.Context, w io.Writer, pins []*Pin) error {
	var (
		files []archives.FileInfo
		index = make(map[string]int)
	)

	for _, pin := range pins {
		if !pin.HasFinal() {
			continue
		}
		_, data, err := datauri.Parse(pin.FinalImage)
		if err != nil {
			return fmt.Errorf("pin %q: %w", pin.Keyword, err)
		}

		name := PinFilename(pin.Keyword)
		file := memFile(name, data, pin.CreatedAt)
		if i, ok := index[name]; ok {
			files[i] = file
			continue
		}
		index[name] = len(files)
		files = append(files, file)
	}

	return archives.Zip{}.Archive(ctx, w, files)
}

func memFile(name string, data []byte, modTime time.Time) archives.FileInfo {
	info := memFileInfo{name: name, size: int64(len(data)), modTime: modTime}
	return archives.FileInfo{
		FileInfo:      info,
		NameInArchive: name,
		Open: func() (fs.File, error) {
			return &memReader{Reader: bytes.NewReader(data), info: info}, nil
		},
	}
}

type memFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (fi memFileInfo) Name() string       { return fi.name }
func (fi memFileInfo) Size() int64        { return fi.size }
func (fi memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (fi memFileInfo) ModTime() time.Time { return fi.modTime }
func (fi memFileInfo) IsDir() bool        { return false }
func (fi memFileInfo) Sys() any           { return nil }

type memReader struct {
	*bytes.Reader
	info memFileInfo
}

func (r *memReader) Stat() (fs.FileInfo, error) { return r.info, nil }
func (r *memReader) Close() error               { return nil }

// ExportCSV writes the CSV of every stored pin.
func (m *Manager) ExportCSV(ctx context.Context, w io.Writer) error {
	pins, err := m.pins.List(ctx)
	if err != nil {
		return err
	}
	return WriteCSV(w, pins)
}

// ExportZip writes the archive of every stored pin in live order.
func (m *Manager) ExportZip(ctx context.Context, w io.Writer) error {
	pins, err := m.pins.List(ctx)
	if err != nil {
		return err
	}
	return WriteZip(ctx, w, pins)
}
