package repository

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zip"
)

// MetadataSuffix is appended to an entry name to form its metadata file.
const MetadataSuffix = ".meta.json"

// WriteArchive encodes entries as a zip archive: for every entry the payload
// is stored under its name, followed by its metadata as JSON under
// name+MetadataSuffix. Entry order is preserved.
func WriteArchive(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("archive entry without a name")
		}
		fw, err := zw.Create(e.Name)
		if err != nil {
			return fmt.Errorf("create entry %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Payload); err != nil {
			return fmt.Errorf("write entry %s: %w", e.Name, err)
		}

		meta := e.Metadata
		if meta.Name == "" {
			meta.Name = e.Name
		}
		mw, err := zw.Create(e.Name + MetadataSuffix)
		if err != nil {
			return fmt.Errorf("create metadata for %s: %w", e.Name, err)
		}
		if err := json.NewEncoder(mw).Encode(meta); err != nil {
			return fmt.Errorf("encode metadata for %s: %w", e.Name, err)
		}
	}
	return zw.Close()
}
