package zip

import (
	"archive/zip"
	"bytes"
)

// Entry is one named file inside an archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive bundles the entries into a single zip blob. Entries that cannot be
// added are skipped rather than failing the whole archive.
func Archive(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			continue
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
