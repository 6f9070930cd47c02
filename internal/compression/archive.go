// Package compression packs and unpacks document snapshot archives
// (tar streams compressed with xz).
package compression

import (
	"archive/tar"
	"fmt"
	"io"
	"time"

	"github.com/ulikunitz/xz"
)

// maxFileSize caps a single decompressed archive entry, guarding against
// decompression bombs in snapshots from untrusted sources.
const maxFileSize = 100 * 1024 * 1024

// WriteArchive writes files as a tar.xz stream. Map iteration order is not
// stable, so entries are written in the caller-visible order only when the
// caller passes names.
func WriteArchive(w io.Writer, files map[string][]byte, names ...string) error {
	if len(names) == 0 {
		for name := range files {
			names = append(names, name)
		}
	}

	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	tw := tar.NewWriter(xzw)

	for _, name := range names {
		data, ok := files[name]
		if !ok {
			continue
		}
		header := &tar.Header{
			Name:    name,
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: time.Now(),
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header for %s: %w", name, err)
		}
		if _, err := tw.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to close tar stream: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to close xz stream: %w", err)
	}
	return nil
}

// ReadArchive reads every regular file of a tar.xz stream into memory.
func ReadArchive(r io.Reader) (map[string][]byte, error) {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz reader: %w", err)
	}

	files := make(map[string][]byte)
	tr := tar.NewReader(xzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if header.Size > maxFileSize {
			return nil, fmt.Errorf("archive entry %s exceeds size limit", header.Name)
		}

		data, err := io.ReadAll(io.LimitReader(tr, maxFileSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		files[header.Name] = data
	}
	return files, nil
}
