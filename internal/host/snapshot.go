package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/thematic-dev/thematic/internal/compression"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// snapshotEntry is the name of the document file inside a snapshot archive.
const snapshotEntry = "document.json"

// Snapshot is the serializable form of a sandbox document. It exists for
// the CLI's load/save convenience; the host itself never persists anything.
type Snapshot struct {
	Assets     []protocol.Asset `json:"assets,omitempty"`
	Shapes     []*Shape         `json:"shapes,omitempty"`
	Selection  []string         `json:"selection,omitempty"`
	Appearance string           `json:"appearance,omitempty"`
}

// TakeSnapshot captures the document's current state.
func TakeSnapshot(doc *Document) Snapshot {
	return Snapshot{
		Assets:     doc.Assets(),
		Shapes:     doc.Shapes(),
		Selection:  doc.SelectionIDs(),
		Appearance: doc.Appearance(),
	}
}

// RestoreSnapshot builds a document from a snapshot. Asset ids are kept
// as-is so shape references stay valid.
func RestoreSnapshot(snap Snapshot) *Document {
	doc := NewDocument()
	for _, asset := range snap.Assets {
		stored := asset
		doc.assets = append(doc.assets, &stored)
		doc.byID[stored.ID] = &stored
	}
	doc.shapes = snap.Shapes
	doc.selection = snap.Selection
	if snap.Appearance != "" {
		doc.appearance = snap.Appearance
	}
	return doc
}

// SaveSnapshot writes the document to path. A ".tar.xz" path produces a
// compressed archive, anything else plain JSON.
func SaveSnapshot(doc *Document, path string) error {
	data, err := json.MarshalIndent(TakeSnapshot(doc), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if strings.HasSuffix(path, ".tar.xz") {
		var buf bytes.Buffer
		if err := compression.WriteArchive(&buf, map[string][]byte{snapshotEntry: data}); err != nil {
			return fmt.Errorf("failed to pack snapshot: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a document from path, accepting both plain JSON and
// tar.xz snapshot archives.
func LoadSnapshot(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 - snapshot path is user-provided by design
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if strings.HasSuffix(path, ".tar.xz") {
		files, err := compression.ReadArchive(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to unpack snapshot: %w", err)
		}
		entry, ok := files[snapshotEntry]
		if !ok {
			return nil, fmt.Errorf("snapshot archive has no %s", snapshotEntry)
		}
		data = entry
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return RestoreSnapshot(snap), nil
}
