// Package host implements the privileged host context: the sandbox
// document (asset library, shape tree, selection) and the command handlers
// that mutate it in response to panel messages.
package host

import (
	"github.com/google/uuid"

	"github.com/thematic-dev/thematic/internal/theme"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Shape is a canvas shape. Shapes with children are containers and are
// recursed into during recoloring.
type Shape struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Fills    []protocol.Fill   `json:"fills,omitempty"`
	Strokes  []protocol.Stroke `json:"strokes,omitempty"`
	Children []*Shape          `json:"children,omitempty"`
}

// Document is the host-owned document model: the local asset library, the
// current page's shape tree and the selection. All mutation happens on the
// host run loop goroutine; handlers run to completion per message, so no
// two mutations ever interleave.
type Document struct {
	assets     []*protocol.Asset
	byID       map[string]*protocol.Asset
	shapes     []*Shape
	selection  []string
	appearance string
}

// NewDocument returns an empty document with a light appearance.
func NewDocument() *Document {
	return &Document{
		byID:       make(map[string]*protocol.Asset),
		appearance: "light",
	}
}

// Assets returns a snapshot of the asset library in creation order.
func (d *Document) Assets() []protocol.Asset {
	out := make([]protocol.Asset, len(d.assets))
	for i, a := range d.assets {
		out[i] = *a
	}
	return out
}

// Asset returns a copy of the asset with the given id.
func (d *Document) Asset(id string) (protocol.Asset, bool) {
	a, ok := d.byID[id]
	if !ok {
		return protocol.Asset{}, false
	}
	return *a, true
}

// CreateAsset adds a new library asset with a host-assigned id and applies
// the requested values. Returns the stored asset.
func (d *Document) CreateAsset(apply protocol.Asset) protocol.Asset {
	asset := &protocol.Asset{ID: uuid.NewString()}
	applyValues(asset, apply)
	d.assets = append(d.assets, asset)
	d.byID[asset.ID] = asset
	return *asset
}

// UpdateAsset applies the requested values to an existing asset, located by
// id. Returns false when no such asset exists.
func (d *Document) UpdateAsset(apply protocol.Asset) (protocol.Asset, bool) {
	asset, ok := d.byID[apply.ID]
	if !ok {
		return protocol.Asset{}, false
	}
	applyValues(asset, apply)
	return *asset, true
}

// Shapes returns the page's top-level shapes.
func (d *Document) Shapes() []*Shape {
	return d.shapes
}

// AddShape appends a top-level shape to the page.
func (d *Document) AddShape(s *Shape) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	d.shapes = append(d.shapes, s)
}

// Selection returns the currently selected top-level shapes.
func (d *Document) Selection() []*Shape {
	var selected []*Shape
	for _, id := range d.selection {
		if s := findShape(d.shapes, id); s != nil {
			selected = append(selected, s)
		}
	}
	return selected
}

// SelectionIDs returns the ids of the current selection.
func (d *Document) SelectionIDs() []string {
	return d.selection
}

// SetSelection replaces the current selection.
func (d *Document) SetSelection(ids []string) {
	d.selection = ids
}

// Appearance returns the host UI appearance ("light" or "dark").
func (d *Document) Appearance() string {
	return d.appearance
}

// SetAppearance sets the host UI appearance.
func (d *Document) SetAppearance(appearance string) {
	d.appearance = appearance
}

// applyValues copies the set fields of apply onto the stored asset. Name
// and path are applied last: setting the color value resets the path on
// the upstream asset model, so the ordering is load-bearing. Paths are
// stored in the host's display form.
func applyValues(asset *protocol.Asset, apply protocol.Asset) {
	finalName := apply.Name
	if finalName == "" {
		finalName = asset.Name
	}
	finalPath := apply.Path
	if finalPath == "" {
		finalPath = asset.Path
	}

	if apply.Color != "" {
		asset.Color = apply.Color
	}
	if apply.Opacity != 0 {
		asset.Opacity = apply.Opacity
	}
	if apply.Gradient != nil {
		asset.Gradient = apply.Gradient
	}
	if apply.Image != nil {
		asset.Image = apply.Image
	}
	asset.Name = finalName
	asset.Path = theme.DisplayPath(theme.SplitPath(finalPath))
}

func findShape(shapes []*Shape, id string) *Shape {
	for _, s := range shapes {
		if s.ID == id {
			return s
		}
		if found := findShape(s.Children, id); found != nil {
			return found
		}
	}
	return nil
}
