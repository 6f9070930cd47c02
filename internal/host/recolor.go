package host

import (
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// recolorShapes walks a shape list, replacing every fill and stroke whose
// library reference appears in mappings. One shape-colors-updated event is
// emitted per visited shape, changed or not, bracketed by a started event
// carrying the shape count and a completed event. Container children are
// walked recursively; each recursion level emits its own bracket pair, so
// the panel learns the total shape count incrementally.
func (h *Host) recolorShapes(shapes []*Shape, mappings protocol.ColorMap, ref string) {
	h.send(protocol.TypeMappingStarted, protocol.MappingData{Size: len(shapes), Ref: ref})

	for _, shape := range shapes {
		updated := false

		for i, fill := range shape.Fills {
			if fill.FillColorRefID == "" {
				continue
			}
			mapped, ok := mappings[fill.FillColorRefID]
			if !ok {
				continue
			}
			actual, found := h.doc.Asset(mapped.ID)
			if !found {
				continue
			}
			shape.Fills[i] = actual.AsFill()
			updated = true
		}

		for i, stroke := range shape.Strokes {
			if stroke.StrokeColorRefID == "" {
				continue
			}
			mapped, ok := mappings[stroke.StrokeColorRefID]
			if !ok {
				continue
			}
			actual, found := h.doc.Asset(mapped.ID)
			if !found {
				continue
			}
			shape.Strokes[i] = replaceStroke(stroke, actual)
			updated = true
		}

		h.send(protocol.TypeShapeColorsUpdated, protocol.MappingData{
			ID:      shape.ID,
			Updated: updated,
			Ref:     ref,
		})

		if len(shape.Children) > 0 {
			h.recolorShapes(shape.Children, mappings, ref)
		}
	}

	h.send(protocol.TypeMappingCompleted, protocol.MappingData{Ref: ref})
}

// replaceStroke builds a stroke from the replacement asset and carries over
// the existing stroke's non-color metadata. Converting an asset into a
// stroke resets those fields, so this copy is mandatory.
func replaceStroke(stroke protocol.Stroke, asset protocol.Asset) protocol.Stroke {
	replacement := asset.AsStroke()
	replacement.StrokeAlignment = stroke.StrokeAlignment
	replacement.StrokeStyle = stroke.StrokeStyle
	replacement.StrokeCapStart = stroke.StrokeCapStart
	replacement.StrokeCapEnd = stroke.StrokeCapEnd
	replacement.StrokeWidth = stroke.StrokeWidth
	replacement.StrokeColorGradient = stroke.StrokeColorGradient
	return replacement
}
