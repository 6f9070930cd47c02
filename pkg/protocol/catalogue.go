package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types sent by the panel context.
const (
	TypeLoadLocalLibraryColors = "load-local-library-colors"
	TypeCreateColor            = "create-color"
	TypeCreateColors           = "create-colors"
	TypeUpdateColor            = "update-color"
	TypeUpdateColors           = "update-colors"
	TypeRemoveColor            = "remove-color"
	TypeRemoveColors           = "remove-colors"
	TypeUpdatePageColors       = "update-current-page-colors"
	TypeUpdateSelectionColors  = "update-current-selection-colors"
	TypeDeleteLibraryTheme     = "delete-library-theme"
)

// Message types sent by the host context.
const (
	TypeLibraryColorsFetched    = "library-colors-fetched"
	TypeAllLibraryColorsFetched = "all-library-colors-fetched"
	TypeColorCreated            = "color-created"
	TypeColorUpdated            = "color-updated"
	TypeColorRemoved            = "color-removed"
	TypeMappingStarted          = "shape-color-mapping-started"
	TypeShapeColorsUpdated      = "shape-colors-updated"
	TypeMappingCompleted        = "shape-color-mapping-completed"
	TypeSelectionChanged        = "selection-changed"
	TypeThemeChanged            = "theme-changed"
)

// ErrUnknownMessage reports an envelope whose type is not in the catalogue.
// Receivers log and skip such envelopes instead of failing the channel.
var ErrUnknownMessage = errors.New("unknown message type")

// Payload is a decoded envelope payload. The concrete type is determined by
// the envelope type; see Decode.
type Payload any

// Correlated is implemented by payloads carrying a correlation ref.
type Correlated interface {
	CorrelationRef() string
}

// ColorData carries a single asset plus the correlation ref of the
// originating operation.
type ColorData struct {
	Color Asset  `json:"color"`
	Ref   string `json:"ref,omitempty"`
}

// ColorsData carries a batch of assets. Library fetch results carry no ref.
type ColorsData struct {
	Colors []Asset `json:"colors"`
	Ref    string  `json:"ref,omitempty"`
}

// SwapColorsData carries the color map of a shape recoloring operation.
type SwapColorsData struct {
	Mappings ColorMap `json:"mappings"`
	Ref      string   `json:"ref"`
}

// MappingData is emitted by the host during a shape recoloring walk: a
// started bracket carrying the shape count, one updated event per visited
// shape, and a completed bracket.
type MappingData struct {
	ID      string `json:"id,omitempty"`
	Size    int    `json:"size,omitempty"`
	Updated bool   `json:"updated,omitempty"`
	Ref     string `json:"ref"`
}

// DeleteThemeData requests removal of every asset under a theme name.
type DeleteThemeData struct {
	ThemeName string `json:"themeName"`
	Ref       string `json:"ref"`
}

// ShapesData carries the current selection on selection-changed events.
type ShapesData struct {
	Shapes []ShapeInfo `json:"shapes"`
}

// ThemeData carries the host appearance on theme-changed events.
type ThemeData struct {
	Theme string `json:"theme"`
}

// EmptyData is the payload of messages that carry no data.
type EmptyData struct{}

// CorrelationRef implements Correlated.
func (d ColorData) CorrelationRef() string { return d.Ref }

// CorrelationRef implements Correlated.
func (d ColorsData) CorrelationRef() string { return d.Ref }

// CorrelationRef implements Correlated.
func (d SwapColorsData) CorrelationRef() string { return d.Ref }

// CorrelationRef implements Correlated.
func (d MappingData) CorrelationRef() string { return d.Ref }

// CorrelationRef implements Correlated.
func (d DeleteThemeData) CorrelationRef() string { return d.Ref }

// Decode maps an envelope to its validated payload variant. Unknown types
// return ErrUnknownMessage; callers are expected to log and move on rather
// than trusting an unchecked cast.
func Decode(env Envelope) (Payload, error) {
	var payload Payload
	switch env.Type {
	case TypeLoadLocalLibraryColors:
		payload = &EmptyData{}
	case TypeCreateColor, TypeUpdateColor, TypeRemoveColor,
		TypeColorCreated, TypeColorUpdated, TypeColorRemoved:
		payload = &ColorData{}
	case TypeCreateColors, TypeUpdateColors, TypeRemoveColors,
		TypeLibraryColorsFetched, TypeAllLibraryColorsFetched:
		payload = &ColorsData{}
	case TypeUpdatePageColors, TypeUpdateSelectionColors:
		payload = &SwapColorsData{}
	case TypeMappingStarted, TypeShapeColorsUpdated, TypeMappingCompleted:
		payload = &MappingData{}
	case TypeDeleteLibraryTheme:
		payload = &DeleteThemeData{}
	case TypeSelectionChanged:
		payload = &ShapesData{}
	case TypeThemeChanged:
		payload = &ThemeData{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, payload); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", env.Type, err)
		}
	}
	return deref(payload), nil
}

// RefOf extracts the correlation ref of a decoded payload, or "" when the
// payload carries none.
func RefOf(payload Payload) string {
	if c, ok := payload.(Correlated); ok {
		return c.CorrelationRef()
	}
	return ""
}

// deref returns the payload by value so callers can type-switch on concrete
// structs instead of pointers.
func deref(payload Payload) Payload {
	switch p := payload.(type) {
	case *EmptyData:
		return *p
	case *ColorData:
		return *p
	case *ColorsData:
		return *p
	case *SwapColorsData:
		return *p
	case *MappingData:
		return *p
	case *DeleteThemeData:
		return *p
	case *ShapesData:
		return *p
	case *ThemeData:
		return *p
	default:
		return payload
	}
}
