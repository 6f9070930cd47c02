// Package protocol defines the message protocol spoken between the host
// context and the panel context.
package protocol

// Asset is a single host-managed color resource. Identity is ID, assigned by
// the host on creation and never reused. Path encodes hierarchical grouping;
// the host renders the separator as " / ".
type Asset struct {
	ID       string     `json:"id,omitempty"`
	Name     string     `json:"name,omitempty"`
	Path     string     `json:"path,omitempty"`
	Color    string     `json:"color,omitempty"`
	Opacity  float64    `json:"opacity,omitempty"`
	Gradient *Gradient  `json:"gradient,omitempty"`
	Image    *ImageFill `json:"image,omitempty"`
}

// GradientStop is a single color stop of a gradient.
type GradientStop struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity,omitempty"`
	Offset  float64 `json:"offset"`
}

// Gradient is a linear or radial gradient paint.
type Gradient struct {
	Type   string         `json:"type"`
	StartX float64        `json:"startX"`
	StartY float64        `json:"startY"`
	EndX   float64        `json:"endX"`
	EndY   float64        `json:"endY"`
	Width  float64        `json:"width,omitempty"`
	Stops  []GradientStop `json:"stops,omitempty"`
}

// ImageFill references a host-stored image used as a paint.
type ImageFill struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Fill is a shape fill paint. FillColorRefID points at the library asset the
// fill was taken from, when any.
type Fill struct {
	FillColor         string     `json:"fillColor,omitempty"`
	FillOpacity       float64    `json:"fillOpacity,omitempty"`
	FillColorGradient *Gradient  `json:"fillColorGradient,omitempty"`
	FillColorRefID    string     `json:"fillColorRefId,omitempty"`
	FillImage         *ImageFill `json:"fillImage,omitempty"`
}

// Stroke is a shape stroke paint plus its non-color metadata. The metadata
// fields survive color replacement; see the host recolor handler.
type Stroke struct {
	StrokeColor         string    `json:"strokeColor,omitempty"`
	StrokeOpacity       float64   `json:"strokeOpacity,omitempty"`
	StrokeColorRefID    string    `json:"strokeColorRefId,omitempty"`
	StrokeColorGradient *Gradient `json:"strokeColorGradient,omitempty"`
	StrokeAlignment     string    `json:"strokeAlignment,omitempty"`
	StrokeStyle         string    `json:"strokeStyle,omitempty"`
	StrokeCapStart      string    `json:"strokeCapStart,omitempty"`
	StrokeCapEnd        string    `json:"strokeCapEnd,omitempty"`
	StrokeWidth         float64   `json:"strokeWidth,omitempty"`
}

// ShapeInfo is the shape summary carried by selection-changed events.
type ShapeInfo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ColorMap maps a source asset id to its intended replacement asset. Built
// once per operation, consumed once by the host, discarded.
type ColorMap map[string]Asset

// AsFill converts the asset into a fill paint referencing it.
func (a Asset) AsFill() Fill {
	f := Fill{
		FillColor:         a.Color,
		FillColorGradient: a.Gradient,
		FillColorRefID:    a.ID,
		FillImage:         a.Image,
	}
	if a.Opacity > 0 {
		f.FillOpacity = a.Opacity
	} else {
		f.FillOpacity = 1
	}
	return f
}

// AsStroke converts the asset into a stroke paint referencing it. Only the
// color-derived fields are populated; metadata is left zero and must be
// copied from the stroke being replaced.
func (a Asset) AsStroke() Stroke {
	s := Stroke{
		StrokeColor:         a.Color,
		StrokeColorGradient: a.Gradient,
		StrokeColorRefID:    a.ID,
	}
	if a.Opacity > 0 {
		s.StrokeOpacity = a.Opacity
	} else {
		s.StrokeOpacity = 1
	}
	return s
}
