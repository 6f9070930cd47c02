package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/thematic-dev/thematic/internal/material"
	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/internal/theme"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Builder generates and updates theme asset sets in the host library.
type Builder struct {
	messenger
}

// NewBuilder returns a builder service speaking over conn, demultiplexing
// results through disp.
func NewBuilder(conn messaging.Conn, disp *messaging.Dispatcher, notify Notifier, logger hclog.Logger, opts ...Option) *Builder {
	return &Builder{messenger: newMessenger(conn, disp, notify, logger, opts)}
}

// GenerateTheme derives a full theme from sourceHex and creates one asset
// per derived color under themeName. The expected asset count is fixed and
// known up front; the returned theme is re-aggregated from the host's
// creation results, so it reflects exactly what the library now holds.
func (b *Builder) GenerateTheme(ctx context.Context, themeName, sourceHex string, withTonalPalettes, withStateLayers bool) (*theme.Theme, error) {
	source, err := material.FromHex(sourceHex)
	if err != nil {
		return nil, err
	}
	derived := material.Derive(source)

	ref := uuid.NewString()
	expected := theme.ExpectedAssetCount(withStateLayers, withTonalPalettes)

	b.notify(Progress{Phase: PhaseStarted, Message: "Generating theme...", Ref: ref})

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	tracker := b.disp.Track(messaging.TrackSpec{
		Ref:      ref,
		Expected: expected,
		Types:    []string{protocol.TypeColorCreated},
		OnProgress: func(loaded, total int) {
			b.notify(Progress{
				Phase:   PhaseUpdated,
				Message: "Generating theme assets...",
				Loaded:  loaded,
				Total:   total,
				Ref:     ref,
			})
		},
	})
	defer tracker.Cancel()

	if err := b.createThemeAssets(derived, themeName, withTonalPalettes, withStateLayers, ref); err != nil {
		return nil, err
	}

	events, err := tracker.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("theme generation incomplete: %w", err)
	}

	result, err := b.aggregateOne(events)
	if err != nil {
		return nil, err
	}

	b.notify(Progress{Phase: PhaseCompleted, Message: "Theme generated.", Ref: ref})
	return result, nil
}

// UpdateTheme rewrites an existing theme's assets in place: a new source
// color recomputes every asset value through its path coordinate, a new
// name rewrites the leading path segment. State layers and tonal palettes
// are additive-only: they are generated when requested and absent, never
// regenerated when already present.
func (b *Builder) UpdateTheme(ctx context.Context, existing theme.Theme, newName, newSourceHex string, withTonalPalettes, withStateLayers bool) (*theme.Theme, error) {
	ref := uuid.NewString()
	b.notify(Progress{Phase: PhaseStarted, Message: "Preparing theme update...", Ref: ref})

	var derived *material.Theme
	if newSourceHex != "" {
		source, err := material.FromHex(newSourceHex)
		if err != nil {
			return nil, err
		}
		derived = material.Derive(source)
	}

	updates := b.buildAssetUpdates(existing, derived, newName)

	generateStateLayers := withStateLayers && len(existing.StateLayers) == 0
	generateTonalPalettes := withTonalPalettes && len(existing.Palettes) == 0

	expected := len(updates)
	if generateStateLayers {
		expected += theme.StateLayerAssetCount()
	}
	if generateTonalPalettes {
		expected += theme.PaletteAssetCount()
	}

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	tracker := b.disp.Track(messaging.TrackSpec{
		Ref:      ref,
		Expected: expected,
		Types:    []string{protocol.TypeColorUpdated, protocol.TypeColorCreated},
		OnProgress: func(loaded, total int) {
			b.notify(Progress{
				Phase:   PhaseUpdated,
				Message: "Updating theme assets...",
				Loaded:  loaded,
				Total:   total,
				Ref:     ref,
			})
		},
	})
	defer tracker.Cancel()

	for _, update := range updates {
		if err := b.send(protocol.TypeUpdateColor, protocol.ColorData{Color: update, Ref: ref}); err != nil {
			return nil, err
		}
	}

	if generateStateLayers || generateTonalPalettes {
		required := derived
		if required == nil {
			if existing.Source.Color == "" {
				return nil, ErrNoSourceColor
			}
			source, err := material.FromHex(existing.Source.Color)
			if err != nil {
				return nil, fmt.Errorf("invalid source color on theme %q: %w", existing.Name, err)
			}
			required = material.Derive(source)
		}

		requiredName := newName
		if requiredName == "" {
			requiredName = existing.Name
		}

		if generateTonalPalettes {
			if err := b.createTonalPalettes(required, requiredName, ref); err != nil {
				return nil, err
			}
		}
		if generateStateLayers {
			for _, variant := range material.Variants {
				scheme, _ := required.Scheme(variant)
				if err := b.createStateLayerColors(requiredName, variant, scheme, ref); err != nil {
					return nil, err
				}
			}
		}
	}

	events, err := tracker.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("theme update incomplete: %w", err)
	}

	result, err := b.aggregateOne(events)
	if err != nil {
		return nil, err
	}

	b.notify(Progress{Phase: PhaseCompleted, Message: "Theme updated.", Ref: ref})
	return result, nil
}

// ImportAssets creates the given assets in the host library and returns
// them as the host recorded them. Asset ids are host-assigned; incoming ids
// are ignored.
func (b *Builder) ImportAssets(ctx context.Context, assets []protocol.Asset) ([]protocol.Asset, error) {
	ref := uuid.NewString()
	b.notify(Progress{Phase: PhaseStarted, Message: "Importing assets...", Ref: ref})

	ctx, cancel := b.opContext(ctx)
	defer cancel()

	tracker := b.disp.Track(messaging.TrackSpec{
		Ref:      ref,
		Expected: len(assets),
		Types:    []string{protocol.TypeColorCreated},
		OnProgress: func(loaded, total int) {
			b.notify(Progress{
				Phase:   PhaseUpdated,
				Message: "Importing assets...",
				Loaded:  loaded,
				Total:   total,
				Ref:     ref,
			})
		},
	})
	defer tracker.Cancel()

	for _, asset := range assets {
		asset.ID = ""
		if err := b.createColor(asset, ref); err != nil {
			return nil, err
		}
	}

	events, err := tracker.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("asset import incomplete: %w", err)
	}

	created := make([]protocol.Asset, 0, len(events))
	for _, event := range events {
		if data, ok := event.Payload.(protocol.ColorData); ok {
			created = append(created, data.Color)
		}
	}

	b.notify(Progress{Phase: PhaseCompleted, Message: fmt.Sprintf("Imported %d assets.", len(created)), Ref: ref})
	return created, nil
}

// DeleteTheme requests deletion of every asset under themeName. The host
// currently lacks a deletion capability and acknowledges nothing, so the
// call resolves immediately.
func (b *Builder) DeleteTheme(ctx context.Context, themeName string) error {
	ref := uuid.NewString()
	b.logger.Warn("theme deletion is not supported by the host yet", "theme", themeName)
	return b.send(protocol.TypeDeleteLibraryTheme, protocol.DeleteThemeData{ThemeName: themeName, Ref: ref})
}

// buildAssetUpdates computes the update record for every existing asset:
// value recomputed through the path coordinate when a new derivation is
// given, leading path segment rewritten when a new name is given. Unknown
// coordinates are logged and keep their current value.
func (b *Builder) buildAssetUpdates(existing theme.Theme, derived *material.Theme, newName string) []protocol.Asset {
	flat := theme.Flatten(existing)
	updates := make([]protocol.Asset, 0, len(flat))
	for _, asset := range flat {
		segments := theme.SplitPath(asset.Path)

		if derived != nil {
			if value, ok := theme.ColorForPath(derived, segments, asset.Name); ok {
				asset.Color = value.Hex()
			} else {
				b.logger.Warn("unsupported color coordinate, leaving value unchanged",
					"path", asset.Path, "name", asset.Name)
			}
		}
		if newName != "" {
			segments[0] = newName
			asset.Path = theme.JoinPath(segments)
		}
		updates = append(updates, asset)
	}
	return updates
}

// createThemeAssets emits one create command per derived color: the source,
// each variant's scheme roles (plus state layers when enabled), then the
// tonal palettes.
func (b *Builder) createThemeAssets(derived *material.Theme, themeName string, withTonalPalettes, withStateLayers bool, ref string) error {
	err := b.createColor(protocol.Asset{
		Color: derived.Source.Hex(),
		Path:  themeName,
		Name:  theme.SourceName,
	}, ref)
	if err != nil {
		return err
	}

	for _, variant := range material.Variants {
		scheme, _ := derived.Scheme(variant)
		if err := b.createSchemeColors(themeName, variant, scheme, ref); err != nil {
			return err
		}
		if withStateLayers {
			if err := b.createStateLayerColors(themeName, variant, scheme, ref); err != nil {
				return err
			}
		}
	}

	if withTonalPalettes {
		if err := b.createTonalPalettes(derived, themeName, ref); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) createSchemeColors(themeName, variant string, scheme material.Scheme, ref string) error {
	for _, role := range material.Roles {
		asset := protocol.Asset{
			Color: scheme[role].Hex(),
			Path:  fmt.Sprintf("%s/%s/%s", themeName, theme.CategoryScheme, variant),
			Name:  role,
		}
		if err := b.createColor(asset, ref); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) createStateLayerColors(themeName, variant string, scheme material.Scheme, ref string) error {
	for _, role := range material.Roles {
		for _, opacity := range material.StateOpacities {
			asset := protocol.Asset{
				Color:   scheme[role].WithOpacity(opacity).Hex(),
				Opacity: opacity,
				Path:    fmt.Sprintf("%s/%s/%s/%s", themeName, theme.CategoryStateLayers, variant, role),
				Name:    theme.OpacityName(opacity),
			}
			if err := b.createColor(asset, ref); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) createTonalPalettes(derived *material.Theme, themeName, ref string) error {
	for _, name := range material.PaletteNames {
		palette, _ := derived.Palettes.ByName(name)
		for _, tone := range material.ToneValues {
			asset := protocol.Asset{
				Color: palette.Tone(tone).Hex(),
				Path:  fmt.Sprintf("%s/%s", themeName, theme.CategoryPalettes),
				Name:  theme.PaletteToneName(name, tone),
			}
			if err := b.createColor(asset, ref); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) createColor(asset protocol.Asset, ref string) error {
	return b.send(protocol.TypeCreateColor, protocol.ColorData{Color: asset, Ref: ref})
}

// aggregateOne folds tracked color events back into themes and demands
// exactly one.
func (b *Builder) aggregateOne(events []messaging.Event) (*theme.Theme, error) {
	assets := make([]protocol.Asset, 0, len(events))
	for _, event := range events {
		if data, ok := event.Payload.(protocol.ColorData); ok {
			assets = append(assets, data.Color)
		}
	}

	themes := theme.MapAssetsToThemes(assets)
	if len(themes) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one theme from %d assets, got %d",
			ErrDesynchronized, len(assets), len(themes))
	}
	return &themes[0], nil
}
