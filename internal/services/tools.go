package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/internal/theme"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Scope selects which shapes a recoloring operation visits.
type Scope string

const (
	// ScopePage recolors every shape on the current page.
	ScopePage Scope = "page"
	// ScopeSelection recolors only the currently selected shapes.
	ScopeSelection Scope = "selection"
)

// MappingResult summarizes a shape recoloring walk.
type MappingResult struct {
	// Shapes is the number of shapes the host visited.
	Shapes int
	// Updated is the number of shapes whose fills or strokes changed.
	Updated int
}

// Tools drives the recoloring operations: variant swap, theme replacement
// and cross-theme synchronization.
type Tools struct {
	messenger
}

// NewTools returns a tools service speaking over conn, demultiplexing
// results through disp.
func NewTools(conn messaging.Conn, disp *messaging.Dispatcher, notify Notifier, logger hclog.Logger, opts ...Option) *Tools {
	return &Tools{messenger: newMessenger(conn, disp, notify, logger, opts)}
}

// SwapColors switches shapes between a theme's light and dark assets. Each
// theme must hold both variants in equal measure; within every theme the
// light and dark asset lists are sorted into positional correspondence and
// zipped into the mapping sent to the host. useDark selects the direction:
// true maps light assets to their dark counterparts. The balance check is
// per theme, so one theme's assets never map onto another's.
func (t *Tools) SwapColors(ctx context.Context, themes []theme.Theme, useDark bool, scope Scope) (*MappingResult, error) {
	mappings := make(protocol.ColorMap)
	for _, th := range themes {
		var light, dark []protocol.Asset
		for _, asset := range theme.Flatten(th) {
			switch {
			case strings.Contains(asset.Path, variantMark("light")):
				light = append(light, asset)
			case strings.Contains(asset.Path, variantMark("dark")):
				dark = append(dark, asset)
			}
		}

		sort.Slice(light, func(i, j int) bool { return theme.Compare(light[i], light[j]) < 0 })
		sort.Slice(dark, func(i, j int) bool { return theme.Compare(dark[i], dark[j]) < 0 })

		if len(light) != len(dark) {
			return nil, fmt.Errorf("%w: theme %q has %d light assets vs %d dark assets",
				ErrUnbalancedVariants, th.Name, len(light), len(dark))
		}

		for i := range light {
			if useDark {
				mappings[light[i].ID] = dark[i]
			} else {
				mappings[dark[i].ID] = light[i]
			}
		}
	}

	return t.applyMappings(ctx, mappings, scope)
}

// ReplaceThemes recolors shapes from one theme onto another. Each asset of
// the current theme maps to the replacement asset with the same reference
// (name and sub-path); assets with no counterpart map to themselves, so
// shapes using them keep their color.
func (t *Tools) ReplaceThemes(ctx context.Context, current, replacement theme.Theme, scope Scope) (*MappingResult, error) {
	replacementFlat := theme.Flatten(replacement)

	currentFlat := theme.Flatten(current)
	mappings := make(protocol.ColorMap, len(currentFlat))
	for _, asset := range currentFlat {
		target := asset
		for _, candidate := range replacementFlat {
			if theme.SameReference(asset, candidate) {
				target = candidate
				break
			}
		}
		mappings[asset.ID] = target
	}

	return t.applyMappings(ctx, mappings, scope)
}

// SyncThemes propagates the source theme's colors to each target: matching
// assets take the source values, and, when the corresponding flag is set,
// assets missing from a target are created under its name (addNew) and
// assets the source no longer has are removed (removeExtra). Targets are
// processed one after another.
func (t *Tools) SyncThemes(ctx context.Context, source theme.Theme, targets []theme.Theme, addNew, removeExtra bool) error {
	ctx, cancel := t.opContext(ctx)
	defer cancel()

	for _, target := range targets {
		if err := t.syncTheme(ctx, source, target, addNew, removeExtra); err != nil {
			return fmt.Errorf("failed to sync theme %q: %w", target.Name, err)
		}
	}
	return nil
}

// syncTheme computes the asset diff between source and one target and plays
// it back as three tracked phases: additions, updates, removals.
func (t *Tools) syncTheme(ctx context.Context, source, target theme.Theme, addNew, removeExtra bool) error {
	additions, updates, removals := diffThemes(source, target, addNew, removeExtra)
	total := len(additions) + len(updates) + len(removals)

	t.notify(Progress{
		Phase:   PhaseStarted,
		Message: fmt.Sprintf("Syncing theme %q...", target.Name),
		Total:   total,
	})

	done := 0
	progress := func(loaded, _ int) {
		t.notify(Progress{
			Phase:   PhaseUpdated,
			Message: fmt.Sprintf("Syncing theme %q...", target.Name),
			Loaded:  done + loaded,
			Total:   total,
		})
	}

	phases := []struct {
		assets  []protocol.Asset
		msgType string
		ackType string
	}{
		{additions, protocol.TypeCreateColor, protocol.TypeColorCreated},
		{updates, protocol.TypeUpdateColor, protocol.TypeColorUpdated},
		{removals, protocol.TypeRemoveColor, protocol.TypeColorRemoved},
	}

	for _, phase := range phases {
		if len(phase.assets) == 0 {
			continue
		}
		if err := t.runSyncPhase(ctx, phase.assets, phase.msgType, phase.ackType, progress); err != nil {
			return err
		}
		done += len(phase.assets)
	}

	t.notify(Progress{
		Phase:   PhaseCompleted,
		Message: fmt.Sprintf("Theme %q synced.", target.Name),
		Loaded:  total,
		Total:   total,
	})
	return nil
}

func (t *Tools) runSyncPhase(ctx context.Context, assets []protocol.Asset, msgType, ackType string, progress func(loaded, total int)) error {
	ref := uuid.NewString()
	tracker := t.disp.Track(messaging.TrackSpec{
		Ref:        ref,
		Expected:   len(assets),
		Types:      []string{ackType},
		OnProgress: progress,
	})
	defer tracker.Cancel()

	for _, asset := range assets {
		if err := t.send(msgType, protocol.ColorData{Color: asset, Ref: ref}); err != nil {
			return err
		}
	}

	if _, err := tracker.Wait(ctx); err != nil {
		return err
	}
	return nil
}

// applyMappings sends the recoloring command and follows the host's walk:
// a started bracket per traversal level announcing its shape count, one
// update per visited shape and a completed bracket closing the level. The
// walk is done when every opened bracket has closed.
func (t *Tools) applyMappings(ctx context.Context, mappings protocol.ColorMap, scope Scope) (*MappingResult, error) {
	ref := uuid.NewString()

	msgType := protocol.TypeUpdatePageColors
	if scope == ScopeSelection {
		msgType = protocol.TypeUpdateSelectionColors
	}

	ctx, cancel := t.opContext(ctx)
	defer cancel()

	sub := t.disp.Register(ref,
		protocol.TypeMappingStarted,
		protocol.TypeShapeColorsUpdated,
		protocol.TypeMappingCompleted,
	)
	defer sub.Cancel()

	t.notify(Progress{Phase: PhaseStarted, Message: "Updating shape colors...", Ref: ref})

	if err := t.send(msgType, protocol.SwapColorsData{Mappings: mappings, Ref: ref}); err != nil {
		return nil, err
	}

	var result MappingResult
	open := 0
	started := false

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, fmt.Errorf("shape recoloring incomplete: %w", messaging.ErrTimeout)
			}
			return nil, ctx.Err()
		case event, ok := <-sub.C:
			if !ok {
				return nil, messaging.ErrConnClosed
			}
			data, isMapping := event.Payload.(protocol.MappingData)
			if !isMapping {
				continue
			}
			switch event.Envelope.Type {
			case protocol.TypeMappingStarted:
				started = true
				open++
				result.Shapes += data.Size
			case protocol.TypeShapeColorsUpdated:
				if data.Updated {
					result.Updated++
				}
				t.notify(Progress{
					Phase:   PhaseUpdated,
					Message: "Updating shape colors...",
					Loaded:  result.Updated,
					Total:   result.Shapes,
					Ref:     ref,
				})
			case protocol.TypeMappingCompleted:
				open--
			}
			if started && open == 0 {
				t.notify(Progress{
					Phase:   PhaseCompleted,
					Message: fmt.Sprintf("Updated %d of %d shapes.", result.Updated, result.Shapes),
					Loaded:  result.Updated,
					Total:   result.Shapes,
					Ref:     ref,
				})
				return &result, nil
			}
		}
	}
}

// diffThemes computes the sync plan for one target: assets present in both
// themes become updates carrying the source values on the target's identity,
// source assets the target lacks become additions rebased under the target's
// name (when addNew is set), and leftover target assets become removals
// (when removeExtra is set).
func diffThemes(source, target theme.Theme, addNew, removeExtra bool) (additions, updates, removals []protocol.Asset) {
	remaining := theme.Flatten(target)

	for _, src := range theme.Flatten(source) {
		matched := false
		for i, tgt := range remaining {
			if theme.SameReference(src, tgt) {
				tgt.Color = src.Color
				tgt.Opacity = src.Opacity
				tgt.Gradient = src.Gradient
				tgt.Image = src.Image
				updates = append(updates, tgt)
				remaining = append(remaining[:i], remaining[i+1:]...)
				matched = true
				break
			}
		}
		if matched || !addNew {
			continue
		}

		segments := theme.SplitPath(src.Path)
		segments[0] = target.Name
		addition := src
		addition.ID = ""
		addition.Path = theme.JoinPath(segments)
		additions = append(additions, addition)
	}

	if removeExtra {
		removals = remaining
	}
	return additions, updates, removals
}

// variantMark is the display-path fragment identifying a scheme variant.
// Library asset paths are stored in display form.
func variantMark(variant string) string {
	return theme.DisplaySeparator + variant
}
