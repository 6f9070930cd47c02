package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thematic-dev/thematic/internal/host"
	"github.com/thematic-dev/thematic/internal/material"
	"github.com/thematic-dev/thematic/internal/messaging"
	"github.com/thematic-dev/thematic/internal/theme"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// rig runs a real host on one end of a pipe and a dispatcher on the other,
// so service operations exercise the full command/event round trip.
type rig struct {
	doc  *host.Document
	host *host.Host
	conn messaging.Conn
	disp *messaging.Dispatcher
}

func newRig(t *testing.T) *rig {
	t.Helper()

	hostEnd, panelEnd := messaging.Pipe(512)
	doc := host.NewDocument()
	h := host.New(doc, hostEnd, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = h.Run(ctx) }()

	disp := messaging.NewDispatcher(panelEnd, protocol.SourceHost, nil)
	t.Cleanup(func() {
		disp.Close()
		cancel()
		hostEnd.Close()
		panelEnd.Close()
	})

	return &rig{doc: doc, host: h, conn: panelEnd, disp: disp}
}

func (r *rig) builder(opts ...Option) *Builder {
	return NewBuilder(r.conn, r.disp, nil, nil, opts...)
}

func (r *rig) tools(opts ...Option) *Tools {
	return NewTools(r.conn, r.disp, nil, nil, opts...)
}

func (r *rig) panel(opts ...Option) *Panel {
	return NewPanel(r.conn, r.disp, nil, nil, opts...)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// findAsset locates a library asset by its display path and name.
func findAsset(t *testing.T, doc *host.Document, path, name string) protocol.Asset {
	t.Helper()
	for _, asset := range doc.Assets() {
		if asset.Path == path && asset.Name == name {
			return asset
		}
	}
	t.Fatalf("no asset %q at %q", name, path)
	return protocol.Asset{}
}

func TestGenerateThemeBase(t *testing.T) {
	r := newRig(t)

	generated, err := r.builder().GenerateTheme(testContext(t), "forest", "#673ab7", false, false)
	require.NoError(t, err)

	assert.Equal(t, "forest", generated.Name)
	assert.Empty(t, generated.StateLayers)
	assert.Empty(t, generated.Palettes)
	assert.Len(t, theme.Flatten(*generated), theme.ExpectedAssetCount(false, false))
	assert.Len(t, r.doc.Assets(), theme.ExpectedAssetCount(false, false))

	// Values match a fresh derivation from the same source.
	source, err := material.FromHex("#673ab7")
	require.NoError(t, err)
	derived := material.Derive(source)
	light, _ := derived.Scheme("light")

	assert.Equal(t, derived.Source.Hex(), generated.Source.Color)
	primary := findAsset(t, r.doc, "forest / scheme / light", "primary")
	assert.Equal(t, light["primary"].Hex(), primary.Color)
	assert.NotEmpty(t, primary.ID)
}

func TestGenerateThemeFull(t *testing.T) {
	r := newRig(t)

	generated, err := r.builder().GenerateTheme(testContext(t), "forest", "#673ab7", true, true)
	require.NoError(t, err)

	assert.Len(t, theme.Flatten(*generated), theme.ExpectedAssetCount(true, true))
	assert.NotEmpty(t, generated.StateLayers)
	assert.NotEmpty(t, generated.Palettes)

	layer := findAsset(t, r.doc, "forest / state-layers / light / primary", theme.OpacityName(0.08))
	assert.InDelta(t, 0.08, layer.Opacity, 1e-9)
}

func TestGenerateThemeInvalidColor(t *testing.T) {
	r := newRig(t)

	_, err := r.builder().GenerateTheme(testContext(t), "forest", "not-a-color", false, false)
	assert.Error(t, err)
	assert.Empty(t, r.doc.Assets())
}

func TestGenerateThemeProgress(t *testing.T) {
	r := newRig(t)

	var phases []string
	notify := func(p Progress) { phases = append(phases, p.Phase) }
	b := NewBuilder(r.conn, r.disp, notify, nil)

	_, err := b.GenerateTheme(testContext(t), "forest", "#673ab7", false, false)
	require.NoError(t, err)

	require.NotEmpty(t, phases)
	assert.Equal(t, PhaseStarted, phases[0])
	assert.Equal(t, PhaseCompleted, phases[len(phases)-1])
	assert.Contains(t, phases, PhaseUpdated)
}

func TestUpdateThemeRecolorAndRename(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	generated, err := b.GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)
	before := len(r.doc.Assets())

	updated, err := b.UpdateTheme(ctx, *generated, "ocean", "#006688", false, false)
	require.NoError(t, err)

	assert.Equal(t, "ocean", updated.Name)
	// Renaming rewrites paths in place, no assets are created.
	assert.Len(t, r.doc.Assets(), before)

	source, err := material.FromHex("#006688")
	require.NoError(t, err)
	derived := material.Derive(source)
	light, _ := derived.Scheme("light")

	primary := findAsset(t, r.doc, "ocean / scheme / light", "primary")
	assert.Equal(t, light["primary"].Hex(), primary.Color)

	// The old id survives the rename.
	var oldID string
	for _, asset := range generated.Scheme["light"] {
		if asset.Name == "primary" {
			oldID = asset.ID
		}
	}
	assert.Equal(t, oldID, primary.ID)
}

func TestUpdateThemeAddsStateLayers(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	generated, err := b.GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)

	updated, err := b.UpdateTheme(ctx, *generated, "", "", false, true)
	require.NoError(t, err)

	assert.NotEmpty(t, updated.StateLayers)
	assert.Len(t, r.doc.Assets(), theme.ExpectedAssetCount(true, false))
}

func TestUpdateThemeWithoutSourceColor(t *testing.T) {
	r := newRig(t)

	bare := theme.Theme{Name: "forest"}
	_, err := r.builder().UpdateTheme(testContext(t), bare, "", "", false, true)
	assert.ErrorIs(t, err, ErrNoSourceColor)
}

func TestImportAssets(t *testing.T) {
	r := newRig(t)

	created, err := r.builder().ImportAssets(testContext(t), []protocol.Asset{
		{ID: "stale-1", Name: "source", Path: "forest", Color: "#673ab7"},
		{ID: "stale-2", Name: "primary", Path: "forest/scheme/light", Color: "#111111"},
	})
	require.NoError(t, err)

	require.Len(t, created, 2)
	for _, asset := range created {
		assert.NotEmpty(t, asset.ID)
		assert.NotContains(t, []string{"stale-1", "stale-2"}, asset.ID, "host assigns fresh ids")
	}
	assert.Len(t, theme.MapAssetsToThemes(created), 1)
}

func TestDeleteThemeResolvesImmediately(t *testing.T) {
	r := newRig(t)

	err := r.builder().DeleteTheme(testContext(t), "forest")
	assert.NoError(t, err)
}

func TestSwapColorsRejectsUnbalancedThemes(t *testing.T) {
	r := newRig(t)

	lopsided := theme.Theme{
		Name: "forest",
		Scheme: map[string][]protocol.Asset{
			"light": {{ID: "a1", Path: "forest / scheme / light", Name: "primary"}},
		},
	}

	_, err := r.tools().SwapColors(testContext(t), []theme.Theme{lopsided}, true, ScopePage)
	assert.ErrorIs(t, err, ErrUnbalancedVariants)
	// Rejected before anything reaches the host.
	assert.Empty(t, r.doc.Shapes())
}

func TestSwapColorsRejectsOppositeLopsidedThemes(t *testing.T) {
	r := newRig(t)

	// Balanced in aggregate (3 light, 3 dark) but each theme is lopsided.
	alpha := theme.Theme{
		Name: "alpha",
		Scheme: map[string][]protocol.Asset{
			"light": {
				{ID: "a1", Path: "alpha / scheme / light", Name: "primary"},
				{ID: "a2", Path: "alpha / scheme / light", Name: "secondary"},
			},
			"dark": {
				{ID: "a3", Path: "alpha / scheme / dark", Name: "primary"},
			},
		},
	}
	zeta := theme.Theme{
		Name: "zeta",
		Scheme: map[string][]protocol.Asset{
			"light": {
				{ID: "z1", Path: "zeta / scheme / light", Name: "primary"},
			},
			"dark": {
				{ID: "z2", Path: "zeta / scheme / dark", Name: "primary"},
				{ID: "z3", Path: "zeta / scheme / dark", Name: "secondary"},
			},
		},
	}

	_, err := r.tools().SwapColors(testContext(t), []theme.Theme{alpha, zeta}, true, ScopePage)
	assert.ErrorIs(t, err, ErrUnbalancedVariants)
}

func TestSwapColorsTwoThemesStayApart(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	forest, err := b.GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)
	ocean, err := b.GenerateTheme(ctx, "ocean", "#006688", false, false)
	require.NoError(t, err)

	forestLight := findAsset(t, r.doc, "forest / scheme / light", "primary")
	oceanLight := findAsset(t, r.doc, "ocean / scheme / light", "primary")
	r.doc.AddShape(&host.Shape{ID: "s1", Fills: []protocol.Fill{forestLight.AsFill()}})
	r.doc.AddShape(&host.Shape{ID: "s2", Fills: []protocol.Fill{oceanLight.AsFill()}})

	result, err := r.tools().SwapColors(ctx, []theme.Theme{*forest, *ocean}, true, ScopePage)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)

	// Each shape lands on its own theme's dark counterpart.
	forestDark := findAsset(t, r.doc, "forest / scheme / dark", "primary")
	oceanDark := findAsset(t, r.doc, "ocean / scheme / dark", "primary")
	assert.Equal(t, forestDark.ID, r.doc.Shapes()[0].Fills[0].FillColorRefID)
	assert.Equal(t, oceanDark.ID, r.doc.Shapes()[1].Fills[0].FillColorRefID)
}

func TestSwapColorsPage(t *testing.T) {
	r := newRig(t)
	ctx := testContext(t)

	generated, err := r.builder().GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)

	lightPrimary := findAsset(t, r.doc, "forest / scheme / light", "primary")
	darkPrimary := findAsset(t, r.doc, "forest / scheme / dark", "primary")
	r.doc.AddShape(&host.Shape{ID: "s1", Fills: []protocol.Fill{lightPrimary.AsFill()}})

	result, err := r.tools().SwapColors(ctx, []theme.Theme{*generated}, true, ScopePage)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Shapes)
	assert.Equal(t, 1, result.Updated)

	fill := r.doc.Shapes()[0].Fills[0]
	assert.Equal(t, darkPrimary.ID, fill.FillColorRefID)
	assert.Equal(t, darkPrimary.Color, fill.FillColor)
}

func TestSwapColorsSelection(t *testing.T) {
	r := newRig(t)
	ctx := testContext(t)

	generated, err := r.builder().GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)

	lightPrimary := findAsset(t, r.doc, "forest / scheme / light", "primary")
	r.doc.AddShape(&host.Shape{ID: "s1", Fills: []protocol.Fill{lightPrimary.AsFill()}})
	r.doc.AddShape(&host.Shape{ID: "s2", Fills: []protocol.Fill{lightPrimary.AsFill()}})
	r.doc.SetSelection([]string{"s2"})

	result, err := r.tools().SwapColors(ctx, []theme.Theme{*generated}, true, ScopeSelection)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Shapes)
	darkPrimary := findAsset(t, r.doc, "forest / scheme / dark", "primary")
	assert.Equal(t, lightPrimary.ID, r.doc.Shapes()[0].Fills[0].FillColorRefID, "unselected shape untouched")
	assert.Equal(t, darkPrimary.ID, r.doc.Shapes()[1].Fills[0].FillColorRefID)
}

func TestSwapColorsEmptySelectionTimesOut(t *testing.T) {
	r := newRig(t)
	ctx := testContext(t)

	generated, err := r.builder().GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)

	// The host refuses an empty selection without emitting anything, so
	// only the deadline ends the wait.
	tools := r.tools(WithTimeout(200 * time.Millisecond))
	_, err = tools.SwapColors(ctx, []theme.Theme{*generated}, true, ScopeSelection)
	assert.ErrorIs(t, err, messaging.ErrTimeout)
}

func TestReplaceThemes(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	forest, err := b.GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)
	ocean, err := b.GenerateTheme(ctx, "ocean", "#006688", false, false)
	require.NoError(t, err)

	forestPrimary := findAsset(t, r.doc, "forest / scheme / light", "primary")
	oceanPrimary := findAsset(t, r.doc, "ocean / scheme / light", "primary")
	r.doc.AddShape(&host.Shape{ID: "s1", Fills: []protocol.Fill{forestPrimary.AsFill()}})

	result, err := r.tools().ReplaceThemes(ctx, *forest, *ocean, ScopePage)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, oceanPrimary.ID, r.doc.Shapes()[0].Fills[0].FillColorRefID)
}

func TestSyncThemesUpdatesMatchingAssets(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	forest, err := b.GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)
	_, err = b.GenerateTheme(ctx, "ocean", "#006688", false, false)
	require.NoError(t, err)

	oceanPrimary := findAsset(t, r.doc, "ocean / scheme / light", "primary")

	lib, err := r.panel().LoadThemes(ctx)
	require.NoError(t, err)
	var ocean theme.Theme
	for _, th := range lib.Themes {
		if th.Name == "ocean" {
			ocean = th
		}
	}
	require.Equal(t, "ocean", ocean.Name)

	require.NoError(t, r.tools().SyncThemes(ctx, *forest, []theme.Theme{ocean}, true, true))

	// The target keeps its identity but takes the source values.
	forestPrimary := findAsset(t, r.doc, "forest / scheme / light", "primary")
	synced := findAsset(t, r.doc, "ocean / scheme / light", "primary")
	assert.Equal(t, oceanPrimary.ID, synced.ID)
	assert.Equal(t, forestPrimary.Color, synced.Color)
}

func TestSyncThemesCreatesMissingAssets(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	forest, err := b.GenerateTheme(ctx, "forest", "#673ab7", true, false)
	require.NoError(t, err)
	ocean, err := b.GenerateTheme(ctx, "ocean", "#006688", false, false)
	require.NoError(t, err)
	before := len(r.doc.Assets())

	require.NoError(t, r.tools().SyncThemes(ctx, *forest, []theme.Theme{*ocean}, true, true))

	// The target gains the source's palette assets, rebased under its name.
	assert.Len(t, r.doc.Assets(), before+theme.PaletteAssetCount())
	tone := findAsset(t, r.doc, "ocean / palettes", theme.PaletteToneName("primary", 40))
	forestTone := findAsset(t, r.doc, "forest / palettes", theme.PaletteToneName("primary", 40))
	assert.Equal(t, forestTone.Color, tone.Color)
}

func TestSyncThemesRemovalPhaseCompletes(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	forest, err := b.GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)
	ocean, err := b.GenerateTheme(ctx, "ocean", "#006688", true, false)
	require.NoError(t, err)

	// The target has palette assets the source lacks; the host acknowledges
	// each removal even though it cannot delete, so the sync still resolves.
	err = r.tools().SyncThemes(ctx, *forest, []theme.Theme{*ocean}, true, true)
	assert.NoError(t, err)
}

func TestSyncThemesUpdatesOnly(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	// The source has palettes the target lacks, the target has state layers
	// the source lacks. With both flags off only matching assets change.
	forest, err := b.GenerateTheme(ctx, "forest", "#673ab7", true, false)
	require.NoError(t, err)
	ocean, err := b.GenerateTheme(ctx, "ocean", "#006688", false, true)
	require.NoError(t, err)
	before := len(r.doc.Assets())

	require.NoError(t, r.tools().SyncThemes(ctx, *forest, []theme.Theme{*ocean}, false, false))

	assert.Len(t, r.doc.Assets(), before, "no additions with addNew off")
	layer := findAsset(t, r.doc, "ocean / state-layers / light / primary", theme.OpacityName(0.08))
	assert.NotEmpty(t, layer.ID, "extra target assets survive with removeExtra off")

	forestPrimary := findAsset(t, r.doc, "forest / scheme / light", "primary")
	synced := findAsset(t, r.doc, "ocean / scheme / light", "primary")
	assert.Equal(t, forestPrimary.Color, synced.Color)
}

func TestDiffThemesGates(t *testing.T) {
	r := newRig(t)
	b := r.builder()
	ctx := testContext(t)

	forest, err := b.GenerateTheme(ctx, "forest", "#673ab7", true, false)
	require.NoError(t, err)
	ocean, err := b.GenerateTheme(ctx, "ocean", "#006688", false, true)
	require.NoError(t, err)

	additions, updates, removals := diffThemes(*forest, *ocean, true, true)
	assert.Len(t, additions, theme.PaletteAssetCount())
	assert.Len(t, updates, theme.ExpectedAssetCount(false, false))
	assert.Len(t, removals, theme.StateLayerAssetCount())

	additions, updates, removals = diffThemes(*forest, *ocean, false, false)
	assert.Empty(t, additions)
	assert.Empty(t, removals)
	assert.Len(t, updates, theme.ExpectedAssetCount(false, false))

	additions, _, removals = diffThemes(*forest, *ocean, true, false)
	assert.Len(t, additions, theme.PaletteAssetCount())
	assert.Empty(t, removals)

	additions, _, removals = diffThemes(*forest, *ocean, false, true)
	assert.Empty(t, additions)
	assert.Len(t, removals, theme.StateLayerAssetCount())
}

func TestPanelLoadThemes(t *testing.T) {
	r := newRig(t)
	ctx := testContext(t)

	_, err := r.builder().GenerateTheme(ctx, "forest", "#673ab7", false, false)
	require.NoError(t, err)

	lib, err := r.panel().LoadThemes(ctx)
	require.NoError(t, err)

	require.Len(t, lib.Themes, 1)
	assert.Equal(t, "forest", lib.Themes[0].Name)
	assert.Len(t, lib.All, theme.ExpectedAssetCount(false, false))
}

func TestPanelWatch(t *testing.T) {
	r := newRig(t)
	r.doc.AddShape(&host.Shape{ID: "s1", Name: "rect"})

	selections := make(chan []protocol.ShapeInfo, 1)
	themes := make(chan string, 1)

	ctx, cancel := context.WithCancel(testContext(t))
	done := make(chan error, 1)
	go func() {
		done <- r.panel().Watch(ctx,
			func(shapes []protocol.ShapeInfo) { selections <- shapes },
			func(appearance string) { themes <- appearance },
		)
	}()

	r.host.SetSelection([]string{"s1"})
	select {
	case shapes := <-selections:
		require.Len(t, shapes, 1)
		assert.Equal(t, "rect", shapes[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no selection event")
	}

	r.host.SetAppearance("dark")
	select {
	case appearance := <-themes:
		assert.Equal(t, "dark", appearance)
	case <-time.After(2 * time.Second):
		t.Fatal("no theme event")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
