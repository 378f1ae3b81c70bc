// Package game is the ebiten front end of the gallery: it polls mouse, touch
// and keyboard, runs one scene frame per Update and draws the starfield, the
// tiles, the lens pass and the UI layers.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
	"github.com/Garsondee/Drift-Gallery/internal/config"
	"github.com/Garsondee/Drift-Gallery/internal/grid"
	"github.com/Garsondee/Drift-Gallery/internal/interact"
	"github.com/Garsondee/Drift-Gallery/internal/logging"
	"github.com/Garsondee/Drift-Gallery/internal/playback"
	"github.com/Garsondee/Drift-Gallery/internal/scene"
	"github.com/Garsondee/Drift-Gallery/internal/texture"
)

var backgroundColor = color.RGBA{R: 4, G: 5, B: 9, A: 255}

// Options wires a Game to its assets.
type Options struct {
	Config config.Config
	Source catalog.Source
	Images int
	Pairs  []catalog.Pair
	Logger *slog.Logger
}

type Game struct {
	cfg      config.Config
	source   catalog.Source
	logger   *slog.Logger
	activity *ActivityLog
	images   int
	pairs    []catalog.Pair

	ctl      *interact.Controller
	player   *playback.Player
	grid     *grid.Manager
	loop     *scene.Loop
	backdrop *scene.Backdrop
	tiles    *tileLayer
	store    *texture.Store
	overlay  *overlay
	lens     *lens

	width    int
	height   int
	sceneBuf *ebiten.Image
	hudBuf   *ebiten.Image
	frame    scene.FrameState

	showHUD  bool
	showLog  bool
	prevKeys map[ebiten.Key]bool

	prevMouseLeft bool
	touchIDs      []ebiten.TouchID
	touchID       ebiten.TouchID
	touching      bool
	overlayPress  bool // the current press started on the overlay
}

// New assembles the gallery. Nothing is drawn or loaded until the first Update.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	g := &Game{
		cfg:      cfg,
		source:   opts.Source,
		activity: NewActivityLog(),
		images:   opts.Images,
		pairs:    opts.Pairs,
		width:    cfg.Render.Width,
		height:   cfg.Render.Height,
		showHUD:  cfg.Render.ShowHUD,
		prevKeys: make(map[ebiten.Key]bool),
	}
	g.logger = logging.TeeLogger(opts.Logger, g.activity.Handler())

	loader := texture.SourceLoader{Source: opts.Source, MaxSize: cfg.Texture.MaxSize}
	g.tiles = newTileLayer(loader, cfg.Texture.Workers, cfg.Grid.TileSize, cfg.Grid.Opacity,
		logging.NewComponentLogger(g.logger, "texture"))

	store, err := texture.NewStore(texture.SourceLoader{Source: opts.Source, MaxSize: config.OverlayMaxSize},
		int64(cfg.Texture.OverlayCacheMB)<<20, logging.NewComponentLogger(g.logger, "overlay"))
	if err != nil {
		g.tiles.close()
		return nil, err
	}
	g.store = store
	g.overlay = newOverlay(store)

	rate := playback.NewRateController(playback.RateConfig{
		Min:      cfg.Audio.MinRate,
		Max:      cfg.Audio.MaxRate,
		Slowdown: cfg.Audio.Slowdown,
		Speedup:  cfg.Audio.Speedup,
		Epsilon:  playback.DefaultRateConfig().Epsilon,
	})
	var opener playback.Opener
	if cfg.Audio.Enabled {
		start := time.Duration(cfg.Audio.StartSeconds * float64(time.Second))
		opener = trackOpener(opts.Source, start, cfg.Audio.Volume)
	}
	g.player = playback.NewPlayer(rate, opener, logging.NewComponentLogger(g.logger, "audio"))

	g.ctl = interact.NewController(interact.Config{
		DragScale:     cfg.Input.DragScale,
		Friction:      cfg.Input.Friction,
		DragThreshold: cfg.Input.DragThreshold,
		TapWindow:     time.Duration(cfg.Input.TapWindowMS) * time.Millisecond,
		CameraZ:       cfg.Camera.Z,
	}, interact.SystemClock{}, g.player)

	g.grid = grid.NewManager(grid.ManagerConfig{
		GridSize: cfg.Grid.Size,
		Spacing:  cfg.Grid.Spacing,
		TileSize: cfg.Grid.TileSize,
	}, grid.Assigner{Total: opts.Images}, g.tiles)

	bcfg := scene.DefaultBackdropConfig()
	bcfg.Count = cfg.Render.Stars
	bcfg.Seed = int64(cfg.Seed)
	g.backdrop = scene.NewBackdrop(bcfg)

	g.loop = scene.NewLoop(g.ctl, g.player, g.grid, g.backdrop, g)
	g.loop.SetFOV(cfg.Camera.FOV)
	g.loop.SetViewport(float64(g.width), float64(g.height))

	g.lens = &lens{}
	if cfg.Render.Distortion {
		l, err := newLens()
		if err != nil {
			g.logger.Warn("distortion pass disabled", "error", err)
		}
		g.lens = l
	}

	g.logger.Info("gallery ready", "images", opts.Images, "pairs", len(opts.Pairs), "grid", cfg.Grid.Size)
	return g, nil
}

// Render records the frame for Draw and uploads finished textures. The scene
// loop calls it at the end of every Update.
func (g *Game) Render(fs scene.FrameState) error {
	g.frame = fs
	g.tiles.textures.Poll()
	return nil
}

func (g *Game) Update() error {
	g.handleInput()
	g.overlay.update()
	return g.loop.Frame()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.ensureBuffers()

	g.sceneBuf.Fill(backgroundColor)
	view := g.loop.View()
	drawStars(g.sceneBuf, g.backdrop, view)
	g.tiles.draw(g.sceneBuf, view)

	g.lens.draw(screen, g.sceneBuf, g.frame.Distortion)

	g.overlay.draw(screen)
	if g.showLog {
		g.activity.Draw(screen, g.width-logPanelWidth, g.height)
	}
	if g.showHUD {
		g.drawHUD(screen)
	}
}

// Layout follows the window size so resizes change the projection aspect.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.loop.SetViewport(float64(g.width), float64(g.height))
	}
	return g.width, g.height
}

func (g *Game) ensureBuffers() {
	if g.sceneBuf != nil {
		b := g.sceneBuf.Bounds()
		if b.Dx() == g.width && b.Dy() == g.height {
			return
		}
		g.sceneBuf.Deallocate()
		g.hudBuf.Deallocate()
	}
	g.sceneBuf = ebiten.NewImage(g.width, g.height)
	g.hudBuf = ebiten.NewImage(max(g.width/hudScale, 1), max(g.height/hudScale, 1))
}

// openTile shows the overlay for a tapped tile.
func (g *Game) openTile(t grid.Tile) {
	if t.ImageIndex == grid.NoImage {
		return
	}
	g.overlay.show(t.ImageIndex)
	g.logger.Info("image opened",
		"index", t.ImageIndex,
		"cell", t.Cell.String(),
		"asset", g.source.Describe(catalog.ImagePath(t.ImageIndex)))
}

// Close releases every tile and stops background loaders.
func (g *Game) Close() {
	g.grid.Clear()
	g.tiles.close()
	g.store.Close()
}

// Title is the window title for the current catalog.
func (g *Game) Title() string {
	return fmt.Sprintf("Drift Gallery (%d images)", g.images)
}
