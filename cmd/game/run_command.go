package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/Garsondee/Drift-Gallery/internal/game"
)

// runGallery probes the catalog and opens the window.
func runGallery(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cfg)
	if err != nil {
		return err
	}
	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	count, pairs := probeCatalog(cmd.Context(), cfg, src, logger)
	if count == 0 {
		logger.Warn("no images found; the grid will be empty", "assets", src.Describe("images/"))
	}

	g, err := game.New(game.Options{
		Config: *cfg,
		Source: src,
		Images: count,
		Pairs:  pairs,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("start gallery: %w", err)
	}
	defer g.Close()

	ebiten.SetWindowTitle(g.Title())
	ebiten.SetWindowSize(cfg.Render.Width, cfg.Render.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Render.Fullscreen)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run gallery: %w", err)
	}
	return nil
}
