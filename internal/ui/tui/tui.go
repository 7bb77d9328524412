package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/PizzaHomicide/kagami/internal/catalog"
	"github.com/PizzaHomicide/kagami/internal/domain"
	"github.com/PizzaHomicide/kagami/internal/log"
	"github.com/PizzaHomicide/kagami/internal/playback"
	"github.com/PizzaHomicide/kagami/internal/player"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/models"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Options describes what to play and how
type Options struct {
	Series    domain.Series
	EpisodeID string // Episode to start with.  Default: the first in the catalog
	Player    player.Options
	Playback  playback.Options

	// CatalogPath is reloaded on change when Watch is set
	CatalogPath string
	Watch       bool
}

// Run starts mpv and the player UI and blocks until the user quits, mpv goes away or ctx is done
func Run(ctx context.Context, opts Options) error {
	if len(opts.Series.Episodes) == 0 {
		return fmt.Errorf("nothing to play: %w", catalog.ErrInvalidCatalog)
	}
	episodeID := opts.EpisodeID
	if episodeID == "" {
		episodeID = opts.Series.Episodes[0].ID
	}

	mpv := player.NewMPV(opts.Player)
	if err := mpv.Start(ctx); err != nil {
		return err
	}
	defer mpv.Close()

	sched := models.NewLoopScheduler()
	defer sched.Close()

	ctrl := playback.New(mpv, sched, opts.Series.Episodes, opts.Playback)
	defer ctrl.Close()
	if err := ctrl.PlayEpisode(episodeID); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	model := models.NewPlayerModel(ctrl, sched, mpv.Events(), opts.Series.Title)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(gctx))

	g.Go(func() error {
		// Stops the watcher once the UI is gone
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			log.Debug("Player UI stopped by context", "cause", context.Cause(gctx))
			return nil
		}
		return err
	})

	if opts.Watch && opts.CatalogPath != "" {
		g.Go(func() error {
			return catalog.Watch(gctx, opts.CatalogPath, catalog.DefaultDebounce, func(series domain.Series) {
				p.Send(models.CatalogReloadedMsg{Series: series})
			})
		})
	}

	return g.Wait()
}
