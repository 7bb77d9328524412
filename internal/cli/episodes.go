package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/PizzaHomicide/kagami/internal/catalog"
	"github.com/PizzaHomicide/kagami/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) newEpisodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "episodes",
		Short: "List the episodes in the catalog",
		Long:  `Lists every episode of the catalog with its duration and the qualities it can be played in.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := catalog.Load(a.catalogFile())
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			return writeEpisodes(cmd.OutOrStdout(), series)
		},
	}
}

func writeEpisodes(out io.Writer, series domain.Series) error {
	if _, err := fmt.Fprintf(out, "%s (%d episodes)\n\n", series.Title, len(series.Episodes)); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNO.\tTITLE\tDURATION\tQUALITIES")
	for _, ep := range series.Episodes {
		_, _ = fmt.Fprintln(w, strings.Join([]string{
			ep.ID,
			strconv.Itoa(ep.Number),
			ep.DisplayTitle(),
			ep.Duration,
			qualitiesLabel(ep),
		}, "\t"))
	}
	return w.Flush()
}

// qualitiesLabel lists an episode's renditions with their sizes, e.g. "480p (105 MB), 1080p"
func qualitiesLabel(ep domain.Episode) string {
	labels := make([]string, 0, len(ep.Sources))
	for _, src := range ep.Sources {
		if size := src.SizeLabel(); size != "" {
			labels = append(labels, fmt.Sprintf("%s (%s)", src.Quality, size))
		} else {
			labels = append(labels, src.Quality)
		}
	}
	return strings.Join(labels, ", ")
}
