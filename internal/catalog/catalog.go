package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/PizzaHomicide/kagami/internal/domain"
	"github.com/PizzaHomicide/kagami/internal/log"
	"gopkg.in/yaml.v3"
)

var logger = log.Component("catalog")

var (
	// ErrEpisodeNotFound is returned when an episode id is not in the catalog
	ErrEpisodeNotFound = errors.New("episode not found")
	// ErrInvalidCatalog is returned for catalogs that parse but cannot be played from
	ErrInvalidCatalog = errors.New("invalid catalog")
)

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns the built-in catalog used when no catalog file is configured
func Sample() domain.Series {
	series, err := Parse(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return series
}

// Load reads a catalog file.  An empty path returns the built-in sample.
func Load(path string) (domain.Series, error) {
	if path == "" {
		logger.Debug("No catalog configured, using the built-in sample")
		return Sample(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Series{}, fmt.Errorf("unable to read catalog file: %w", err)
	}

	series, err := Parse(data)
	if err != nil {
		return domain.Series{}, fmt.Errorf("catalog %s: %w", path, err)
	}

	logger.Info("Loaded catalog", "path", path, "title", series.Title, "episodes", len(series.Episodes))
	return series, nil
}

// Parse decodes and validates a catalog.  Episodes are ordered by number.
func Parse(data []byte) (domain.Series, error) {
	var series domain.Series
	if err := yaml.Unmarshal(data, &series); err != nil {
		return domain.Series{}, fmt.Errorf("unable to parse catalog: %w", err)
	}
	if err := validate(series); err != nil {
		return domain.Series{}, err
	}

	sort.SliceStable(series.Episodes, func(i, j int) bool {
		return series.Episodes[i].Number < series.Episodes[j].Number
	})
	return series, nil
}

func validate(series domain.Series) error {
	if len(series.Episodes) == 0 {
		return fmt.Errorf("%w: no episodes", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(series.Episodes))
	for i, ep := range series.Episodes {
		if ep.ID == "" {
			return fmt.Errorf("%w: episode %d has no id", ErrInvalidCatalog, i+1)
		}
		if seen[ep.ID] {
			return fmt.Errorf("%w: duplicate episode id %q", ErrInvalidCatalog, ep.ID)
		}
		seen[ep.ID] = true

		if err := validateSkip(ep); err != nil {
			return err
		}

		if len(ep.Sources) == 0 {
			return fmt.Errorf("%w: episode %q has no sources", ErrInvalidCatalog, ep.ID)
		}
		qualities := make(map[string]bool, len(ep.Sources))
		for _, src := range ep.Sources {
			if src.Quality == "" || src.URL == "" {
				return fmt.Errorf("%w: episode %q has a source without quality or url", ErrInvalidCatalog, ep.ID)
			}
			q := strings.ToLower(src.Quality)
			if qualities[q] {
				return fmt.Errorf("%w: episode %q lists quality %s twice", ErrInvalidCatalog, ep.ID, src.Quality)
			}
			qualities[q] = true
		}
	}
	return nil
}

func validateSkip(ep domain.Episode) error {
	if ep.Skip == nil {
		return nil
	}
	if r := ep.Skip.Intro; r != nil && !validRange(*r) {
		return fmt.Errorf("%w: episode %q has intro range %v-%v", ErrInvalidCatalog, ep.ID, r.Start, r.End)
	}
	if r := ep.Skip.Recap; r != nil && !validRange(*r) {
		return fmt.Errorf("%w: episode %q has recap range %v-%v", ErrInvalidCatalog, ep.ID, r.Start, r.End)
	}
	if l := ep.Skip.OutroLength; l != nil && *l < 0 {
		return fmt.Errorf("%w: episode %q has a negative outro length", ErrInvalidCatalog, ep.ID)
	}
	return nil
}

func validRange(r domain.SkipRange) bool {
	return r.Start >= 0 && r.End >= r.Start
}

// Find returns the episode with the given id
func Find(series domain.Series, id string) (domain.Episode, error) {
	for _, ep := range series.Episodes {
		if ep.ID == id {
			return ep, nil
		}
	}
	return domain.Episode{}, fmt.Errorf("%w: %s", ErrEpisodeNotFound, id)
}
