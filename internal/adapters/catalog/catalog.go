// Package catalog loads the static roster and match-type definitions.
//
// Files are YAML (JSON also parses) with a top-level `wrestlers` or
// `match_types` list. When no path is configured the embedded defaults are used.
package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/wrestlegm/internal/domain/model"
)

//go:embed data/*.yaml
var defaults embed.FS

const (
	rosterKey     = "wrestlers"
	matchTypesKey = "match_types"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithRosterPath reads performers from path instead of the embedded defaults.
func WithRosterPath(path string) Option {
	return func(l *Loader) {
		l.rosterPath = path
	}
}

// WithMatchTypesPath reads match types from path instead of the embedded defaults.
func WithMatchTypesPath(path string) Option {
	return func(l *Loader) {
		l.matchTypesPath = path
	}
}

// Loader reads and validates definitions.
type Loader struct {
	rosterPath     string
	matchTypesPath string
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type performerRecord struct {
	ID         string `koanf:"id"`
	Name       string `koanf:"name"`
	Alignment  string `koanf:"alignment"`
	Popularity int    `koanf:"popularity"`
	Stamina    int    `koanf:"stamina"`
	MicSkill   int    `koanf:"mic_skill"`
}

type modifiersRecord struct {
	OutcomeChaos          float64 `koanf:"outcome_chaos"`
	RatingBonus           int     `koanf:"rating_bonus"`
	RatingVariance        int     `koanf:"rating_variance"`
	StaminaCostWinner     int     `koanf:"stamina_cost_winner"`
	StaminaCostLoser      int     `koanf:"stamina_cost_loser"`
	PopularityDeltaWinner int     `koanf:"popularity_delta_winner"`
	PopularityDeltaLoser  int     `koanf:"popularity_delta_loser"`
}

type matchTypeRecord struct {
	ID                string          `koanf:"id"`
	Name              string          `koanf:"name"`
	Description       string          `koanf:"description"`
	Modifiers         modifiersRecord `koanf:"modifiers"`
	AllowedCategories []string        `koanf:"allowed_categories"`
}

// Performers loads the roster definitions.
func (l *Loader) Performers(ctx context.Context) ([]model.Performer, error) {
	var records []performerRecord
	if err := l.load(ctx, l.rosterPath, "data/wrestlers.yaml", rosterKey, &records); err != nil {
		return nil, err
	}

	out := make([]model.Performer, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		p := model.Performer{
			ID:         r.ID,
			Name:       r.Name,
			Alignment:  model.Alignment(r.Alignment),
			Popularity: r.Popularity,
			Stamina:    r.Stamina,
			MicSkill:   r.MicSkill,
		}
		if err := validatePerformer(p, seen); err != nil {
			return nil, fmt.Errorf("wrestler %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// MatchTypes loads the match-type definitions.
func (l *Loader) MatchTypes(ctx context.Context) ([]model.MatchType, error) {
	var records []matchTypeRecord
	if err := l.load(ctx, l.matchTypesPath, "data/match_types.yaml", matchTypesKey, &records); err != nil {
		return nil, err
	}

	out := make([]model.MatchType, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		mt := model.MatchType{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Modifiers: model.Modifiers{
				OutcomeChaos:          r.Modifiers.OutcomeChaos,
				RatingBonus:           r.Modifiers.RatingBonus,
				RatingVariance:        r.Modifiers.RatingVariance,
				StaminaCostWinner:     r.Modifiers.StaminaCostWinner,
				StaminaCostLoser:      r.Modifiers.StaminaCostLoser,
				PopularityDeltaWinner: r.Modifiers.PopularityDeltaWinner,
				PopularityDeltaLoser:  r.Modifiers.PopularityDeltaLoser,
			},
			AllowedCategories: r.AllowedCategories,
		}
		if err := validateMatchType(mt, seen); err != nil {
			return nil, fmt.Errorf("match type %d: %w", i, err)
		}
		out = append(out, mt)
	}
	return out, nil
}

func (l *Loader) load(ctx context.Context, path, fallback, key string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k := koanf.New(".")
	var provider koanf.Provider
	if path != "" {
		provider = file.Provider(path)
	} else {
		data, err := defaults.ReadFile(fallback)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLoadCatalog, err)
		}
		provider = bytesProvider(data)
	}
	if err := k.Load(provider, yaml.Parser()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadCatalog, source(path, fallback), err)
	}
	if !k.Exists(key) {
		return fmt.Errorf("%w: %s: missing %q", ErrLoadCatalog, source(path, fallback), key)
	}
	if err := k.UnmarshalWithConf(key, out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadCatalog, source(path, fallback), err)
	}
	return nil
}

func source(path, fallback string) string {
	if path != "" {
		return path
	}
	return "embedded " + fallback
}

// bytesProvider serves an in-memory document to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]any, error) {
	return nil, errors.New("bytes provider does not support Read")
}
