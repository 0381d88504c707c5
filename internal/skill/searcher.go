package skill

import (
	"context"
	"iter"
	"log/slog"

	"github.com/mmcdole/plexskill/internal/catalog"
	"github.com/mmcdole/plexskill/internal/domain"
)

// Request is one search from the host
type Request struct {
	Phrase    string
	MediaType domain.MediaType

	// ExtendTimeout, when set, is called before each category is searched
	ExtendTimeout func()
}

// Searcher answers host searches against the catalog
type Searcher struct {
	catalog *catalog.Provider
	vocab   *Vocabulary
	logger  *slog.Logger

	skillID   string
	skillIcon string
}

// Option configures a Searcher
type Option func(*Searcher)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVocabulary replaces the default English vocabulary
func WithVocabulary(v *Vocabulary) Option {
	return func(s *Searcher) {
		if v != nil {
			s.vocab = v
		}
	}
}

// WithSkillID stamps results and batches with the skill identifier
func WithSkillID(id string) Option {
	return func(s *Searcher) { s.skillID = id }
}

// WithSkillIcon sets the icon reported on every batch
func WithSkillIcon(icon string) Option {
	return func(s *Searcher) { s.skillIcon = icon }
}

// NewSearcher creates a searcher over the catalog provider
func NewSearcher(provider *catalog.Provider, opts ...Option) *Searcher {
	s := &Searcher{
		catalog: provider,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.vocab == nil {
		s.vocab = MustLoadVocabulary()
	}
	return s
}

// Search returns the batches for req, one per searched category with
// results, in music, movies, shows order. Each category is searched only
// when the consumer asks for the next batch.
//
// A catalog bootstrap failure is yielded once as an error and ends the
// sequence. Failures inside a category only drop that section's results.
func (s *Searcher) Search(ctx context.Context, req Request) iter.Seq2[domain.Batch, error] {
	return func(yield func(domain.Batch, error) bool) {
		cat, err := s.catalog.Get(ctx)
		if err != nil {
			s.logger.Error("catalog unavailable", "error", err)
			yield(domain.Batch{}, err)
			return
		}

		q := ParseQuery(req.Phrase, s.vocab)
		confidence := Confidence(req.MediaType, q)
		categories := Route(req.MediaType, q)

		s.logger.Info("search",
			"phrase", req.Phrase,
			"query", q.Text,
			"media_type", req.MediaType.String(),
			"brand", q.Brand,
			"movie", q.Movie,
			"tv", q.TV,
			"categories", len(categories))

		for _, category := range categories {
			if ctx.Err() != nil {
				yield(domain.Batch{}, ctx.Err())
				return
			}
			if req.ExtendTimeout != nil {
				req.ExtendTimeout()
			}

			results := s.searchCategory(ctx, cat, category, q.Text)
			if len(results) == 0 {
				continue
			}

			batch := s.batch(category, req.MediaType, confidence, results)
			if !yield(batch, nil) {
				return
			}
		}
	}
}

// SearchAll drains Search into a slice
func (s *Searcher) SearchAll(ctx context.Context, req Request) ([]domain.Batch, error) {
	var batches []domain.Batch
	for batch, err := range s.Search(ctx, req) {
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// searchCategory searches every section of category in catalog order
func (s *Searcher) searchCategory(ctx context.Context, cat *catalog.Catalog, category domain.Category, query string) []domain.SearchResult {
	var results []domain.SearchResult

	for _, sec := range cat.Sections(category) {
		srv := cat.Server(sec.ServerIndex)
		if srv == nil {
			continue
		}
		logger := s.logger.With("server", srv.Name(), "section", sec.Info.Title, "category", category.String())

		items, err := sec.Handle.HubSearch(ctx, query)
		if err != nil {
			logger.Warn("section search failed", "error", err)
			continue
		}

		leaves, err := selectLeaves(ctx, srv, category, items)
		if err != nil {
			logger.Warn("failed to expand result", "error", err)
			continue
		}

		for _, item := range leaves {
			r, err := normalize(srv, item)
			if err != nil {
				logger.Debug("skipping item", "title", item.Title, "error", err)
				continue
			}
			results = append(results, r)
		}
		logger.Debug("section searched", "hits", len(items), "results", len(leaves))
	}

	return results
}

func (s *Searcher) batch(category domain.Category, hint domain.MediaType, confidence int, results []domain.SearchResult) domain.Batch {
	playback := category.Playback()

	best := 0
	for i := range results {
		results[i].MediaType = hint
		results[i].Playback = playback
		results[i].MatchConfidence = confidence
		results[i].SkillID = s.skillID
		best = max(best, results[i].MatchConfidence)
	}

	mediaType := hint
	if category == domain.CategoryMusic {
		mediaType = domain.MediaTypeMusic
	}

	first := results[0]
	return domain.Batch{
		MediaType:       mediaType,
		Playback:        playback,
		Image:           first.Image,
		SkillIcon:       s.skillIcon,
		BgImage:         first.BgImage,
		Title:           first.Title,
		Playlist:        results,
		MatchConfidence: best,
		SkillID:         s.skillID,
		Category:        category,
	}
}
