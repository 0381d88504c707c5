package skill

import (
	"strings"

	"github.com/mmcdole/plexskill/internal/domain"
)

const (
	baseConfidence     = 75
	brandBonus         = 15
	specificHintBonus  = 10
	maxMatchConfidence = 100
)

// Query is a spoken phrase reduced to the words forwarded to hub search,
// plus the disambiguation signals found while reducing it
type Query struct {
	// Text is forwarded to hub search
	Text string

	// Brand is set when the phrase named the media server ("on plex")
	Brand bool

	// Movie and TV are set when the phrase asked for that kind of media
	Movie bool
	TV    bool
}

// ParseQuery strips the brand, media-kind and filler words from phrase
func ParseQuery(phrase string, vocab *Vocabulary) Query {
	var q Query

	if vocab.Match(phrase, VocabBrand) {
		q.Brand = true
		phrase = vocab.Remove(phrase, VocabBrand)
	}

	q.Movie = vocab.Match(phrase, VocabMovie)
	q.TV = vocab.Match(phrase, VocabTV)
	phrase = vocab.Remove(phrase, VocabMovie)
	phrase = vocab.Remove(phrase, VocabTV)
	phrase = vocab.Remove(phrase, VocabFiller)

	q.Text = strings.TrimSpace(phrase)
	return q
}

// Soundtrack reports whether the query asks for a film soundtrack
func (q Query) Soundtrack() bool {
	return strings.Contains(q.Text, "soundtrack")
}

// Route returns the categories searched for a hint, in search order.
//
//	Music, Audio, Generic                          -> music (unless soundtrack or movie)
//	Movie, ShortFilm, SilentMovie, Video,
//	Documentary, Generic                           -> movies
//	TV, Cartoon, Generic                           -> shows
func Route(hint domain.MediaType, q Query) []domain.Category {
	var categories []domain.Category

	switch hint {
	case domain.MediaTypeMusic, domain.MediaTypeAudio, domain.MediaTypeGeneric:
		if !q.Soundtrack() && !q.Movie {
			categories = append(categories, domain.CategoryMusic)
		}
	}

	switch hint {
	case domain.MediaTypeMovie, domain.MediaTypeShortFilm, domain.MediaTypeSilentMovie,
		domain.MediaTypeVideo, domain.MediaTypeDocumentary, domain.MediaTypeGeneric:
		categories = append(categories, domain.CategoryMovies)
	}

	switch hint {
	case domain.MediaTypeTV, domain.MediaTypeCartoon, domain.MediaTypeGeneric:
		categories = append(categories, domain.CategoryShows)
	}

	return categories
}

// Confidence scores every result of one search. Naming the brand and
// passing a specific hint are both specificity signals; only the larger
// bonus applies.
func Confidence(hint domain.MediaType, q Query) int {
	bonus := 0
	if q.Brand {
		bonus = brandBonus
	}
	if hint != domain.MediaTypeGeneric {
		bonus = max(bonus, specificHintBonus)
	}
	return min(baseConfidence+bonus, maxMatchConfidence)
}
