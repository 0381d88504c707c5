package skill

import (
	"slices"
	"testing"

	"github.com/mmcdole/plexskill/internal/domain"
)

func TestParseQuery(t *testing.T) {
	vocab := MustLoadVocabulary()

	tests := []struct {
		phrase string
		want   Query
	}{
		{phrase: "the matrix", want: Query{Text: "the matrix"}},
		{phrase: "radio on plex", want: Query{Text: "radio", Brand: true}},
		{phrase: "Plex radio", want: Query{Text: "radio", Brand: true}},
		{phrase: "the movie inception", want: Query{Text: "inception", Movie: true}},
		{phrase: "friends tv show", want: Query{Text: "friends", TV: true}},
		{phrase: "jazz in the kitchen", want: Query{Text: "jazz the kitchen"}},
		{phrase: "complex numbers", want: Query{Text: "complex numbers"}},
		{phrase: "showtime", want: Query{Text: "showtime"}},
		{phrase: "the matrix soundtrack on plex", want: Query{Text: "the matrix soundtrack", Brand: true}},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got := ParseQuery(tt.phrase, vocab)
			if got != tt.want {
				t.Fatalf("ParseQuery(%q)=%+v, want %+v", tt.phrase, got, tt.want)
			}
		})
	}
}

func TestRouteTable(t *testing.T) {
	music := domain.CategoryMusic
	movies := domain.CategoryMovies
	shows := domain.CategoryShows

	tests := []struct {
		hint  domain.MediaType
		query Query
		want  []domain.Category
	}{
		{hint: domain.MediaTypeGeneric, want: []domain.Category{music, movies, shows}},
		{hint: domain.MediaTypeGeneric, query: Query{Movie: true}, want: []domain.Category{movies, shows}},
		{hint: domain.MediaTypeGeneric, query: Query{Text: "x soundtrack"}, want: []domain.Category{movies, shows}},
		{hint: domain.MediaTypeMusic, want: []domain.Category{music}},
		{hint: domain.MediaTypeAudio, want: []domain.Category{music}},
		{hint: domain.MediaTypeMusic, query: Query{Text: "soundtrack"}, want: nil},
		{hint: domain.MediaTypeMovie, want: []domain.Category{movies}},
		{hint: domain.MediaTypeShortFilm, want: []domain.Category{movies}},
		{hint: domain.MediaTypeSilentMovie, want: []domain.Category{movies}},
		{hint: domain.MediaTypeVideo, want: []domain.Category{movies}},
		{hint: domain.MediaTypeDocumentary, want: []domain.Category{movies}},
		{hint: domain.MediaTypeTV, want: []domain.Category{shows}},
		{hint: domain.MediaTypeCartoon, want: []domain.Category{shows}},
		{hint: domain.MediaType(99), want: nil},
	}

	for _, tt := range tests {
		if got := Route(tt.hint, tt.query); !slices.Equal(got, tt.want) {
			t.Errorf("Route(%s, %+v)=%v, want %v", tt.hint, tt.query, got, tt.want)
		}
	}
}

func TestVocabularyMatchesWholeWords(t *testing.T) {
	vocab := MustLoadVocabulary()

	if !vocab.Match("play it on Plex!", VocabBrand) {
		t.Fatal("expected brand match with punctuation")
	}
	if vocab.Match("perplexing", VocabBrand) {
		t.Fatal("brand should not match inside a word")
	}
	if got := vocab.Remove("lost tv show", VocabTV); got != "lost" {
		t.Fatalf("Remove=%q, want longest entries removed first", got)
	}
}

func TestLoadVocabulary(t *testing.T) {
	de, err := LoadVocabulary("de-DE")
	if err != nil {
		t.Fatalf("load de-de: %v", err)
	}
	if de.Language() != "de-de" {
		t.Fatalf("language=%q", de.Language())
	}
	if !de.Match("der film matrix", VocabMovie) {
		t.Fatal("expected german movie vocabulary")
	}

	if _, err := LoadVocabulary("xx-yy"); err == nil {
		t.Fatal("expected error for unknown language")
	}
	if v, err := LoadVocabulary(""); err != nil || v.Language() != DefaultLanguage {
		t.Fatalf("empty language should load the default, got %v", err)
	}
}
