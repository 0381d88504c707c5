package skill

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/plexskill/internal/catalog"
	"github.com/mmcdole/plexskill/internal/catalog/catalogtest"
	"github.com/mmcdole/plexskill/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// library is one fake server with a section per category
type library struct {
	server *catalogtest.Server
	music  *catalogtest.Section
	movies *catalogtest.Section
	shows  *catalogtest.Section
}

func newLibrary() *library {
	lib := &library{
		music:  &catalogtest.Section{SectionInfo: domain.SectionInfo{ID: "1", Title: "Music", Type: "artist"}},
		movies: &catalogtest.Section{SectionInfo: domain.SectionInfo{ID: "2", Title: "Movies", Type: "movie"}},
		shows:  &catalogtest.Section{SectionInfo: domain.SectionInfo{ID: "3", Title: "TV Shows", Type: "show"}},
	}
	lib.server = &catalogtest.Server{
		ServerName:  "Basement",
		BaseURL:     "http://plex.local:32400",
		Token:       "tok",
		SectionList: []*catalogtest.Section{lib.music, lib.movies, lib.shows},
		Children:    map[string][]domain.MediaItem{},
	}
	return lib
}

func (l *library) searcher(t *testing.T, opts ...Option) *Searcher {
	t.Helper()
	c, err := catalog.FromServers(context.Background(), []domain.Server{l.server})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	return NewSearcher(catalog.Static(c), opts...)
}

func (l *library) searched() (music, movies, shows bool) {
	return len(l.music.Queries()) > 0, len(l.movies.Queries()) > 0, len(l.shows.Queries()) > 0
}

func matrix() domain.MediaItem {
	return domain.MediaItem{
		ID:        "10",
		Key:       "/library/metadata/10",
		Kind:      domain.ItemKindMovie,
		Title:     "The Matrix",
		Duration:  136 * time.Minute,
		Directors: []string{"Lana Wachowski", "Lilly Wachowski"},
		ThumbPath: "/library/metadata/10/thumb/1",
		ArtPath:   "/library/metadata/10/art/1",
	}
}

func track(id, title string) domain.MediaItem {
	return domain.MediaItem{
		ID:               id,
		Kind:             domain.ItemKindTrack,
		Title:            title,
		ParentTitle:      "Greatest Hits",
		GrandparentTitle: "The Band",
		Duration:         3 * time.Minute,
	}
}

func search(t *testing.T, s *Searcher, phrase string, hint domain.MediaType) []domain.Batch {
	t.Helper()
	batches, err := s.SearchAll(context.Background(), Request{Phrase: phrase, MediaType: hint})
	if err != nil {
		t.Fatalf("search %q: %v", phrase, err)
	}
	return batches
}

func TestMovieHintsSearchOnlyMovies(t *testing.T) {
	hints := []domain.MediaType{
		domain.MediaTypeMovie,
		domain.MediaTypeShortFilm,
		domain.MediaTypeSilentMovie,
		domain.MediaTypeVideo,
		domain.MediaTypeDocumentary,
	}

	for _, hint := range hints {
		t.Run(hint.String(), func(t *testing.T) {
			lib := newLibrary()
			lib.movies.Results = []domain.MediaItem{matrix()}

			batches := search(t, lib.searcher(t), "the matrix", hint)

			music, movies, shows := lib.searched()
			if music || shows || !movies {
				t.Fatalf("searched music=%v movies=%v shows=%v, want movies only", music, movies, shows)
			}
			if len(batches) != 1 || batches[0].Category != domain.CategoryMovies {
				t.Fatalf("got %d batches, want one movie batch", len(batches))
			}
			if batches[0].MediaType != hint {
				t.Fatalf("batch media type=%s, want %s", batches[0].MediaType, hint)
			}
		})
	}
}

func TestTVHintsSearchOnlyShows(t *testing.T) {
	for _, hint := range []domain.MediaType{domain.MediaTypeTV, domain.MediaTypeCartoon} {
		lib := newLibrary()
		search(t, lib.searcher(t), "futurama", hint)

		music, movies, shows := lib.searched()
		if music || movies || !shows {
			t.Fatalf("%s: searched music=%v movies=%v shows=%v, want shows only", hint, music, movies, shows)
		}
	}
}

func TestGenericRouting(t *testing.T) {
	tests := []struct {
		phrase    string
		wantMusic bool
	}{
		{phrase: "the matrix", wantMusic: true},
		{phrase: "the matrix soundtrack", wantMusic: false},
		{phrase: "the movie the matrix", wantMusic: false},
		{phrase: "the matrix film", wantMusic: false},
		{phrase: "the tv show friends", wantMusic: true},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			lib := newLibrary()
			search(t, lib.searcher(t), tt.phrase, domain.MediaTypeGeneric)

			music, movies, shows := lib.searched()
			if music != tt.wantMusic {
				t.Fatalf("music searched=%v, want %v", music, tt.wantMusic)
			}
			if !movies || !shows {
				t.Fatalf("generic must search movies and shows: movies=%v shows=%v", movies, shows)
			}
		})
	}
}

func TestMatrixScenario(t *testing.T) {
	lib := newLibrary()
	lib.movies.Results = []domain.MediaItem{matrix()}

	batches := search(t, lib.searcher(t, WithSkillID("skill-plex"), WithSkillIcon("plex.png")), "play the matrix", domain.MediaTypeGeneric)

	music, movies, shows := lib.searched()
	if !music || !movies || !shows {
		t.Fatalf("searched music=%v movies=%v shows=%v, want all three", music, movies, shows)
	}
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want only the movie batch", len(batches))
	}

	batch := batches[0]
	if batch.Category != domain.CategoryMovies || batch.Playback != domain.PlaybackTypeVideo {
		t.Fatalf("unexpected batch category=%s playback=%s", batch.Category, batch.Playback)
	}
	if batch.Title != "The Matrix" || batch.MatchConfidence != 75 {
		t.Fatalf("batch title=%q confidence=%d, want The Matrix/75", batch.Title, batch.MatchConfidence)
	}
	if batch.SkillIcon != "plex.png" || batch.SkillID != "skill-plex" {
		t.Fatalf("batch icon=%q id=%q", batch.SkillIcon, batch.SkillID)
	}

	r := batch.Playlist[0]
	if r.Artist != "Lana Wachowski, Lilly Wachowski" {
		t.Fatalf("artist=%q, want joined directors", r.Artist)
	}
	if r.Album != "The Matrix" {
		t.Fatalf("album=%q, want movie title", r.Album)
	}
	if r.Length != (136 * time.Minute).Milliseconds() {
		t.Fatalf("length=%d, want milliseconds", r.Length)
	}
	if r.URI != "http://plex.local:32400/stream/10?X-Plex-Token=tok" {
		t.Fatalf("uri=%q", r.URI)
	}
	if r.Image != "http://plex.local:32400/library/metadata/10/thumb/1?X-Plex-Token=tok" {
		t.Fatalf("image=%q", r.Image)
	}
	if r.BgImage != "http://plex.local:32400/library/metadata/10/art/1?X-Plex-Token=tok" {
		t.Fatalf("bg_image=%q", r.BgImage)
	}
	if r.MediaType != domain.MediaTypeGeneric || r.SkillID != "skill-plex" {
		t.Fatalf("result media type=%s skill=%q", r.MediaType, r.SkillID)
	}
}

func TestPlexRadioScenario(t *testing.T) {
	lib := newLibrary()
	lib.music.Results = []domain.MediaItem{track("20", "Radio")}

	batches := search(t, lib.searcher(t), "play plex radio", domain.MediaTypeMusic)

	music, movies, shows := lib.searched()
	if !music || movies || shows {
		t.Fatalf("searched music=%v movies=%v shows=%v, want music only", music, movies, shows)
	}
	if q := lib.music.Queries()[0]; strings.Contains(q, "plex") {
		t.Fatalf("query %q still names the brand", q)
	}
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}
	if batches[0].MatchConfidence != 90 {
		t.Fatalf("confidence=%d, want 90", batches[0].MatchConfidence)
	}
	if batches[0].MediaType != domain.MediaTypeMusic || batches[0].Playback != domain.PlaybackTypeAudio {
		t.Fatalf("batch media type=%s playback=%s", batches[0].MediaType, batches[0].Playback)
	}
}

func TestConfidenceIsMonotonic(t *testing.T) {
	vocab := MustLoadVocabulary()
	brandSpecific := Confidence(domain.MediaTypeMusic, ParseQuery("radio on plex", vocab))
	brandGeneric := Confidence(domain.MediaTypeGeneric, ParseQuery("radio on plex", vocab))
	plainSpecific := Confidence(domain.MediaTypeMusic, ParseQuery("radio", vocab))
	plainGeneric := Confidence(domain.MediaTypeGeneric, ParseQuery("radio", vocab))

	if !(brandSpecific >= brandGeneric && brandGeneric >= plainGeneric) {
		t.Fatalf("confidence not monotonic: brand+specific=%d brand+generic=%d plain+generic=%d",
			brandSpecific, brandGeneric, plainGeneric)
	}
	if plainSpecific < plainGeneric {
		t.Fatalf("specific hint lowered confidence: %d < %d", plainSpecific, plainGeneric)
	}
	if plainGeneric != 75 || plainSpecific != 85 || brandGeneric != 90 {
		t.Fatalf("unexpected scores: plain=%d specific=%d brand=%d", plainGeneric, plainSpecific, brandGeneric)
	}
}

func TestBatchConfidenceIsMaxOfResults(t *testing.T) {
	lib := newLibrary()
	lib.music.Results = []domain.MediaItem{track("1", "One"), track("2", "Two")}

	batches := search(t, lib.searcher(t), "one", domain.MediaTypeAudio)
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}

	best := -1
	for _, r := range batches[0].Playlist {
		best = max(best, r.MatchConfidence)
	}
	if batches[0].MatchConfidence != best || best < 0 {
		t.Fatalf("batch confidence=%d, want max of results %d", batches[0].MatchConfidence, best)
	}
}

func TestResultsNeverHaveNullImages(t *testing.T) {
	lib := newLibrary()
	lib.music.Results = []domain.MediaItem{track("1", "No Art")}

	batches := search(t, lib.searcher(t), "no art", domain.MediaTypeMusic)
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}

	data, err := json.Marshal(batches[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Image    *string `json:"image"`
		BgImage  *string `json:"bg_image"`
		Playlist []map[string]any
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Image == nil || decoded.BgImage == nil || *decoded.Image != "" {
		t.Fatalf("batch images should be empty strings, got %s", data)
	}
	for _, entry := range decoded.Playlist {
		for _, field := range []string{"image", "bg_image", "uri", "title", "album", "artist", "length", "media_type", "playback", "match_confidence"} {
			v, ok := entry[field]
			if !ok || v == nil {
				t.Fatalf("playlist entry missing %s: %v", field, entry)
			}
		}
	}
}

func TestContainerExpandsToAllChildren(t *testing.T) {
	lib := newLibrary()
	lib.music.Results = []domain.MediaItem{
		{ID: "100", Kind: domain.ItemKindArtist, Title: "The Band"},
		track("9", "Unrelated Track"),
	}
	lib.server.Children["100"] = []domain.MediaItem{
		track("101", "First"),
		track("102", "Second"),
		track("103", "Third"),
	}

	batches := search(t, lib.searcher(t), "the band", domain.MediaTypeMusic)
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}

	playlist := batches[0].Playlist
	if len(playlist) != 3 {
		t.Fatalf("playlist has %d entries, want 3 children", len(playlist))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if playlist[i].Title != want {
			t.Fatalf("playlist[%d]=%q, want %q", i, playlist[i].Title, want)
		}
		if playlist[i].Album != "Greatest Hits" || playlist[i].Artist != "The Band" {
			t.Fatalf("track album/artist=%q/%q", playlist[i].Album, playlist[i].Artist)
		}
	}
	if batches[0].Title != "First" {
		t.Fatalf("batch title=%q, want first playlist entry", batches[0].Title)
	}
}

func TestLeafResultProducesOneEntry(t *testing.T) {
	lib := newLibrary()
	lib.music.Results = []domain.MediaItem{
		track("1", "Only Track"),
		{ID: "2", Kind: domain.ItemKindAlbum, Title: "Some Album"},
	}

	batches := search(t, lib.searcher(t), "only track", domain.MediaTypeMusic)
	if len(batches) != 1 || len(batches[0].Playlist) != 1 {
		t.Fatalf("want one batch with one entry, got %+v", batches)
	}
	if batches[0].Playlist[0].Title != "Only Track" {
		t.Fatalf("title=%q", batches[0].Playlist[0].Title)
	}
}

func TestShowExpandsToEpisodes(t *testing.T) {
	lib := newLibrary()
	lib.shows.Results = []domain.MediaItem{{ID: "50", Kind: domain.ItemKindShow, Title: "Futurama", ThumbPath: "/show/thumb"}}
	lib.server.Children["50"] = []domain.MediaItem{{
		ID:                   "51",
		Kind:                 domain.ItemKindEpisode,
		Title:                "Space Pilot 3000",
		ParentTitle:          "Season 1",
		GrandparentTitle:     "Futurama",
		Index:                1,
		ParentIndex:          1,
		Directors:            []string{"Rich Moore", "Gregg Vanzo"},
		GrandparentThumbPath: "/show/thumb",
		Duration:             22 * time.Minute,
	}}

	batches := search(t, lib.searcher(t), "futurama", domain.MediaTypeTV)
	if len(batches) != 1 || len(batches[0].Playlist) != 1 {
		t.Fatalf("want one batch with one episode, got %+v", batches)
	}

	r := batches[0].Playlist[0]
	if r.Title != "S01E01 - Space Pilot 3000" {
		t.Fatalf("title=%q", r.Title)
	}
	if r.Album != "Futurama - Season 1" {
		t.Fatalf("album=%q", r.Album)
	}
	if r.Artist != "Rich Moore, Gregg Vanzo" {
		t.Fatalf("artist=%q", r.Artist)
	}
	if r.Image == "" || r.BgImage != r.Image {
		t.Fatalf("episode artwork should fall back to the show poster: image=%q bg=%q", r.Image, r.BgImage)
	}
	if batches[0].MediaType != domain.MediaTypeTV {
		t.Fatalf("batch media type=%s", batches[0].MediaType)
	}
}

func TestMismatchedKindsAreDropped(t *testing.T) {
	lib := newLibrary()
	lib.movies.Results = []domain.MediaItem{
		{ID: "1", Kind: domain.ItemKindShow, Title: "The Matrix Show"},
		{ID: "2", Kind: domain.ItemKindEpisode, Title: "Matrix Episode"},
	}

	batches := search(t, lib.searcher(t), "matrix", domain.MediaTypeMovie)
	if len(batches) != 0 {
		t.Fatalf("got %d batches, want none", len(batches))
	}
}

func TestZeroServersYieldNoBatches(t *testing.T) {
	s := NewSearcher(catalog.Static(catalog.Empty()), WithLogger(discardLogger()))

	for _, hint := range domain.SupportedMediaTypes() {
		batches, err := s.SearchAll(context.Background(), Request{Phrase: "anything", MediaType: hint})
		if err != nil {
			t.Fatalf("%s: %v", hint, err)
		}
		if len(batches) != 0 {
			t.Fatalf("%s: got %d batches, want 0", hint, len(batches))
		}
	}
}

func TestBootstrapFailureIsReturned(t *testing.T) {
	provider := catalog.NewProvider(func(ctx context.Context) (*catalog.Catalog, error) {
		return nil, domain.ErrAuthFailed
	}, discardLogger())
	s := NewSearcher(provider, WithLogger(discardLogger()))

	if _, err := s.SearchAll(context.Background(), Request{Phrase: "x"}); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("err=%v, want ErrAuthFailed", err)
	}
}

func TestFailingSectionDoesNotAbortOthers(t *testing.T) {
	lib := newLibrary()
	broken := &catalogtest.Section{
		SectionInfo: domain.SectionInfo{ID: "9", Title: "Broken", Type: "movie"},
		Err:         domain.ErrServerOffline,
	}
	lib.server.SectionList = append([]*catalogtest.Section{broken}, lib.server.SectionList...)
	lib.movies.Results = []domain.MediaItem{matrix()}

	batches := search(t, lib.searcher(t), "matrix", domain.MediaTypeMovie)
	if len(broken.Queries()) != 1 {
		t.Fatal("expected the broken section to be tried")
	}
	if len(batches) != 1 || batches[0].Title != "The Matrix" {
		t.Fatalf("want the healthy section's result, got %+v", batches)
	}
}

func TestFailedExpansionDropsSection(t *testing.T) {
	lib := newLibrary()
	lib.music.Results = []domain.MediaItem{{ID: "404", Kind: domain.ItemKindAlbum, Title: "Missing"}}

	batches := search(t, lib.searcher(t), "missing", domain.MediaTypeMusic)
	if len(batches) != 0 {
		t.Fatalf("got %d batches, want 0", len(batches))
	}
}

func TestSearchIsLazyAndExtendsTimeout(t *testing.T) {
	lib := newLibrary()
	lib.music.Results = []domain.MediaItem{track("1", "Matrix Theme")}
	lib.movies.Results = []domain.MediaItem{matrix()}
	s := lib.searcher(t)

	extended := 0
	req := Request{Phrase: "matrix", MediaType: domain.MediaTypeGeneric, ExtendTimeout: func() { extended++ }}

	for batch, err := range s.Search(context.Background(), req) {
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if batch.Category != domain.CategoryMusic {
			t.Fatalf("first batch=%s, want music", batch.Category)
		}
		break
	}

	_, movies, shows := lib.searched()
	if movies || shows {
		t.Fatal("later categories searched before the consumer asked for them")
	}
	if extended != 1 {
		t.Fatalf("extend timeout called %d times, want 1", extended)
	}

	extended = 0
	batches, err := s.SearchAll(context.Background(), req)
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want music and movies", len(batches))
	}
	if extended != 3 {
		t.Fatalf("extend timeout called %d times, want once per category", extended)
	}
}

func TestSearchStopsOnCancelledContext(t *testing.T) {
	lib := newLibrary()
	lib.music.Results = []domain.MediaItem{track("1", "Song")}
	s := lib.searcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.SearchAll(ctx, Request{Phrase: "song"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
