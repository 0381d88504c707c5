package catalog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/mmcdole/plexskill/internal/catalog"
	"github.com/mmcdole/plexskill/internal/catalog/catalogtest"
	"github.com/mmcdole/plexskill/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func section(id, typ string) *catalogtest.Section {
	return &catalogtest.Section{SectionInfo: domain.SectionInfo{ID: id, Title: typ + " " + id, Type: typ}}
}

func TestConnectClassifiesSections(t *testing.T) {
	basement := &catalogtest.Server{
		ServerName:  "Basement",
		SectionList: []*catalogtest.Section{section("1", "movie"), section("2", "artist"), section("3", "photo")},
	}
	attic := &catalogtest.Server{
		ServerName:  "Attic",
		SectionList: []*catalogtest.Section{section("1", "show"), section("2", "movie")},
	}

	phone := domain.Resource{Name: "Phone", Provides: []string{"client", "player"}, Presence: true}
	offline := catalogtest.ServerResource("Garage")
	offline.Presence = false

	account := &catalogtest.Account{
		ResourceList: []domain.Resource{
			catalogtest.ServerResource("Basement"),
			phone,
			offline,
			catalogtest.ServerResource("Attic"),
		},
		Servers: map[string]domain.Server{"Basement": basement, "Attic": attic, "Garage": attic, "Phone": attic},
	}

	c, err := catalog.Connect(context.Background(), account, discardLogger())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if got := account.Connected(); !slices.Equal(got, []string{"Basement", "Attic"}) {
		t.Fatalf("connected=%v, want only present servers", got)
	}
	if len(c.Servers()) != 2 {
		t.Fatalf("servers=%d, want 2", len(c.Servers()))
	}

	movies := c.Sections(domain.CategoryMovies)
	if len(movies) != 2 {
		t.Fatalf("movie sections=%d, want 2", len(movies))
	}
	if movies[0].ServerIndex != 0 || movies[1].ServerIndex != 1 {
		t.Fatalf("server indexes=%d,%d, want 0,1", movies[0].ServerIndex, movies[1].ServerIndex)
	}
	if c.Server(movies[1].ServerIndex).Name() != "Attic" {
		t.Fatalf("section owner=%q, want Attic", c.Server(movies[1].ServerIndex).Name())
	}

	if n := len(c.Sections(domain.CategoryMusic)); n != 1 {
		t.Fatalf("music sections=%d, want 1", n)
	}
	if n := len(c.Sections(domain.CategoryShows)); n != 1 {
		t.Fatalf("show sections=%d, want 1", n)
	}
	for _, category := range domain.Categories() {
		for _, s := range c.Sections(category) {
			if s.Category != category || s.Info.Type == "photo" {
				t.Fatalf("section %+v filed under %s", s.Info, category)
			}
		}
	}
}

func TestConnectSkipsUnreachableServers(t *testing.T) {
	working := &catalogtest.Server{ServerName: "Working", SectionList: []*catalogtest.Section{section("1", "show")}}
	broken := &catalogtest.Server{ServerName: "Broken", SectionsErr: domain.ErrAuthFailed}

	account := &catalogtest.Account{
		ResourceList: []domain.Resource{
			catalogtest.ServerResource("Offline"),
			catalogtest.ServerResource("Broken"),
			catalogtest.ServerResource("Working"),
		},
		Servers: map[string]domain.Server{"Working": working, "Broken": broken},
	}

	c, err := catalog.Connect(context.Background(), account, discardLogger())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if len(c.Servers()) != 1 || c.Server(0).Name() != "Working" {
		t.Fatalf("servers=%v, want only Working", c.Servers())
	}
	if s := c.Sections(domain.CategoryShows); len(s) != 1 || s[0].ServerIndex != 0 {
		t.Fatalf("shows=%+v", s)
	}
}

func TestConnectWithNoServers(t *testing.T) {
	account := &catalogtest.Account{}

	c, err := catalog.Connect(context.Background(), account, discardLogger())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	for _, category := range domain.Categories() {
		if n := len(c.Sections(category)); n != 0 {
			t.Fatalf("%s sections=%d, want 0", category, n)
		}
	}
	if c.Server(0) != nil {
		t.Fatal("expected nil server for out of range index")
	}
}

func TestConnectPropagatesAccountFailure(t *testing.T) {
	account := &catalogtest.Account{ResourcesErr: domain.ErrAuthFailed}

	if _, err := catalog.Connect(context.Background(), account, discardLogger()); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("err=%v, want ErrAuthFailed", err)
	}
}

func TestFromServers(t *testing.T) {
	srv := &catalogtest.Server{ServerName: "Direct", SectionList: []*catalogtest.Section{section("4", "artist")}}

	c, err := catalog.FromServers(context.Background(), []domain.Server{srv})
	if err != nil {
		t.Fatalf("from servers: %v", err)
	}
	if s := c.Sections(domain.CategoryMusic); len(s) != 1 || s[0].Info.ID != "4" {
		t.Fatalf("music=%+v", s)
	}

	broken := &catalogtest.Server{ServerName: "Broken", SectionsErr: domain.ErrServerOffline}
	if _, err := catalog.FromServers(context.Background(), []domain.Server{broken}); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err=%v, want ErrServerOffline", err)
	}
}
