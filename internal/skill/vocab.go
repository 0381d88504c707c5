package skill

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"unicode"
)

//go:embed locale
var localeFS embed.FS

// Vocabulary names
const (
	VocabBrand  = "plex"
	VocabMovie  = "movie"
	VocabTV     = "tv"
	VocabFiller = "filler"
)

// DefaultLanguage is used when no language is configured
const DefaultLanguage = "en-us"

// Vocabulary holds the phrase lists for one language. Each entry is matched
// as a whole-word sequence, case-insensitively.
type Vocabulary struct {
	lang    string
	entries map[string][][]string
}

// LoadVocabulary reads the embedded .voc files for lang
func LoadVocabulary(lang string) (*Vocabulary, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = DefaultLanguage
	}

	dir := path.Join("locale", lang)
	files, err := fs.Glob(localeFS, path.Join(dir, "*.voc"))
	if err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	v := &Vocabulary{lang: lang, entries: make(map[string][][]string)}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".voc")
		entries, err := readVoc(file)
		if err != nil {
			return nil, err
		}
		v.entries[name] = entries
	}
	return v, nil
}

// MustLoadVocabulary is LoadVocabulary for the embedded default language
func MustLoadVocabulary() *Vocabulary {
	v, err := LoadVocabulary(DefaultLanguage)
	if err != nil {
		panic(err)
	}
	return v
}

func readVoc(file string) ([][]string, error) {
	f, err := localeFS.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	var entries [][]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, tokenize(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	// Longest entries first so "tv show" is removed before "show"
	slices.SortStableFunc(entries, func(a, b []string) int {
		return len(b) - len(a)
	})
	return entries, nil
}

// Language returns the vocabulary's language code
func (v *Vocabulary) Language() string { return v.lang }

// Match reports whether any entry of the named list occurs in phrase
func (v *Vocabulary) Match(phrase, name string) bool {
	words := tokenize(phrase)
	for _, entry := range v.entries[name] {
		if indexOf(words, entry) >= 0 {
			return true
		}
	}
	return false
}

// Remove strips every occurrence of the named list's entries from phrase
// and collapses whitespace
func (v *Vocabulary) Remove(phrase, name string) string {
	words := tokenize(phrase)
	for _, entry := range v.entries[name] {
		for {
			i := indexOf(words, entry)
			if i < 0 {
				break
			}
			words = slices.Delete(words, i, i+len(entry))
		}
	}
	return strings.Join(words, " ")
}

// tokenize lowercases s and splits it into words, trimming surrounding
// punctuation ("radio?" matches "radio")
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	words := fields[:0]
	for _, f := range fields {
		if w := strings.TrimFunc(f, unicode.IsPunct); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// indexOf returns the first position of seq in words, or -1
func indexOf(words, seq []string) int {
	if len(seq) == 0 {
		return -1
	}
	for i := 0; i+len(seq) <= len(words); i++ {
		if slices.Equal(words[i:i+len(seq)], seq) {
			return i
		}
	}
	return -1
}
