package tui

import (
	"context"
	"iter"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/plexskill/internal/domain"
	"github.com/mmcdole/plexskill/internal/skill"
	"github.com/mmcdole/plexskill/internal/tui/styles"
)

// Searcher produces result batches for a request
type Searcher interface {
	Search(ctx context.Context, req skill.Request) iter.Seq2[domain.Batch, error]
}

type focus int

const (
	focusPhrase focus = iota
	focusResults
	focusFilter
)

// Model is the interactive search screen
type Model struct {
	searcher Searcher
	keys     KeyMap

	phrase  textinput.Model
	filter  textinput.Model
	spinner spinner.Model
	focus   focus

	hints   []domain.MediaType
	hintIdx int

	// search state
	searchID  int
	searching bool
	events    chan tea.Msg
	cancel    context.CancelFunc
	batches   []domain.Batch
	err       error

	// results navigation
	batchIdx int
	cursor   int
	matches  fuzzy.Matches
	filtered bool

	width  int
	height int
}

// NewModel creates the search screen
func NewModel(searcher Searcher) Model {
	phrase := textinput.New()
	phrase.Placeholder = "What do you want to play?"
	phrase.CharLimit = 200
	phrase.Width = 50
	phrase.Prompt = "▶ "
	phrase.PromptStyle = styles.AccentStyle
	phrase.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	phrase.PlaceholderStyle = styles.DimStyle
	phrase.Focus()

	filter := textinput.New()
	filter.Placeholder = "Filter playlist..."
	filter.CharLimit = 100
	filter.Prompt = "/ "
	filter.PromptStyle = styles.FilterPromptStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return Model{
		searcher: searcher,
		keys:     DefaultKeyMap(),
		phrase:   phrase,
		filter:   filter,
		spinner:  sp,
		hints:    domain.SupportedMediaTypes(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Hint returns the media type hint sent with the next search
func (m Model) Hint() domain.MediaType {
	return m.hints[m.hintIdx]
}

// Batches returns the batches received so far
func (m Model) Batches() []domain.Batch {
	return m.batches
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.phrase.Width = max(msg.Width-20, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ExtendTimeoutMsg:
		if msg.SearchID != m.searchID {
			return m, nil
		}
		return m, waitForEvent(m.events)

	case BatchMsg:
		if msg.SearchID != m.searchID {
			return m, nil
		}
		m.batches = append(m.batches, msg.Batch)
		if len(m.batches) == 1 {
			m.focus = focusResults
			m.phrase.Blur()
		}
		return m, waitForEvent(m.events)

	case SearchDoneMsg:
		if msg.SearchID != m.searchID {
			return m, nil
		}
		m.searching = false
		m.err = msg.Err
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	switch m.focus {
	case focusPhrase:
		return m.handlePhraseKey(msg)
	case focusFilter:
		return m.handleFilterKey(msg)
	default:
		return m.handleResultsKey(msg)
	}
}

func (m Model) handlePhraseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		return m.startSearch()
	case key.Matches(msg, m.keys.CycleHint):
		m.hintIdx = (m.hintIdx + 1) % len(m.hints)
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		if len(m.batches) > 0 {
			m.focus = focusResults
			m.phrase.Blur()
			return m, nil
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.phrase, cmd = m.phrase.Update(msg)
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.visibleCount()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevBatch):
		if m.batchIdx > 0 {
			m.selectBatch(m.batchIdx - 1)
		}
	case key.Matches(msg, m.keys.NextBatch):
		if m.batchIdx < len(m.batches)-1 {
			m.selectBatch(m.batchIdx + 1)
		}
	case key.Matches(msg, m.keys.Filter):
		if len(m.batches) == 0 {
			return m, nil
		}
		m.focus = focusFilter
		m.filter.SetValue("")
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.EditPhrase):
		m.focus = focusPhrase
		cmd := m.phrase.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Escape):
		if m.filtered {
			m.clearFilter()
			return m, nil
		}
		m.focus = focusPhrase
		cmd := m.phrase.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.clearFilter()
		m.focus = focusResults
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.focus = focusResults
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) selectBatch(idx int) {
	m.batchIdx = idx
	m.cursor = 0
	m.clearFilter()
}

func (m *Model) applyFilter() {
	if len(m.batches) == 0 {
		return
	}
	query := m.filter.Value()
	m.filtered = query != ""
	m.matches = filterPlaylist(query, m.batches[m.batchIdx].Playlist)
	m.cursor = 0
}

func (m *Model) clearFilter() {
	m.filtered = false
	m.matches = nil
	m.filter.SetValue("")
}

// visibleCount is the number of playlist rows currently shown
func (m Model) visibleCount() int {
	if len(m.batches) == 0 {
		return 0
	}
	if m.filtered {
		return len(m.matches)
	}
	return len(m.batches[m.batchIdx].Playlist)
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	phrase := m.phrase.Value()
	if phrase == "" {
		return m, nil
	}
	if m.cancel != nil {
		m.cancel()
	}

	m.searchID++
	m.searching = true
	m.batches = nil
	m.batchIdx = 0
	m.cursor = 0
	m.err = nil
	m.clearFilter()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.events = make(chan tea.Msg)

	go runSearch(ctx, m.searcher, m.searchID, skill.Request{Phrase: phrase, MediaType: m.Hint()}, m.events)

	return m, tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// runSearch pushes a search's progress into events, ending with SearchDoneMsg.
// events is closed on return so a pending waitForEvent never outlives it.
func runSearch(ctx context.Context, searcher Searcher, id int, req skill.Request, events chan<- tea.Msg) {
	defer close(events)

	send := func(msg tea.Msg) bool {
		select {
		case events <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	req.ExtendTimeout = func() {
		send(ExtendTimeoutMsg{SearchID: id})
	}

	for batch, err := range searcher.Search(ctx, req) {
		if err != nil {
			send(SearchDoneMsg{SearchID: id, Err: err})
			return
		}
		if !send(BatchMsg{SearchID: id, Batch: batch}) {
			return
		}
	}
	send(SearchDoneMsg{SearchID: id})
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
