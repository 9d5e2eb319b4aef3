// FuzzDex Core
// Copyright (c) 2026 The FuzzDex Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of FuzzDex Core.
//
// FuzzDex Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FuzzDex Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with FuzzDex Core.  If not, see <http://www.gnu.org/licenses/>.

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/client"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/helpers/syncutil"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// searchDebounce is how long typing has to pause before a query is sent.
// Keeps fast typists from flooding the daemon with partial queries.
const searchDebounce = 250 * time.Millisecond

// SearchService handles search API operations.
type SearchService interface {
	// Search runs a ranked query against a corpus.
	Search(ctx context.Context, params models.SearchParams) (*models.SearchResults, error)

	// Corpora fetches the loaded corpora from the API.
	Corpora(ctx context.Context) ([]models.CorpusInfo, error)
}

// DefaultSearchService implements SearchService using an APIClient.
type DefaultSearchService struct {
	apiClient client.APIClient
}

// NewSearchService creates a SearchService that uses the given APIClient.
func NewSearchService(apiClient client.APIClient) *DefaultSearchService {
	return &DefaultSearchService{apiClient: apiClient}
}

// Search runs a ranked query against a corpus.
func (s *DefaultSearchService) Search(
	ctx context.Context,
	params models.SearchParams,
) (*models.SearchResults, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	resp, err := s.apiClient.Call(ctx, models.MethodSearch, string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	var results models.SearchResults
	if err := json.Unmarshal([]byte(resp), &results); err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}
	return &results, nil
}

// Corpora fetches the loaded corpora from the API.
func (s *DefaultSearchService) Corpora(ctx context.Context) ([]models.CorpusInfo, error) {
	resp, err := s.apiClient.Call(ctx, models.MethodCorpora, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get corpora: %w", err)
	}
	var corpora models.CorporaResponse
	if err := json.Unmarshal([]byte(resp), &corpora); err != nil {
		return nil, fmt.Errorf("failed to parse corpora: %w", err)
	}
	return corpora.Corpora, nil
}

// debouncer coalesces rapid triggers into one callback after a quiet period.
type debouncer struct {
	timer *time.Timer
	delay time.Duration
	mu    syncutil.Mutex
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// Trigger schedules fn after the delay, cancelling any pending callback.
func (d *debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// searchState is shared between the UI goroutine and in-flight search
// goroutines. The sequence number lets late responses detect they are stale.
type searchState struct {
	corpus string
	seq    uint64
	mu     syncutil.RWMutex
}

func (s *searchState) setCorpus(corpus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = corpus
}

func (s *searchState) getCorpus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus
}

func (s *searchState) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *searchState) currentSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// formatHit renders one result for the hit list.
func formatHit(hit *models.SearchHit, showScores bool) (main, secondary string) {
	main = hit.Key
	if showScores {
		main = fmt.Sprintf("%s  (%.3f)", hit.Key, hit.Score)
	}
	return main, "    " + hit.Value
}

// BuildSearchPage wires the live search screen: a query input, a corpus
// selector and a ranked hit list. Typing re-queries the daemon after a short
// debounce and Enter on a hit calls onSelect with its value.
func BuildSearchPage(
	app *tview.Application,
	pages *tview.Pages,
	svc SearchService,
	corpus string,
	onSelect func(value string),
) tview.Primitive {
	hitList := tview.NewList()
	hitList.SetWrapAround(false)
	hitList.SetSelectedFocusOnly(true)

	statusText := tview.NewTextView().
		SetDynamicColors(true).
		SetText("Type to search. ESC to exit.")

	state := &searchState{corpus: corpus}
	debounce := newDebouncer(searchDebounce)
	showScores := config.GetTUIConfig().ShowScores

	queryInput := tview.NewInputField()
	queryInput.SetLabel("Query ")

	corpusDropdown := tview.NewDropDown()
	corpusDropdown.SetLabel("Corpus ")

	runSearch := func(query string) {
		seq := state.nextSeq()
		selected := state.getCorpus()

		if query == "" || selected == "" {
			app.QueueUpdateDraw(func() {
				if state.currentSeq() != seq {
					return
				}
				hitList.Clear()
				if selected == "" {
					statusText.SetText("No corpus selected.")
				} else {
					statusText.SetText("Type to search. ESC to exit.")
				}
			})
			return
		}

		ctx, cancel := tuiContext()
		defer cancel()

		results, err := svc.Search(ctx, models.SearchParams{
			Corpus: selected,
			Query:  query,
		})
		if err != nil {
			log.Error().Err(err).Msg("error executing search query")
			app.QueueUpdateDraw(func() {
				if state.currentSeq() != seq {
					return
				}
				statusText.SetText("Search failed: " + err.Error())
			})
			return
		}

		app.QueueUpdateDraw(func() {
			if state.currentSeq() != seq {
				// A newer query is in flight, drop this result.
				return
			}
			hitList.Clear()
			hitList.SetCurrentItem(0)
			for i := range results.Hits {
				hit := &results.Hits[i]
				main, secondary := formatHit(hit, showScores)
				value := hit.Value
				hitList.AddItem(main, secondary, 0, func() {
					onSelect(value)
				})
			}
			statusText.SetText(fmt.Sprintf("%d hits in %dms.", results.Total, results.TookMS))
		})
	}

	queryInput.SetChangedFunc(func(value string) {
		debounce.Trigger(func() {
			go runSearch(value)
		})
	})

	// Load corpora for the selector. The daemon may still be ingesting, so a
	// failure here only degrades the dropdown.
	ctx, cancel := tuiContext()
	corpora, err := svc.Corpora(ctx)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("error getting corpus list")
		statusText.SetText("Error listing corpora: " + err.Error())
	} else if len(corpora) == 0 {
		statusText.SetText("No corpora loaded. Add seed files and reload.")
	} else {
		names := make([]string, len(corpora))
		selectedIndex := 0
		for i, c := range corpora {
			names[i] = c.Slug
			if c.Slug == corpus {
				selectedIndex = i
			}
		}
		corpusDropdown.SetOptions(names, func(text string, _ int) {
			state.setCorpus(text)
			query := queryInput.GetText()
			if query != "" {
				go runSearch(query)
			}
		})
		corpusDropdown.SetCurrentOption(selectedIndex)
	}

	queryInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		k := event.Key()
		switch k {
		case tcell.KeyTab:
			app.SetFocus(corpusDropdown)
			return nil
		case tcell.KeyDown, tcell.KeyEnter:
			if hitList.GetItemCount() > 0 {
				hitList.SetCurrentItem(0)
				app.SetFocus(hitList)
			}
			return nil
		case tcell.KeyEscape:
			app.Stop()
			return nil
		default:
			return event
		}
	})
	corpusDropdown.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		k := event.Key()
		switch k {
		case tcell.KeyTab:
			app.SetFocus(queryInput)
			return nil
		case tcell.KeyEscape:
			app.Stop()
			return nil
		default:
			return event
		}
	})
	hitList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		k := event.Key()
		switch {
		case k == tcell.KeyEscape:
			app.Stop()
			return nil
		case k == tcell.KeyTab:
			app.SetFocus(queryInput)
			return nil
		case k == tcell.KeyUp && hitList.GetCurrentItem() == 0:
			app.SetFocus(queryInput)
			return nil
		}
		return event
	})

	searchForm := tview.NewFlex().SetDirection(tview.FlexRow)
	searchForm.AddItem(queryInput, 1, 1, true)
	searchForm.AddItem(corpusDropdown, 1, 1, false)

	page := tview.NewFlex().SetDirection(tview.FlexRow)
	page.SetTitle("FuzzDex v" + config.AppVersion)
	page.AddItem(searchForm, 2, 1, true)
	page.AddItem(statusText, 1, 1, false)
	page.AddItem(hitList, 0, 1, false)

	pageDefaults(PageSearch, pages, page)
	return page
}
