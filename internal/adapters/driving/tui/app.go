package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/threadscout/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/threadscout/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/threadscout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/threadscout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/threadscout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// eventBuffer bounds progress events queued ahead of the UI.
const eventBuffer = 64

// headerRows is the number of lines above the candidate list.
const headerRows = 7

// App shows a discovery run as it progresses, following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	req   domain.DiscoveryRequest

	// ctx is the run context; cancel stops the run.
	ctx    context.Context
	cancel context.CancelFunc

	// updates carries progress from the discovery goroutine.
	updates chan tea.Msg
	done    chan messages.DiscoveryFinished
	started bool

	// detached is closed once nothing reads updates any more.
	detached   chan struct{}
	detachOnce sync.Once

	styles     *styles.Styles
	keymap     *keymap.KeyMap
	spinner    spinner.Model
	help       help.Model
	statusBar  *status.Bar
	candidates *list.CandidateList

	stage       domain.DiscoveryStage
	searches    int
	posts       int
	accepted    int
	skipped     int
	lastSkipped string

	// finished is set once Discover has returned.
	finished bool
	result   *domain.DiscoveryResult
	err      error

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the progress view for a single run of req.
func NewApp(ports *Ports, req domain.DiscoveryRequest) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(s.Spinner),
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ports:      ports,
		req:        req,
		ctx:        ctx,
		cancel:     cancel,
		updates:    make(chan tea.Msg, eventBuffer),
		done:       make(chan messages.DiscoveryFinished, 1),
		detached:   make(chan struct{}),
		styles:     s,
		keymap:     km,
		spinner:    sp,
		help:       help.New(),
		statusBar:  status.NewBar(s, km),
		candidates: list.NewCandidateList(s),
		width:      80,
		height:     24,
	}, nil
}

// WithContext sets the parent context of the run. It must be called before
// the program starts.
func (a *App) WithContext(ctx context.Context) *App {
	a.cancel()
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// Cancel stops the run if it is still in progress.
func (a *App) Cancel() {
	a.cancel()
}

// Init implements tea.Model. It starts the run and the spinner.
func (a *App) Init() tea.Cmd {
	a.start()
	return tea.Batch(a.spinner.Tick, a.waitForUpdate())
}

// start runs the discovery on its own goroutine. Progress events and the
// final outcome are delivered in order through updates; the outcome is also
// kept in done for Wait.
func (a *App) start() {
	a.started = true
	ctx, updates, done, detached := a.ctx, a.updates, a.done, a.detached
	svc, req := a.ports.Discovery, a.req

	observer := driven.ObserverFunc(func(event domain.DiscoveryEvent) {
		select {
		case updates <- messages.DiscoveryEvent{Event: event}:
		case <-ctx.Done():
		}
	})

	go func() {
		result, err := svc.Discover(ctx, req, observer)
		finished := messages.DiscoveryFinished{Result: result, Err: err}
		done <- finished
		select {
		case updates <- finished:
		case <-detached:
		}
	}()
}

// waitForUpdate blocks until the next progress message.
func (a *App) waitForUpdate() tea.Cmd {
	updates := a.updates
	return func() tea.Msg {
		return <-updates
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.statusBar.SetWidth(msg.Width)
		a.help.Width = msg.Width
		a.candidates.SetDimensions(msg.Width, max(msg.Height-headerRows-3, 1))
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.finished {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.DiscoveryEvent:
		a.apply(msg.Event)
		return a, a.waitForUpdate()

	case messages.DiscoveryFinished:
		a.finish(msg.Result, msg.Err)
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		a.cancel()
		return a, tea.Quit
	case key.Matches(msg, a.keymap.Cancel):
		if !a.finished {
			a.cancel()
			a.statusBar.SetState(status.StateCancelling)
		}
	case key.Matches(msg, a.keymap.Close):
		if a.finished {
			return a, tea.Quit
		}
	case key.Matches(msg, a.keymap.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keymap.Up):
		a.candidates.MoveUp()
	case key.Matches(msg, a.keymap.Down):
		a.candidates.MoveDown()
	}
	return a, nil
}

// apply folds a progress event into the view state.
func (a *App) apply(event domain.DiscoveryEvent) {
	switch event.Kind {
	case domain.EventStageStarted:
		a.stage = event.Stage
	case domain.EventKeywordFetched:
		a.searches++
		a.posts += event.Posts
	case domain.EventCandidateScored:
		if event.Candidate != nil {
			a.candidates.Append(*event.Candidate)
			if event.Candidate.Accepted {
				a.accepted++
			}
		}
	case domain.EventItemSkipped:
		a.skipped++
		if event.Err != nil {
			a.lastSkipped = event.Err.Error()
		}
	case domain.EventFinished:
		a.result = event.Result
	}
	a.statusBar.SetCounts(a.accepted, a.skipped)
}

func (a *App) finish(result *domain.DiscoveryResult, err error) {
	a.finished = true
	a.result, a.err = result, err
	if result != nil {
		a.candidates.SetCandidates(result.Candidates)
		a.accepted = len(result.Accepted)
		a.skipped = result.Skipped.Total()
		a.statusBar.SetCounts(a.accepted, a.skipped)
	}

	switch {
	case err == nil:
		a.stage = domain.StageDone
		a.statusBar.SetState(status.StateDone)
	case errors.Is(err, context.Canceled):
		a.statusBar.SetState(status.StateCancelled)
	default:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(err.Error())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("threadscout"))
	b.WriteString(a.styles.Muted.Render("  " + a.req.Mode.Description()))
	b.WriteString("\n\n")

	if a.finished {
		b.WriteString(a.styles.Subtitle.Render(messages.StageLabel(a.stage)))
	} else {
		b.WriteString(a.spinner.View() + " " + a.styles.Subtitle.Render(messages.StageLabel(a.stage)))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Normal.Render(fmt.Sprintf(
		"%d keyword searches, %d posts, %d communities checked, %d accepted",
		a.searches, a.posts, a.candidates.Count(), a.accepted)))
	b.WriteString("\n")
	if a.lastSkipped != "" {
		b.WriteString(a.styles.Warning.Render("skipped: " + truncate(a.lastSkipped, a.width-10)))
	}
	b.WriteString("\n\n")

	b.WriteString(a.candidates.View())
	b.WriteString("\n\n")

	if a.finished && a.result != nil && len(a.result.Supplemental) > 0 {
		b.WriteString(a.styles.Muted.Render(fmt.Sprintf("%d related communities suggested", len(a.result.Supplemental))))
		b.WriteString("\n")
	}
	if a.help.ShowAll {
		b.WriteString(a.help.View(a.keymap))
		b.WriteString("\n")
	}
	b.WriteString(a.statusBar.View())
	return b.String()
}

// Wait blocks until Discover has returned and reports its outcome.
// It returns immediately if the run never started.
func (a *App) Wait() (*domain.DiscoveryResult, error) {
	a.detachOnce.Do(func() { close(a.detached) })
	if a.finished || !a.started {
		return a.result, a.err
	}
	finished := <-a.done
	return finished.Result, finished.Err
}

// Finished reports whether Discover has returned.
func (a *App) Finished() bool {
	return a.finished
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
