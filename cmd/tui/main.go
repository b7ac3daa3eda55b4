package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/dealdesk/cmd/tui/internal/view"
	catalogStore "github.com/MrJamesThe3rd/dealdesk/internal/catalog/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	"github.com/MrJamesThe3rd/dealdesk/internal/database"
	"github.com/MrJamesThe3rd/dealdesk/internal/observability"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	opportunityStore "github.com/MrJamesThe3rd/dealdesk/internal/opportunity/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	pipelineStore "github.com/MrJamesThe3rd/dealdesk/internal/pipeline/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/resilience"
	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect/client"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type screen int

const (
	screenMenu screen = iota
	screenBoard
	screenForecast
)

type model struct {
	deals  *opportunity.Service
	stages pipeline.Directory
	actor  opportunity.Actor

	current screen
	active  view.View
	size    tea.WindowSizeMsg
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == screenMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.open(screenBoard, view.NewBoardModel(m.deals, m.stages, m.actor))
			case "2":
				return m.open(screenForecast, view.NewForecastModel(m.deals, m.actor))
			}

			return m, nil
		}
	case view.BackMsg:
		m.current = screenMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	m.active = next.(view.View)

	return m, cmd
}

// open switches to v and replays the last window size so its table fits.
func (m model) open(s screen, v view.View) (tea.Model, tea.Cmd) {
	m.current = s

	next, sizeCmd := v.Update(m.size)
	m.active = next.(view.View)

	return m, tea.Batch(m.active.Init(), sizeCmd)
}

func (m model) View() string {
	if m.active == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			titleStyle.Render("Deal Desk") + "\n\n" +
				"1. Pipeline Board\n" +
				"2. Forecast\n\n" +
				"q. Quit",
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.active.Title()),
		m.active.View(),
		helpStyle.Render(m.active.ShortHelp()),
	)
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Logs go to a file so they do not tear the alternate screen.
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.TUI.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("tui failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.TUI.ActorID == "" {
		return errors.New("TUI_ACTOR_ID is required")
	}

	actorID, err := uuid.Parse(cfg.TUI.ActorID)
	if err != nil {
		return fmt.Errorf("parsing TUI_ACTOR_ID: %w", err)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	metrics := observability.NewMetrics()

	stages, err := directory(cfg, db, metrics)
	if err != nil {
		return err
	}
	defer stages.Close()

	c := cfg.Collaborators
	dispatcher := client.NewDispatcher(client.Settings{
		AuditURL:     c.AuditURL,
		ActivityURL:  c.ActivityURL,
		Token:        c.Token,
		Timeout:      c.Timeout,
		Retry:        resilience.Config{MaxRetries: c.MaxRetries, InitialBackoff: c.InitialBackoff},
		FlushTimeout: c.FlushTimeout,
	}, metrics, logger)

	svc := opportunity.NewService(
		opportunityStore.New(db),
		stages,
		catalogStore.New(db),
		dispatcher,
		logger,
		opportunity.WithMetrics(metrics),
	)

	p := tea.NewProgram(model{
		deals:  svc,
		stages: stages,
		actor:  opportunity.Actor{ID: actorID},
	}, tea.WithAltScreen())

	_, err = p.Run()

	if c.FlushTimeout > 0 {
		waitCtx, cancel := context.WithTimeout(context.Background(), c.FlushTimeout)
		defer cancel()

		if werr := dispatcher.Wait(waitCtx); werr != nil {
			logger.Warn("side effects still pending at exit", zap.Error(werr))
		}
	}

	return err
}

func directory(cfg *config.Config, db *sql.DB, metrics *observability.Metrics) (*pipeline.CachedDirectory, error) {
	var next pipeline.Directory = pipelineStore.New(db)

	if cfg.Pipeline.File != "" {
		file, err := pipeline.LoadFile(cfg.Pipeline.File)
		if err != nil {
			return nil, err
		}

		next = file
	}

	return pipeline.NewCachedDirectory(next, cfg.Pipeline.CacheTTL, metrics), nil
}
