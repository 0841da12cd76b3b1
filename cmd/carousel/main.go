package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"carousel/internal/config"
	"carousel/internal/deck"
	"carousel/internal/domain"
	"carousel/internal/eventbus"
	"carousel/internal/stage"
	"carousel/internal/ui"
)

var (
	configPath  string
	mode        string
	autoscroll  bool
	noAutostart bool
	watch       bool
	logFile     string
	verbose     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "carousel [deck]",
	Short: "Present a slide deck as a swipeable terminal carousel",
	Long: `carousel shows a deck one slide at a time.

Drag a slide to the left with the mouse for the next one and to the right for the
previous one, or use the arrow keys. Decks are Markdown (slides separated by ---),
TOML or YAML files. Without a deck a short introduction is shown.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCarousel,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/carousel/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.Flags().StringVar(&mode, "mode", "", "boundary behaviour: wrap or clamp")
	rootCmd.Flags().BoolVar(&autoscroll, "autoscroll", false, "advance when the active pager fills")
	rootCmd.Flags().BoolVar(&noAutostart, "no-autostart", false, "do not reveal the first slide on start")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the deck when the file changes")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file (default from config, carousel.log)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes to path since the terminal belongs to the UI
func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// overrides collects the host attributes set explicitly on the command line
func overrides(cmd *cobra.Command) map[string]string {
	attrs := map[string]string{}
	if cmd.Flags().Changed("mode") {
		attrs[stage.AttrMode] = mode
	}
	if cmd.Flags().Changed("autoscroll") {
		attrs[stage.AttrAutoscroll] = strconv.FormatBool(autoscroll)
	}
	if noAutostart {
		attrs[stage.AttrAutostart] = "false"
	}
	return attrs
}

func loadDeck(args []string) (*domain.Deck, string, error) {
	if len(args) == 0 {
		d, err := deck.Parse([]byte(introDeck), deck.FormatMarkdown)
		return d, "", err
	}
	d, err := deck.Load(args[0])
	if err != nil {
		return nil, "", err
	}
	return d, args[0], nil
}

func runCarousel(cmd *cobra.Command, args []string) error {
	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Load configuration
	var cfgErr error
	cfg, err := config.NewConfigServiceWithBus(nil, configPath).Load()
	if err != nil {
		cfgErr = err
		cfg = config.DefaultConfig()
	}

	if logFile == "" {
		logFile = cfg.LogFile
	}
	logger, err := newLogger(logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfgErr != nil {
		logger.Warn("Error loading config, using defaults", zap.Error(cfgErr))
	}

	d, deckPath, err := loadDeck(args)
	if err != nil {
		return err
	}

	bus := eventbus.New(logger)

	uiModel := ui.NewModel(d, ui.Options{
		Bus:       bus,
		Config:    cfg,
		Logger:    logger,
		DeckPath:  deckPath,
		Overrides: overrides(cmd),
	})

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.SetProgram(p)

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
			p.Quit()
		case <-ctx.Done():
		}
	}()

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			// Channel full, drop event
			logger.Warn("Event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
	bus.Subscribe(eventbus.EventDeckChanged, forward)
	bus.Subscribe(eventbus.EventError, forward)

	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	var watcher *deck.Watcher
	if watch && deckPath != "" {
		watcher, err = deck.NewWatcher(deckPath, bus, logger, 0)
		if err != nil {
			bus.Close()
			close(eventChan)
			return err
		}
		watcher.Start(ctx)
	}

	bus.Publish(eventbus.DeckLoadedEvent{Path: deckPath, Slides: len(d.Slides)})

	_, runErr := p.Run()

	// Cleanup
	cancel()
	if watcher != nil {
		watcher.Wait()
	}
	bus.Close()
	close(eventChan)

	if runErr != nil {
		return fmt.Errorf("error running program: %w", runErr)
	}
	return nil
}

const introDeck = `---
title: carousel
---
# carousel

A slide stage for the terminal.

Drag a slide **left** for the next one and **right** for the previous one.
---
# Keys

| key | action |
|-----|--------|
| ← / h | previous slide |
| → / l | next slide |
| o | open the slide in a pager |
| ? | help |
| q | quit |
---
# Decks

Run ` + "`carousel talk.md`" + ` with slides separated by ` + "`---`" + ` lines,
or use a TOML or YAML deck with a ` + "`slides`" + ` list.

Add ` + "`--watch`" + ` to reload the deck on save and ` + "`--autoscroll`" + ` to
advance automatically.
`
