package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flplima/tmuxy/internal/config"
	"github.com/flplima/tmuxy/internal/input"
	"github.com/flplima/tmuxy/internal/tmuxcmd"
	"github.com/flplima/tmuxy/internal/tui"
	"github.com/flplima/tmuxy/internal/web"
)

func loadConfig() *config.Config {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		log.Printf("Warning: Failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	return cfg
}

func tuningFromConfig(cfg *config.Config) input.Tuning {
	t := input.DefaultTuning()
	if cfg.Scroll.WheelMultiplier > 0 {
		t.WheelMultiplier = cfg.Scroll.WheelMultiplier
	}
	if cfg.Scroll.DragThrottleMs > 0 {
		t.DragThrottle = time.Duration(cfg.Scroll.DragThrottleMs) * time.Millisecond
	}
	if cfg.Scroll.IndicatorFadeMs > 0 {
		t.IndicatorFade = time.Duration(cfg.Scroll.IndicatorFadeMs) * time.Millisecond
	}
	m := cfg.Momentum
	if m.Decay > 0 && m.Decay < 1 {
		t.Momentum.Decay = m.Decay
	}
	if m.MinVelocity > 0 {
		t.Momentum.MinVelocity = m.MinVelocity
	}
	if m.MaxVelocity > 0 {
		t.Momentum.MaxVelocity = m.MaxVelocity
	}
	if m.SampleWindow > 1 {
		t.Momentum.SampleWindow = m.SampleWindow
	}
	return t
}

func sessionFromConfig(cfg *config.Config) string {
	if sessionName != "" {
		return sessionName
	}
	return cfg.Session.Name
}

func pollFromConfig(cfg *config.Config) time.Duration {
	if cfg.Session.PollIntervalMs > 0 {
		return time.Duration(cfg.Session.PollIntervalMs) * time.Millisecond
	}
	return 250 * time.Millisecond
}

func runServe(cmd *cobra.Command) error {
	if debugMode {
		tmuxcmd.SetLogLevel(charmlog.DebugLevel)
		web.SetLogLevel(charmlog.DebugLevel)
	}

	cfg := loadConfig()
	session := sessionFromConfig(cfg)
	runner := tmuxcmd.NewRunner(session)

	if _, err := runner.ListPanes(); err != nil {
		return fmt.Errorf("cannot reach tmux session %q: %w", session, err)
	}

	webCfg := web.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		MaxConnections: cfg.Server.MaxConnections,
		AllowOrigins:   cfg.Server.AllowedOrigins,
		Debug:          debugMode,
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		webCfg.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		webCfg.Port = port
	}
	if maxConns, _ := cmd.Flags().GetInt("max-connections"); maxConns != 0 {
		webCfg.MaxConnections = maxConns
	}

	server := web.NewServer(webCfg, runner, tuningFromConfig(cfg), config.NewKeybindRegistry(cfg))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Watch(ctx, func(next *config.Config) {
		server.UpdateConfig(tuningFromConfig(next), config.NewKeybindRegistry(next))
	}); err != nil {
		log.Printf("Warning: config watching disabled: %v", err)
	}

	watcher := &tmuxcmd.Watcher{
		Runner:   runner,
		Interval: pollFromConfig(cfg),
		OnUpdate: server.Broadcast,
	}
	go watcher.Run(ctx)

	return server.Start(ctx)
}

func runAttach() error {
	if debugMode {
		tmuxcmd.SetLogLevel(charmlog.DebugLevel)
	}

	cfg := loadConfig()
	session := sessionFromConfig(cfg)
	runner := tmuxcmd.NewRunner(session)

	if _, err := runner.ListPanes(); err != nil {
		return fmt.Errorf("cannot reach tmux session %q: %w", session, err)
	}

	model := tui.New(runner, tuningFromConfig(cfg), config.NewKeybindRegistry(cfg), pollFromConfig(cfg))

	p := tea.NewProgram(model, tea.WithoutSignalHandler())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
