// Command eventlistener runs the armor demo: two armored fighters take
// random hits every tick until nobody is left standing.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/l1jgo/eventlistener/internal/app"
	"github.com/l1jgo/eventlistener/internal/combat"
	"github.com/l1jgo/eventlistener/internal/config"
	"github.com/l1jgo/eventlistener/internal/data"
	"github.com/l1jgo/eventlistener/internal/listener"
	"github.com/l1jgo/eventlistener/internal/persist"
	"github.com/l1jgo/eventlistener/internal/scripting"
	"github.com/l1jgo/eventlistener/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var out = message.NewPrinter(language.English)

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m          eventlistener  armor demo         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	num := out.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(num), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), num)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Demo ──────────────────────────────────────────────────────────

func loadConfig() (*config.Config, error) {
	cfgPath := "config/eventlistener.toml"
	if p := os.Getenv(config.EnvPrefix + "CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.FromEnv()
	}
	return cfg, err
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(log)
	comps := combat.NewComponents(a.World())

	missing := zapcore.DebugLevel
	if cfg.Engine.WarnMissingTarget {
		missing = zapcore.WarnLevel
	}
	opts := []listener.Option{listener.WithMissingTargetLevel(missing)}

	// Journal
	var journal *system.JournalSystem
	if cfg.Database.Enabled {
		printSection("Database")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(dbCtx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")

		journal = system.NewJournalSystem(persist.NewJournalRepo(db), log, cfg.Engine.JournalFlushTicks)
		a.AddSystem(journal)
		opts = append(opts, listener.WithReportSink(journal.Record))
		fmt.Println()
	}

	attacks, err := listener.Register[combat.Attack](a, opts...)
	if err != nil {
		return err
	}

	// Callbacks
	printSection("Listeners")
	callbacks := combat.Callbacks(comps)
	printStat("Go callbacks", len(callbacks))
	if cfg.Scripts.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripts.Dir, log)
		if err != nil {
			return fmt.Errorf("scripts: %w", err)
		}
		defer engine.Close()
		comps.Expose(engine)
		scripted := combat.ScriptedCallbacks(engine, "block_attack", "take_damage")
		maps.Copy(callbacks, scripted)
		printStat("Lua callbacks", len(scripted))
	}

	// Scene
	scene, err := data.LoadScene(cfg.Scene.Path)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if _, err := combat.Spawn(a.World(), comps, attacks.Listeners(), scene, callbacks); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	printStat("Entities", a.World().Len())
	printStat("Armor pieces", comps.Armor.Len())
	printStat("Attack listeners", attacks.Listeners().Len())
	fmt.Println()

	seed := uint64(cfg.Demo.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	a.AddSystem(system.NewAttackSystem(comps, a.Bus(), log, seed, cfg.Demo.MaxDamage, cfg.Demo.AttackEveryTicks))

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("tick %s, seed %d", cfg.Engine.TickRate, seed))
	fmt.Println()

	defer func() {
		if journal == nil {
			return
		}
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := journal.Flush(flushCtx); err != nil {
			log.Error("final journal flush failed", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ticker.C:
			a.Tick(cfg.Engine.TickRate)
			if comps.Health.Len() == 0 {
				log.Info("nobody left standing", zap.Uint64("ticks", a.Ticks()))
				return nil
			}
		case <-ctx.Done():
			log.Info("shutdown signal received", zap.Uint64("ticks", a.Ticks()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
