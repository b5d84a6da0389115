// Command worldserver boots the tick-driven simulation core described by
// §3-§5: it loads configuration and maps, wires the AI/pet/combat/chest/
// party subsystems together through the scheduler, and drives the
// resulting event loop to completion or shutdown signal.
//
// Grounded on the teacher's cmd/gameserver/main.go: context-scoped
// SIGINT/SIGTERM handling, config loaded before the slog handler is
// installed so the configured log level takes effect immediately, every
// long-running piece started under a shared errgroup, and callback
// closures built bottom-up so each subsystem only ever sees the
// injected function types its own package already declares.
//
// Per §1's Non-goals this binary never opens a TCP listener, parses
// login/admin chat commands, or maps a character to SQL rows itself —
// those collaborators are out of scope for this module. The Sink this
// command constructs is a placeholder log-only stand-in for that
// transport layer, present so the core can run standalone; a real
// deployment replaces it with a type that actually serializes and
// writes to client connections.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eoserv-go/worldcore/internal/ai"
	"github.com/eoserv-go/worldcore/internal/broadcast"
	"github.com/eoserv-go/worldcore/internal/combat"
	"github.com/eoserv-go/worldcore/internal/config"
	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/db"
	"github.com/eoserv-go/worldcore/internal/mapfile"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/party"
	"github.com/eoserv-go/worldcore/internal/pet"
	"github.com/eoserv-go/worldcore/internal/scheduler"
	"github.com/eoserv-go/worldcore/internal/world"
)

const (
	// ConfigPathEnv names the environment variable carrying the world
	// config path, mirroring the teacher's LA2GO_*_CONFIG overrides.
	ConfigPathEnv     = "WORLDCORE_CONFIG"
	defaultConfigPath = "config/worldserver.yaml"
)

// actSpeedTable is the default 7-entry random-walker speed table indexed
// by spawn type 0..6 (§4.4), grounded verbatim on
// original_source/src/npc.cpp's speed_table (the 8th entry, spawn type
// 7, is stationary and never consults this table — see NPC.CanAct).
var actSpeedTable = [7]time.Duration{
	time.Duration(0.9 * float64(time.Second)),
	time.Duration(0.6 * float64(time.Second)),
	time.Duration(1.3 * float64(time.Second)),
	time.Duration(1.9 * float64(time.Second)),
	time.Duration(3.7 * float64(time.Second)),
	time.Duration(7.5 * float64(time.Second)),
	15 * time.Second,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := defaultConfigPath
	if p := os.Getenv(ConfigPathEnv); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("worldcore starting", "config", cfgPath, "log_level", cfg.LogLevel)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	txBuffer, err := db.NewTransactionBuffer(ctx, database.Pool())
	if err != nil {
		return fmt.Errorf("opening transaction buffer: %w", err)
	}
	defer txBuffer.Close(ctx)

	tables := data.NewTables()
	slog.Info("static tables initialized (item/npc definition loader not yet wired)",
		"items", tables.ItemCount(), "npcs", tables.NpcCount())

	w := world.New(tables, cfg.SeeDistance)
	for _, mapID := range cfg.Maps {
		path := filepath.Join(cfg.MapDir, fmt.Sprintf("%05d.emf", mapID))
		loaded, loadErr := mapfile.Load(path)
		if loadErr != nil {
			slog.Warn("map load failed, map stays non-existent and falls back to id 1", "map", mapID, "error", loadErr)
			continue
		}
		m := world.NewMap(mapID)
		m.LoadInto(loaded, npcTemplatesFor(tables, loaded))
		w.SetMap(m)
	}
	slog.Info("maps loaded", "count", w.MapCount())

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	formulas := combat.NewEngine()
	if err := config.LoadFormulas(cfg.FormulasPath, formulas); err != nil {
		return fmt.Errorf("loading formulas: %w", err)
	}

	resolver := &combat.Resolver{
		Tables:   tables,
		Formulas: formulas,
		Rand:     rng,
		Config:   cfg.CombatConfig(),
	}

	sink := &logSink{} // placeholder for the out-of-scope transport layer
	bcast := &broadcast.Broadcaster{World: w, SeeDistance: cfg.SeeDistance, Sink: sink}

	resolver.OnHealthUpdate = bcast.HealthUpdate
	resolver.OnKill = bcast.Kill

	aiCtl := &ai.Controller{
		Tables:        tables,
		Rand:          rng,
		ChaseDistance: cfg.NPCChaseDistance,
		BoredTimer:    time.Duration(cfg.NPCBoredTimer) * time.Second,
		ActSpeeds:     actSpeedTable,
		OnWalk:        bcast.NPCWalk,
		OnAttack: func(npc *model.NPC, target *model.Character) {
			resolver.NPCAttackCharacter(npc, target, w.Map(target.MapID))
		},
	}

	petCtl := &pet.Controller{
		Tables:        tables,
		Rand:          rng,
		ChaseDistance: cfg.PetChaseDistance,
		GuardDistance: cfg.PetGuardDistance,
		MaxPathExpand: 200,
		OnWalk:        bcast.NPCWalk,
		OnAttack: func(p, target *model.NPC) {
			resolver.PetAttackNPC(p, target, w.Map(p.Pet.Owner.MapID))
		},
	}

	partyMgr := party.NewManager(w)
	_ = partyMgr // constructed for the request-handling collaborator to use; §1 leaves request dispatch itself out of scope.

	sched := scheduler.New(cfg.MaxDelta())
	hooks := scheduler.Hooks{
		OnTimedSave: func(now time.Time) {
			if err := txBuffer.Commit(ctx); err != nil {
				slog.Warn("timed-save commit failed", "error", err)
			}
		},
		OnChestRefill: bcast.ChestRefill,
	}
	scheduler.RegisterWorldEvents(sched, w, cfg.SchedulerConfig(), aiCtl, petCtl, rng, hooks, time.Now())
	slog.Info("scheduler armed", "events", sched.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return driveScheduler(gctx, sched)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("worldcore: %w", err)
	}
	slog.Info("worldcore stopped")
	return nil
}

// driveScheduler is the single event-loop thread §5 requires: it calls
// Advance on a fixed cadence matched to the finest-grained registered
// event (act-npcs, 50ms) until ctx is cancelled.
func driveScheduler(ctx context.Context, sched *scheduler.Scheduler) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			sched.Advance(now)
		}
	}
}

// npcTemplatesFor builds the lookup LoadInto needs from only the
// definition ids a map's spawn table actually references, since
// data.Tables exposes single-id lookups rather than a full iterator.
func npcTemplatesFor(tables *data.Tables, loaded *mapfile.Loaded) map[int32]*model.NpcDef {
	out := make(map[int32]*model.NpcDef, len(loaded.NPCs))
	for _, spawn := range loaded.NPCs {
		if _, ok := out[spawn.NpcDefID]; ok {
			continue
		}
		out[spawn.NpcDefID] = tables.Npc(spawn.NpcDefID)
	}
	return out
}

// logSink is a minimal stand-in for the out-of-scope transport
// collaborator (§1): it lets the core run end-to-end without a network
// layer attached, logging what would have been sent instead of
// serializing and writing it to a connection.
type logSink struct{}

func (logSink) Send(recipient *model.Character, record any) {
	slog.Debug("broadcast", "to", recipient.Name, "record", fmt.Sprintf("%#v", record))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
