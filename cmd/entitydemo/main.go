package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/entitycore/internal/config"
	"github.com/zeusync/entitycore/internal/core/models"
	"github.com/zeusync/entitycore/internal/core/observability/log"
	"github.com/zeusync/entitycore/internal/core/systems"
	"github.com/zeusync/entitycore/internal/core/systems/physics"
	"github.com/zeusync/entitycore/internal/game"
	"github.com/zeusync/entitycore/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	cpuProfile := flag.Bool("profile", false, "write a CPU profile to the working directory")
	flag.Parse()

	if err := run(*configPath, *cpuProfile); err != nil {
		fmt.Fprintln(os.Stderr, "entitydemo:", err)
		os.Exit(1)
	}
}

func run(configPath string, cpuProfile bool) error {
	if cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rt, err := injector.InitializeRuntime(cfg)
	if err != nil {
		return fmt.Errorf("initialize runtime: %w", err)
	}
	defer func() { _ = rt.Close() }()

	game.RegisterStamina(rt.World)
	player, err := seed(rt.World, time.Now())
	if err != nil {
		return fmt.Errorf("seed world: %w", err)
	}

	if err = registerSystems(rt, player); err != nil {
		return err
	}

	rt.Logger.Info("world ready",
		log.Int("entities", rt.World.Len()),
		log.Duration("interval", cfg.Ticks.Interval.Std()),
		log.Int("ticks", cfg.Ticks.Count),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		return rt.Systems.Run(ctx, cfg.Ticks.Interval.Std(), cfg.Ticks.Count)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			rt.Logger.Info("shutting down")
		case <-done:
		}
		return nil
	})
	if err = g.Wait(); err != nil {
		return err
	}

	rt.Logger.Info("world stopped", log.Int64("frames", rt.Systems.Frame()), log.Int("entities", rt.World.Len()))
	return nil
}

// seed builds the demo world: one moving player and two timed stamina buffs.
func seed(world *models.Context[string], now time.Time) (*models.Entity[string], error) {
	var player *models.Entity[string]
	if world.KeyAddressable() {
		player, _ = world.Get("player")
	} else {
		player = world.NewEntity()
	}
	for _, v := range []any{
		game.Name("Netzwerg"),
		physics.NewPosition(0, 0, 0),
		physics.NewVelocity(1, 0, 0),
		game.BaseStamina{Stamina: game.Stamina{Value: 100}},
	} {
		if _, err := player.Set(v); err != nil {
			return nil, err
		}
	}

	buffs := []struct {
		name   string
		added  int16
		length time.Duration
	}{
		{"Blessing of the Earth", 25, 5 * time.Second},
		{"Second Wind", 10, 3 * time.Second},
	}
	for _, b := range buffs {
		buff := world.NewEntity()
		for _, v := range []any{
			game.Effect{Name: b.name, Source: player.ID(), Target: player.ID()},
			game.NewDuration(now, b.length),
			game.Range(2.5),
			game.AddedStamina{Stamina: game.Stamina{Value: b.added}},
		} {
			if _, err := buff.Set(v); err != nil {
				return nil, err
			}
		}
	}
	return player, nil
}

func registerSystems(rt *injector.Runtime, player *models.Entity[string]) error {
	sheet := systems.Func("sheet", systems.PriorityLowest, func(tick systems.Tick) error {
		if !player.Valid() {
			return nil
		}
		rt.Logger.Info("character sheet",
			log.Int64("frame", tick.Frame),
			log.String("sheet", "\n"+game.CharacterSheet(rt.World, player, time.Now())),
		)
		return nil
	})

	for _, s := range []systems.System{
		physics.Movement(rt.World),
		game.StaminaSystem(rt.World),
		sheet,
		game.Timer(rt.World, time.Now),
	} {
		if err := rt.Systems.Register(s); err != nil {
			return fmt.Errorf("register system %s: %w", s.Name(), err)
		}
	}
	return nil
}
