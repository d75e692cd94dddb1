package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gloamdev/gloam/internal/config"
	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/data"
	"github.com/gloamdev/gloam/internal/game"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
	"github.com/gloamdev/gloam/internal/persist"
	"github.com/gloamdev/gloam/internal/scripting"
	"github.com/gloamdev/gloam/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(mapName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              gloam  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mmap:\033[0m %s\n\n", mapName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s ", title)
	for i := 0; i < lineLen; i++ {
		fmt.Print("─")
	}
	fmt.Print("\033[0m\n")
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m", label)
	for i := 0; i < dotsLen; i++ {
		fmt.Print("·")
	}
	fmt.Printf("\033[0m \033[32m%s\033[0m\n", numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main game logic ───────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/gloam.toml"
	if p := os.Getenv("GLOAM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Game.Map)

	// 3. Load data tables
	printSection("data")

	mobjTable, err := data.LoadMobjTable(filepath.Join(cfg.Data.Dir, "mobjs.yaml"))
	if err != nil {
		return fmt.Errorf("load mobj table: %w", err)
	}
	printStat("map object types", mobjTable.Count())

	linedefTable, err := data.LoadLinedefSpecialTable(filepath.Join(cfg.Data.Dir, "linedef_specials.yaml"))
	if err != nil {
		return fmt.Errorf("load linedef specials: %w", err)
	}
	printStat("linedef specials", linedefTable.Count())

	sectorTable, err := data.LoadSectorSpecialTable(filepath.Join(cfg.Data.Dir, "sector_specials.yaml"))
	if err != nil {
		return fmt.Errorf("load sector specials: %w", err)
	}
	printStat("sector specials", sectorTable.Count())

	animTable, err := data.LoadAnimTable(filepath.Join(cfg.Data.Dir, "anims.yaml"))
	if err != nil {
		return fmt.Errorf("load anim table: %w", err)
	}
	printStat("texture animations", animTable.Count())

	// 4. Initialize Lua scripting engine
	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua behaviors loaded")
	fmt.Println()

	// 5. Create the world and build entity templates
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := game.NewWorld(log, seed)
	w.Mobjs = mobjTable
	w.LinedefSpecials = linedefTable
	w.SectorSpecials = sectorTable
	w.Anims = animTable
	w.Skill = cfg.Game.Skill
	w.BuildTemplates()

	// 6. Build and spawn the map
	printSection("map")

	m, err := buildDemoMap(w)
	if err != nil {
		return fmt.Errorf("build map: %w", err)
	}
	mapHandle := w.Maps.Insert(cfg.Game.Map, m)
	if err := w.SetMap(mapHandle); err != nil {
		return fmt.Errorf("spawn map: %w", err)
	}
	printStat("sectors", len(m.Sectors))
	printStat("linedefs", len(m.Linedefs))
	printStat("things", len(m.Things))

	if _, err := w.SpawnPlayer(); err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}
	fmt.Println()

	// 7. Optional persistence: connect, migrate, restore
	var persistSys *system.PersistenceSystem
	if cfg.Database.DSN != "" {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("postgres connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")

		repo := persist.NewSessionRepo(db)
		persistSys = system.NewPersistenceSystem(w, repo, "default", cfg.Game.Map, cfg.Database.SaveInterval)

		snap, err := repo.Load(ctx, "default")
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if snap != nil && snap.MapName == cfg.Game.Map {
			persistSys.Restore(snap)
			printOK("session restored")
		}
		fmt.Println()
	}

	// 8. Create systems and register with runner
	runner := coresys.NewRunner()
	runner.Register(system.NewMonsterAISystem(w, luaEngine))
	runner.Register(system.NewUseSystem(w))
	runner.Register(system.NewPhysicsSystem(w))
	runner.Register(system.NewDoorSystem(w))
	runner.Register(system.NewLightSystem(w))
	runner.Register(system.NewTextureAnimSystem(w))
	runner.Register(system.NewTextureScrollSystem(w))
	runner.Register(system.NewSoundSystem(w, nil))
	if persistSys != nil {
		runner.Register(persistSys)
	}
	runner.Register(system.NewCleanupSystem(w))

	// 9. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.Game.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Game.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if persistSys != nil {
				persistSys.SaveNow()
			}
			log.Info("stopped")
			return nil
		}
	}
}

// buildDemoMap constructs a small three-sector level: a start room, a
// tagged door, and a flickering room with monsters and a switch that also
// operates the door. Stands in for a real map loader.
func buildDemoMap(w *game.World) (*level.Map, error) {
	tex := func(name string) level.Texture {
		return level.Texture{Kind: level.TextureNormal, Image: w.Images.Intern(name)}
	}
	side := func(sector int, middle string) *level.Sidedef {
		s := &level.Sidedef{Sector: sector}
		if middle != "" {
			s.Middle = tex(middle)
		}
		return s
	}
	doorSide := func(sector int) *level.Sidedef {
		return &level.Sidedef{Sector: sector, Top: tex("BIGDOOR2")}
	}
	v := func(x, y float32) geom.Vec2 { return geom.Vec2{X: x, Y: y} }

	b := level.NewBuilder()

	// Sector 0: start room. Glowing light.
	s0 := b.AddSector(level.Sector{
		Interval:   geom.Interval{Min: 0, Max: 128},
		Floor:      tex("FLOOR4_8"),
		Ceiling:    tex("CEIL3_5"),
		LightLevel: 0.8,
		Special:    3,
	})
	// Sector 1: door, closed (ceiling at floor). Tag 9 links it to the switch.
	s1 := b.AddSector(level.Sector{
		Interval:   geom.Interval{Min: 0, Max: 0},
		Floor:      tex("FLAT20"),
		Ceiling:    tex("FLAT20"),
		LightLevel: 0.5,
		Tag:        9,
	})
	// Sector 2: east room. Broken-flash light, nukage floor.
	s2 := b.AddSector(level.Sector{
		Interval:   geom.Interval{Min: 0, Max: 128},
		Floor:      tex("NUKAGE1"),
		Ceiling:    tex("CEIL3_5"),
		LightLevel: 0.6,
		Special:    1,
	})

	wall := func(from, to geom.Vec2, sector int) {
		b.AddLinedef(level.LinedefSpec{
			From: from, To: to,
			Flags: level.FlagBlocking,
			Front: side(sector, "STARTAN3"),
		})
	}

	// Start room perimeter. Front sides face inward.
	wall(v(256, 0), v(0, 0), s0)
	wall(v(0, 0), v(0, 256), s0)
	wall(v(0, 256), v(256, 256), s0)
	wall(v(256, 256), v(256, 160), s0)
	wall(v(256, 96), v(256, 0), s0)

	// West door face: usable from the start room, door is the back sector.
	b.AddLinedef(level.LinedefSpec{
		From: v(256, 160), To: v(256, 96),
		Flags:   level.FlagTwoSided,
		Special: 1,
		Front:   doorSide(s0),
		Back:    doorSide(s1),
	})

	// Door jambs.
	wall(v(256, 160), v(288, 160), s1)
	wall(v(288, 96), v(256, 96), s1)

	// East door face: usable from the east room.
	b.AddLinedef(level.LinedefSpec{
		From: v(288, 96), To: v(288, 160),
		Flags:   level.FlagTwoSided,
		Special: 1,
		Front:   doorSide(s2),
		Back:    doorSide(s1),
	})

	// East room perimeter, with a switch segment in the east wall that
	// opens the tagged door remotely.
	wall(v(544, 0), v(288, 0), s2)
	wall(v(288, 0), v(288, 96), s2)
	wall(v(288, 160), v(288, 256), s2)
	wall(v(288, 256), v(544, 256), s2)
	wall(v(544, 256), v(544, 144), s2)
	b.AddLinedef(level.LinedefSpec{
		From: v(544, 144), To: v(544, 112),
		Flags:   level.FlagBlocking,
		Special: 2,
		Tag:     9,
		Front:   side(s2, "SW1BRCOM"),
	})
	wall(v(544, 112), v(544, 0), s2)

	// One convex leaf per room.
	ss0 := b.AddSubsector(s0, v(0, 0), v(256, 0), v(256, 256), v(0, 256))
	ss1 := b.AddSubsector(s1, v(256, 96), v(288, 96), v(288, 160), v(256, 160))
	ss2 := b.AddSubsector(s2, v(288, 0), v(544, 0), v(544, 256), v(288, 256))

	leaf := func(i int) level.NodeChild {
		return level.NodeChild{Kind: level.ChildSubsector, Index: i}
	}
	// Split east side first, root last.
	east := b.AddNode(geom.Plane2{Normal: v(1, 0), Distance: 288}, leaf(ss2), leaf(ss1))
	b.AddNode(geom.Plane2{Normal: v(1, 0), Distance: 256},
		level.NodeChild{Kind: level.ChildNode, Index: east}, leaf(ss0))

	// Player 1 start in the west room; monsters, a barrel, and a hanging
	// corpse in the east room.
	b.AddThing(level.Thing{Position: v(128, 128), Angle: 0, TypeID: 1})
	b.AddThing(level.Thing{Position: v(400, 80), Angle: 90, TypeID: 3004,
		Flags: level.ThingSkillEasy | level.ThingSkillMedium | level.ThingSkillHard})
	b.AddThing(level.Thing{Position: v(440, 200), Angle: 180, TypeID: 3004,
		Flags: level.ThingSkillMedium | level.ThingSkillHard})
	b.AddThing(level.Thing{Position: v(352, 208), Angle: 0, TypeID: 2035,
		Flags: level.ThingSkillEasy | level.ThingSkillMedium | level.ThingSkillHard})
	b.AddThing(level.Thing{Position: v(352, 48), Angle: 0, TypeID: 63,
		Flags: level.ThingSkillEasy | level.ThingSkillMedium | level.ThingSkillHard})

	return b.Build()
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
