// Command sampleviewer runs the lattice samples in a window with an ImGui
// control panel, optionally driving them from a script suite.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/config"
	"github.com/plus3/sampleviewer/internal/logx"
	"github.com/plus3/sampleviewer/metrics"
	"github.com/plus3/sampleviewer/prefs"
	"github.com/plus3/sampleviewer/render"
	"github.com/plus3/sampleviewer/samples"
	"github.com/plus3/sampleviewer/screenshot"
	"github.com/plus3/sampleviewer/script"
	"github.com/plus3/sampleviewer/ui"
	"github.com/plus3/sampleviewer/ui/debugui"
	debugui_ebiten "github.com/plus3/sampleviewer/ui/debugui/ebiten"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "TOML config file.")
	sample := flag.String("sample", "AssetLoadTest", "Sample to open at startup.")
	suite := flag.String("suite", "", "Script suite (txtar) to run; the viewer exits when it finishes.")
	assets := flag.String("assets", "", "Asset root; overrides the config.")
	metricsOut := flag.String("metrics", "", "Performance metrics XML output; overrides the config.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *assets != "" {
		cfg.Assets.Root = *assets
	}
	if *metricsOut != "" {
		cfg.Metrics.Output = *metricsOut
	}
	log := logx.New(os.Stderr, logx.ParseLevel(cfg.Log.Level), cfg.Log.Color)
	profile, err := cfg.Profile()
	if err != nil {
		log.Error("bad lattice profile", "err", err)
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := asset.NewCatalog(log)
	n, err := catalog.Scan(cfg.Assets.Root)
	if err != nil {
		log.Error("cannot scan assets", "root", cfg.Assets.Root, "err", err)
		return 1
	}
	log.Info("asset catalog ready", "root", cfg.Assets.Root, "assets", n)
	if cfg.Assets.Watch {
		if err := catalog.Watch(ctx, cfg.Assets.Root); err != nil {
			log.Warn("asset watching disabled", "err", err)
		}
	}

	store := prefs.NewStore(cfg.Cache.Dir)
	scene := render.NewScene()
	recorder := metrics.NewRecorder(300)
	widgets := ui.NewScriptable(debugui.Widgets{})

	v := &viewer{log: log, widgets: widgets, scene: scene, recorder: recorder}
	v.manager = samples.NewManager(samples.Options{
		Scene:       scene,
		Catalog:     catalog,
		Loader:      asset.FileLoader{Root: cfg.Assets.Root},
		Concurrency: cfg.Loader.Concurrency,
		Prefs:       store,
		UI:          widgets,
		Script:      (*scriptControl)(v),
		Profile:     profile,
		Log:         log,
		Metrics:     recorder,
	})
	v.manager.RegisterDefaults()

	if *suite != "" {
		if err := v.loadSuite(cfg, store, *suite); err != nil {
			log.Error("cannot load script suite", "suite", *suite, "err", err)
			return 2
		}
	} else if err := v.manager.Select(*sample); err != nil {
		log.Error("cannot open sample", "err", err)
		return 2
	}

	backend := debugui_ebiten.NewImguiBackend("Sample Viewer", 1280, 720)
	v.setupUI(backend, catalog)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil && err != ebiten.Termination {
		log.Error("viewer stopped", "err", err)
	}
	v.manager.Close()

	out := store.ResolvePath(cfg.Metrics.Output)
	if err := recorder.WriteFile(out); err != nil {
		log.Error("cannot write performance metrics", "path", out, "err", err)
	} else {
		log.Info("performance metrics written", "path", out)
	}

	if v.reporter != nil {
		if err := v.reporter.Summary(os.Stdout); err != nil {
			log.Error("cannot write script summary", "err", err)
		}
		if v.reporter.HasFailures() {
			return 1
		}
	}
	return 0
}

func (v *viewer) loadSuite(cfg config.Config, store *prefs.Store, path string) error {
	scripts, err := script.LoadSuite(path)
	if err != nil {
		return err
	}
	levels := screenshot.DefaultToleranceLevels()
	if cfg.Screenshots.ToleranceFile != "" {
		if levels, err = screenshot.LoadToleranceLevels(cfg.Screenshots.ToleranceFile); err != nil {
			return err
		}
	}
	paths := screenshot.Paths{
		ScreenshotDir: store.ResolvePath(cfg.Screenshots.Dir),
		OfficialDir:   store.ResolvePath(cfg.Screenshots.OfficialDir),
		LocalDir:      store.ResolvePath(cfg.Screenshots.LocalDir),
	}
	v.reporter = script.NewReporter(paths, levels, v.log)
	v.runner = script.NewRunner((*scriptHost)(v), v.reporter, paths.ScreenshotDir, v.log)
	v.runner.Load(scripts)
	v.log.Info("script suite loaded", "suite", path, "scripts", len(scripts))
	return nil
}
