package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/config"
	"github.com/plus3/sampleviewer/internal/logx"
	"github.com/plus3/sampleviewer/metrics"
	"github.com/plus3/sampleviewer/prefs"
	"github.com/plus3/sampleviewer/render"
	"github.com/plus3/sampleviewer/samples"
)

func main() {
	configPath := flag.String("config", "", "TOML config file.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	sample := flag.String("sample", "HighInstanceTest", "The sample to run.")
	width := flag.Int("width", 0, "Lattice width; zero keeps the profile default.")
	height := flag.Int("height", 0, "Lattice height; zero keeps the profile default.")
	depth := flag.Int("depth", 0, "Lattice depth; zero keeps the profile default.")
	assets := flag.String("assets", "", "Asset root to scan. Empty uses a synthetic catalog of the samples' default assets.")
	loadDelay := flag.Duration("load-delay", time.Millisecond, "Simulated load time per asset for the synthetic catalog.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *width > 0 {
		cfg.Lattice.Width = *width
	}
	if *height > 0 {
		cfg.Lattice.Height = *height
	}
	if *depth > 0 {
		cfg.Lattice.Depth = *depth
	}
	profile, err := cfg.Profile()
	if err != nil {
		log.Fatalf("Failed to resolve profile: %v", err)
	}
	logger := logx.New(os.Stderr, logx.ParseLevel(cfg.Log.Level), cfg.Log.Color)

	log.Println("Starting lattice stress test...")

	// 1. Catalog and loader
	catalog := asset.NewCatalog(logger)
	var loader asset.Loader
	if *assets != "" {
		n, err := catalog.Scan(*assets)
		if err != nil {
			log.Fatalf("Failed to scan assets: %v", err)
		}
		log.Printf("Scanned %d assets from %s\n", n, *assets)
		loader = asset.FileLoader{Root: *assets}
	} else {
		for _, p := range samples.DefaultAssetPaths() {
			catalog.Register(p)
		}
		loader = asset.LoaderFunc(func(ctx context.Context, info asset.Info) error {
			select {
			case <-time.After(*loadDelay):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	// 2. Manager
	scene := render.NewScene()
	recorder := metrics.NewRecorder(600)
	manager := samples.NewManager(samples.Options{
		Scene:       scene,
		Catalog:     catalog,
		Loader:      loader,
		Concurrency: cfg.Loader.Concurrency,
		Prefs:       prefs.NewStore(os.TempDir()),
		Profile:     profile,
		Log:         logger,
		Metrics:     recorder,
	})
	manager.RegisterDefaults()
	if err := manager.Select(*sample); err != nil {
		log.Fatalf("Failed to start sample: %v", err)
	}

	report := &Report{
		Sample:         *sample,
		Duration:       *duration,
		Dimensions:     profile.Defaults,
		Instances:      manager.Env().Storage.EntityCount(),
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	// 3. Run the loop
	log.Printf("Running %s for %s...\n", *sample, *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			manager.Tick(deltaTime)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Scene = scene.Stats()
	report.Busy = manager.Env().Assets.Busy()
	runtime.ReadMemStats(&report.MemStatsEnd)

	manager.Close()
	report.Leaked = scene.Live()

	log.Println("Run finished.")

	// 4. Report
	fmt.Println("\n\n--- Lattice Stress Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
	if report.Leaked > 0 {
		os.Exit(1)
	}
}
