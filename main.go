package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/speccast/speccast/pkg/capture"
	"github.com/speccast/speccast/pkg/convo"
	"github.com/speccast/speccast/pkg/frame"
	"github.com/speccast/speccast/pkg/settings"
	"github.com/speccast/speccast/pkg/stats"
	"github.com/speccast/speccast/pkg/stream"
	"github.com/speccast/speccast/pkg/suncolor"
)

// Note: TUI mode uses RunTUI() from tui.go

// Config holds runtime configuration
type Config struct {
	Headless   bool
	Demo       bool
	Port       int
	Resolution int // index into ResolutionPresets
	Cadence    int // index into CadencePresets
	Levels     int
	ChunkSize  int
	AllowedIP  string
	WatchDir   string
	Latitude   float64
	Longitude  float64
	NoMetrics  bool
	Display    int
	Save       bool
	Help       bool
}

// App holds the wired subsystems for one run, shared by the TUI and
// headless modes.
type App struct {
	Config   Config
	Source   capture.Source
	Clock    *suncolor.Clock
	Counters *stats.Counters
	Server   *stream.Server
	Metrics  http.Handler
	Tailer   *convo.Tailer
	Addr     string
}

func parseFlags(defaults settings.UserSettings) Config {
	config := Config{}
	var resolution, cadence string

	flag.BoolVar(&config.Headless, "headless", false, "Run without the TUI")
	flag.BoolVar(&config.Demo, "demo", false, "Stream a synthetic test pattern instead of the screen")

	flag.IntVar(&config.Port, "port", defaults.Port, "HTTP listen port")
	flag.IntVar(&config.Port, "p", defaults.Port, "HTTP listen port (shorthand)")

	flag.StringVar(&resolution, "resolution", ResolutionPresets[defaults.Resolution].Name,
		"Grid resolution preset (tiny|grid|fine|dense)")
	flag.StringVar(&cadence, "cadence", CadencePresets[defaults.Cadence].Name,
		"Capture cadence preset (realtime|fast|normal|relaxed)")

	flag.IntVar(&config.Levels, "levels", defaults.Levels, "Color levels per channel (2-256)")
	flag.IntVar(&config.ChunkSize, "chunk", defaults.ChunkSize, "Rectangles per packet")

	flag.StringVar(&config.AllowedIP, "allow", defaults.AllowedIP, "Only accept viewers from this IP (empty accepts any)")
	flag.StringVar(&config.WatchDir, "watch", defaults.WatchDir, "Conversation log directory to mirror onto the stream")

	flag.Float64Var(&config.Latitude, "lat", defaults.Latitude, "Latitude for the sun-synced backdrop")
	flag.Float64Var(&config.Longitude, "lon", defaults.Longitude, "Longitude for the sun-synced backdrop")

	flag.BoolVar(&config.NoMetrics, "no-metrics", false, "Disable the /metrics endpoint")
	flag.IntVar(&config.Display, "display", 0, "Display index to capture")
	flag.BoolVar(&config.Save, "save", false, "Persist the effective settings as new defaults")

	flag.BoolVar(&config.Help, "help", false, "Show help")
	flag.BoolVar(&config.Help, "h", false, "Show help (shorthand)")

	flag.Parse()

	config.Resolution = ParseResolutionFlag(resolution)
	config.Cadence = ParseCadenceFlag(cadence)

	return config
}

func printHelp() {
	fmt.Println(`SpecCast - Low-Res Screen Streaming for Ambient Displays

Usage: speccast [options]

SpecCast captures a display, reduces it to a coarse color grid and
streams changed regions as JSON rectangles to a single viewer over
WebSocket. Viewers connect to:
  ws://<host>:<port>/

Options:
  --headless             Run without the TUI
  --demo                 Stream a synthetic test pattern instead of the screen
  --port, -p <port>      HTTP listen port (default: 8080)
  --resolution <preset>  Grid resolution: tiny, grid, fine, dense
  --cadence <preset>     Capture cadence: realtime, fast, normal, relaxed
  --levels <n>           Color levels per channel, 2-256 (default: 16)
  --chunk <n>            Rectangles per packet (default: 50)
  --allow <ip>           Only accept viewers from this IP (empty accepts any)
  --display <n>          Display index to capture (default: 0)
  --no-metrics           Disable the Prometheus /metrics endpoint
  --save                 Persist the effective settings as new defaults
  --help, -h             Show help

Backdrop Options:
  --lat <deg>            Latitude for the sun-synced backdrop color
  --lon <deg>            Longitude for the sun-synced backdrop color
                         (both unset keeps the backdrop at night)

Conversation Options:
  --watch <dir>          Watch a directory of .jsonl conversation logs and
                         mirror the latest message onto the stream

Resolution Presets:
  tiny     64x36    - Minimal bandwidth
  grid     128x72   - Balanced (default)
  fine     192x108  - More detail
  dense    256x144  - Maximum detail

Cadence Presets:
  realtime back to back   - No delay between captures
  fast     100ms          - 10 captures/s
  normal   250ms          - 4 captures/s (default)
  relaxed  1s             - 1 capture/s

Examples:
  speccast                          # TUI, capture display 0, port 8080
  speccast --headless               # No TUI, log to stdout
  speccast --demo --port 9000       # Synthetic pattern on port 9000
  speccast --allow 192.168.1.20     # Only admit one viewer address
  speccast --watch ~/logs --lat 59.3 --lon 18.1

TUI Controls:
  c             Copy viewer URL to clipboard
  k             Kick the connected viewer
  q             Quit`)
}

func main() {
	saved, err := settings.Load()
	if err != nil {
		log.Printf("Failed to load settings: %v", err)
		saved = settings.DefaultSettings()
	}

	config := parseFlags(normalizeSettings(saved))

	if config.Help {
		printHelp()
		return
	}

	config = clampConfig(config)

	if config.Save {
		if err := settings.Save(settingsFromConfig(config)); err != nil {
			log.Printf("Failed to save settings: %v", err)
		} else {
			log.Printf("Settings saved")
		}
	}

	app, err := buildApp(config)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	// Headless mode
	if config.Headless {
		if err := runHeadless(app); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	// TUI mode - serve in the background for the lifetime of the TUI
	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- app.Serve(ctx)
	}()

	tuiErr := RunTUI(app)
	cancel()
	if err := <-serveDone; err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if tuiErr != nil {
		log.Fatalf("TUI error: %v", tuiErr)
	}
}

// buildApp wires the capture source, sun clock, counters, stream server
// and conversation tailer from the parsed configuration.
func buildApp(config Config) (*App, error) {
	preset := ResolutionPresets[config.Resolution]

	var source capture.Source
	if config.Demo {
		source = capture.NewSynthetic(preset.Width, preset.Height)
	} else {
		screen, err := capture.NewScreen(config.Display, preset.Width, preset.Height)
		if err != nil {
			return nil, fmt.Errorf("opening display %d: %w (try --demo)", config.Display, err)
		}
		source = screen
	}

	clock := suncolor.NewClock(nil)
	if config.Latitude != 0 || config.Longitude != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		times, err := suncolor.Fetch(ctx, config.Latitude, config.Longitude)
		if err != nil {
			log.Printf("Sun times unavailable, backdrop stays at night: %v", err)
		} else {
			clock = suncolor.NewClock(times)
		}
	}

	counters := &stats.Counters{}
	server := stream.NewServer(stream.Config{
		Source:    source,
		Clock:     clock,
		Counters:  counters,
		AllowedIP: config.AllowedIP,
		Levels:    config.Levels,
		ChunkSize: config.ChunkSize,
		Interval:  CadencePresets[config.Cadence].Interval,
	})

	app := &App{
		Config:   config,
		Source:   source,
		Clock:    clock,
		Counters: counters,
		Server:   server,
		Addr:     fmt.Sprintf(":%d", config.Port),
	}
	if !config.NoMetrics {
		app.Metrics = stats.Handler(counters)
	}
	if config.WatchDir != "" {
		app.Tailer = convo.NewTailer(config.WatchDir, server.Broadcaster().Publish)
	}
	return app, nil
}

// Serve runs the HTTP listener and the conversation tailer until ctx is
// canceled, then shuts both down.
func (a *App) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Addr:    a.Addr,
		Handler: a.Server.Handler(a.Metrics),
	}

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Server.Kick()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if a.Tailer != nil {
		g.Go(func() error {
			return a.Tailer.Run(ctx)
		})
	}

	return g.Wait()
}

func runHeadless(app *App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Serving viewer endpoint on ws://localhost%s/", app.Addr)
	if app.Metrics != nil {
		log.Printf("Metrics on http://localhost%s/metrics", app.Addr)
	}
	if app.Tailer != nil {
		log.Printf("Watching %s for conversation logs", app.Config.WatchDir)
	}
	log.Printf("Press Ctrl+C to stop")

	return app.Serve(ctx)
}

// normalizeSettings guards against out-of-range values in the settings
// file, which flag defaults are built from.
func normalizeSettings(s settings.UserSettings) settings.UserSettings {
	if s.Resolution < 0 || s.Resolution >= len(ResolutionPresets) {
		s.Resolution = DefaultResolutionIndex()
	}
	if s.Cadence < 0 || s.Cadence >= len(CadencePresets) {
		s.Cadence = DefaultCadenceIndex()
	}
	if s.Levels < 2 || s.Levels > 256 {
		s.Levels = frame.DefaultLevels
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = frame.DefaultChunkSize
	}
	if s.Port <= 0 || s.Port > 65535 {
		s.Port = 8080
	}
	return s
}

// clampConfig applies the same bounds to flag-supplied values.
func clampConfig(config Config) Config {
	if config.Levels < 2 {
		config.Levels = 2
	}
	if config.Levels > 256 {
		config.Levels = 256
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = frame.DefaultChunkSize
	}
	if config.Port <= 0 || config.Port > 65535 {
		config.Port = 8080
	}
	if config.Display < 0 {
		config.Display = 0
	}
	return config
}

func settingsFromConfig(config Config) settings.UserSettings {
	return settings.UserSettings{
		Resolution: config.Resolution,
		Cadence:    config.Cadence,
		Levels:     config.Levels,
		ChunkSize:  config.ChunkSize,
		Port:       config.Port,
		AllowedIP:  config.AllowedIP,
		WatchDir:   config.WatchDir,
		Latitude:   config.Latitude,
		Longitude:  config.Longitude,
	}
}
