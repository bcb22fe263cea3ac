// Command skyguardian is an interactive planning console for UAV strategic
// deconfliction: build a mission and candidate flight set, submit them to
// the analysis service, browse past simulations, and open visualizations.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/shivam675/sky-guardian-planner/internal/analysis"
	"github.com/shivam675/sky-guardian-planner/internal/api"
	"github.com/shivam675/sky-guardian-planner/internal/builder"
	"github.com/shivam675/sky-guardian-planner/internal/config"
	"github.com/shivam675/sky-guardian-planner/internal/dispatcher"
	"github.com/shivam675/sky-guardian-planner/internal/handlers"
	"github.com/shivam675/sky-guardian-planner/internal/logging"
	"github.com/shivam675/sky-guardian-planner/internal/metrics"
	"github.com/shivam675/sky-guardian-planner/internal/monitor"
	intOtel "github.com/shivam675/sky-guardian-planner/internal/otel"
	"github.com/shivam675/sky-guardian-planner/internal/registry"
	"github.com/shivam675/sky-guardian-planner/internal/signal"
	"github.com/shivam675/sky-guardian-planner/internal/store"
	"github.com/shivam675/sky-guardian-planner/internal/visual"
	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"
)

var (
	// LogManager handles all slog-based logging
	LogManager *logging.Manager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	SessionStartTime time.Time = time.Now()
)

func main() {
	configDir := flag.String("config", ".", "directory containing skyguardian.cfg.json")
	flag.Parse()

	if err := run(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	// bootstrap console-only logging until the session log file exists
	LogManager = logging.NewManager()
	LogManager.Setup(nil, viper.GetString("logLevel"), nil, nil)
	Logger = LogManager.Logger()

	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.MkdirAll(logsDir, 0o755)
	}

	logPath := logging.SessionLogPath(logsDir, SessionStartTime)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		Logger.Error("Failed to open session log file", "error", err, "path", logPath)
		logFile = nil
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	signals := signal.NewQueue()
	var b *builder.Builder

	// re-setup logging with file output, optional OTel, and session attrs
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	var fileSink io.Writer
	if logFile != nil {
		fileSink = logFile
	}
	LogManager.Setup(fileSink, viper.GetString("logLevel"), otelLogProvider, func() []slog.Attr {
		if b != nil {
			return b.SessionAttrs()
		}
		return nil
	})
	Logger = LogManager.Logger()
	b = builder.New(Logger, signals)
	Logger.Info("Session started", "version", Version, "buildDate", BuildDate, "log", logPath)

	fallback, err := store.NewBackend(config.GetStorageConfig(), Logger)
	if err != nil {
		return fmt.Errorf("failed to create fallback store: %w", err)
	}
	defer fallback.Close()

	client := api.New(
		viper.GetString("api.serverUrl"),
		time.Duration(viper.GetInt("api.timeoutSeconds"))*time.Second,
	)

	reg := registry.New(client, fallback, Logger)

	var influx *metrics.Manager
	if viper.GetBool("influx.enabled") {
		influx = metrics.NewManager(Logger)
		if err := influx.Connect(context.Background()); err != nil {
			Logger.Warn("Submission metrics disabled", "error", err)
			influx = nil
		} else {
			defer influx.Close()
		}
	}

	defaults := core.AnalysisParameters{
		DistanceThreshold: viper.GetFloat64("analysis.distanceThreshold"),
		TimeTolerance:     viper.GetFloat64("analysis.timeTolerance"),
		Animate:           viper.GetBool("analysis.animate"),
	}

	var origin *core.Origin
	lat, lon := viper.GetFloat64("origin.latitude"), viper.GetFloat64("origin.longitude")
	if lat != 0 || lon != 0 {
		o, err := core.OriginFromGeographic(lat, lon)
		if err != nil {
			Logger.Warn("Invalid origin in config, geographic entry disabled", "error", err)
		} else {
			origin = &o
		}
	}

	health := monitor.NewService(monitor.Dependencies{
		Client:   client,
		Logger:   Logger,
		Interval: 30 * time.Second,
	})
	health.Start()
	defer health.Stop()

	svc := handlers.NewService(handlers.Dependencies{
		Builder:  b,
		Analysis: analysis.New(client, b, reg, influx, signals, Logger),
		Registry: reg,
		Visual:   visual.New(client, reg, Logger),
		Defaults: defaults,
		Origin:   origin,
		Logger:   Logger,
	})

	d, err := dispatcher.New(Logger)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	registerCommands(d, svc)
	d.Register("status", func(e dispatcher.Event) (any, error) {
		up, lastCheck, lastErr := health.Status()
		if up {
			return fmt.Sprintf("analysis service reachable (checked %s)", lastCheck.Format(time.RFC3339)), nil
		}
		return fmt.Sprintf("analysis service unreachable, running degraded (checked %s): %v",
			lastCheck.Format(time.RFC3339), lastErr), nil
	})

	runLoop(d, signals)

	Logger.Info("Session ended")
	LogManager.Flush(context.Background())
	if OTelProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		OTelProvider.Shutdown(ctx)
	}
	return nil
}

func registerCommands(d *dispatcher.Dispatcher, svc *handlers.Service) {
	ctx := context.Background()

	d.Register("sample", func(e dispatcher.Event) (any, error) {
		return svc.Sample(ctx, e.Args)
	}, dispatcher.Logged())
	d.Register("mission", func(e dispatcher.Event) (any, error) {
		return svc.SetMission(e.Args)
	})
	d.Register("add-waypoint", func(e dispatcher.Event) (any, error) {
		return svc.AddWaypoint(e.Args)
	})
	d.Register("add-point", func(e dispatcher.Event) (any, error) {
		return svc.AddPoint(e.Args)
	})
	d.Register("commit-flight", func(e dispatcher.Event) (any, error) {
		return svc.CommitFlight(e.Args)
	})
	d.Register("remove-flight", func(e dispatcher.Event) (any, error) {
		return svc.RemoveFlight(e.Args)
	})
	d.Register("show", func(e dispatcher.Event) (any, error) {
		return svc.Show(e.Args)
	})
	d.Register("submit", func(e dispatcher.Event) (any, error) {
		return svc.Submit(ctx, e.Args)
	}, dispatcher.Logged())
	d.Register("list", func(e dispatcher.Event) (any, error) {
		return svc.List(ctx, e.Args)
	})
	d.Register("detail", func(e dispatcher.Event) (any, error) {
		return svc.Detail(ctx, e.Args)
	})
	d.Register("resimulate", func(e dispatcher.Event) (any, error) {
		return svc.Resimulate(ctx, e.Args)
	}, dispatcher.Logged())
	// view launches only open a browser; queue them so a slow opener never
	// stalls the prompt
	d.Register("view2d", func(e dispatcher.Event) (any, error) {
		return svc.View2D(ctx, e.Args)
	}, dispatcher.Buffered(4), dispatcher.Logged())
	d.Register("view4d", func(e dispatcher.Event) (any, error) {
		return svc.View4D(ctx, e.Args)
	}, dispatcher.Buffered(4), dispatcher.Logged())
}

func runLoop(d *dispatcher.Dispatcher, signals *signal.Queue) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("sky-guardian planner. Type 'help' for commands, 'quit' to exit.")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd := strings.ToLower(fields[0])
		switch cmd {
		case "quit", "exit":
			return
		case "help":
			fmt.Println("commands:", strings.Join(append(d.Commands(), "help", "quit"), ", "))
			continue
		}

		result, err := d.Dispatch(dispatcher.Event{
			Command:   cmd,
			Args:      fields[1:],
			Timestamp: time.Now(),
		})

		for _, s := range signals.Drain() {
			prefix := "·"
			if s.Level == signal.LevelWarn {
				prefix = "!"
			}
			fmt.Printf("%s %s\n", prefix, s.Message)
		}

		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if str, ok := result.(string); ok && str != "" {
			fmt.Println(str)
		}
	}
}
