// Package main provides the entry point for the lights daemon.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shini4i/lights-daemon/internal/config"
	"github.com/shini4i/lights-daemon/internal/dbus"
	"github.com/shini4i/lights-daemon/internal/light"
	"github.com/shini4i/lights-daemon/internal/metrics"
	"github.com/shini4i/lights-daemon/internal/sysfs"
	"github.com/shini4i/lights-daemon/internal/udev"
)

var (
	verbose       bool
	configPath    string
	busName       string
	metricsListen string
	noHotplug     bool
	rootCmd       = &cobra.Command{
		Use:   "lights-daemon",
		Short: "D-Bus daemon for controlling device status LEDs and the screen backlight",
		Long: `lights-daemon is a D-Bus service that drives the RGB notification LED
and the screen backlight of a Linux device through sysfs.

Clients request a color and flash pattern per logical light (battery,
notifications, attention, ...). The daemon arbitrates between the
notification lights by priority and programs the LED blink hardware
for the winning request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Flags())
		},
	}
)

// settleDelay is how long a re-added class device is given before its
// attributes are written again.
var settleDelay = 200 * time.Millisecond

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	bindFlags(rootCmd.Flags())
}

func bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the TOML config file")
	fs.StringVar(&busName, "bus", config.BusSystem, "D-Bus bus to register on (system or session)")
	fs.StringVar(&metricsListen, "metrics-listen", "", "Address for the Prometheus metrics listener (disabled when empty)")
	fs.BoolVar(&noHotplug, "no-hotplug", false, "Disable udev monitoring of the light devices")
}

func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadConfig reads the config file and applies flags that were set explicitly.
// Only an explicitly given config file must exist.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(configPath, flags.Changed("config"))
	if err != nil {
		return cfg, err
	}

	if flags.Changed("bus") {
		cfg.Bus = busName
	}
	if flags.Changed("metrics-listen") {
		cfg.MetricsListen = metricsListen
	}
	if flags.Changed("no-hotplug") {
		cfg.Hotplug = !noHotplug
	}

	return cfg, cfg.Validate()
}

// serverOptions selects the bus the D-Bus service is exported on.
func serverOptions(cfg config.Config) []dbus.ServerOption {
	if cfg.Bus == config.BusSession {
		return []dbus.ServerOption{dbus.WithSessionBus()}
	}
	return nil
}

func run(flags *pflag.FlagSet) error {
	setupLogging(verbose)

	log.Info().Msg("Starting lights-daemon")

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	store := sysfs.NewFS(cfg.ChannelDirs())
	limits := light.ReadChannelLimits(store)

	opts, err := cfg.ControllerOptions()
	if err != nil {
		return err
	}

	// The server is created after the controller, so the handler looks it up lazily.
	var server *dbus.Server
	opts = append(opts, light.WithActiveHandler(func(active light.Entry) {
		if server != nil {
			server.EmitActiveNotificationChanged(active)
		}
	}))

	controller := light.NewController(store, store, limits, opts...)

	server = dbus.NewServer(controller, serverOptions(cfg)...)
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start D-Bus server")
	}
	notifySystemd(daemon.SdNotifyReady)

	var metricsServer *http.Server
	if cfg.MetricsListen != "" {
		metricsServer = startMetricsServer(cfg.MetricsListen)
	}

	var monitor *udev.Monitor
	if cfg.Hotplug {
		monitor = udev.NewMonitor(cfg.DeviceNames(), createHotplugHandler(controller))
		monitor.SetRecoveryHandler(createRecoveryHandler(controller))
		if err := monitor.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start udev monitor (reapply on hot-plug disabled)")
		}
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Strs("types", typeNames(controller.SupportedTypes())).Msg("Daemon running, press Ctrl+C to stop")
	<-sigChan

	log.Info().Msg("Shutting down...")
	notifySystemd(daemon.SdNotifyStopping)

	if monitor != nil {
		if err := monitor.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop udev monitor")
		}
	}
	if err := server.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop D-Bus server")
	}
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to stop metrics listener")
		}
	}

	log.Info().Msg("Daemon stopped")
	return nil
}

// notifySystemd sends a state to the service manager. It is a no-op outside systemd.
func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		log.Warn().Err(err).Str("state", state).Msg("Failed to notify systemd")
		return
	}
	if sent {
		log.Debug().Str("state", state).Msg("Notified systemd")
	}
}

// startMetricsServer serves /metrics in the background.
func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Metrics listener started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("Metrics listener failed")
		}
	}()

	return srv
}

func typeNames(types []light.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

// reapplier rewrites the current light state to the hardware.
type reapplier interface {
	Reapply()
}

// reapplyMu serializes reapply operations between hotplug and recovery handlers.
var reapplyMu sync.Mutex

// createHotplugHandler returns an event handler that restores the light state
// when a watched device is registered again.
func createHotplugHandler(r reapplier) udev.EventHandler {
	return func(event udev.Event) {
		if event.Type == udev.EventRemove {
			log.Warn().Str("device", event.Name).Msg("Light device removed, writes will fail until it returns")
			return
		}

		reapplyMu.Lock()
		defer reapplyMu.Unlock()

		// The driver creates the attribute files after the add uevent.
		time.Sleep(settleDelay)

		log.Info().Str("device", event.Name).Msg("Reapplying light state after device add")
		r.Reapply()
	}
}

// createRecoveryHandler returns a handler for netlink buffer overflow recovery.
// Any add event may have been lost, so the state is written again.
func createRecoveryHandler(r reapplier) udev.RecoveryHandler {
	return func() {
		reapplyMu.Lock()
		defer reapplyMu.Unlock()

		log.Info().Msg("Reapplying light state after netlink buffer overflow")
		time.Sleep(settleDelay)
		r.Reapply()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}
