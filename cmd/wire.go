package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bnema/droidfleet/internal/adapters/adb"
	"github.com/bnema/droidfleet/internal/adapters/events"
	"github.com/bnema/droidfleet/internal/adapters/fastboot"
	"github.com/bnema/droidfleet/internal/adapters/logcat"
	fleetrender "github.com/bnema/droidfleet/internal/adapters/render/fleet"
	tomlrepo "github.com/bnema/droidfleet/internal/adapters/repo/toml"
	"github.com/bnema/droidfleet/internal/adapters/sl4a"
	"github.com/bnema/droidfleet/internal/application"
	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/logging"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "DROIDFLEET"

type app struct {
	config       *viper.Viper
	adbPath      string
	fastbootPath string
	logPath      string
	logLevel     string
	renderer     func(fleetrender.Snapshot) (string, error)
	newRunID     func() string
	now          func() time.Time
}

func wireApp() (*app, error) {
	cfg := viper.New()
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	return &app{
		config:       cfg,
		adbPath:      envOrDefault("DROIDFLEET_ADB", "adb"),
		fastbootPath: envOrDefault("DROIDFLEET_FASTBOOT", "fastboot"),
		logPath:      envOrDefault("DROIDFLEET_LOG_PATH", application.DefaultLogPath),
		logLevel:     envOrDefault("DROIDFLEET_LOG_LEVEL", "info"),
		renderer:     fleetrender.Render,
		newRunID:     uuid.NewString,
		now:          time.Now,
	}, nil
}

// repository is built on demand so that --fleet, bound into the viper
// config, is parsed before the fleet path is resolved.
func (a *app) repository() (*tomlrepo.Repository, error) {
	repo, err := tomlrepo.NewRepository(a.config)
	if err != nil {
		return nil, fmt.Errorf("wire fleet repository: %w", err)
	}

	return repo, nil
}

func (a *app) logger(cmd *cobra.Command) (*log.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), logging.Options{Level: a.logLevel, Timestamps: true})
}

func (a *app) newFleet(logger *log.Logger, logPath string) *application.Fleet {
	clock := ports.SystemClock{}

	return application.NewFleet(application.FleetDeps{
		ShellFor: func(serial domain.Serial) ports.ShellChannel {
			return adb.NewClient(a.adbPath, string(serial))
		},
		BootloaderFor: func(serial domain.Serial) ports.BootloaderChannel {
			return fastboot.NewClient(a.fastbootPath, string(serial))
		},
		BootstrapperFor: func(shell ports.ShellChannel) ports.Bootstrapper {
			return sl4a.NewBootstrapper(shell, clock, sl4a.DefaultSettle)
		},
		Dialer:      sl4a.NewDialer(),
		Dispatchers: events.NewFactory(logger),
		Logcat:      logcat.NewStarter(a.adbPath),
		Clock:       clock,
		LogPath:     logPath,
		Logger:      logger,
	})
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
