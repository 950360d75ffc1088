package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/777genius/audiocycle/internal/audio"
	"github.com/777genius/audiocycle/internal/config"
	"github.com/777genius/audiocycle/internal/control"
	"github.com/777genius/audiocycle/internal/errorhandler"
	"github.com/777genius/audiocycle/internal/logging"
	"github.com/777genius/audiocycle/internal/notifier"
	"github.com/777genius/audiocycle/internal/platform"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "audiocycle",
	Short: "Cycle the default audio output device",
	Long: `audiocycle switches the Windows default playback device to the next active
output, skipping excluded devices, for the General, Multimedia and
Communications roles at once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	// No config directory or log file needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "audiocycle v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", "", "configuration directory (default is the per-user config dir)")
	rootCmd.PersistentFlags().Bool("debug", false, "write debug lines to the log file")
	_ = viper.BindPFlag("config_dir", rootCmd.PersistentFlags().Lookup("config-dir"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetEnvPrefix("AUDIOCYCLE")
	viper.AutomaticEnv()

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(cycleCmd)
	rootCmd.AddCommand(excludeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(indicatorCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	errorhandler.Init(true, false, true)
	defer errorhandler.HandlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		errorhandler.HandleCriticalError(err, rootCmd.Name())
		logging.Close()
		os.Exit(1)
	}
}

// configDir resolves --config-dir, then AUDIOCYCLE_CONFIG_DIR, then the user config dir
func configDir() string {
	if dir := viper.GetString("config_dir"); dir != "" {
		return platform.ExpandEnv(dir)
	}
	return platform.ConfigDir()
}

func setupLogging() error {
	if _, err := logging.InitLogger(configDir()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetDebug(viper.GetBool("debug"))
	// Command errors reach the user through errorhandler; the log file has the rest
	logging.SetConsole(nil)
	return nil
}

// newController wires the OS backend and the config store.
// The indicator and announcer are only attached for commands that change the default.
func newController(ctx context.Context, withEffects bool) (*control.Controller, func()) {
	store := config.NewManager(configDir())
	ctrl := control.New(audio.NewSystem(), store)
	if !withEffects {
		return ctrl, func() {}
	}

	ctrl.EnableIndicator()

	// Notification settings are read per cycle; only the icon is taken here
	n := notifier.New()
	if cfg, err := store.Load(ctx); err != nil {
		logging.Warn("Failed to load config for notifier: %v", err)
	} else if cfg.Indicator.Path != "" {
		n.SetIcon(cfg.Indicator.Path)
	}
	ctrl.SetAnnouncer(n)
	return ctrl, func() { _ = n.Close() }
}
