package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/777genius/audiocycle/internal/config"
	"github.com/777genius/audiocycle/internal/control"
	"github.com/777genius/audiocycle/internal/errorhandler"
	"github.com/777genius/audiocycle/internal/hotkey"
	"github.com/777genius/audiocycle/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Cycle on the global hotkey until interrupted",
	Long: `watch registers the configured hotkey and switches to the next output device
each time it is pressed. Changes to the config file re-register the hotkey.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := config.NewManager(configDir())

		ctrl, done := newController(cmd.Context(), true)
		defer done()

		logging.SetPrefix("watch")
		logging.SetConsole(cmd.ErrOrStderr())
		if _, _, err := ctrl.RefreshIndicator(ctx); err != nil {
			errorhandler.HandleError(err, "initial indicator")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Listening for hotkey, Ctrl+C to stop")
		err := hotkey.Listen(ctx, hotkeySource(ctx, store), store.Path(), cycleOnPress(ctx, ctrl))
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Fprintln(cmd.OutOrStdout(), "Stopped")
			return nil
		case errors.Is(err, hotkey.ErrUnsupportedPlatform):
			return fmt.Errorf("watch: %w", err)
		}
		return err
	},
}

// hotkeySource reads the binding from the config on every (re)registration
func hotkeySource(ctx context.Context, store *config.Manager) hotkey.Source {
	return func() (*hotkey.Binding, error) {
		cfg, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		b, err := cfg.HotkeyBinding()
		if err != nil {
			return nil, err
		}
		if b != nil {
			logging.Info("Hotkey: %s", b)
		} else {
			logging.Info("No hotkey configured")
		}
		return b, nil
	}
}

// cycleOnPress runs on the hotkey thread; errors are reported and the loop continues
func cycleOnPress(ctx context.Context, ctrl *control.Controller) func() {
	return func() {
		defer errorhandler.HandlePanic()

		if _, err := ctrl.CycleNext(ctx); err != nil {
			errorhandler.HandleError(err, "cycle")
		}
	}
}
