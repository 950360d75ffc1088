package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/777genius/audiocycle/internal/audio"
	"github.com/777genius/audiocycle/internal/config"
)

var (
	listJSON     bool
	excludeClear bool
	excludeAdd   bool
	excludeDrop  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active output devices in cycle order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, done := newController(cmd.Context(), false)
		defer done()

		devices, err := ctrl.ListDevices(cmd.Context())
		if err != nil {
			return err
		}
		cfg, err := ctrl.ExclusionConfig(cmd.Context())
		if err != nil {
			return err
		}

		if listJSON {
			return writeJSON(cmd.OutOrStdout(), devices)
		}
		printDevices(cmd.OutOrStdout(), devices, audio.ExclusionSet(cfg.ExcludedDeviceIDs))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <device-id>",
	Short: "Make a device the default for every role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, done := newController(cmd.Context(), true)
		defer done()

		if err := ctrl.SetActiveDevice(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default set to %s\n", args[0])
		return nil
	},
}

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Switch to the next included output device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, done := newController(cmd.Context(), true)
		defer done()

		sel, err := ctrl.CycleNext(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s (%d)\n", sel.Device.Name, sel.Position)
		return nil
	},
}

var excludeCmd = &cobra.Command{
	Use:   "exclude [device-id...]",
	Short: "Show or replace the devices skipped while cycling",
	Long: `Without arguments the current exclusion list is printed.
With arguments the list is replaced, or changed with --add / --remove.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, done := newController(cmd.Context(), true)
		defer done()
		ctx := cmd.Context()

		cfg, err := ctrl.ExclusionConfig(ctx)
		if err != nil {
			return err
		}

		if !excludeClear && len(args) == 0 {
			for _, id := range cfg.ExcludedDeviceIDs {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		}

		ids, err := exclusionList(cfg.ExcludedDeviceIDs, args, excludeClear, excludeAdd, excludeDrop)
		if err != nil {
			return err
		}
		if err := ctrl.SetExcludedDevices(ctx, ids); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d device(s) excluded\n", len(ids))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, done := newController(cmd.Context(), true)
		defer done()
		ctx := cmd.Context()

		cfg, err := ctrl.ExclusionConfig(ctx)
		if err != nil {
			return err
		}

		changed, err := applyConfigFlags(cmd, cfg)
		if err != nil {
			return err
		}
		if changed {
			if err := ctrl.SaveConfig(ctx, cfg); err != nil {
				return err
			}
		}
		return writeJSON(cmd.OutOrStdout(), cfg)
	},
}

var indicatorCmd = &cobra.Command{
	Use:   "indicator",
	Short: "Rewrite the position indicator without switching",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, done := newController(cmd.Context(), false)
		defer done()

		pos, ok, err := ctrl.RefreshIndicator(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Default device is not in the cycle")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), pos)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")

	excludeCmd.Flags().BoolVar(&excludeClear, "clear", false, "remove every exclusion")
	excludeCmd.Flags().BoolVar(&excludeAdd, "add", false, "add the ids to the current list")
	excludeCmd.Flags().BoolVar(&excludeDrop, "remove", false, "remove the ids from the current list")
	excludeCmd.MarkFlagsMutuallyExclusive("clear", "add", "remove")

	addConfigFlags(configCmd)
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("hotkey", "", "global shortcut, e.g. CommandOrControl+Shift+A")
	cmd.Flags().Bool("no-hotkey", false, "disable the global shortcut")
	cmd.Flags().Bool("desktop", false, "show a desktop notification after switching")
	cmd.Flags().Bool("sound", false, "play a chime on the new device")
	cmd.Flags().String("sound-path", "", "chime file (mp3, wav, flac, ogg, aiff)")
	cmd.Flags().Float64("volume", 1.0, "chime volume 0.0-1.0")
	cmd.Flags().String("indicator-path", "", "indicator output file (.ico or .png)")
	cmd.Flags().Int("indicator-size", 32, "indicator edge length in pixels")
	cmd.MarkFlagsMutuallyExclusive("hotkey", "no-hotkey")
}

// printDevices writes one line per device: default marker, cycle position and name, then the id
func printDevices(w io.Writer, devices []audio.AudioDevice, excluded map[string]struct{}) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No active output devices")
		return
	}

	pos := 0
	for _, d := range devices {
		marker := " "
		if d.IsDefault {
			marker = "*"
		}
		label := "-"
		if _, skip := excluded[d.ID]; !skip {
			pos++
			label = fmt.Sprintf("%d", pos)
		}
		fmt.Fprintf(w, "%s %2s  %s\n", marker, label, d.Name)
		fmt.Fprintf(w, "      %s\n", d.ID)
	}
}

// exclusionList computes the new exclusion list for the exclude command
func exclusionList(current, args []string, clear, add, remove bool) ([]string, error) {
	switch {
	case clear:
		if len(args) > 0 {
			return nil, fmt.Errorf("--clear takes no device ids")
		}
		return []string{}, nil
	case add:
		return append(append([]string{}, current...), args...), nil
	case remove:
		drop := audio.ExclusionSet(args)
		kept := make([]string, 0, len(current))
		for _, id := range current {
			if _, ok := drop[id]; !ok {
				kept = append(kept, id)
			}
		}
		return kept, nil
	default:
		return args, nil
	}
}

// applyConfigFlags copies explicitly set flags into cfg and reports whether anything changed
func applyConfigFlags(cmd *cobra.Command, cfg *config.Config) (bool, error) {
	flags := cmd.Flags()
	changed := false

	if flags.Changed("hotkey") {
		v, _ := flags.GetString("hotkey")
		v = strings.TrimSpace(v)
		cfg.Hotkey = &v
		changed = true
	}
	if flags.Changed("no-hotkey") {
		cfg.Hotkey = nil
		changed = true
	}
	if flags.Changed("desktop") {
		cfg.Notifications.Desktop, _ = flags.GetBool("desktop")
		changed = true
	}
	if flags.Changed("sound") {
		cfg.Notifications.Sound, _ = flags.GetBool("sound")
		changed = true
	}
	if flags.Changed("sound-path") {
		cfg.Notifications.SoundPath, _ = flags.GetString("sound-path")
		changed = true
	}
	if flags.Changed("volume") {
		cfg.Notifications.Volume, _ = flags.GetFloat64("volume")
		changed = true
	}
	if flags.Changed("indicator-path") {
		cfg.Indicator.Path, _ = flags.GetString("indicator-path")
		changed = true
	}
	if flags.Changed("indicator-size") {
		cfg.Indicator.Size, _ = flags.GetInt("indicator-size")
		changed = true
	}

	if changed {
		if err := cfg.Validate(); err != nil {
			return false, err
		}
	}
	return changed, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
