package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wamphlett/status-lights/config"
	"github.com/wamphlett/status-lights/pkg/color"
	"github.com/wamphlett/status-lights/pkg/controller"
	"github.com/wamphlett/status-lights/pkg/logging"
)

var logger = logging.New("main")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.With("error", err).Error("exiting")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "status-lights",
		Short:         "Drive the status lights of the machine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.New()
			if err != nil {
				return err
			}
			logging.SetLevel(cfg.Logging.Level)
			return logging.SetLevels(cfg.Logging.Levels)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the startup sequence and drive the lights from the button panel",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "set <color>",
			Short: "Set the lights to a named color or a hex color, eg orange or #ff8000",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := color.Parse(args[0])
				if err != nil {
					return err
				}
				return once(cfg, func(l *controller.Controller) {
					l.SetColor(c.WithBrightness(cfg.Lights.PresetBrightness))
				})
			},
		},
		&cobra.Command{
			Use:   "white",
			Short: "Set the lights to white",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return once(cfg, (*controller.Controller).SetWhite)
			},
		},
		&cobra.Command{
			Use:   "off",
			Short: "Turn the lights off",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return once(cfg, (*controller.Controller).SetOff)
			},
		},
		&cobra.Command{
			Use:   "selftest",
			Short: "Play the startup animation",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return once(cfg, (*controller.Controller).StartupTest)
			},
		},
	)

	return root
}

// once opens the hardware, applies fn and releases the hardware again. The
// boot time features are skipped.
func once(cfg *config.Config, fn func(l *controller.Controller)) error {
	lightsCfg := *cfg.Lights
	lightsCfg.StartupTest = false
	lightsCfg.PresetOnStartup = false

	hw, err := openLights(&lightsCfg)
	if err != nil {
		return err
	}
	defer hw.Close()

	l := controller.New(&lightsCfg, hw.opts...)
	l.Setup()
	fn(l)
	return nil
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	err = svc.run(ctx)
	logger.Info("shutting down")
	return err
}
