package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gekko3d/ornatree"
	"github.com/spf13/cobra"
)

type runOptions struct {
	fps         float64
	toggleEvery time.Duration
	duration    time.Duration
	watch       bool
}

func newRunCmd(c *cli) *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine in real time until interrupted",
		Long: `run ticks the engine from the wall clock, logging the morph progress once
a second. With --watch, saving a new layout_mode into the config file
retargets the running tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch && c.configPath == "" {
				return errors.New("--watch needs --config")
			}

			e, err := c.newEngine()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var modes <-chan ornatree.LayoutMode
			if opts.watch {
				lw, err := watchLayout(ctx, c.configPath, c.log)
				if err != nil {
					return err
				}
				defer func() {
					stop()
					<-lw.Done()
				}()
				modes = lw.Modes()
			}
			return runRealtime(ctx, e, opts, modes, c.log)
		},
	}

	cmd.Flags().Float64Var(&opts.fps, "fps", 60, "target frame rate")
	cmd.Flags().DurationVar(&opts.toggleEvery, "toggle-every", 0, "toggle the layout on this period (0 disables)")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "follow layout_mode changes in the config file")
	return cmd
}

// runRealtime drives e from a ticker until ctx is done or opts.duration
// elapses. Layout changes arriving on modes are applied between frames, so
// e is only ever touched from this goroutine.
func runRealtime(ctx context.Context, e *ornatree.Engine, opts runOptions, modes <-chan ornatree.LayoutMode, log ornatree.Logger) error {
	if !(opts.fps > 0) {
		return fmt.Errorf("--fps must be positive, got %g", opts.fps)
	}

	ticker := time.NewTicker(time.Duration(float64(time.Second) / opts.fps))
	defer ticker.Stop()

	clock := ornatree.NewClock(time.Now())
	var lastToggle, lastReport time.Duration

	for {
		select {
		case <-ctx.Done():
			log.Infof("stopping at frame %d", e.Frame())
			return nil

		case mode := <-modes:
			if mode != e.LayoutMode() {
				log.Infof("layout_mode changed to %s", mode)
				e.SetLayoutMode(mode)
			}

		case now := <-ticker.C:
			e.Update(clock.Tick(now))

			if opts.toggleEvery > 0 && clock.Elapsed-lastToggle >= opts.toggleEvery {
				lastToggle = clock.Elapsed
				e.ToggleLayout()
			}
			if clock.Elapsed-lastReport >= time.Second {
				lastReport = clock.Elapsed
				log.Infof("frame %d mode=%s particles=%.3f settled=%t",
					e.Frame(), e.LayoutMode(), e.ParticleFactor(), e.Settled(1e-3))
			}
			if opts.duration > 0 && clock.Elapsed >= opts.duration {
				return nil
			}
		}
	}
}
