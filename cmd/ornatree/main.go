// Command ornatree drives the morphing tree engine without a renderer: it
// either steps a fixed number of frames or runs a real-time loop that
// follows layout changes in the config file.
package main

import (
	"fmt"
	"os"

	"github.com/gekko3d/ornatree"
	"github.com/spf13/cobra"
)

type cli struct {
	configPath string
	layout     string
	seed       uint64
	debug      bool

	cfg ornatree.Config
	log *ornatree.DefaultLogger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "ornatree",
		Short: "Headless host for the morphing ornament tree",
		Long: `ornatree generates a tree of needle particles and helix ornaments and
morphs it between the assembled cone and the scattered cloud.

Layouts, colors and motion come from a YAML or TOML config file; without
--config the built-in defaults are used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML or TOML config file")
	flags.StringVar(&c.layout, "layout", "", "initial layout: assembled|tree|scattered|floating")
	flags.Uint64Var(&c.seed, "seed", 0, "generator seed (overrides the config file)")
	flags.BoolVar(&c.debug, "debug", false, "enable debug logging")

	root.AddCommand(newSimulateCmd(c), newRunCmd(c))
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	c.log = ornatree.NewDefaultLogger("ornatree", c.debug)

	cfg := ornatree.DefaultConfig()
	if c.configPath != "" {
		var err error
		if cfg, err = ornatree.LoadConfig(c.configPath); err != nil {
			return err
		}
	}
	if c.layout != "" {
		mode, err := ornatree.ParseLayoutMode(c.layout)
		if err != nil {
			return err
		}
		cfg.LayoutMode = mode
	}
	if cmd.Flags().Changed("seed") {
		seed := c.seed
		cfg.Seed = &seed
	}
	c.cfg = cfg
	return nil
}

func (c *cli) newEngine() (*ornatree.Engine, error) {
	return ornatree.NewEngine(c.cfg, ornatree.WithLogger(c.log))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
