package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/lorenzobs/internal/config"
)

func newPresetsCmd() *cobra.Command {
	var show string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if show != "" {
				cfg := config.GetPreset(show)
				if cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", show, config.ListPresets())
				}
				enc := yaml.NewEncoder(os.Stdout)
				defer enc.Close()
				return enc.Encode(cfg)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTEPS\tDT\tNOISE\tENSEMBLE")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%d\n", name, cfg.Steps, cfg.Dt, cfg.NoiseStd, cfg.Ensemble.Count)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&show, "show", "", "print a preset as yaml")
	return cmd
}
