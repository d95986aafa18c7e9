package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/iafilius/LollipopPlot/src/logging"
	"github.com/iafilius/LollipopPlot/src/lollipop"
	"github.com/iafilius/LollipopPlot/src/table"
)

func newRenderCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render the chart to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(v)
			if err != nil {
				return err
			}
			opts, err := optionsFromConfig(v)
			if err != nil {
				return err
			}
			rep, err := RunRenderMode(t, opts, v.GetString("out"))
			if err != nil {
				return err
			}
			if rep.MissingIcons != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d flag icon(s) missing: %v\n", len(rep.Missing), rep.Missing)
			}
			return nil
		},
	}
	addChartFlags(cmd.Flags())
	cmd.Flags().String("out", "lollipop.png", "output PNG path")
	return cmd
}

// RunRenderMode renders t and writes the PNG to outPath, creating parent
// directories as needed. It runs headlessly.
func RunRenderMode(t *table.Table, opts lollipop.Options, outPath string) (*lollipop.Report, error) {
	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create out dir: %w", err)
		}
	}
	var buf bytes.Buffer
	rep, err := lollipop.RenderPNG(&buf, t, opts)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}
	logging.Infof("wrote %s (%d rows, %d insets, %d icons)", outPath, t.Len(), len(rep.Insets), rep.Icons)
	return rep, nil
}

func newLayoutCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "print the computed axes, inset windows and highlights as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(v)
			if err != nil {
				return err
			}
			opts, err := optionsFromConfig(v)
			if err != nil {
				return err
			}
			l, err := lollipop.Build(t, opts)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(l); err != nil {
				return fmt.Errorf("encode layout: %w", err)
			}
			return enc.Close()
		},
	}
	addChartFlags(cmd.Flags())
	return cmd
}
