package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/picwizard/internal/config"
	"github.com/ironsheep/picwizard/internal/dispatch"
	"github.com/ironsheep/picwizard/internal/logging"
	"github.com/ironsheep/picwizard/internal/raster"
	"github.com/ironsheep/picwizard/internal/transform"
)

// app carries the state shared by every subcommand once the persistent
// flags have been resolved.
type app struct {
	configPath string
	logLevel   string
	jsonLogs   bool

	cfg        config.Config
	dispatcher *dispatch.Dispatcher
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "picwizard",
		Short: "Image enhancement from the command line",
		Long: `Picwizard applies tonal, spatial and color enhancements to images and
extracts dominant color palettes.

Settings come from built-in defaults, an optional YAML file (--config) and
PICWIZARD_ environment variables, e.g. PICWIZARD_OUTPUT__JPEG_QUALITY=80.

Examples:
  picwizard ops
  picwizard apply -i scan.png -o scan-eq.png --op clahe_enhance -p clip_limit=3
  picwizard apply -i xray.png -o soft.png --op dicom_window -p window_width=350 -p window_level=40
  picwizard palette -i photo.jpg -n 6`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	root.PersistentFlags().BoolVar(&a.jsonLogs, "json-logs", false, "Write logs as JSON lines")

	root.AddCommand(
		newApplyCmd(a),
		newPaletteCmd(a),
		newOpsCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the
// dispatcher.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if a.jsonLogs {
		cfg.Log.JSON = true
	}
	if err := logging.InitWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON); err != nil {
		return err
	}

	a.cfg = cfg
	a.dispatcher = dispatch.New(dispatch.WithPaletteOptions(cfg.Palette))
	return nil
}

func newApplyCmd(a *app) *cobra.Command {
	var (
		input   string
		output  string
		op      string
		params  []string
		quality int
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply one enhancement operation to an image",
		Long: `Apply runs a single catalog operation and writes the result.

The output encoding follows the extension of --output (.png, .jpg, .jpeg);
any other extension uses output.format from the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := parseParams(params)
			if err != nil {
				return err
			}

			img, _, err := raster.DecodeFile(input)
			if err != nil {
				return err
			}

			res, err := a.dispatcher.Apply(op, img, kv)
			if err != nil {
				return err
			}
			if res.Image == nil {
				return fmt.Errorf("%s does not produce an image; use the palette command", op)
			}

			format := outputFormat(output, a.cfg.Output.Format)
			if !cmd.Flags().Changed("quality") {
				quality = a.cfg.Output.JPEGQuality
			}

			var buf bytes.Buffer
			if err := raster.Encode(&buf, res.Image, format, quality); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			log.Info().
				Str("operation", op).
				Str("output", output).
				Str("format", format).
				Int("width", res.Image.Width()).
				Int("height", res.Image.Height()).
				Msg("wrote enhanced image")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %d channel(s) -> %s\n",
				op, res.Image.Width(), res.Image.Height(), res.Image.Channels(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input image path")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image path")
	cmd.Flags().StringVar(&op, "op", "", "Operation name (see 'picwizard ops')")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Operation parameter as key=value (repeatable)")
	cmd.Flags().IntVar(&quality, "quality", 0, "JPEG quality 1-100 (default from config)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("op")
	return cmd
}

// parseParams splits repeated key=value flags into a parameter map. A later
// occurrence of a key replaces an earlier one.
func parseParams(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q must be key=value", p)
		}
		out[key] = value
	}
	return out, nil
}

// outputFormat picks the encoder from the file extension, falling back to
// the configured format.
func outputFormat(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return raster.FormatPNG
	case ".jpg", ".jpeg":
		return raster.FormatJPEG
	}
	return raster.NormalizeFormat(fallback)
}

func newPaletteCmd(a *app) *cobra.Command {
	var (
		input     string
		numColors int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Extract the dominant colors of an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, _, err := raster.DecodeFile(input)
			if err != nil {
				return err
			}

			res, err := a.dispatcher.Apply("extract_palette", img, map[string]string{
				"num_colors": fmt.Sprint(numColors),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Palette)
			}
			printPalette(out, res.Palette)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input image path")
	cmd.Flags().IntVarP(&numColors, "num-colors", "n", 5, fmt.Sprintf("Number of colors (1-%d)", transform.MaxPaletteColors))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the palette as JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newOpsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List enhancement operations and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := a.dispatcher.Operations()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ops)
			}
			printOperations(out, ops)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version output needs no config or logging.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "picwizard %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Denoise backend: %s\n", transform.DenoiseBackend)
		},
	}
}
