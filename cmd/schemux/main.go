// Command schemux replays, renders and inspects schematic editing sessions
// without a terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/render"
	"github.com/ha1tch/schematic-toolkit/pkg/script"
	"github.com/ha1tch/schematic-toolkit/pkg/settings"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

// Build information (set by the linker)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are shared by every subcommand.
type globalOptions struct {
	log        logger.Flags
	configPath string
}

func bindGlobalFlags(flags *pflag.FlagSet, g *globalOptions) {
	flags.CountVarP(&g.log.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&g.log.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&g.log.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.StringVar(&g.configPath, "config", "", "TOML settings file (same format as ~/.schemedit)")
}

// uxConfig returns the editor tunables from --config, or the defaults.
func (g *globalOptions) uxConfig() (ux.Config, error) {
	if g.configPath == "" {
		return ux.DefaultConfig(), nil
	}
	cfg, err := settings.Load(g.configPath)
	if err != nil {
		return ux.Config{}, err
	}
	return cfg.UX, nil
}

func newRootCommand() *cobra.Command {
	g := &globalOptions{log: logger.Flags{Level: "info", LogToStderr: true}}

	rootCmd := &cobra.Command{
		Use:   "schemux",
		Short: "Replay, render and inspect schematic editing sessions",
		Long: `schemux drives the schematic editor's interaction core from YAML scripts.

A script seeds a circuit and lists input frames (pointer position, buttons,
modifiers, keys, scroll). Each frame may carry expectations that are checked
after it runs, which makes scripts usable as regression tests.`,
		Example: `  schemux replay testdata/area_select.yaml
  schemux render session.yaml -o session.png --debug
  schemux dot | dot -Tsvg > ux.svg`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(g.log)
		},
	}
	bindGlobalFlags(rootCmd.PersistentFlags(), g)

	rootCmd.AddCommand(newReplayCommand(g))
	rootCmd.AddCommand(newRenderCommand(g))
	rootCmd.AddCommand(newDotCommand())
	rootCmd.AddCommand(newInfoCommand(g))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newReplayCommand(g *globalOptions) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "replay <script.yaml> [script.yaml...]",
		Short: "Replay scripts and check their expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.uxConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				s, err := script.Load(path)
				if err != nil {
					return err
				}
				opts := script.RunOptions{Config: cfg}
				if trace {
					opts.Trace = func(frame int, sess *script.Session) {
						traceFrame(out, frame, sess)
					}
				}
				res, err := script.Run(s, opts)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				name := s.Name
				if name == "" {
					name = path
				}
				if res.OK() {
					fmt.Fprintf(out, "ok   %s (%d frames)\n", name, res.Frames)
					continue
				}
				failed++
				fmt.Fprintf(out, "FAIL %s\n", name)
				for _, f := range res.Failures {
					fmt.Fprintf(out, "     %s\n", f)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scripts failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the editor state after every frame")
	return cmd
}

func traceFrame(w io.Writer, frame int, sess *script.Session) {
	u := sess.UX
	h := u.History()
	hover := u.Hover()
	fmt.Fprintf(w, "%4d  %-16s hover=%s port=%s selected=%d history=%d/%d\n",
		frame, u.State(), sess.Name(hover.Entity), hover.Port, u.Selection().Len(), h.Cursor(), h.Len())
}

func newRenderCommand(g *globalOptions) *cobra.Command {
	opts := render.DefaultOptions()
	var output string
	var noGrid bool

	cmd := &cobra.Command{
		Use:   "render <script.yaml>",
		Short: "Replay a script and render the final view to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.uxConfig()
			if err != nil {
				return err
			}
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}
			res, err := script.Run(s, script.RunOptions{Config: cfg})
			if err != nil {
				return err
			}
			for _, f := range res.Failures {
				logger.Warnf("%s: %s", args[0], f)
			}

			opts.Grid = !noGrid
			if opts.Title == "" {
				opts.Title = s.Name
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			if err := render.RenderPNG(res.Session.UX, f, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			logger.Infof("wrote %s (%dx%d)", output, opts.Width, opts.Height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "out.png", "PNG file to write")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "Image width")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "Image height")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Overlay state, hover and history")
	cmd.Flags().BoolVar(&noGrid, "no-grid", false, "Do not draw the snap grid")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Title drawn in the corner (defaults to the script name)")
	return cmd
}

func newDotCommand() *cobra.Command {
	var title, output string

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Print the interaction state machine in Graphviz DOT format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dot := ux.GenerateDOT(title)
			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), dot)
				return err
			}
			if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Graph title")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newInfoCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "List component descriptors and the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.uxConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tIN\tOUT")
			for _, d := range circuit.DefaultDescs {
				in, outs := d.NumPorts()
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", d.Name, d.TypeName, in, outs)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			return toml.NewEncoder(out).Encode(struct {
				UX ux.Config `toml:"ux"`
			}{cfg})
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), getVersionInfo())
		},
	}
}

func getVersionInfo() string {
	return fmt.Sprintf("schemux %s (commit: %s, go: %s)", version, commit, runtime.Version())
}
