package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/user/bench_normalizer_go/internal/config"
	"github.com/user/bench_normalizer_go/internal/telemetry"
)

// cliState is shared by the root command and its subcommands.
type cliState struct {
	v        *viper.Viper
	cfgFile  string
	cfg      *config.Config
	closeLog func() error
}

func (s *cliState) close() {
	if s.closeLog != nil {
		_ = s.closeLog()
	}
}

func (s *cliState) app(cmd *cobra.Command) *App {
	app := NewApp(s.cfg, cmd.OutOrStdout())
	app.Startup(cmd.Context())
	return app
}

// bindFlags binds each named flag to the viper key of the same name with
// dashes replaced by underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			return err
		}
	}
	return nil
}

func newRootCmd() (*cobra.Command, *cliState) {
	state := &cliState{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "bench_normalizer",
		Short: "Normalize data-structure benchmark timings against a baseline",
		Long: `Reads <structure><suffix>.dat benchmark files and divides every
measurement by the baseline structure's measurement for the same input size,
writing <structure><suffix>-norm.dat ratio files for plotting.

With no flags the find phase is normalized against bst-find.dat and the add
phase against redblack-add.dat, in the current directory.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(state.v, state.cfgFile)
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.closeLog, err = telemetry.InitLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFile)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := state.app(cmd).Run()
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&state.cfgFile, "config", "", "config file (default is ./normalize.yaml if present)")
	pf.String("dir", ".", "directory holding the .dat files")
	pf.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	pf.String("log-file", "", "also append JSON logs to this file")

	rootCmd.Flags().Bool("plots", false, "write <phase>-norm-ratio.png and <phase>-norm-heatmap.png")
	rootCmd.Flags().String("report", "", "write a PDF report to this path")

	cobra.CheckErr(bindFlags(state.v, pf, "dir", "verbose", "log-file"))
	cobra.CheckErr(bindFlags(state.v, rootCmd.Flags(), "plots", "report"))

	rootCmd.AddCommand(newPhasesCmd(state), newSummaryCmd(state))
	return rootCmd, state
}

func newPhasesCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "phases",
		Short: "List the configured phases and their structures",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			state.app(cmd).ListPhases(cmd.OutOrStdout())
		},
	}
}

func newSummaryCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print ratio statistics of existing -norm.dat files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.app(cmd).Summary(cmd.OutOrStdout())
		},
	}
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Error: panic: %v\n", r)
			code = 1
		}
	}()

	rootCmd, state := newRootCmd()
	defer state.close()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
