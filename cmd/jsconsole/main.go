// Command jsconsole runs scripts with the console helpers installed and dumps
// JSON documents in the same readable form.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/calumari/jsconsole"
	"github.com/calumari/jsconsole/internal/config"
	"github.com/calumari/jsconsole/script"
)

type app struct {
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "jsconsole",
		Short: "Console helpers for scripts and cycle-safe dumps",
		Long: `jsconsole runs JavaScript files with print, console.log, console.error,
getErrorReport, getDump and dump installed, and dumps JSON documents with
the same four-space layout while keeping member order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")

	runCmd := &cobra.Command{
		Use:   "run [script.js]",
		Short: "Run a script with the console helpers installed",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runScript,
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [file.json|-]",
		Short: "Dump a JSON document, reading stdin for -",
		Args:  cobra.ExactArgs(1),
		RunE:  a.dumpJSON,
	}

	rootCmd.AddCommand(runCmd, dumpCmd)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) console(cmd *cobra.Command) *jsconsole.Console {
	var p jsconsole.Printer
	switch a.cfg.Output {
	case config.OutputStderr:
		p = jsconsole.WriterPrinter(cmd.ErrOrStderr())
	case config.OutputLog:
		p = jsconsole.ZapPrinter(a.logger.Named("console"))
	default:
		p = jsconsole.WriterPrinter(cmd.OutOrStdout())
	}
	return jsconsole.NewConsole(p, jsconsole.WithDumper(a.dumper()))
}

func (a *app) dumper() *jsconsole.Dumper {
	return jsconsole.NewDumper(jsconsole.WithIndent(a.cfg.Indent))
}

func (a *app) runScript(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	c := a.console(cmd)
	rt, err := script.NewRuntime(script.Stdlib(c))
	if err != nil {
		return err
	}

	a.logger.Debug("running script", zap.String("path", args[0]))
	if _, err := rt.RunFile(ctx, args[0]); err != nil {
		var se *script.ScriptError
		if errors.As(err, &se) {
			c.Error(err)
		}
		a.logger.Debug("script failed", zap.String("path", args[0]), zap.Error(err))
		return err
	}
	return nil
}

func (a *app) dumpJSON(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	out, err := a.dumper().DumpJSON(data)
	if err != nil {
		return err
	}
	a.logger.Debug("dumped document", zap.Int("bytes", len(data)))
	a.console(cmd).Log(out)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// uncaught script errors were already reported through the console
		var se *script.ScriptError
		if !errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
