package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/s2inspect/memlayout"
	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/memory"
)

const envPrefix = "S2LAYOUT"

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfg    *viper.Viper
	stdout io.Writer
	stderr io.Writer
	log    zerolog.Logger
	schema *memlayout.Schema
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	a := &app{cfg: viper.New(), stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	if issues, ok := schemaerrors.AsIssues(err); ok {
		fatal := false
		for _, issue := range issues {
			if writeErr := writeln(stderr, issue.Error()); writeErr != nil {
				return 1
			}
			fatal = fatal || issue.Code.Severity() == schemaerrors.SeverityFatal
		}
		if fatal {
			_ = writeln(stderr, "error: schema failed to load")
		}
		return 1
	}
	_ = writef(stderr, "error: %v\n", err)
	var usage usageError
	if errors.As(err, &usage) {
		_ = writeln(stderr, root.UsageString())
		return 2
	}
	return 1
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "s2layout",
		Short:         "Inspect schema-driven memory layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.String("schema-dir", ".", "directory holding the schema documents")
	flags.String("main", memlayout.DefaultMainSource, "struct definition document")
	flags.String("entities", memlayout.DefaultEntitySource, "entity subclass document")
	flags.String("room-codes", memlayout.DefaultRoomCodeSource, "room code document (empty to skip)")
	flags.String("config", "", "configuration file (yaml or json)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.configure(cmd.Flags())
	}

	root.AddCommand(
		a.checkCommand(),
		a.sizeCommand(),
		a.fieldsCommand(),
		a.layoutCommand(),
		a.offsetCommand(),
		a.hierarchyCommand(),
		a.vtableCommand(),
		a.refCommand(),
	)
	return root
}

func (a *app) configure(flags *pflag.FlagSet) error {
	a.cfg.SetEnvPrefix(envPrefix)
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AllowEmptyEnv(true)
	a.cfg.AutomaticEnv()
	if err := a.cfg.BindPFlags(flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if path := a.cfg.GetString("config"); path != "" {
		a.cfg.SetConfigFile(path)
		if err := a.cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	level, err := zerolog.ParseLevel(a.cfg.GetString("log-level"))
	if err != nil {
		return usageError{err: fmt.Errorf("invalid log level: %w", err)}
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

func (a *app) load() error {
	opts := memlayout.NewLoadOptions().
		WithMainSource(a.cfg.GetString("main")).
		WithEntitySource(a.cfg.GetString("entities")).
		WithRoomCodeSource(a.cfg.GetString("room-codes")).
		WithLogger(a.log)
	schema, err := memlayout.LoadDir(a.cfg.GetString("schema-dir"), opts)
	if err != nil {
		return err
	}
	a.schema = schema
	return nil
}

// loaded wraps a subcommand body so it runs against a freshly loaded schema.
func (a *app) loaded(body func(args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		if err := a.load(); err != nil {
			return err
		}
		return body(args)
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

func parseAddress(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, usageError{err: fmt.Errorf("invalid address %q", s)}
	}
	return v, nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

func readImage(path string, base uint64) (*memory.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read memory image %s: %w", path, err)
	}
	img := memory.NewImage()
	if err := img.Map(base, data); err != nil {
		return nil, fmt.Errorf("map memory image %s: %w", path, err)
	}
	return img, nil
}
