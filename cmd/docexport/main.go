package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommand names accepted as the first argument.
var commands = map[string]bool{
	"convert":    true,
	"doctor":     true,
	"completion": true,
	"version":    true,
	"help":       true,
}

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the subcommand and returns the process exit code.
func runMain(args []string, env *Environment) int {
	warnUnknownEnvVars(env.Stderr)

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "-h", "--help":
		cmd = "help"
	case "--version":
		cmd = "version"
	}
	if !isCommand(cmd) {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch cmd {
	case "convert":
		return runConvertCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version":
		fmt.Fprintf(env.Stdout, "docexport %s\n", Version)
		return ExitSuccess
	default:
		return runHelp(rest, env)
	}
}

// isCommand reports whether name is a known subcommand. Case sensitive.
func isCommand(name string) bool {
	return commands[name]
}

// runConvertCmd parses convert flags, sets up logging and signals, and runs
// the batch.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	if env.Logger == nil {
		env.Logger = newLogger(env.Stderr, flags.common)
	}
	setMaxProcs(env.Logger)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// newLogger builds the CLI logger. Verbose enables debug output and quiet
// limits it to errors.
func newLogger(w io.Writer, f commonFlags) *log.Logger {
	level := log.InfoLevel
	switch {
	case f.verbose:
		level = log.DebugLevel
	case f.quiet:
		level = log.ErrorLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "docexport",
	})
}

// setMaxProcs aligns GOMAXPROCS with the container CPU quota, which drives
// the automatic worker count. Its report is logged at debug level.
func setMaxProcs(logger *log.Logger) {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debugf(format, args...)
	}))
}
