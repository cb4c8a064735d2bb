package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/liffevent/viewrouter/rgen"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run does the work of main and returns the exit code, so deferred
// calls such as the logger flush happen before the process exits.
func run(argv []string) int {

	flags := flag.NewFlagSet("viewroutegen", flag.ContinueOnError)
	packageName := flags.String("p", "", "The package name to use in the generated file.  Defaults to the directory name")
	configFile := flags.String("f", "", "Route config file (.yaml, .yml or .toml).  Defaults to routes.yaml, routes.yml or routes.toml in the directory")
	outputFile := flags.String("o", rgen.DefaultOutputFile, "Name of the generated file")
	q := flags.Bool("q", false, "Only print information upon error (quiet mode)")
	watch := flags.Bool("w", false, "Keep running and regenerate whenever a route config changes")

	if err := flags.Parse(argv); err != nil {
		return 2
	}

	logger := newLogger(*q)
	defer logger.Sync() //nolint:errcheck
	log := logger.Sugar()

	args := flags.Args()
	if len(args) == 0 {
		args = []string{"."} // default to current dir
	}

	if (*packageName != "" || *configFile != "") && len(args) > 1 {
		log.Error("-p and -f are only valid with a single directory")
		return 2
	}

	gens := make([]*rgen.Generator, 0, len(args))
	for _, arg := range args {

		dir, err := filepath.Abs(arg)
		if err != nil {
			log.Errorf("Error converting %q to absolute path: %v", arg, err)
			return 1
		}

		g := rgen.New().
			SetDir(dir).
			SetConfigFile(*configFile).
			SetPackageName(*packageName).
			SetOutputFile(*outputFile)

		if err := generate(logger, g); err != nil && !*watch {
			return 1
		}
		gens = append(gens, g)
	}

	if !*watch {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watchConfigs(ctx, logger, gens); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func newLogger(quiet bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func generate(logger *zap.Logger, g *rgen.Generator) error {
	configPath, _ := g.ConfigPath()
	outPath, _ := g.OutputPath()

	if err := g.Generate(); err != nil {
		logger.Error("route generation failed", zap.String("config", configPath), zap.Error(err))
		return err
	}

	logger.Info("generated routes", zap.String("config", configPath), zap.String("output", outPath))
	return nil
}
