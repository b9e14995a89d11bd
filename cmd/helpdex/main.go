// Package main is the helpdex command: a web shell and a one-shot CLI over the answer pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/config"
	logpkg "github.com/kailas-cloud/helpdex/internal/logger"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "helpdex",
		Short: "Answer support questions with a procedure, an article and a script",
		Long: `helpdex matches a question against a corpus of procedures, articles and
scripts, then expands the best procedure into its ordered steps from a graph store.

Run "helpdex serve" for the web shell or "helpdex ask" for a single question.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default: config/$ENV.yaml, ENV defaults to local)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env",
		"dotenv file loaded before the config is read; missing file is ignored")

	cmd.AddCommand(
		newServeCmd(opts),
		newAskCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads the env file, the config and builds the logger.
func (o *rootOptions) load() (config.Config, *zap.Logger, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !os.IsNotExist(err) {
			return config.Config{}, nil, fmt.Errorf("load %s: %w", o.envFile, err)
		}
	}

	env := config.GetEnv()
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
