package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/helpdex/internal/transport/cli"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Answer a single question",
		Long: `Ask answers one question and exits. The question is taken from the
arguments, or read as one line from stdin when no arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if len(args) == 0 {
				q, err := readQuestion(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				query = q
			}

			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ans, err := a.pipeline.Answer(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("answer: %w", err)
			}

			r := cli.NewRenderer(noColor)
			if asJSON {
				return r.JSON(cmd.OutOrStdout(), ans)
			}
			return r.Text(cmd.OutOrStdout(), ans)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the answer as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	return cmd
}

// readQuestion prompts on w and reads one line from r.
func readQuestion(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "Ask a question: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read question: %w", err)
	}
	return strings.TrimSpace(line), nil
}
