package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pricecheck/internal/app"
	"github.com/kailas-cloud/pricecheck/internal/config"
	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	logpkg "github.com/kailas-cloud/pricecheck/internal/logger"
	compareuc "github.com/kailas-cloud/pricecheck/internal/usecase/compare"
	"github.com/kailas-cloud/pricecheck/internal/version"
)

// Exit codes.
const (
	exitFailure   = 1
	exitNeedInput = 2
)

// needInputError marks a need_input envelope so main can pick the exit code.
type needInputError struct{ fields []string }

func (e *needInputError) Error() string {
	return "missing input: " + strings.Join(e.fields, ", ")
}

func exitCode(err error) int {
	var ni *needInputError
	if errors.As(err, &ni) {
		return exitNeedInput
	}
	return exitFailure
}

type rootOptions struct {
	env      string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "pricecheckctl",
		Short:         "Compare shopping list prices at nearby stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	root.AddCommand(newCompareCmd(opts), newProvidersCmd(opts), newVersionCmd())
	return root
}

type compareOptions struct {
	address  string
	radius   float64
	list     string
	listFile string
	web      bool
	provider string
	pretty   bool
}

func newCompareCmd(root *rootOptions) *cobra.Command {
	opts := &compareOptions{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run one comparison and print the result envelope as JSON",
		Example: `  pricecheckctl compare --address "Tel Aviv, Dizengoff 50" --radius 3 --list "milk, bread, eggs x12"
  pricecheckctl compare --address Haifa --list-file list.txt --web --provider gemini`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.env)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("radius") {
				opts.radius = cfg.Pipeline.DefaultRadiusKM
			}
			if opts.listFile != "" {
				data, err := readList(opts.listFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts.list = data
			}

			logger, err := logpkg.NewLogger("cli", root.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}
			ctx := logpkg.ContextWithLogger(cmd.Context(), logger)
			return runCompare(ctx, a.Compare, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.address, "address", "", "street address to search around")
	f.Float64Var(&opts.radius, "radius", 0, "search radius in km (default from config)")
	f.StringVar(&opts.list, "list", "", "shopping list, one item per line or comma separated")
	f.StringVar(&opts.listFile, "list-file", "", "read the shopping list from a file (- for stdin)")
	f.BoolVar(&opts.web, "web", false, "gather web evidence before asking the model")
	f.StringVar(&opts.provider, "provider", "", "model provider (default from config)")
	f.BoolVar(&opts.pretty, "pretty", true, "indent JSON output")
	cmd.MarkFlagsMutuallyExclusive("list", "list-file")
	return cmd
}

// comparer is the slice of the compare service the CLI needs.
type comparer interface {
	Compare(ctx context.Context, in compareuc.Input) (envelope.Envelope, error)
}

func runCompare(ctx context.Context, svc comparer, opts *compareOptions, out io.Writer) error {
	ctx, usage := domain.NewContextWithUsage(ctx)
	env, err := svc.Compare(ctx, compareuc.Input{
		Address:  opts.address,
		RadiusKM: opts.radius,
		ListText: opts.list,
		UseWeb:   opts.web,
		Provider: opts.provider,
	})
	if err != nil {
		env = errorEnvelope(err)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if encErr := enc.Encode(env); encErr != nil {
		return fmt.Errorf("write envelope: %w", encErr)
	}

	if usage.Used {
		logpkg.FromContext(ctx).Info("model usage", zap.Int("total_tokens", usage.TotalTokens))
	}
	switch {
	case err != nil:
		return err
	case env.Status == envelope.StatusNeedInput:
		return &needInputError{fields: env.Needed}
	}
	return nil
}

// errorEnvelope renders a request-level failure the same way the HTTP API does.
func errorEnvelope(err error) envelope.Envelope {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return envelope.Error(pe.Unwrap().Error(), map[string]any{
			"capability":  pe.Capability,
			"provider":    pe.Provider,
			"status_code": pe.StatusCode,
			"body":        pe.Body,
		})
	}
	return envelope.Error(err.Error(), nil)
}

func readList(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // user-supplied path is the point
	}
	if err != nil {
		return "", fmt.Errorf("read list: %w", err)
	}
	return string(data), nil
}

func newProvidersCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured model providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.env)
			if err != nil {
				return err
			}
			a, err := app.New(&cfg, zap.NewNop())
			if err != nil {
				return err
			}
			for _, name := range a.Providers.Names() {
				marker := " "
				if name == a.Providers.Default() {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
