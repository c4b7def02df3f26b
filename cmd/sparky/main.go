// Command sparky answers questions with an LLM that can call tools.
//
//	sparky "what is 15 * 23?"   one-shot query
//	sparky                      interactive shell
//	sparky serve                run only the tool server
//	sparky tools                list the available tools
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// options holds the global flags.
type options struct {
	configPath    string
	provider      string
	logLevel      string
	externalTools bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "sparky [query...]",
		Short: "Tool-calling AI agent for OpenAI, Ollama, Groq, Hugging Face and Anthropic",
		Long: `Sparky answers questions with an LLM that can call tools (calculator,
weather, date/time and workspace files) through an MCP tool server.

With a query it answers once and exits; without one it starts an
interactive shell. Type "exit", "quit" or an empty line to leave the
shell and "clear" to clear the screen.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runAgent(ctx, cmd, opts, strings.TrimSpace(strings.Join(args, " ")))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default $SPARKY_CONFIG or sparky.yaml)")
	flags.StringVarP(&opts.provider, "provider", "p", "", "LLM provider (openai, ollama, groq, huggingface, anthropic)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.BoolVar(&opts.externalTools, "external-tools", false, "Connect to an already running tool server instead of starting one")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newToolsCmd(opts))

	return rootCmd
}

func runAgent(ctx context.Context, cmd *cobra.Command, opts *options, query string) error {
	a, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer a.close()

	ag, err := a.newAgent(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := ag.Shutdown(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to shut down agent")
		}
	}()

	out := cmd.OutOrStdout()
	if query != "" {
		a.logger.Info().Str("query", query).Msg("Processing command line query")
		result, err := ag.ProcessQuery(ctx, query)
		if err != nil {
			return err
		}
		printResult(out, result)
		return nil
	}

	return runREPL(ctx, ag, ag.Name(), cmd.InOrStdin(), out)
}

func newToolsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools offered by the tool server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			dispatcher, err := a.startDispatcher(ctx)
			if err != nil {
				return err
			}
			defer dispatcher.Close() //nolint:errcheck // best effort on exit

			if err := dispatcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to connect to tool server: %w", err)
			}
			descriptors, err := dispatcher.ListTools(ctx)
			if err != nil {
				return err
			}
			return printTools(cmd.OutOrStdout(), descriptors, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full tool descriptors as JSON")
	return cmd
}
