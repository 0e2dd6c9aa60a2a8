package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sniff/internal/config"
	"github.com/leapstack-labs/sniff/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. It publishes
diagnostics for open PHP and JavaScript documents and offers quick fixes for
fixable violations. Configuration is loaded from the sniff.yaml found above
the client's workspace root.`,
		Example: `  # Start LSP server (usually called by an editor)
  sniff lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := config.GetLogger(cmd.Context())
			server := lsp.NewServerWithLogger(os.Stdin, os.Stdout, logger)
			server.SetVersion(version)
			return server.Run()
		},
	}

	return cmd
}
