package main

import (
	"errors"

	"github.com/spf13/cobra"

	"spin/internal/lsp"
	"spin/internal/version"
)

func newLSPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server over stdio",
		Long:  `Serve diagnostics, quick fixes, formatting, folding and outline for .spn files over stdin/stdout (LSP)`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.ServerOptions{
				Driver:  a.driverOptions(),
				Format:  a.formatOptions(),
				Version: version.Version,
				Log:     cmd.ErrOrStderr(),
			})
			err := server.Run(cmd.Context())
			switch {
			case err == nil, errors.Is(err, lsp.ErrExit):
				return nil
			case errors.Is(err, lsp.ErrExitWithoutShutdown):
				// клиент обязан прислать shutdown перед exit, иначе код 1
				return findings("")
			}
			return err
		},
	}
	// редакторы передают --stdio; другого транспорта нет
	cmd.Flags().Bool("stdio", true, "use stdin/stdout transport")
	return cmd
}
