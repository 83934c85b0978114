package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mustafa861/library/internal/shell"
)

// NewShellCommand creates the interactive shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive menu",
		Long: `Start the interactive, numbered menu:

  1. Add Book  2. Add Member  3. Search Books  4. Issue Book
  5. Return Book  6. View Member's Books  7. Exit

The database is opened for the whole session and closed on exit,
end of input, or Ctrl-C.

Example:
  library shell --db ./library.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(rootOpts, cmd)
		},
	}

	return cmd
}

func runShell(opts *RootOptions, cmd *cobra.Command) error {
	c, err := openCatalog(opts, cmd)
	if err != nil {
		return err
	}
	defer closeCatalog(c)

	// Use command's context if available (for testing), otherwise create one
	ctx, cancel := context.WithCancel(ctxOrBackground(cmd.Context()))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sh := shell.New(c, cmd.InOrStdin(), cmd.OutOrStdout(), slog.Default())
	if err := sh.Run(ctx); err != nil {
		return WrapExitError(ExitCommandError, "shell error", err)
	}
	return nil
}
