package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/server"
	"github.com/abhisek/scholar/internal/syllabus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP and WebSocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if hashToken, _ := cmd.Flags().GetBool("hash-token"); hashToken {
			return printTokenHash(cmd)
		}

		d, err := setup(cmd, setupOpts{content: true})
		if err != nil {
			return err
		}
		defer d.Close()

		cfg := d.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if cfg.TokenHash == "" {
			d.logger.Warn("API authentication disabled; set SCHOLAR_API_TOKEN_HASH to enable it")
		}

		srv := server.New(server.Deps{
			Content:   d.content,
			History:   d.history,
			Syllabus:  syllabus.Default(),
			Registry:  server.NewRegistry(cfg.SessionTTL),
			Logger:    d.logger,
			Health:    d.health,
			TokenHash: cfg.TokenHash,
			QuizCount: d.cfg.Quiz.Count,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, cfg)
	},
}

// printTokenHash reads a token from stdin and prints its bcrypt hash for
// SCHOLAR_API_TOKEN_HASH.
func printTokenHash(cmd *cobra.Command) error {
	fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read token: %w", err)
	}
	hash, err := server.HashToken(strings.TrimSpace(line))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config, default 127.0.0.1:8080)")
	serveCmd.Flags().Bool("hash-token", false, "Read a token from stdin, print its bcrypt hash and exit")
}
