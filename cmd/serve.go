package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/server"
	"github.com/pricescout/pricescout/pkg/claude"
	"github.com/pricescout/pricescout/pkg/gemini"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the price-estimation server",
	Long:  "Serves the compare function that the client talks to. Stateless: every request is answered from a single completion call, with no server-side persistence.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		completer, err := buildCompleter(cfg.AI)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           server.New(completer).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("provider", cfg.AI.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// geminiCompleter adapts the Gemini client to the server's Completer.
type geminiCompleter struct {
	client gemini.Client
}

func (g *geminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return g.client.GenerateContent(ctx, prompt)
}

// buildCompleter selects the completion provider from config.
func buildCompleter(ai config.AIConfig) (server.Completer, error) {
	switch ai.Provider {
	case "gemini":
		if ai.GeminiKey == "" {
			return nil, eris.New("serve: ai.gemini_key is required (PRICESCOUT_AI_GEMINI_KEY)")
		}
		var opts []gemini.Option
		if ai.GeminiModel != "" {
			opts = append(opts, gemini.WithModel(ai.GeminiModel))
		}
		if ai.GeminiURL != "" {
			opts = append(opts, gemini.WithBaseURL(ai.GeminiURL))
		}
		return &geminiCompleter{client: gemini.NewClient(ai.GeminiKey, opts...)}, nil
	case "anthropic":
		if ai.AnthropicKey == "" {
			return nil, eris.New("serve: ai.anthropic_key is required (PRICESCOUT_AI_ANTHROPIC_KEY)")
		}
		var opts []claude.Option
		if ai.ClaudeModel != "" {
			opts = append(opts, claude.WithModel(ai.ClaudeModel))
		}
		return claude.NewClient(ai.AnthropicKey, opts...), nil
	default:
		return nil, eris.Errorf("serve: unknown ai provider %q", ai.Provider)
	}
}
