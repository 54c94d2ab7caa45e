package cmd

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/crumbwatch/crumbwatch/internal/engine"
	"github.com/crumbwatch/crumbwatch/internal/log"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// NewCmdServe creates the serve command.
func NewCmdServe(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GitHub webhook receiver",
		Long: `Listen for GitHub issue and issue_comment webhooks and reprocess the
affected issue on each event. Set CRUMBWATCH_WEBHOOK_SECRET to require
X-Hub-Signature-256 verification on incoming deliveries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ListenAddr, "listen", "", "Listen address (default :8080, or listen_addr from config)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *Options) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setupApp(ctx, opts)
	if err != nil {
		return err
	}

	addr := opts.ListenAddr
	if addr == "" {
		addr = app.cfg.ListenAddr
	}
	if addr == "" {
		addr = ":8080"
	}

	mux := http.NewServeMux()
	mux.Handle("/webhook", webhookHandler(app.engine, app.cfg.GetWebhookSecret()))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("webhook receiver listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down webhook receiver: %w", err)
	}
	log.Info("webhook receiver stopped")
	return nil
}

// webhookHandler verifies, decodes, and dispatches webhook deliveries.
// An empty secret disables signature verification.
func webhookHandler(eng *engine.Engine, secret string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		if secret != "" {
			if !verifySignature(secret, r.Header.Get("X-Hub-Signature-256"), body) {
				log.Warn("webhook signature verification failed", "remote", r.RemoteAddr)
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}
		}

		event := r.Header.Get("X-GitHub-Event")
		if event != "issues" && event != "issue_comment" {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprintln(w, "ignored")
			return
		}

		var payload model.WebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		if err := eng.HandleWebhook(r.Context(), &payload); err != nil {
			log.Error("webhook processing failed", "action", payload.Action, "error", err)
			http.Error(w, "processing failed", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
}

// verifySignature checks a GitHub X-Hub-Signature-256 header against the
// shared secret.
func verifySignature(secret, header string, body []byte) bool {
	const prefix = "sha256="
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return false
	}
	want, err := hex.DecodeString(header[len(prefix):])
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
