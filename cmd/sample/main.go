// Command sample runs a small labs service built on apiop and prints its
// generated OpenAPI document.
//
// Run:
//
//	go run ./cmd/sample serve
//	go run ./cmd/sample serve --config sample.yaml
//
// Generate the OpenAPI document:
//
//	go run ./cmd/sample spec                       print JSON to stdout
//	go run ./cmd/sample spec --format yaml -o api.yaml
//	go run ./cmd/sample spec --check               fail on structural errors
//
// Then explore:
//
//	GET    http://localhost:8080/openapi.json
//	GET    http://localhost:8080/lab
//	GET    http://localhost:8080/lab/{lab}
//	PUT    http://localhost:8080/lab/{lab}
//	POST   http://localhost:8080/lab/{lab}/instance/{username}
//	DELETE http://localhost:8080/lab/{lab}/instance/{username}
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/bjaus/apiop"
	"github.com/bjaus/apiop/openapi"
	"github.com/bjaus/apiop/router"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sample",
		Short:        "Labs API built on apiop",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to a YAML config file")

	root.AddCommand(newServeCmd(), newSpecCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(cmd.OutOrStderr(), &slog.HandlerOptions{Level: cfg.level()}))
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r, _ := newApp(cfg, logger, prometheus.NewRegistry())

			logger.Info("starting server", "addr", cfg.Addr, "spec", "http://"+cfg.Addr+"/openapi.json")
			if err := r.ListenAndServe(ctx, cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}
}

func newSpecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Print the generated OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("output")
			check, _ := cmd.Flags().GetBool("check")

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.level()}))
			r, g := newApp(cfg, logger, prometheus.NewRegistry())
			doc := g.Document(r)

			if check {
				issues, err := openapi.Check(doc)
				if err != nil {
					return err
				}
				if len(issues) > 0 {
					msgs := make([]string, len(issues))
					for i, is := range issues {
						msgs[i] = is.String()
					}
					return fmt.Errorf("document has %d issue(s):\n%s", len(issues), strings.Join(msgs, "\n"))
				}
			}

			return writeSpec(cmd.OutOrStdout(), out, format, doc)
		},
	}

	cmd.Flags().StringP("format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	cmd.Flags().Bool("check", false, "validate the document before writing it")
	return cmd
}

func configFrom(cmd *cobra.Command) (Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return loadConfig(path)
}

// newApp wires the labs service and its document generator.
func newApp(cfg Config, logger *slog.Logger, reg prometheus.Registerer) (*router.Router, *openapi.Generator) {
	var servers []openapi.Server
	for _, u := range cfg.API.Servers {
		servers = append(servers, openapi.Server{URL: u})
	}
	g := openapi.NewGenerator(
		openapi.WithTitle(cfg.API.Title),
		openapi.WithVersion(cfg.API.Version),
		openapi.WithDescription(cfg.API.Description),
		openapi.WithServers(servers...),
		openapi.WithLogger(logger),
	)

	r := router.New(router.WithErrorHandler(apiop.ErrorHandler))
	r.Use(
		router.Recovery(logger),
		router.RequestID(),
		router.Logger(logger),
	)
	if len(cfg.CORS.Origins) > 0 {
		r.Use(router.CORS(router.CORSConfig{
			AllowOrigins:  cfg.CORS.Origins,
			AllowMethods:  []string{"GET", "HEAD", "POST", "PUT", "DELETE"},
			AllowHeaders:  []string{"Content-Type", "If-Match"},
			ExposeHeaders: []string{"ETag", "X-Request-ID"},
		}))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(router.Timeout(cfg.RequestTimeout))
	}
	if cfg.RateLimit.Rate > 0 {
		r.Use(router.RateLimit(router.RateLimitConfig{Rate: cfg.RateLimit.Rate, Burst: cfg.RateLimit.Burst}))
	}

	opts := []apiop.Option{apiop.WithMetrics(apiop.NewMetrics(reg))}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, apiop.WithMaxBodySize(cfg.MaxBodySize))
	}
	r.UseAt("/lab", apiop.Operation(labDefaults, opts...))
	r.Mount("/lab", labRoutes(newLabStore(), opts...))

	openapi.ServeSpec(r, "/openapi.json", g)
	openapi.ServeSpecYAML(r, "/openapi.yaml", g)

	return r, g
}

func writeSpec(stdout io.Writer, path, format string, doc openapi.Document) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return openapi.WriteJSON(w, doc)
	case "yaml":
		return openapi.WriteYAML(w, doc)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
