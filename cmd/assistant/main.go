package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dowhistle/assistant/internal/assist"
	"github.com/dowhistle/assistant/internal/auth"
	"github.com/dowhistle/assistant/internal/config"
	"github.com/dowhistle/assistant/internal/conn"
	"github.com/dowhistle/assistant/internal/llm"
	"github.com/dowhistle/assistant/internal/store"
	"github.com/dowhistle/assistant/internal/tools"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var creds store.CredentialStore
	var loc store.LocationStore
	if cfg.Store.Path != "" {
		db, err := sql.Open("sqlite3", cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer db.Close()
		st, err := store.NewSQLiteStore(db)
		if err != nil {
			return fmt.Errorf("failed to init store: %w", err)
		}
		creds, loc = st, st
	} else {
		creds = store.NewMemoryCredentialStore()
		loc = store.NewMemoryLocationStore()
	}

	bridge := auth.NewBridge(creds, logger)

	dialer := &conn.MCPDialer{
		URL:           cfg.Server.URL,
		ClientName:    "dowhistle-assistant",
		ClientVersion: "1.0.0",
		Headers:       bridge.HeaderMap,
	}
	manager := conn.NewManager(dialer, conn.Config{
		Policy: conn.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay.Std(),
			MaxDelay:    cfg.Retry.MaxDelay.Std(),
		},
		ConnectTimeout: cfg.Server.ConnectTimeout.Std(),
		CallTimeout:    cfg.Server.CallTimeout.Std(),
		Logger:         logger,
	})
	defer manager.Close()

	catalog := tools.DefaultCatalog()
	if manager.Connect(ctx) {
		refreshCatalog(ctx, manager, catalog, logger)
	} else {
		logger.Warn("tool server unreachable at startup, retrying in background")
	}
	go manager.RunHealthProbe(ctx, cfg.Server.ProbeInterval.Std())

	invoker := tools.NewInvoker(manager, catalog, logger)
	service := tools.NewService(invoker)

	var client *llm.Client
	if cfg.LLM.APIKey != "" {
		var err error
		client, err = llm.NewClient(llm.ClientConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout.Std(),
		})
		if err != nil {
			return fmt.Errorf("failed to build completion client: %w", err)
		}
	} else {
		logger.Info("no completion api key, running offline fallback replies")
	}
	responder := llm.NewResponder(client, logger)

	router := assist.NewRouter(assist.RouterConfig{
		Searcher:  service,
		Bridge:    bridge,
		Location:  loc,
		Responder: responder,
		Logger:    logger,
		Radius:    cfg.Search.Radius,
		Limit:     cfg.Search.Limit,
	})

	return converse(ctx, router, manager)
}

// refreshCatalog folds the server's advertised tool list into the built-in
// catalog. Failure is not fatal; the built-ins remain usable.
func refreshCatalog(ctx context.Context, manager *conn.Manager, catalog *tools.Catalog, logger *slog.Logger) {
	listed, err := manager.ListTools(ctx)
	if err != nil {
		logger.Warn("could not list server tools", "error", err)
		return
	}
	defs := make([]tools.ServerTool, 0, len(listed))
	for _, t := range listed {
		schema, err := json.Marshal(t.InputSchema)
		if err != nil {
			schema = nil
		}
		defs = append(defs, tools.ServerTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}
	catalog.MergeServerTools(defs)
	logger.Info("tool catalog refreshed", "tools", len(catalog.Names()))
}

// converse reads user lines from stdin and prints replies until EOF or
// cancellation.
func converse(ctx context.Context, router *assist.Router, manager *conn.Manager) error {
	fmt.Println(assist.Welcome)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			switch {
			case line == "":
				continue
			case line == "/quit" || line == "/exit":
				return nil
			case line == "/status":
				printStatus(manager.Status())
			default:
				fmt.Println(router.Route(ctx, line))
			}
		}
	}
}

func printStatus(st conn.Status) {
	indicator := "offline"
	if st.Connected {
		indicator = "connected"
		if !st.Healthy {
			indicator = "connected (unhealthy)"
		}
	}
	fmt.Printf("Tool server: %s (state=%s attempts=%d)\n", indicator, st.State, st.Attempts)
	if st.LastError != "" {
		fmt.Printf("Last error: %s\n", st.LastError)
	}
}
