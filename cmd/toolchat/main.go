package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/petasbytes/toolchat/internal/config"
	"github.com/petasbytes/toolchat/internal/mcp"
	"github.com/petasbytes/toolchat/internal/provider"
	"github.com/petasbytes/toolchat/internal/session"
	"github.com/petasbytes/toolchat/tools"
)

type CLI struct {
	Config  string `name:"config" short:"c" help:"Path to YAML configuration file" optional:""`
	Model   string `name:"model" help:"Override the configured model" optional:""`
	Observe bool   `name:"observe" help:"Emit JSON telemetry lines to the artifacts directory" default:"false"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("toolchat"),
		kong.Description("Interactive chat with text-based tool calling over builtin and MCP tools"),
	)
	kctx.FatalIfErrorf(run(&cli))
}

func run(cli *CLI) error {
	cfg := config.Default()
	if cli.Config != "" {
		loaded, err := config.Load(cli.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cli.Model != "" {
		cfg.Provider.Model = cli.Model
	}
	if cli.Observe {
		_ = os.Setenv("TOOLCHAT_OBSERVE_JSON", "1")
	}
	if cfg.Sandbox.ReadRoot != "" {
		_ = os.Setenv("TOOLCHAT_READ_ROOT", cfg.Sandbox.ReadRoot)
	}
	if cfg.Sandbox.WriteRoot != "" {
		_ = os.Setenv("TOOLCHAT_WRITE_ROOT", cfg.Sandbox.WriteRoot)
	}

	responder, err := buildResponder(cfg)
	if err != nil {
		return err
	}

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	var providers []tools.Provider
	if cfg.BuiltinTools {
		providers = append(providers, tools.NewBuiltin())
	}
	for _, sv := range cfg.Servers {
		srv, err := mcp.Connect(ctx, sv.Name, sv.Command, sv.Args, sv.Env)
		if err != nil {
			// Connected servers still need their processes torn down.
			for _, p := range providers {
				_ = p.Close()
			}
			return fmt.Errorf("connect MCP server %s: %w", sv.Name, err)
		}
		providers = append(providers, srv)
	}

	sess, err := session.New(ctx, responder, providers, os.Stdout)
	if err != nil {
		for _, p := range providers {
			_ = p.Close()
		}
		return err
	}

	fmt.Println("Chat with the model (Ctrl-C or \"exit\" to quit)")

	// stdin reader goroutine -> lines into channel
	scanner := bufio.NewScanner(os.Stdin)
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

	if err := sess.Run(ctx, inputCh); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
	return nil
}

// buildResponder wires the configured model adapter. Missing API keys are
// fatal here, before any session begins.
func buildResponder(cfg *config.Config) (session.Responder, error) {
	switch cfg.Provider.Kind {
	case "anthropic":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return nil, config.Error{Field: "provider", Reason: "missing ANTHROPIC_API_KEY; export it before running"}
		}
		return provider.NewAnthropic(cfg.Provider.Model), nil
	case "openai":
		apiKey := ""
		if cfg.Provider.APIKeyEnv != "" {
			apiKey = os.Getenv(cfg.Provider.APIKeyEnv)
			if apiKey == "" {
				return nil, config.Error{Field: "provider.api_key_env", Reason: fmt.Sprintf("environment variable %s is empty", cfg.Provider.APIKeyEnv)}
			}
		}
		return provider.NewOpenAICompatible(cfg.Provider.BaseURL, apiKey, cfg.Provider.Model, http.DefaultClient), nil
	}
	return nil, config.Error{Field: "provider.kind", Reason: fmt.Sprintf("unknown provider %q", cfg.Provider.Kind)}
}
