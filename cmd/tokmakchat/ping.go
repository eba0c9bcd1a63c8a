package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tokmakchat/internal/agent"
	openaimodel "tokmakchat/internal/agent/openai"
	"tokmakchat/internal/config"
)

func pingMain(root rootArgs, args []string) {
	if err := runPing(root, args, os.Stdout); err != nil {
		log.Fatalf("ping failed: %v", err)
	}
}

func runPing(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var baseURLOverride string
	var apiKeyOverride string
	var timeoutSeconds int
	fs.StringVar(&baseURLOverride, "base-url", "", "Override base URL (e.g. http://127.0.0.1:1234; trailing /v1 is ok)")
	fs.StringVar(&apiKeyOverride, "api-key", "", "Override API key (prefer config.toml)")
	fs.IntVar(&timeoutSeconds, "timeout", 30, "Timeout seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	cfg := rt.Config
	if v := strings.TrimSpace(baseURLOverride); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(apiKeyOverride); v != "" {
		cfg.Token = v
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	if cfg.Provider == config.ProviderOpenAI {
		if err := openaimodel.CheckBaseURLReachable(ctx, cfg.URL); err != nil {
			return err
		}
	}
	client, err := newRemoteClient(cfg)
	if err != nil {
		return err
	}
	got, err := client.Complete(ctx, agent.Prompt{
		Model: cfg.Model,
		Messages: []agent.Message{
			{Role: agent.RoleSystem, Content: "Reply with exactly pong (lowercase), nothing else."},
			{Role: agent.RoleUser, Content: "ping"},
		},
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "ok: %s\n", got)
	return nil
}
