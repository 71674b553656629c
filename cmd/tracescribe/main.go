package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"tracescribe/internal/action"
	"tracescribe/internal/config"
	"tracescribe/internal/llm"
	"tracescribe/internal/pipeline"
	"tracescribe/internal/session"
	"tracescribe/internal/tui"
)

func main() {
	actionsPath := flag.String("actions", "", "path to a recorded action batch (JSON)")
	sessionID := flag.String("session", "", "regenerate documentation for a stored session id")
	listSessions := flag.Bool("list", false, "list stored sessions and exit")
	title := flag.String("title", "", "title for the new session created from -actions")
	storeDir := flag.String("store", "", "session directory (default: user cache dir)")
	configPath := flag.String("config", "", "path to the config file (default: user config dir)")
	outPath := flag.String("out", "", "write the generated markdown to this file")
	useTUI := flag.Bool("tui", false, "view the generated document in the terminal UI")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	provider := flag.String("provider", "", "generation provider: openai or ollama")
	llmModel := flag.String("llm-model", "", "override the preferred generation model")
	llmEndpoint := flag.String("llm-endpoint", "", "custom provider endpoint (eg. http://localhost:11434)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to load config:", err)
	}
	mergeFlags(&cfg, *provider, *llmModel, *llmEndpoint, *storeDir)

	store, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		fatal("failed to open session store:", err)
	}

	if *listSessions {
		printSessions(store)
		return
	}

	sess, err := resolveSession(store, *actionsPath, *sessionID, *title)
	if err != nil {
		fatal("failed to load actions:", err)
	}

	client, err := llm.NewFromEnv(llm.Config{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		FallbackModels: cfg.FallbackModels,
		Endpoint:       cfg.Endpoint,
	})
	if err != nil {
		fatal("failed to build generation client:", err)
	}
	generator := pipeline.NewGenerator(client)

	if *useTUI {
		err := tui.Run(tui.Config{
			Session:   sess,
			Generator: generator,
			Store:     store,
			OutPath:   *outPath,
		}, !*noAltScreen)
		if err != nil {
			os.Exit(1)
		}
		return
	}

	result, err := generator.GenerateDocumentation(context.Background(), sess.Actions)
	if err != nil {
		fatal("generation failed:", err)
	}
	if sess.ID != "" {
		if _, err := store.AttachResult(sess.ID, result); err != nil {
			log.Printf("[main] persist result failed: %v", err)
		}
	}
	for _, degradation := range result.Degradations {
		fmt.Fprintf(os.Stderr, "warning: stage %s degraded: %s\n", degradation.Stage, degradation.Reason)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(result.Output.RawMarkdown), 0o644); err != nil {
			fatal("failed to write output:", err)
		}
		fmt.Fprintln(os.Stderr, "wrote", *outPath)
		return
	}
	fmt.Println(result.Output.RawMarkdown)
}

// Flags beat config file values field by field.
func mergeFlags(cfg *config.Config, provider, model, endpoint, storeDir string) {
	if provider != "" {
		cfg.Provider = provider
	}
	if model != "" {
		cfg.Model = model
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if storeDir != "" {
		cfg.SessionDir = storeDir
	}
}

func resolveSession(store *session.Store, actionsPath, sessionID, title string) (session.Session, error) {
	switch {
	case actionsPath != "" && sessionID != "":
		return session.Session{}, fmt.Errorf("use either -actions or -session, not both")
	case sessionID != "":
		return store.Get(sessionID)
	case actionsPath != "":
		actions, err := action.LoadBatch(actionsPath)
		if err != nil {
			return session.Session{}, err
		}
		return store.Create(title, actions)
	default:
		return session.Session{}, fmt.Errorf("one of -actions or -session is required")
	}
}

func printSessions(store *session.Store) {
	sessions, err := store.List()
	if err != nil {
		fatal("failed to list sessions:", err)
	}
	if len(sessions) == 0 {
		fmt.Println("no stored sessions")
		return
	}
	for _, sess := range sessions {
		label := sess.Title
		if label == "" {
			label = "(untitled)"
		}
		state := "pending"
		if sess.Result != nil {
			state = "generated"
		}
		fmt.Printf("%s  %-30s  %d actions  %s  %s\n",
			sess.ID, label, len(sess.Actions), state, sess.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func fatal(msg string, err error) {
	fmt.Fprintln(os.Stderr, msg, err)
	os.Exit(1)
}
