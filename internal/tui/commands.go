package tui

import (
	"context"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tracescribe/internal/pipeline"
)

type generateResultMsg struct {
	result pipeline.Result
	err    error
}

type saveResultMsg struct {
	path string
	err  error
}

func generateCmd(config Config) tea.Cmd {
	return func() tea.Msg {
		result, err := config.Generator.GenerateDocumentation(context.Background(), config.Session.Actions)
		if err != nil {
			log.Printf("[tui] generation failed: %v", err)
			return generateResultMsg{err: err}
		}
		if config.Store != nil && config.Session.ID != "" {
			if _, err := config.Store.AttachResult(config.Session.ID, result); err != nil {
				log.Printf("[tui] persist result failed: %v", err)
			}
		}
		return generateResultMsg{result: result}
	}
}

func saveMarkdownCmd(path, markdown string) tea.Cmd {
	return func() tea.Msg {
		if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
			return saveResultMsg{path: path, err: err}
		}
		return saveResultMsg{path: path}
	}
}
