package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"feedcut/internal/app"
	"feedcut/internal/config"
	"feedcut/internal/feedapi"
	"feedcut/internal/storage"
	"feedcut/internal/tui"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	cfg, err := config.Load(ctx)
	if err != nil {
		cancel()
		log.Fatalf("config error: %v", err)
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		cancel()
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	if err := repo.Init(ctx); err != nil {
		cancel()
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		cancel()
		log.Fatalf("storage write check failed (%v). Verify FEEDCUT_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := feedapi.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	service := app.NewService(client, repo)

	recent, err := service.RecentSources(ctx, app.DefaultRecentLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load recent sources (%v)\n", err)
	}
	publishes, err := service.RecentPublishes(ctx, app.DefaultRecentLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load publish history (%v)\n", err)
	}

	model := tui.NewModel(service, recent, publishes)

	prefs, err := service.LoadUIPreferences(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load UI preferences (%v), using defaults\n", err)
	} else {
		model.ApplyPreferences(tui.Preferences{
			Compact:        prefs.Compact,
			ConfirmPublish: prefs.ConfirmPublish,
		})
	}
	cancel()

	model.SetPreferencesSaver(func(p tui.Preferences) error {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer saveCancel()
		return service.SaveUIPreferences(saveCtx, app.UIPreferences{
			Compact:        p.Compact,
			ConfirmPublish: p.ConfirmPublish,
		})
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
