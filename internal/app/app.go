// Package app wires the bot together and drives a single run: verify
// credentials, sweep every monitored account, persist the repost log.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/coroproject/corobot/internal/archive"
	"github.com/coroproject/corobot/internal/classify"
	"github.com/coroproject/corobot/internal/config"
	"github.com/coroproject/corobot/internal/dedup"
	"github.com/coroproject/corobot/internal/types"
)

// Client is the API surface a run needs. *xapi.Client satisfies it; tests
// substitute a fake.
type Client interface {
	Verify(ctx context.Context) (string, error)
	RecentPosts(ctx context.Context, handle string, count int) ([]types.Post, error)
	Repost(ctx context.Context, id int64) error
}

// App holds the application state.
type App struct {
	cfg        *config.Config
	client     Client
	store      *dedup.Store
	archive    *archive.Archive
	classifier *classify.Classifier
}

// New creates a new App instance. arc may be nil, in which case no
// history is recorded.
func New(cfg *config.Config, client Client, store *dedup.Store, arc *archive.Archive) *App {
	return &App{
		cfg:        cfg,
		client:     client,
		store:      store,
		archive:    arc,
		classifier: classify.New(cfg.Rules),
	}
}

// Run performs one full pass over the monitored accounts. Per-account and
// per-post failures are logged and skipped; only credential verification
// and saving the repost log can fail the run.
func (a *App) Run(ctx context.Context) error {
	log.Println("corobot starting...")

	handle, err := a.client.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verifying credentials: %w", err)
	}
	log.Printf("authenticated as @%s", handle)

	seen := a.store.Load()
	log.Printf("loaded %d previously reposted post id(s)", len(seen))

	for _, target := range a.cfg.Targets {
		a.processAccount(ctx, target, seen)
	}

	if err := a.store.Save(seen); err != nil {
		return fmt.Errorf("saving repost log: %w", err)
	}

	log.Printf("run complete, repost log has %d id(s)", len(seen))
	return nil
}
