package app

import (
	"context"
	"log"

	"github.com/coroproject/corobot/internal/dedup"
	"github.com/coroproject/corobot/internal/types"
)

// processAccount checks one account's recent posts and reposts whatever
// qualifies. Failures here never abort the run: a fetch error skips the
// account, a repost error skips the post and leaves it eligible for the
// next run.
func (a *App) processAccount(ctx context.Context, handle string, seen dedup.Set) {
	log.Printf("--- checking @%s ---", handle)

	posts, err := a.client.RecentPosts(ctx, handle, a.cfg.FetchCount)
	if err != nil {
		log.Printf("[ERROR] fetching @%s: %v", handle, err)
		return
	}

	for _, p := range posts {
		if seen.Contains(p.ID) {
			continue
		}

		matched := a.classifier.Match(p)
		a.recordPost(p, matched)

		if !matched {
			log.Printf("[SKIP] %d: %s", p.ID, truncate(p.Text, 50))
			continue
		}

		if err := a.client.Repost(ctx, p.ID); err != nil {
			log.Printf("[ERROR] repost failed id=%d: %v", p.ID, err)
			continue
		}

		seen.Add(p.ID)
		a.recordRepost(p)
		log.Printf("reposted: %s", p.Permalink())
	}
}

// recordPost archives a classification decision. The archive is best
// effort; failures are logged and ignored.
func (a *App) recordPost(p types.Post, matched bool) {
	if a.archive == nil {
		return
	}
	if err := a.archive.RecordPost(p, matched); err != nil {
		log.Printf("[WARN] archive post %d: %v", p.ID, err)
	}
}

func (a *App) recordRepost(p types.Post) {
	if a.archive == nil {
		return
	}
	if err := a.archive.RecordRepost(p.ID, p.Permalink()); err != nil {
		log.Printf("[WARN] archive repost %d: %v", p.ID, err)
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
