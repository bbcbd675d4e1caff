// Package archive keeps a local SQLite history of every post the bot has
// seen and every repost it has made. The archive is a sidecar: the dedup
// decision never depends on it, it only exists for inspection.
package archive

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/coroproject/corobot/internal/types"
)

// Archive handles all database operations
type Archive struct {
	db *sql.DB
}

// Open creates or opens the archive database at path
func Open(path string) (*Archive, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return a, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}

// migrate creates the database schema
func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY,
		author_handle TEXT NOT NULL,
		author_name TEXT,
		text TEXT NOT NULL,
		hashtags TEXT,
		urls TEXT,
		is_reply BOOLEAN,
		is_repost BOOLEAN,
		matched BOOLEAN,
		posted_at DATETIME,
		fetched_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS reposts (
		post_id INTEGER PRIMARY KEY REFERENCES posts(id),
		permalink TEXT NOT NULL,
		reposted_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_fetched_at ON posts(fetched_at);
	CREATE INDEX IF NOT EXISTS idx_reposts_reposted_at ON reposts(reposted_at);
	`

	_, err := a.db.Exec(schema)
	return err
}

// RecordPost inserts or updates a fetched post along with its
// classification verdict
func (a *Archive) RecordPost(p types.Post, matched bool) error {
	hashtagsJSON, _ := json.Marshal(p.Hashtags)
	urlsJSON, _ := json.Marshal(p.URLs)

	_, err := a.db.Exec(`
		INSERT INTO posts (id, author_handle, author_name, text, hashtags,
			urls, is_reply, is_repost, matched, posted_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			matched = excluded.matched,
			fetched_at = excluded.fetched_at
	`, p.ID, p.AuthorHandle, p.AuthorName, p.Text, string(hashtagsJSON),
		string(urlsJSON), p.IsReply, p.IsRepost, matched, p.PostedAt, p.FetchedAt)

	return err
}

// RecordRepost records that the bot reposted a post. Recording the same
// post twice is a no-op.
func (a *Archive) RecordRepost(postID int64, permalink string) error {
	_, err := a.db.Exec(`
		INSERT INTO reposts (post_id, permalink, reposted_at)
		VALUES (?, ?, ?)
		ON CONFLICT(post_id) DO NOTHING
	`, postID, permalink, time.Now())

	return err
}

// Entry is one line of repost history
type Entry struct {
	PostID       int64
	AuthorHandle string
	Text         string
	Permalink    string
	RepostedAt   time.Time
}

// Recent returns the most recent reposts, newest first
func (a *Archive) Recent(limit int) ([]Entry, error) {
	rows, err := a.db.Query(`
		SELECT r.post_id, p.author_handle, p.text, r.permalink, r.reposted_at
		FROM reposts r
		JOIN posts p ON p.id = r.post_id
		ORDER BY r.reposted_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PostID, &e.AuthorHandle, &e.Text, &e.Permalink, &e.RepostedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
