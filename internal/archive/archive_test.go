package archive

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coroproject/corobot/internal/types"
)

func testPost(id int64, text string) types.Post {
	return types.Post{
		ID:           id,
		AuthorHandle: "Aomishibi",
		AuthorName:   "青海しび",
		Text:         text,
		Hashtags:     []string{"CORO配信"},
		URLs:         []string{"https://www.twitch.tv/aomishibi"},
		PostedAt:     time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
		FetchedAt:    time.Date(2025, 6, 1, 20, 5, 0, 0, time.UTC),
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "corobot.db")

	a, err := Open(path)
	require.NoError(t, err)
	defer a.Close()

	assert.FileExists(t, path)
}

func TestRecentEmpty(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "corobot.db"))
	require.NoError(t, err)
	defer a.Close()

	entries, err := a.Recent(20)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordAndRecent(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "corobot.db"))
	require.NoError(t, err)
	defer a.Close()

	first := testPost(101, "配信はじまるよ")
	second := testPost(102, "次の配信は20時から")
	skipped := testPost(103, "今日のごはん")

	require.NoError(t, a.RecordPost(first, true))
	require.NoError(t, a.RecordPost(second, true))
	require.NoError(t, a.RecordPost(skipped, false))

	require.NoError(t, a.RecordRepost(101, "https://x.com/Aomishibi/status/101"))
	require.NoError(t, a.RecordRepost(102, "https://x.com/Aomishibi/status/102"))

	entries, err := a.Recent(20)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, int64(102), entries[0].PostID)
	assert.Equal(t, int64(101), entries[1].PostID)
	assert.Equal(t, "次の配信は20時から", entries[0].Text)
	assert.Equal(t, "Aomishibi", entries[0].AuthorHandle)
	assert.Equal(t, "https://x.com/Aomishibi/status/102", entries[0].Permalink)
	assert.False(t, entries[0].RepostedAt.IsZero())
}

func TestRecentLimit(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "corobot.db"))
	require.NoError(t, err)
	defer a.Close()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, a.RecordPost(testPost(i, "配信はじまるよ"), true))
		require.NoError(t, a.RecordRepost(i, "https://x.com/Aomishibi/status/1"))
	}

	entries, err := a.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecordPostUpsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corobot.db")
	a, err := Open(path)
	require.NoError(t, err)
	defer a.Close()

	p := testPost(7, "そろそろスタート")
	require.NoError(t, a.RecordPost(p, false))
	require.NoError(t, a.RecordPost(p, true))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count))
	assert.Equal(t, 1, count)

	var matched bool
	require.NoError(t, db.QueryRow(`SELECT matched FROM posts WHERE id = 7`).Scan(&matched))
	assert.True(t, matched)
}

func TestRecordRepostIdempotent(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "corobot.db"))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.RecordPost(testPost(9, "配信はじまるよ"), true))
	require.NoError(t, a.RecordRepost(9, "https://x.com/Aomishibi/status/9"))
	require.NoError(t, a.RecordRepost(9, "https://x.com/Aomishibi/status/9"))

	entries, err := a.Recent(20)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
