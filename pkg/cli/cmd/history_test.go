package cmd_test

import (
	"testing"
	"time"

	"github.com/devantler-tech/apidelta/pkg/io/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Empty(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")

	result := env.run(t, "", "history")

	require.NoError(t, result.err)
	assert.Empty(t, result.stdout)
	assert.Contains(t, result.stderr, "no requests sent yet")
}

func TestHistoryCmd_ListsNewestFirst(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	store := history.NewStore(env.historyPath, 0)
	sentAt := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)

	_, err := store.Add(history.Entry{Method: "GET", URL: "/users", SentAt: sentAt})
	require.NoError(t, err)
	_, err = store.Add(history.Entry{Method: "POST", URL: "/users", SentAt: sentAt.Add(time.Minute)})
	require.NoError(t, err)

	result := env.run(t, "", "history")

	require.NoError(t, result.err)
	assert.Equal(t,
		"POST   /users  2025-08-17T10:01:00Z\nGET    /users  2025-08-17T10:00:00Z\n",
		result.stdout,
	)
}

func TestHistoryCmd_Clear(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	store := history.NewStore(env.historyPath, 0)

	_, err := store.Add(history.Entry{Method: "GET", URL: "/users", SentAt: time.Now().UTC()})
	require.NoError(t, err)

	result := env.run(t, "", "history", "--clear")

	require.NoError(t, result.err)
	assert.Contains(t, result.stderr, "request history cleared")

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryCmd_RespectsLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "historyLimit: 2\n")
	service := newFakeService(t, respond(200, `{"code":0,"message":"ok"}`))

	for _, path := range []string{"/a", "/b", "/c"} {
		args := append(service.baseURLArgs(), "send", "GET", path)
		require.NoError(t, env.run(t, "", args...).err)
	}

	result := env.run(t, "", "history")

	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "/c")
	assert.Contains(t, result.stdout, "/b")
	assert.NotContains(t, result.stdout, "/a")
}
