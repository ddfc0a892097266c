package ytdlq_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intytdlq "github.com/slok/ytdlq/test/integration/ytdlq"
)

type taskJSON struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
}

func listTasks(ctx context.Context, t *testing.T, env *intytdlq.Env, cmd string) []taskJSON {
	t.Helper()

	stdout, stderr, err := env.Run(ctx, cmd, "--format", "json")
	require.NoError(t, err, "stderr: %s", stderr)

	var tasks []taskJSON
	require.NoError(t, json.Unmarshal(stdout, &tasks))
	return tasks
}

func TestIntegrationSubmitAndWatch(t *testing.T) {
	config := intytdlq.NewConfig(t)
	env := intytdlq.NewEnv(t, config)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	_, stderr, err := env.Run(ctx, "submit", env.VideoURL(), "--format", "720p")
	require.NoError(t, err, "stderr: %s", stderr)

	tasks := listTasks(ctx, t, env, "list")
	require.Len(t, tasks, 1)
	assert.Equal(t, env.VideoURL(), tasks[0].URL)

	_, stderr, err = env.Run(ctx, "watch", "--interval", "1s", "--exit-when-done", "--format", "json")
	require.NoError(t, err, "stderr: %s", stderr)

	tasks = listTasks(ctx, t, env, "list")
	require.Len(t, tasks, 1)
	assert.Equal(t, "completed", tasks[0].Status)
	assert.NotEmpty(t, tasks[0].FilePath)
}

func TestIntegrationCancelAndClear(t *testing.T) {
	config := intytdlq.NewConfig(t)
	env := intytdlq.NewEnv(t, config)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	_, stderr, err := env.Run(ctx, "submit", env.VideoURL())
	require.NoError(t, err, "stderr: %s", stderr)

	tasks := listTasks(ctx, t, env, "list")
	require.Len(t, tasks, 1)

	_, stderr, err = env.Run(ctx, "cancel", tasks[0].ID)
	require.NoError(t, err, "stderr: %s", stderr)

	tasks = listTasks(ctx, t, env, "reconcile")
	require.Len(t, tasks, 1)
	assert.Equal(t, "cancelled", tasks[0].Status)
	assert.Equal(t, "Cancelled by user", tasks[0].Message)

	_, stderr, err = env.Run(ctx, "clear", "--yes")
	require.NoError(t, err, "stderr: %s", stderr)

	tasks = listTasks(ctx, t, env, "list")
	assert.Empty(t, tasks)
}

func TestIntegrationSubmitInvalidURL(t *testing.T) {
	config := intytdlq.NewConfig(t)
	env := intytdlq.NewEnv(t, config)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, _, err := env.Run(ctx, "submit", "https://example.com/not-a-video")
	require.Error(t, err)

	tasks := listTasks(ctx, t, env, "list")
	assert.Empty(t, tasks)
}
