package model_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/ytdlq/internal/model"
)

func TestTaskStatusIsTerminal(t *testing.T) {
	tests := map[string]struct {
		status model.TaskStatus
		exp    bool
	}{
		"Pending should not be terminal.":         {status: model.TaskStatusPending, exp: false},
		"Downloading should not be terminal.":     {status: model.TaskStatusDownloading, exp: false},
		"Completed should be terminal.":           {status: model.TaskStatusCompleted, exp: true},
		"Error should be terminal.":               {status: model.TaskStatusError, exp: true},
		"Cancelled should be terminal.":           {status: model.TaskStatusCancelled, exp: true},
		"Unknown statuses should not be terminal.": {status: model.TaskStatus("merging"), exp: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, test.status.IsTerminal())
		})
	}
}

func taskFixture(id string, status model.TaskStatus) model.Task {
	return model.Task{
		ID:        id,
		URL:       "https://youtu.be/" + id,
		Format:    model.FormatBest,
		CreatedAt: time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestInsertTask(t *testing.T) {
	tests := map[string]struct {
		tasks    func() []model.Task
		task     model.Task
		capacity int
		expIDs   []string
	}{
		"Inserting on an empty list should add the task.": {
			tasks:    func() []model.Task { return nil },
			task:     taskFixture("t1", model.TaskStatusPending),
			capacity: 10,
			expIDs:   []string{"t1"},
		},
		"Inserting should put the task at the front.": {
			tasks: func() []model.Task {
				return []model.Task{taskFixture("t2", model.TaskStatusPending), taskFixture("t1", model.TaskStatusPending)}
			},
			task:     taskFixture("t3", model.TaskStatusPending),
			capacity: 10,
			expIDs:   []string{"t3", "t2", "t1"},
		},
		"Inserting past capacity should evict the oldest even if it is not terminal.": {
			tasks: func() []model.Task {
				return []model.Task{
					taskFixture("t3", model.TaskStatusCompleted),
					taskFixture("t2", model.TaskStatusCompleted),
					taskFixture("t1", model.TaskStatusDownloading),
				}
			},
			task:     taskFixture("t4", model.TaskStatusPending),
			capacity: 3,
			expIDs:   []string{"t4", "t3", "t2"},
		},
		"Inserting a task with an existing ID should replace it.": {
			tasks: func() []model.Task {
				return []model.Task{taskFixture("t2", model.TaskStatusPending), taskFixture("t1", model.TaskStatusCompleted)}
			},
			task:     taskFixture("t1", model.TaskStatusPending),
			capacity: 10,
			expIDs:   []string{"t1", "t2"},
		},
		"Zero capacity should use the default capacity.": {
			tasks: func() []model.Task {
				var tasks []model.Task
				for i := 10; i > 0; i-- {
					tasks = append(tasks, taskFixture(fmt.Sprintf("t%d", i), model.TaskStatusPending))
				}
				return tasks
			},
			task:     taskFixture("t11", model.TaskStatusPending),
			capacity: 0,
			expIDs:   []string{"t11", "t10", "t9", "t8", "t7", "t6", "t5", "t4", "t3", "t2"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tasks := test.tasks()
			got := model.InsertTask(tasks, test.task, test.capacity)
			assert.Equal(t, test.expIDs, taskIDs(got))
		})
	}
}

func TestInsertTaskNeverExceedsCapacity(t *testing.T) {
	var tasks []model.Task
	for i := 1; i <= 25; i++ {
		tasks = model.InsertTask(tasks, taskFixture(fmt.Sprintf("t%d", i), model.TaskStatusPending), model.TaskStoreCapacity)
		require.LessOrEqual(t, len(tasks), model.TaskStoreCapacity)
		assert.Equal(t, fmt.Sprintf("t%d", i), tasks[0].ID)
	}

	assert.Equal(t, "t16", tasks[len(tasks)-1].ID)
}

func TestPendingTasks(t *testing.T) {
	tasks := []model.Task{
		taskFixture("t5", model.TaskStatusPending),
		taskFixture("t4", model.TaskStatusCompleted),
		taskFixture("t3", model.TaskStatusDownloading),
		taskFixture("t2", model.TaskStatusError),
		taskFixture("t1", model.TaskStatusCancelled),
	}

	assert.Equal(t, []string{"t5", "t3"}, taskIDs(model.PendingTasks(tasks)))
	assert.Empty(t, model.PendingTasks(nil))
}

func TestFindTask(t *testing.T) {
	tasks := []model.Task{taskFixture("t2", model.TaskStatusPending), taskFixture("t1", model.TaskStatusPending)}

	assert.Equal(t, 1, model.FindTask(tasks, "t1"))
	assert.Equal(t, -1, model.FindTask(tasks, "missing"))
}

func TestTaskCopy(t *testing.T) {
	msg := "downloading 10%"
	task := taskFixture("t1", model.TaskStatusDownloading)
	task.Message = &msg

	cp := task.Copy()
	*cp.Message = "changed"

	assert.Equal(t, "downloading 10%", *task.Message)
	assert.Nil(t, cp.FilePath)
}
