package model

// TaskStoreCapacity is the number of tasks kept in the task store.
const TaskStoreCapacity = 10

// InsertTask returns a new task list with t at the front. A stored task with the same ID
// is replaced, and the oldest tasks are evicted when the list grows past capacity,
// regardless of their status.
// Tasks are kept newest first so the oldest inserted task is always the last one.
func InsertTask(tasks []Task, t Task, capacity int) []Task {
	if capacity <= 0 {
		capacity = TaskStoreCapacity
	}

	res := make([]Task, 0, len(tasks)+1)
	res = append(res, t)
	for _, tt := range tasks {
		if tt.ID == t.ID {
			continue
		}
		res = append(res, tt)
	}

	if len(res) > capacity {
		res = res[:capacity]
	}

	return res
}

// FindTask returns the index of the task with the ID, or -1 if missing.
func FindTask(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// PendingTasks returns the tasks that are not in a terminal status, keeping the order.
func PendingTasks(tasks []Task) []Task {
	pending := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Status.IsTerminal() {
			pending = append(pending, t)
		}
	}
	return pending
}

// CopyTasks returns a deep copy of the task list.
func CopyTasks(tasks []Task) []Task {
	res := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, t.Copy())
	}
	return res
}

// Copy returns a copy of the task that doesn't share optional fields.
func (t Task) Copy() Task {
	if t.Message != nil {
		m := *t.Message
		t.Message = &m
	}
	if t.FilePath != nil {
		f := *t.FilePath
		t.FilePath = &f
	}
	return t
}
