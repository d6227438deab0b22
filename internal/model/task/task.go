package task

// SubTask is a single checklist entry under a task.
type SubTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is a to-do item persisted under the "tasks" storage key.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	SubTasks  []SubTask `json:"subTasks"`
}
