package stage

// TaskQueue holds work deferred until the current update has finished.
// Tasks run in FIFO order on the goroutine that calls Drain.
type TaskQueue struct {
	tasks []func()
}

// NewTaskQueue creates an empty queue
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// Defer schedules fn for the next Drain
func (q *TaskQueue) Defer(fn func()) {
	if fn != nil {
		q.tasks = append(q.tasks, fn)
	}
}

// Pending returns the number of queued tasks
func (q *TaskQueue) Pending() int {
	return len(q.tasks)
}

// Drain runs the tasks queued so far. Tasks deferred while draining wait for the next Drain.
// It returns the number of tasks run.
func (q *TaskQueue) Drain() int {
	tasks := q.tasks
	q.tasks = nil
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}
