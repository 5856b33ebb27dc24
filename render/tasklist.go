package render

// TaskID identifies a task added to a TaskList. IDs start at 1 each frame;
// zero is never assigned.
type TaskID uint64

// Task is a deferred unit of render work.
type Task func()

type taskEntry struct {
	id  TaskID
	run Task
}

// TaskList is a LIFO queue of render tasks. A node that needs the output
// of another adds its own task first and then asks its dependency to
// render, so executing in reverse insertion order renders dependencies
// before their dependents.
//
// The zero value is ready to use. TaskList is not safe for concurrent use.
type TaskList struct {
	tasks  []taskEntry
	lastID TaskID
}

// Add queues t and returns its id.
func (l *TaskList) Add(t Task) TaskID {
	l.lastID++
	l.tasks = append(l.tasks, taskEntry{id: l.lastID, run: t})
	return l.lastID
}

// Discard removes the task with the given id if it has not run yet.
// Unknown ids are ignored.
func (l *TaskList) Discard(id TaskID) {
	for i := len(l.tasks) - 1; i >= 0; i-- {
		if l.tasks[i].id == id {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			slogger().Debug("render task discarded", "id", uint64(id))
			return
		}
	}
}

// RunAll executes every queued task, last added first, then resets the
// list and the id counter. Tasks added while running are executed in the
// same pass, before the tasks queued ahead of them.
func (l *TaskList) RunAll() {
	n := 0
	for len(l.tasks) > 0 {
		last := len(l.tasks) - 1
		e := l.tasks[last]
		l.tasks[last] = taskEntry{}
		l.tasks = l.tasks[:last]
		if e.run != nil {
			e.run()
		}
		n++
	}
	l.tasks = l.tasks[:0]
	l.lastID = 0
	if n > 0 {
		slogger().Debug("render tasks executed", "count", n)
	}
}

// Len returns the number of queued tasks.
func (l *TaskList) Len() int { return len(l.tasks) }
