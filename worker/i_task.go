package worker

// ITask is interface of the object for tasks list
type ITask interface {
	// Invoke task
	Invoke()
}

// TaskFunc is an adapter to use ordinary functions as tasks
type TaskFunc func()

// Invoke calls f()
func (f TaskFunc) Invoke() {
	f()
}
