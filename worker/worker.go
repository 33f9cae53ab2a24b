package worker

type worker struct {
	id       int
	jobQueue <-chan ITask
	quit     <-chan struct{}
}

func newWorker(id int, jobQueue <-chan ITask, quit <-chan struct{}) *worker {
	return &worker{
		id:       id,
		jobQueue: jobQueue,
		quit:     quit,
	}
}

func (w *worker) run() {
	for {
		select {
		case job := <-w.jobQueue:
			job.Invoke()
		case <-w.quit:
			return
		}
	}
}
