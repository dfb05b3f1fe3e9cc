package workers

// Workers aggregates background workers and starts them as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers collects the given workers into an aggregate.
func NewWorkers(w ...Worker) *Workers {
	return &Workers{workers: w}
}

// Run starts every registered worker.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
