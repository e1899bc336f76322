package cron

import "context"

// Job is a unit of scheduled work executed during a scan cycle.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes each cycle, in registration
// order. Names are unique; registering a second job under an existing name
// is a no-op so a job can never run twice in one cycle.
type Registry struct {
	jobs  []Job
	names map[string]struct{}
}

// NewRegistry builds a registry preloaded with the provided jobs.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{names: map[string]struct{}{}}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register adds a job unless one with the same name is already present.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	if _, exists := r.names[job.Name()]; exists {
		return
	}
	r.names[job.Name()] = struct{}{}
	r.jobs = append(r.jobs, job)
}

// Jobs returns a copy of the registered jobs in registration order.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
