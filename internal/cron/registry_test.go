package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	first := &stubJob{name: "low-stock-scan"}
	second := &stubJob{name: "digest"}

	registry := NewRegistry()
	registry.Register(first)
	registry.Register(second)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != first || jobs[1] != second {
		t.Fatal("jobs returned out of order")
	}

	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatal("internal slice leaked")
	}
}

func TestRegistryDropsDuplicateNames(t *testing.T) {
	registry := NewRegistry(
		&stubJob{name: "low-stock-scan"},
		&stubJob{name: "low-stock-scan"},
		nil,
	)
	if got := len(registry.Jobs()); got != 1 {
		t.Fatalf("expected duplicate job name to be dropped, got %d jobs", got)
	}
}
