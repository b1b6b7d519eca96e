// Package committer collects Spanner mutations into a single atomic commit.
//
// The flow mirrors the write path everywhere in this service:
//
//	// 1. Repositories return mutations, they don't apply them
//	plan := committer.NewPlan()
//	plan.Add(orderRepo.InsertMut(order))
//	plan.Add(outboxRepo.InsertMut(entry))
//
//	// 2. The usecase applies the plan atomically
//	return comm.Apply(ctx, plan)
//
// Either every mutation in the plan commits or none does, which is what
// keeps an order row and its outbox entry from ever existing without
// each other.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan is a typed collection of Spanner mutations applied as one commit.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Applier executes CommitPlans. Usecases depend on this interface so
// tests can substitute an in-memory implementation.
type Applier interface {
	Apply(ctx context.Context, plan *CommitPlan) error
}

// Committer is the Spanner-backed Applier.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically within a single Spanner commit.
// The returned error is the raw Spanner error so callers can classify it
// with spanner.ErrCode.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.Apply(ctx, plan.Mutations())
	return err
}

// ApplyWithReadWriteTransaction runs fn inside a read-write transaction.
// Used where mutations depend on reads performed under the same lock,
// e.g. claiming outbox entries.
func (c *Committer) ApplyWithReadWriteTransaction(ctx context.Context, fn func(context.Context, *spanner.ReadWriteTransaction) error) error {
	_, err := c.client.ReadWriteTransaction(ctx, fn)
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
