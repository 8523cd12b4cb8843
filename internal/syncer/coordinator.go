package syncer

import (
	"context"
	"errors"
	"sync"

	"github.com/dkarpov/papersync/internal/common"
	"github.com/dkarpov/papersync/internal/logging"
	"github.com/dkarpov/papersync/internal/models"
	"github.com/dkarpov/papersync/internal/remote"
	"github.com/dkarpov/papersync/internal/repositories/documents"
)

// DefaultMaxDeleteAttempts bounds remote delete retries for a tombstone.
// After this many failures the coordinator gives up on the record and
// reports it once at error level; the tombstone stays local so the pull
// phase cannot resurrect the document.
const DefaultMaxDeleteAttempts = 5

// Connectivity reports current reachability. connectivity.Monitor
// satisfies this.
type Connectivity interface {
	Current() bool
}

// ChangeNotifier emits reachability transitions. connectivity.Monitor
// satisfies this.
type ChangeNotifier interface {
	OnChange(fn func(online bool))
}

// Coordinator reconciles the local store with the remote service. At most
// one sync pass runs at a time; triggers arriving mid-pass are absorbed,
// not queued.
type Coordinator struct {
	repo              documents.Repository
	client            remote.Client
	conn              Connectivity
	log               logging.Logger
	maxDeleteAttempts int

	mu      sync.Mutex
	cond    *sync.Cond
	running bool
	waiters []func()
}

// NewCoordinator wires a coordinator. maxDeleteAttempts <= 0 selects
// DefaultMaxDeleteAttempts.
func NewCoordinator(repo documents.Repository, client remote.Client, conn Connectivity, log logging.Logger, maxDeleteAttempts int) *Coordinator {
	if maxDeleteAttempts <= 0 {
		maxDeleteAttempts = DefaultMaxDeleteAttempts
	}
	c := &Coordinator{
		repo:              repo,
		client:            client,
		conn:              conn,
		log:               log.With("component", "syncer"),
		maxDeleteAttempts: maxDeleteAttempts,
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Subscribe registers the coordinator's trigger for the offline→online
// transition.
func (c *Coordinator) Subscribe(n ChangeNotifier) {
	n.OnChange(func(online bool) {
		if online {
			c.RequestSync(nil)
		}
	})
}

// RequestSync triggers a sync pass. Fire-and-forget: the pass runs on its
// own goroutine. onComplete (nil allowed) fires once the pass that covers
// this trigger returns to idle; it also fires immediately when the trigger
// is dropped because the client is offline, so callers waiting on a
// spinner always unblock.
func (c *Coordinator) RequestSync(onComplete func()) {
	c.mu.Lock()
	if c.running {
		// a pass is in flight; it re-reads pending state, so this trigger
		// is absorbed rather than queued
		if onComplete != nil {
			c.waiters = append(c.waiters, onComplete)
		}
		c.mu.Unlock()
		return
	}
	if !c.conn.Current() {
		c.mu.Unlock()
		c.log.Debug(context.Background(), "sync trigger dropped: offline")
		if onComplete != nil {
			onComplete()
		}
		return
	}
	c.running = true
	if onComplete != nil {
		c.waiters = append(c.waiters, onComplete)
	}
	c.mu.Unlock()

	go c.runPass(context.Background())
}

// Wait blocks until no sync pass is in flight. Used on shutdown.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	for c.running {
		c.cond.Wait()
	}
	c.mu.Unlock()
}

func (c *Coordinator) finish() {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.running = false
	c.cond.Broadcast()
	c.mu.Unlock()

	for _, fn := range waiters {
		fn()
	}
}

// runPass executes one full pass: creates, updates, deletes, then pull.
// Per-record failures are logged and left pending for the next pass; the
// pass itself always returns to idle.
func (c *Coordinator) runPass(ctx context.Context) {
	defer c.finish()

	c.log.Info(ctx, "sync pass started")
	created := c.pushCreates(ctx)
	updated := c.pushUpdates(ctx)
	deleted := c.pushDeletes(ctx)
	pulled := c.pull(ctx)
	c.log.Info(ctx, "sync pass finished",
		"created", created, "updated", updated, "deleted", deleted, "pulled", pulled)
}

func (c *Coordinator) pushCreates(ctx context.Context) int {
	docs, err := c.repo.ListPending(ctx, models.SyncStateNeedsCreate)
	if err != nil {
		c.log.Error(ctx, "failed to list pending creates", "error", err)
		return 0
	}

	n := 0
	for i := range docs {
		doc := &docs[i]
		dto, err := c.client.Create(ctx, doc.ToDTO())
		if err != nil {
			c.log.Warn(ctx, "create push failed", "id", doc.ID, "error", err)
			continue
		}

		synced := models.FromDTO(*dto, models.SyncStateSynced)
		// the response is authoritative, but fill in anything the server
		// left empty from what we sent
		if synced.ID == "" {
			synced.ID = doc.ID
		}
		if synced.CreatedAt.IsZero() {
			synced.CreatedAt = doc.CreatedAt
		}
		if synced.UpdatedAt.IsZero() {
			synced.UpdatedAt = doc.UpdatedAt
		}
		if err := c.repo.Upsert(ctx, synced); err != nil {
			c.log.Error(ctx, "failed to mark document synced", "id", doc.ID, "error", err)
			continue
		}
		n++
	}
	return n
}

func (c *Coordinator) pushUpdates(ctx context.Context) int {
	docs, err := c.repo.ListPending(ctx, models.SyncStateNeedsUpdate)
	if err != nil {
		c.log.Error(ctx, "failed to list pending updates", "error", err)
		return 0
	}

	n := 0
	for i := range docs {
		doc := &docs[i]
		dto, err := c.client.Update(ctx, doc.ID, doc.ToDTO())
		if err != nil {
			c.log.Warn(ctx, "update push failed", "id", doc.ID, "error", err)
			continue
		}

		doc.SyncState = models.SyncStateSynced
		if !dto.UpdatedAt.IsZero() {
			doc.UpdatedAt = dto.UpdatedAt.UTC()
		}
		if err := c.repo.Upsert(ctx, doc); err != nil {
			c.log.Error(ctx, "failed to mark document synced", "id", doc.ID, "error", err)
			continue
		}
		n++
	}
	return n
}

func (c *Coordinator) pushDeletes(ctx context.Context) int {
	docs, err := c.repo.ListPending(ctx, models.SyncStateNeedsDelete)
	if err != nil {
		c.log.Error(ctx, "failed to list pending deletes", "error", err)
		return 0
	}

	n := 0
	for i := range docs {
		doc := &docs[i]
		if doc.DeleteAttempts >= c.maxDeleteAttempts {
			// already gave up on this tombstone
			continue
		}

		err := c.client.Delete(ctx, doc.ID)
		var se *remote.StatusError
		if err != nil && !(errors.As(err, &se) && se.NotFound()) {
			c.log.Warn(ctx, "delete push failed", "id", doc.ID, "error", err)
			attempts, aerr := c.repo.IncrementDeleteAttempts(ctx, doc.ID)
			if aerr != nil {
				c.log.Error(ctx, "failed to record delete attempt", "id", doc.ID, "error", aerr)
				continue
			}
			if attempts >= c.maxDeleteAttempts {
				c.log.Error(ctx, "giving up on remote delete", "id", doc.ID, "attempts", attempts)
			}
			continue
		}

		// success, or the server already deleted it (404)
		if err := c.repo.Delete(ctx, doc.ID); err != nil {
			c.log.Error(ctx, "failed to drop tombstone", "id", doc.ID, "error", err)
			continue
		}
		n++
	}
	return n
}

// pull merges remote state into the local store. Local pending intent
// always wins; for synced records the newer UpdatedAt wins.
func (c *Coordinator) pull(ctx context.Context) int {
	dtos, err := c.client.List(ctx)
	if err != nil {
		c.log.Warn(ctx, "pull failed", "error", err)
		return 0
	}

	n := 0
	for _, dto := range dtos {
		local, err := c.repo.Find(ctx, dto.ID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			if err := c.repo.Upsert(ctx, models.FromDTO(dto, models.SyncStateSynced)); err != nil {
				c.log.Error(ctx, "failed to store pulled document", "id", dto.ID, "error", err)
				continue
			}
			n++
		case err != nil:
			c.log.Error(ctx, "failed to read local document", "id", dto.ID, "error", err)
		case local.SyncState.Pending():
			// unresolved local intent wins over any concurrent remote read
		case dto.UpdatedAt.After(local.UpdatedAt):
			if err := c.repo.Upsert(ctx, models.FromDTO(dto, models.SyncStateSynced)); err != nil {
				c.log.Error(ctx, "failed to apply remote update", "id", dto.ID, "error", err)
				continue
			}
			n++
		}
	}
	return n
}
