// Package app wires the gossip engine into a running service: a supervisor
// owning the live instance set, a worker pool serializing hops per instance,
// and a sweep loop that archives gossip nobody cares about anymore.
package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	mrand "math/rand"
	"sync"
	"time"

	apperrors "github.com/louisbranch/rumormill/internal/platform/errors"
	"github.com/louisbranch/rumormill/internal/random"
	"github.com/louisbranch/rumormill/internal/services/gossip/catalog"
	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
	"github.com/louisbranch/rumormill/internal/services/gossip/propagation"
	"github.com/louisbranch/rumormill/internal/services/gossip/storage"
)

const (
	defaultWorkerCount = 4
	taskQueueDepth     = 64

	// ReasonRetired marks instances retired by an explicit request.
	ReasonRetired = "retired"
	// ReasonInterestDecayed marks instances archived by the sweep loop.
	ReasonInterestDecayed = "interest_decayed"
)

type taskKind int

const (
	taskHop taskKind = iota
	taskRetire
)

type task struct {
	kind       taskKind
	instanceID string
	hop        string
	reason     string
}

type worker struct {
	tasks chan task
	rng   *mrand.Rand
}

// Supervisor owns the live gossip instance set. Every mutation of one
// instance routes to the same worker, so hops for a given instance apply
// in delivery order.
type Supervisor struct {
	catalog   *catalog.Catalog
	engine    *propagation.Engine
	scheduler *propagation.Scheduler
	store     storage.ArchiveStore
	instancer *domain.Instancer
	now       func() time.Time

	workers []*worker
	wg      sync.WaitGroup
	// sending counts dispatches between their closed check and the channel
	// send, so Close never closes a channel under an in-flight send.
	sending sync.WaitGroup

	mu        sync.Mutex
	instances map[string]*domain.Instance
	spawnRNG  *mrand.Rand
	closed    bool
}

// SupervisorConfig controls supervisor construction.
type SupervisorConfig struct {
	Catalog *catalog.Catalog
	Store   storage.ArchiveStore
	// Workers is the hop worker count. Non-positive means the default.
	Workers int
	// Seed makes hop randomness reproducible. Zero draws a fresh seed.
	Seed int64
	// PerHopRate overrides the truth decay rate. Zero means the default.
	PerHopRate float64
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewSupervisor builds a supervisor and starts its worker pool.
func NewSupervisor(cfg SupervisorConfig) (*Supervisor, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("archive store is required")
	}
	workerCount := cfg.Workers
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	var engineOpts []propagation.Option
	if cfg.PerHopRate > 0 {
		engineOpts = append(engineOpts, propagation.WithPerHopRate(cfg.PerHopRate))
	}

	spawnRNG, baseSeed, err := random.NewSeededRNG(cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("seed supervisor rng: %w", err)
	}

	s := &Supervisor{
		catalog:   cfg.Catalog,
		engine:    propagation.NewEngine(cfg.Catalog, engineOpts...),
		scheduler: propagation.NewScheduler(cfg.Catalog),
		store:     cfg.Store,
		instancer: domain.NewInstancer(now, nil),
		now:       now,
		instances: make(map[string]*domain.Instance),
		spawnRNG:  spawnRNG,
	}

	s.workers = make([]*worker, workerCount)
	for i := range s.workers {
		rng, _, err := random.NewSeededRNG(baseSeed + int64(i) + 1)
		if err != nil {
			return nil, fmt.Errorf("seed worker rng: %w", err)
		}
		w := &worker{tasks: make(chan task, taskQueueDepth), rng: rng}
		s.workers[i] = w
		s.wg.Add(1)
		go s.runWorker(w)
	}
	return s, nil
}

// Close drains the worker pool. Pending tasks finish before Close returns.
func (s *Supervisor) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.sending.Wait()
	for _, w := range s.workers {
		close(w.tasks)
	}
	s.wg.Wait()
}

// Spawn instantiates a template and adds the result to the live set.
func (s *Supervisor) Spawn(templateID string) (propagation.Snapshot, error) {
	tmpl, ok := s.catalog.Template(templateID)
	if !ok {
		return propagation.Snapshot{}, apperrors.New(
			apperrors.CodeCatalogTemplateNotFound,
			fmt.Sprintf("template %q is not in the catalog", templateID),
		)
	}
	refs, _ := s.catalog.Refs(templateID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return propagation.Snapshot{}, fmt.Errorf("supervisor is closed")
	}
	inst, err := s.instancer.Instantiate(tmpl, refs, s.spawnRNG)
	if err != nil {
		return propagation.Snapshot{}, fmt.Errorf("instantiate template %q: %w", templateID, err)
	}
	s.instances[inst.ID] = inst
	return propagation.SnapshotOf(inst), nil
}

// SpawnForEvent instantiates every template triggered by the event.
func (s *Supervisor) SpawnForEvent(eventID string) ([]propagation.Snapshot, error) {
	templates := s.catalog.ByTriggerEvent(eventID)
	snapshots := make([]propagation.Snapshot, 0, len(templates))
	for _, tmpl := range templates {
		snap, err := s.Spawn(tmpl.ID)
		if err != nil {
			return snapshots, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Deliver queues one retelling hop for the instance. The hop label records
// where the retelling happened and lands in the instance provenance.
func (s *Supervisor) Deliver(instanceID, hop string) error {
	return s.dispatch(task{kind: taskHop, instanceID: instanceID, hop: hop})
}

// Retire queues a terminal transition for the instance. Once the queued
// task runs, the instance is archived and leaves the live set.
func (s *Supervisor) Retire(instanceID, reason string) error {
	if reason == "" {
		reason = ReasonRetired
	}
	return s.dispatch(task{kind: taskRetire, instanceID: instanceID, reason: reason})
}

func (s *Supervisor) dispatch(t task) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("supervisor is closed")
	}
	if _, ok := s.instances[t.instanceID]; !ok {
		s.mu.Unlock()
		return apperrors.New(
			apperrors.CodeInstanceNotFound,
			fmt.Sprintf("instance %q is not live", t.instanceID),
		)
	}
	s.sending.Add(1)
	s.mu.Unlock()
	defer s.sending.Done()

	s.workers[s.route(t.instanceID)].tasks <- t
	return nil
}

func (s *Supervisor) route(instanceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(instanceID))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Supervisor) runWorker(w *worker) {
	defer s.wg.Done()
	for t := range w.tasks {
		switch t.kind {
		case taskHop:
			s.applyHop(t, w.rng)
		case taskRetire:
			s.applyRetire(t)
		}
	}
}

func (s *Supervisor) applyHop(t task, rng *mrand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[t.instanceID]
	if !ok {
		return
	}
	if err := s.engine.Propagate(inst, t.hop, rng); err != nil {
		log.Printf("propagate instance %s: %v", t.instanceID, err)
	}
}

func (s *Supervisor) applyRetire(t task) {
	s.mu.Lock()
	inst, ok := s.instances[t.instanceID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if !inst.Status.Terminal() {
		if err := s.engine.Retire(inst); err != nil {
			s.mu.Unlock()
			log.Printf("retire instance %s: %v", t.instanceID, err)
			return
		}
	}
	delete(s.instances, t.instanceID)
	s.mu.Unlock()

	s.archive(inst, t.reason)
}

func (s *Supervisor) archive(inst *domain.Instance, reason string) {
	record := storage.ArchiveRecord{
		InstanceID: inst.ID,
		TemplateID: inst.TemplateID,
		Text:       inst.Text,
		Truth:      inst.Truth,
		Retellings: inst.Retellings,
		Provenance: append([]string(nil), inst.Provenance...),
		Status:     string(inst.Status),
		Reason:     reason,
		CreatedAt:  inst.CreatedAt,
		ArchivedAt: s.now().UTC(),
	}
	if tmpl, ok := s.catalog.Template(inst.TemplateID); ok {
		record.Category = string(tmpl.Category)
		record.Tone = string(tmpl.Tone)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.ArchiveInstance(ctx, record); err != nil {
		log.Printf("archive instance %s: %v", inst.ID, err)
	}
}

// Sweep marks live instances whose interest window has lapsed as stale and
// archives them. It returns the number of instances swept.
func (s *Supervisor) Sweep(now time.Time) int {
	s.mu.Lock()
	var expired []*domain.Instance
	for _, inst := range s.instances {
		if inst.Status.Terminal() {
			continue
		}
		if s.scheduler.IsStale(inst, now) {
			expired = append(expired, inst)
		}
	}
	for _, inst := range expired {
		if err := s.engine.MarkStale(inst); err != nil {
			log.Printf("mark instance %s stale: %v", inst.ID, err)
			continue
		}
		delete(s.instances, inst.ID)
	}
	s.mu.Unlock()

	for _, inst := range expired {
		s.archive(inst, ReasonInterestDecayed)
	}
	return len(expired)
}

// Snapshot returns the current state of one live instance.
func (s *Supervisor) Snapshot(instanceID string) (propagation.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[instanceID]
	if !ok {
		return propagation.Snapshot{}, apperrors.New(
			apperrors.CodeInstanceNotFound,
			fmt.Sprintf("instance %q is not live", instanceID),
		)
	}
	return propagation.SnapshotOf(inst), nil
}

// Snapshots returns the current state of every live instance.
func (s *Supervisor) Snapshots() []propagation.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshots := make([]propagation.Snapshot, 0, len(s.instances))
	for _, inst := range s.instances {
		snapshots = append(snapshots, propagation.SnapshotOf(inst))
	}
	return snapshots
}

// LiveCount reports how many instances are currently live.
func (s *Supervisor) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}
