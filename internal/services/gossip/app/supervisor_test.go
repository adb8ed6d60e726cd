package app

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/rumormill/internal/services/gossip/assets"
	"github.com/louisbranch/rumormill/internal/services/gossip/catalog"
	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
	"github.com/louisbranch/rumormill/internal/services/gossip/storage"
)

type memArchiveStore struct {
	mu      sync.Mutex
	records map[string]storage.ArchiveRecord
}

func newMemArchiveStore() *memArchiveStore {
	return &memArchiveStore{records: make(map[string]storage.ArchiveRecord)}
}

func (m *memArchiveStore) ArchiveInstance(_ context.Context, record storage.ArchiveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.InstanceID]; ok {
		return storage.ErrConflict
	}
	m.records[record.InstanceID] = record
	return nil
}

func (m *memArchiveStore) GetArchived(_ context.Context, instanceID string) (storage.ArchiveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[instanceID]
	if !ok {
		return storage.ArchiveRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (m *memArchiveStore) ListArchived(_ context.Context, _ storage.ListArchivedQuery) ([]storage.ArchiveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]storage.ArchiveRecord, 0, len(m.records))
	for _, record := range m.records {
		records = append(records, record)
	}
	return records, nil
}

func (m *memArchiveStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	templates := []domain.Template{
		{
			ID:            "tavern-debt",
			Category:      domain.CategoryBusiness,
			Tone:          domain.ToneRumor,
			Text:          "{NPC} owes money all over town",
			Variables:     []string{"NPC"},
			SpreadRate:    5,
			TruthValue:    0.8,
			InterestDecay: time.Hour,
			TriggerEvents: []string{"debt_called"},
		},
		{
			ID:            "tavern-ghost",
			Category:      domain.CategorySupernatural,
			Tone:          domain.ToneWarning,
			Text:          "something walks the halls of {PLACE} at night",
			Variables:     []string{"PLACE"},
			SpreadRate:    3,
			TruthValue:    0.2,
			InterestDecay: 24 * time.Hour,
		},
	}
	pools := domain.Pools{
		"NPC":   {"Garrick", "Petra"},
		"PLACE": {"the tavern", "the mill"},
	}
	cat, warnings, err := catalog.New(templates, pools)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	return cat
}

func newTestSupervisor(t *testing.T, store storage.ArchiveStore, cfg SupervisorConfig) *Supervisor {
	t.Helper()
	if cfg.Catalog == nil {
		cfg.Catalog = testCatalog(t)
	}
	cfg.Store = store
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	supervisor, err := NewSupervisor(cfg)
	if err != nil {
		t.Fatalf("NewSupervisor() error = %v", err)
	}
	return supervisor
}

func TestSupervisorSpawnAndDeliver(t *testing.T) {
	store := newMemArchiveStore()
	supervisor := newTestSupervisor(t, store, SupervisorConfig{})

	snap, err := supervisor.Spawn("tavern-debt")
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if snap.Status != domain.StatusFresh {
		t.Errorf("spawned status = %q, want %q", snap.Status, domain.StatusFresh)
	}
	if snap.Truth != 0.8 {
		t.Errorf("spawned truth = %v, want 0.8", snap.Truth)
	}

	for _, hop := range []string{"market", "docks", "chapel"} {
		if err := supervisor.Deliver(snap.ID, hop); err != nil {
			t.Fatalf("Deliver(%s) error = %v", hop, err)
		}
	}
	supervisor.Close()

	got, err := supervisor.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if got.Retellings != 3 {
		t.Errorf("retellings = %d, want 3", got.Retellings)
	}
	want := 0.8 * 0.9 * 0.9 * 0.9
	if math.Abs(got.Truth-want) > 1e-9 {
		t.Errorf("truth = %v, want %v", got.Truth, want)
	}
	if len(got.Provenance) != 3 || got.Provenance[0] != "market" {
		t.Errorf("provenance = %v, want hops in delivery order", got.Provenance)
	}
	if got.Status != domain.StatusSpreading {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusSpreading)
	}
	if store.count() != 0 {
		t.Errorf("archive has %d records, want none before retirement", store.count())
	}
}

func TestSupervisorSpawnUnknownTemplate(t *testing.T) {
	supervisor := newTestSupervisor(t, newMemArchiveStore(), SupervisorConfig{})
	defer supervisor.Close()

	if _, err := supervisor.Spawn("no-such-template"); err == nil {
		t.Error("Spawn() accepted an unknown template")
	}
}

func TestSupervisorDeliverUnknownInstance(t *testing.T) {
	supervisor := newTestSupervisor(t, newMemArchiveStore(), SupervisorConfig{})
	defer supervisor.Close()

	if err := supervisor.Deliver("no-such-instance", "market"); err == nil {
		t.Error("Deliver() accepted an unknown instance")
	}
}

func TestSupervisorDeliverDuringClose(t *testing.T) {
	supervisor := newTestSupervisor(t, newMemArchiveStore(), SupervisorConfig{Workers: 2})

	snap, err := supervisor.Spawn("tavern-debt")
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 200; j++ {
				// Deliveries racing Close either queue or report the
				// supervisor closed. Neither outcome may panic.
				if err := supervisor.Deliver(snap.ID, "market"); err != nil {
					return
				}
			}
		}()
	}
	close(start)
	supervisor.Close()
	wg.Wait()

	if err := supervisor.Deliver(snap.ID, "market"); err == nil {
		t.Error("Deliver() accepted a hop after Close()")
	}
}

func TestSupervisorRetireArchives(t *testing.T) {
	store := newMemArchiveStore()
	supervisor := newTestSupervisor(t, store, SupervisorConfig{})

	snap, err := supervisor.Spawn("tavern-debt")
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if err := supervisor.Deliver(snap.ID, "market"); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if err := supervisor.Retire(snap.ID, ""); err != nil {
		t.Fatalf("Retire() error = %v", err)
	}
	supervisor.Close()

	if supervisor.LiveCount() != 0 {
		t.Errorf("live count = %d, want 0 after retirement", supervisor.LiveCount())
	}
	record, err := store.GetArchived(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("GetArchived() error = %v", err)
	}
	if record.Status != string(domain.StatusRetired) {
		t.Errorf("archived status = %q, want %q", record.Status, domain.StatusRetired)
	}
	if record.Reason != ReasonRetired {
		t.Errorf("archived reason = %q, want %q", record.Reason, ReasonRetired)
	}
	if record.Retellings != 1 {
		t.Errorf("archived retellings = %d, want 1", record.Retellings)
	}
	if record.Category != string(domain.CategoryBusiness) {
		t.Errorf("archived category = %q, want %q", record.Category, domain.CategoryBusiness)
	}
}

func TestSupervisorSweepArchivesExpired(t *testing.T) {
	store := newMemArchiveStore()
	base := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	supervisor := newTestSupervisor(t, store, SupervisorConfig{
		Now: func() time.Time { return base },
	})
	defer supervisor.Close()

	shortLived, err := supervisor.Spawn("tavern-debt")
	if err != nil {
		t.Fatalf("Spawn(tavern-debt) error = %v", err)
	}
	longLived, err := supervisor.Spawn("tavern-ghost")
	if err != nil {
		t.Fatalf("Spawn(tavern-ghost) error = %v", err)
	}

	// tavern-debt decays after an hour, tavern-ghost after a day.
	swept := supervisor.Sweep(base.Add(2 * time.Hour))
	if swept != 1 {
		t.Fatalf("Sweep() = %d, want 1", swept)
	}
	if supervisor.LiveCount() != 1 {
		t.Errorf("live count = %d, want 1", supervisor.LiveCount())
	}
	if _, err := supervisor.Snapshot(longLived.ID); err != nil {
		t.Errorf("long-lived instance should still be live: %v", err)
	}

	record, err := store.GetArchived(context.Background(), shortLived.ID)
	if err != nil {
		t.Fatalf("GetArchived() error = %v", err)
	}
	if record.Status != string(domain.StatusStale) {
		t.Errorf("archived status = %q, want %q", record.Status, domain.StatusStale)
	}
	if record.Reason != ReasonInterestDecayed {
		t.Errorf("archived reason = %q, want %q", record.Reason, ReasonInterestDecayed)
	}
}

func TestSupervisorSpawnForEvent(t *testing.T) {
	supervisor := newTestSupervisor(t, newMemArchiveStore(), SupervisorConfig{})
	defer supervisor.Close()

	snapshots, err := supervisor.SpawnForEvent("debt_called")
	if err != nil {
		t.Fatalf("SpawnForEvent() error = %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snapshots))
	}
	if snapshots[0].TemplateID != "tavern-debt" {
		t.Errorf("TemplateID = %q, want %q", snapshots[0].TemplateID, "tavern-debt")
	}

	none, err := supervisor.SpawnForEvent("unknown_event")
	if err != nil {
		t.Fatalf("SpawnForEvent(unknown) error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unknown event spawned %d instances, want 0", len(none))
	}
}

func TestSupervisorSeededSpawnDeterminism(t *testing.T) {
	first := newTestSupervisor(t, newMemArchiveStore(), SupervisorConfig{Seed: 7})
	defer first.Close()
	second := newTestSupervisor(t, newMemArchiveStore(), SupervisorConfig{Seed: 7})
	defer second.Close()

	snapA, err := first.Spawn("tavern-debt")
	if err != nil {
		t.Fatalf("first Spawn() error = %v", err)
	}
	snapB, err := second.Spawn("tavern-debt")
	if err != nil {
		t.Fatalf("second Spawn() error = %v", err)
	}
	if snapA.Text != snapB.Text {
		t.Errorf("same seed produced different texts: %q vs %q", snapA.Text, snapB.Text)
	}
}

func TestSupervisorBuiltinContent(t *testing.T) {
	set := assets.Builtin()
	cat, _, err := catalog.New(set.Templates, set.Pools)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	supervisor := newTestSupervisor(t, newMemArchiveStore(), SupervisorConfig{Catalog: cat})
	defer supervisor.Close()

	snapshots, err := supervisor.SpawnForEvent("npc_sighting")
	if err != nil {
		t.Fatalf("SpawnForEvent() error = %v", err)
	}
	if len(snapshots) == 0 {
		t.Fatal("builtin content has no templates for npc_sighting")
	}
	if snapshots[0].Text == "" {
		t.Error("spawned instance has empty text")
	}
}
