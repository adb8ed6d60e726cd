package app

import (
	"context"
	"log"
	mrand "math/rand"
	"time"

	"github.com/louisbranch/rumormill/internal/services/gossip/catalog"
	"github.com/louisbranch/rumormill/internal/services/gossip/propagation"
)

var demoHops = []string{
	"saloon", "general store", "church yard", "train depot", "bath house",
	"livery stable", "card table", "water trough",
}

// runDemoDriver spawns and retells gossip on a timer so a fresh gossipd
// has visible traffic without any external caller. Each tick either spawns
// a new instance or delivers a hop to a random live one.
func runDemoDriver(ctx context.Context, supervisor *Supervisor, cat *catalog.Catalog, interval time.Duration) {
	rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	templates := cat.All()
	if len(templates) == 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snapshots := supervisor.Snapshots()
		live := make([]propagation.Snapshot, 0, len(snapshots))
		for _, snap := range snapshots {
			if !snap.Status.Terminal() {
				live = append(live, snap)
			}
		}

		// Keep a handful of rumors in flight; mostly retell what exists.
		if len(live) < 3 || rng.Intn(4) == 0 {
			tmpl := templates[rng.Intn(len(templates))]
			snap, err := supervisor.Spawn(tmpl.ID)
			if err != nil {
				log.Printf("demo spawn %s: %v", tmpl.ID, err)
				continue
			}
			log.Printf("demo spawned %s: %s", snap.ID, snap.Text)
			continue
		}

		snap := live[rng.Intn(len(live))]
		hop := demoHops[rng.Intn(len(demoHops))]
		if err := supervisor.Deliver(snap.ID, hop); err != nil {
			log.Printf("demo deliver %s: %v", snap.ID, err)
		}
	}
}
