package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/arnavshah/readiness-api-go/pkg/cache"
	"github.com/arnavshah/readiness-api-go/pkg/database"
	"github.com/arnavshah/readiness-api-go/pkg/events"
	"github.com/arnavshah/readiness-api-go/pkg/live"
	"github.com/arnavshah/readiness-api-go/pkg/models"
	"github.com/arnavshah/readiness-api-go/pkg/readiness"
	"github.com/arnavshah/readiness-api-go/pkg/warehouse"
)

// DefaultInterval between evaluation cycles
const DefaultInterval = 3 * time.Minute

// Engine recomputes unit readiness on a schedule and on demand, feeds
// each snapshot through the change detector, and delivers snapshots and
// alerts to subscribers, the cache, the event stream, and the history
// store. All snapshot state for a unit has a single writer: evaluations
// are serialized through the engine.
type Engine struct {
	DB        *gorm.DB
	Hub       *live.Hub
	Detector  *readiness.Detector
	Cache     *cache.SnapshotCache
	Events    *events.Publisher
	Warehouse *warehouse.Store
	Interval  time.Duration

	mu sync.Mutex
}

// New wires an engine over the shared collaborators
func New(db *gorm.DB, hub *live.Hub, snapshotCache *cache.SnapshotCache, publisher *events.Publisher, wh *warehouse.Store, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Engine{
		DB:        db,
		Hub:       hub,
		Detector:  readiness.NewDetector(),
		Cache:     snapshotCache,
		Events:    publisher,
		Warehouse: wh,
		Interval:  interval,
	}
}

// Run evaluates all units immediately and then on every tick until the
// context is cancelled
func (e *Engine) Run(ctx context.Context) {
	log.Printf("engine: evaluation loop started, interval %s", e.Interval)
	e.EvaluateAll()

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("engine: evaluation loop stopped")
			return
		case <-ticker.C:
			e.EvaluateAll()
		}
	}
}

// EvaluateAll runs one evaluation cycle over every unit. If the record
// store is unreachable the cycle is skipped and previously broadcast
// snapshots stay visible; the next tick retries.
func (e *Engine) EvaluateAll() {
	units, roster, assignments, err := e.loadAll()
	if err != nil {
		log.Printf("engine: skipping cycle, record store unavailable: %v", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().UTC()
	for _, u := range units {
		snap := readiness.Aggregate(u, assignments, roster, now)
		e.deliver(snap)
	}
}

// Evaluate recomputes a single unit right away, e.g. after an assignment
// change, and returns the fresh snapshot
func (e *Engine) Evaluate(unitID string) (models.UnitReadinessSnapshot, error) {
	var row database.Unit
	if err := e.DB.Where("unit_id = ?", unitID).First(&row).Error; err != nil {
		return models.UnitReadinessSnapshot{}, fmt.Errorf("load unit %s: %w", unitID, err)
	}

	_, roster, assignments, err := e.loadAll()
	if err != nil {
		return models.UnitReadinessSnapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snap := readiness.Aggregate(row.ToModel(), assignments, roster, time.Now().UTC())
	e.deliver(snap)
	return snap, nil
}

// Compute aggregates a read-only snapshot for one unit without touching
// detector state, subscribers, cache, or history. Used by read endpoints
// between cycles.
func (e *Engine) Compute(unitID string) (models.UnitReadinessSnapshot, error) {
	var row database.Unit
	if err := e.DB.Where("unit_id = ?", unitID).First(&row).Error; err != nil {
		return models.UnitReadinessSnapshot{}, err
	}
	_, roster, assignments, err := e.loadAll()
	if err != nil {
		return models.UnitReadinessSnapshot{}, err
	}
	return readiness.Aggregate(row.ToModel(), assignments, roster, time.Now().UTC()), nil
}

// ComputeAll aggregates read-only snapshots for every unit
func (e *Engine) ComputeAll() ([]models.UnitReadinessSnapshot, error) {
	units, roster, assignments, err := e.loadAll()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	snaps := make([]models.UnitReadinessSnapshot, 0, len(units))
	for _, u := range units {
		snaps = append(snaps, readiness.Aggregate(u, assignments, roster, now))
	}
	return snaps, nil
}

// Latest returns the most recently delivered snapshot for a unit, if any
func (e *Engine) Latest(unitID string) (models.UnitReadinessSnapshot, bool) {
	return e.Detector.Latest(unitID)
}

// Forget drops all retained state for a removed unit
func (e *Engine) Forget(unitID string) {
	e.Detector.Forget(unitID)
	if err := e.Cache.DeleteSnapshot(unitID); err != nil {
		log.Printf("engine: drop cached snapshot for %s: %v", unitID, err)
	}
}

func (e *Engine) loadAll() ([]models.Unit, map[string]models.Personnel, []models.UnitAssignment, error) {
	var unitRows []database.Unit
	if err := e.DB.Find(&unitRows).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("load units: %w", err)
	}
	var personnelRows []database.Personnel
	if err := e.DB.Find(&personnelRows).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("load personnel: %w", err)
	}
	var assignmentRows []database.UnitAssignment
	if err := e.DB.Find(&assignmentRows).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("load assignments: %w", err)
	}

	units := make([]models.Unit, 0, len(unitRows))
	for _, r := range unitRows {
		units = append(units, r.ToModel())
	}
	roster := make(map[string]models.Personnel, len(personnelRows))
	for _, r := range personnelRows {
		roster[r.PersonnelID] = r.ToModel()
	}
	assignments := make([]models.UnitAssignment, 0, len(assignmentRows))
	for _, r := range assignmentRows {
		assignments = append(assignments, r.ToModel())
	}
	return units, roster, assignments, nil
}

// deliver pushes one computed snapshot through the change detector and
// out to every consumer. Caller holds e.mu.
func (e *Engine) deliver(snap models.UnitReadinessSnapshot) {
	alerts := e.Detector.Observe(snap)

	// Subscribers always get the refreshed snapshot, alerts or not
	e.Hub.Broadcast(snap.UnitID, models.Envelope{Type: models.MessageTypeReadiness, Data: snap})
	for _, alert := range alerts {
		e.Hub.Broadcast(snap.UnitID, models.Envelope{Type: models.MessageTypeAlert, Data: alert})
		e.Events.PublishAlert(alert)
		log.Printf("engine: [%s] %s", alert.Severity, alert.Message)
	}

	if err := e.Cache.SetSnapshot(snap); err != nil {
		log.Printf("engine: cache snapshot for %s: %v", snap.UnitID, err)
	}
	if err := e.Warehouse.Record(snap); err != nil {
		log.Printf("engine: record history for %s: %v", snap.UnitID, err)
	}
	e.Events.Publish(snap.UnitID, events.EventSnapshotComputed, snap)
}
