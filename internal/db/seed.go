package db

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/planboard/internal/slot"
	"github.com/javiermolinar/planboard/internal/task"
)

// ErrInvalidSeed is returned when a seed file describes an impossible board.
var ErrInvalidSeed = errors.New("invalid seed")

// seedFile is the on-disk shape of a seed. Dates are TOML local date-times
// and are converted to slots with the board geometry.
type seedFile struct {
	Vacations []time.Time      `toml:"vacations"`
	Operators []seedOperator   `toml:"operators"`
	Jobs      []task.Job       `toml:"jobs"`
	Tasks     []seedTaskRecord `toml:"tasks"`
}

type seedOperator struct {
	ID       int         `toml:"id"`
	Name     string      `toml:"name"`
	Absences []time.Time `toml:"absences"`
}

type seedTaskRecord struct {
	task.Task
	Start time.Time `toml:"start"`
}

// LoadSeed reads a TOML seed file and converts it to a snapshot.
// Tasks without an id get a fresh UUID.
func LoadSeed(path string, g slot.Geometry) (*task.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var f seedFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	snap := &task.Snapshot{
		Tasks:     []task.Task{},
		Jobs:      f.Jobs,
		Operators: []task.Operator{},
	}
	if snap.Jobs == nil {
		snap.Jobs = []task.Job{}
	}

	for _, v := range f.Vacations {
		if s := g.SlotOf(v); s >= 0 && s < g.TotalSlots {
			snap.Vacations = append(snap.Vacations, s)
		}
	}

	for _, so := range f.Operators {
		op := task.Operator{ID: so.ID, Name: so.Name}
		for _, a := range so.Absences {
			if s := g.SlotOf(a); s >= 0 && s < g.TotalSlots {
				op.Absences = append(op.Absences, s)
			}
		}
		snap.Operators = append(snap.Operators, op)
	}

	for _, r := range f.Tasks {
		t := r.Task
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if !r.Start.IsZero() {
			t.StartSlot = g.SlotOf(r.Start)
		}
		if j, ok := snap.JobByID(t.JobID); ok && t.JobName == "" {
			t.JobName = j.Name
		}
		snap.Tasks = append(snap.Tasks, t)
	}

	if err := ValidateSnapshot(snap, g.TotalSlots); err != nil {
		return nil, err
	}
	return snap, nil
}

// ValidateSnapshot checks every task against the axis and the operator list
// and rejects overlapping tasks on the same row.
func ValidateSnapshot(snap *task.Snapshot, totalSlots int) error {
	ops := make(map[int]bool, len(snap.Operators))
	for _, op := range snap.Operators {
		if op.ID <= 0 {
			return fmt.Errorf("%w: operator id %d", ErrInvalidSeed, op.ID)
		}
		if ops[op.ID] {
			return fmt.Errorf("%w: duplicate operator %d", ErrInvalidSeed, op.ID)
		}
		ops[op.ID] = true
	}

	ids := make(map[string]bool, len(snap.Tasks))
	for i, t := range snap.Tasks {
		if err := t.Validate(totalSlots); err != nil {
			return fmt.Errorf("%w: task %q: %w", ErrInvalidSeed, t.Name, err)
		}
		if !ops[t.OperatorID] {
			return fmt.Errorf("%w: task %q: %w", ErrInvalidSeed, t.Name, task.ErrOperatorNotFound)
		}
		if ids[t.ID] {
			return fmt.Errorf("%w: duplicate task id %s", ErrInvalidSeed, t.ID)
		}
		ids[t.ID] = true
		for _, other := range snap.Tasks[:i] {
			if t.Overlaps(other) {
				return fmt.Errorf("%w: %q overlaps %q", ErrInvalidSeed, t.Name, other.Name)
			}
		}
	}
	return nil
}

// DemoSnapshot returns the built-in demo board: ten operators, eight jobs and
// sixteen tasks laid out without collisions from slot 0.
func DemoSnapshot() *task.Snapshot {
	jobs := []task.Job{
		{ID: 1, Name: "Projet Alpha", Color: "#FF6B6B"},
		{ID: 2, Name: "Projet Beta", Color: "#4ECDC4"},
		{ID: 3, Name: "Projet Gamma", Color: "#45B7D1"},
		{ID: 4, Name: "Projet Delta", Color: "#96CEB4"},
		{ID: 5, Name: "Projet Epsilon", Color: "#FFEAA7"},
		{ID: 6, Name: "Projet Zeta", Color: "#DDA0DD"},
		{ID: 7, Name: "Projet Eta", Color: "#FFB347"},
		{ID: 8, Name: "Projet Theta", Color: "#98D8C8"},
	}

	operators := []task.Operator{
		{ID: 1, Name: "Jean Dupont", Absences: []int{2, 19}},
		{ID: 2, Name: "Marie Martin", Absences: []int{14}},
		{ID: 3, Name: "Pierre Durand"},
		{ID: 4, Name: "Sophie Lambert"},
		{ID: 5, Name: "Antoine Moreau"},
		{ID: 6, Name: "Claire Rousseau"},
		{ID: 7, Name: "Lucas Bernard"},
		{ID: 8, Name: "Emma Lefevre"},
		{ID: 9, Name: "Thomas Dubois"},
		{ID: 10, Name: "Julie Garnier"},
	}

	layout := []struct {
		operator, job, start, duration int
		name                           string
	}{
		{1, 1, 0, 6, "Analyse Alpha"},
		{1, 2, 8, 4, "Dev Beta"},
		{2, 3, 2, 5, "Tests Gamma"},
		{2, 4, 10, 6, "Review Delta"},
		{3, 5, 4, 3, "Config Epsilon"},
		{3, 1, 9, 4, "Impl Alpha"},
		{4, 6, 12, 5, "Design Zeta"},
		{5, 7, 14, 4, "Debug Eta"},
		{5, 8, 18, 3, "Deploy Theta"},
		{6, 2, 20, 4, "Setup Beta"},
		{6, 7, 24, 3, "Test Eta"},
		{7, 3, 27, 5, "Code Gamma"},
		{8, 4, 30, 4, "QA Delta"},
		{9, 5, 33, 3, "Doc Epsilon"},
		{9, 1, 36, 4, "Review Alpha"},
		{10, 6, 40, 6, "Arch Zeta"},
	}

	snap := &task.Snapshot{
		Jobs:      jobs,
		Operators: operators,
		Vacations: []int{8, 9, 28, 29},
	}
	for i, l := range layout {
		snap.Tasks = append(snap.Tasks, task.Task{
			ID:            uuid.NewString(),
			OperatorID:    l.operator,
			StartSlot:     l.start,
			Duration:      l.duration,
			JobID:         l.job,
			Name:          l.name,
			JobName:       jobs[l.job-1].Name,
			OperationName: fmt.Sprintf("OP%03d", (i+1)*10),
			Quantity:      float64((i + 1) * 250),
		})
	}
	return snap
}
