// Package summary aggregates board load figures for the CLI.
package summary

import (
	"context"
	"fmt"
	"sort"

	"github.com/javiermolinar/planboard/internal/task"
)

// Stats holds slot counts over the whole board.
type Stats struct {
	Operators     int
	Tasks         int
	BookedSlots   int
	CapacitySlots int // Operator slots minus absences and vacations
}

// LoadPercent returns booked slots as a share of capacity.
func (s Stats) LoadPercent() int {
	return percent(s.BookedSlots, s.CapacitySlots)
}

// OperatorLoad is the booking of one operator row.
type OperatorLoad struct {
	ID       int
	Name     string
	Tasks    int
	Booked   int
	Capacity int
}

// LoadPercent returns booked slots as a share of the operator's capacity.
func (o OperatorLoad) LoadPercent() int {
	return percent(o.Booked, o.Capacity)
}

// JobLoad is the number of slots booked for one job.
type JobLoad struct {
	ID     int
	Name   string
	Tasks  int
	Booked int
}

// Summary holds the board totals and their breakdowns.
type Summary struct {
	Stats     Stats
	Operators []OperatorLoad // In board order
	Jobs      []JobLoad      // Most booked first
}

// Summarize aggregates a snapshot over an axis of totalSlots.
func Summarize(snap *task.Snapshot, totalSlots int) *Summary {
	s := &Summary{
		Stats: Stats{
			Operators: len(snap.Operators),
			Tasks:     len(snap.Tasks),
		},
	}

	byOperator := make(map[int]int, len(snap.Operators))
	for _, op := range snap.Operators {
		load := OperatorLoad{ID: op.ID, Name: op.Name}
		for slot := 0; slot < totalSlots; slot++ {
			if !op.IsAbsent(slot) && !snap.IsVacation(slot) {
				load.Capacity++
			}
		}
		byOperator[op.ID] = len(s.Operators)
		s.Operators = append(s.Operators, load)
		s.Stats.CapacitySlots += load.Capacity
	}

	byJob := make(map[int]int)
	for _, t := range snap.Tasks {
		s.Stats.BookedSlots += t.Duration
		if i, ok := byOperator[t.OperatorID]; ok {
			s.Operators[i].Tasks++
			s.Operators[i].Booked += t.Duration
		}
		if t.JobID == 0 {
			continue
		}
		i, ok := byJob[t.JobID]
		if !ok {
			name := t.JobName
			if j, found := snap.JobByID(t.JobID); found {
				name = j.Name
			}
			i = len(s.Jobs)
			byJob[t.JobID] = i
			s.Jobs = append(s.Jobs, JobLoad{ID: t.JobID, Name: name})
		}
		s.Jobs[i].Tasks++
		s.Jobs[i].Booked += t.Duration
	}

	sort.SliceStable(s.Jobs, func(i, j int) bool {
		if s.Jobs[i].Booked != s.Jobs[j].Booked {
			return s.Jobs[i].Booked > s.Jobs[j].Booked
		}
		return s.Jobs[i].ID < s.Jobs[j].ID
	})
	return s
}

// Build loads the board from repo and summarizes it.
func Build(ctx context.Context, repo task.Repository, totalSlots int) (*Summary, error) {
	snap, err := repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching board: %w", err)
	}
	return Summarize(snap, totalSlots), nil
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return part * 100 / whole
}
