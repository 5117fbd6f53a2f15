package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration time.Duration
	Nodes    int // Positions visited, root included
	Leaves   int // Terminal positions scored
	Cutoffs  int // Frames that stopped enumerating siblings
	Pruning  bool
	Score    int
}

type MoveMetric struct {
	Step   int
	Player string
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "" on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	FinalBoard     string
}

type Collector interface {
	Start(pruning bool)
	AddNode()
	AddLeaf()
	AddCutoff()
	Complete(score int) SearchMetric
}

type collector struct {
	pruning   bool
	startTime time.Time
	nodes     atomic.Int64
	leaves    atomic.Int64
	cutoffs   atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(pruning bool) {
	m.startTime = time.Now()
	m.pruning = pruning
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) Complete(score int) SearchMetric {
	return SearchMetric{
		Duration: time.Since(m.startTime),
		Nodes:    int(m.nodes.Load()),
		Leaves:   int(m.leaves.Load()),
		Cutoffs:  int(m.cutoffs.Load()),
		Pruning:  m.pruning,
		Score:    score,
	}
}

// dummyCollector only measures time; counters stay at zero.
type dummyCollector struct {
	pruning   bool
	startTime time.Time
}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(pruning bool) {
	m.startTime = time.Now()
	m.pruning = pruning
}
func (m *dummyCollector) AddNode()   {}
func (m *dummyCollector) AddLeaf()   {}
func (m *dummyCollector) AddCutoff() {}
func (m *dummyCollector) Complete(score int) SearchMetric {
	return SearchMetric{Duration: time.Since(m.startTime), Pruning: m.pruning, Score: score}
}
