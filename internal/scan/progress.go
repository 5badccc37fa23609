package scan

import "sync"

// Phase names the scanner's current stage.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseEnumerate Phase = "enumerate"
	PhaseWord      Phase = "word"
	PhasePDF       Phase = "pdf"
	PhaseDone      Phase = "done"
)

// Progress tracks scan progress for concurrent readers. The word phase
// covers percent 0-50 and the PDF phase 50-100; percent never moves
// backwards.
type Progress struct {
	mu        sync.Mutex
	phase     Phase
	percent   int
	processed int
	failed    int
	total     int
}

// Snapshot is a point-in-time copy of scan progress.
type Snapshot struct {
	Phase     Phase
	Percent   int
	Processed int
	Failed    int
	Total     int
}

// NewProgress returns an idle tracker.
func NewProgress() *Progress {
	return &Progress{phase: PhaseIdle}
}

func (p *Progress) start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = PhaseEnumerate
	p.percent = 0
	p.processed = 0
	p.failed = 0
	p.total = total
}

func (p *Progress) setTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// update records batch completion within a phase. done and phaseTotal
// refer to the current phase's files only.
func (p *Progress) update(phase Phase, done, phaseTotal, processed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	base, span := 0, 50
	if phase == PhasePDF {
		base = 50
	}

	percent := base + span
	if phaseTotal > 0 {
		percent = base + done*span/phaseTotal
	}
	if percent > p.percent {
		p.percent = percent
	}
	p.phase = phase
	p.processed += processed
	p.failed += failed
}

func (p *Progress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = PhaseDone
	p.percent = 100
}

// Snapshot returns a consistent copy of the current progress.
func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Phase:     p.phase,
		Percent:   p.percent,
		Processed: p.processed,
		Failed:    p.failed,
		Total:     p.total,
	}
}
