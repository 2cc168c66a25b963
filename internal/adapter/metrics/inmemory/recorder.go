package inmemory

import "sync"

type Snapshot struct {
	Pongs               uint64 `json:"pongs"`
	DeferralSuccess     uint64 `json:"deferral_success"`
	DeferralFailure     uint64 `json:"deferral_failure"`
	FollowUpSuccess     uint64 `json:"follow_up_success"`
	FollowUpFailure     uint64 `json:"follow_up_failure"`
	MissingPrompt       uint64 `json:"missing_prompt"`
	Dropped             uint64 `json:"dropped"`
	CompletionTotal     uint64 `json:"completion_total"`
	CompletionDiagnosed uint64 `json:"completion_diagnosed"`
}

type Recorder struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordPong() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Pongs++
}

func (r *Recorder) RecordDeferral(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.snap.DeferralFailure++
		return
	}
	r.snap.DeferralSuccess++
}

func (r *Recorder) RecordFollowUp(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.snap.FollowUpFailure++
		return
	}
	r.snap.FollowUpSuccess++
}

func (r *Recorder) RecordMissingPrompt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.MissingPrompt++
}

func (r *Recorder) RecordDropped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Dropped++
}

func (r *Recorder) RecordCompletion(diagnostic bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.CompletionTotal++
	if diagnostic {
		r.snap.CompletionDiagnosed++
	}
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
