package research

// RunState names the coarse phase a research run is in.
type RunState string

const (
	StateNotStarted           RunState = "not_started"
	StatePhase1Running        RunState = "phase1_running"
	StatePhase2Running        RunState = "phase2_running"
	StateDeepResearchRunning  RunState = "deep_research_running"
	StateOpportunitiesRunning RunState = "opportunities_running"
	StateAggregationRunning   RunState = "aggregation_running"
	StateEnrichmentRunning    RunState = "enrichment_running"
	StateDone                 RunState = "done"
	StateFailed               RunState = "failed"
)

// ProgressEvent is one status update emitted while a run executes. Tokens is
// the cumulative token count at emit time.
type ProgressEvent struct {
	Stage   string   `json:"stage"`
	Message string   `json:"message"`
	State   RunState `json:"state"`
	Tokens  int      `json:"tokens"`
}

// emit sends an event without blocking. A slow or absent consumer drops
// events rather than stalling the pipeline.
func (p *Pipeline) emit(stage, message string, state RunState) {
	if p.progress == nil {
		return
	}
	ev := ProgressEvent{
		Stage:   stage,
		Message: message,
		State:   state,
		Tokens:  p.usage.total(),
	}
	select {
	case p.progress <- ev:
	default:
	}
}
