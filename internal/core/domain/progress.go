package domain

// DiscoveryStage names a step of the discovery pipeline.
type DiscoveryStage string

// Pipeline stages in execution order.
const (
	StageExpand     DiscoveryStage = "expand"
	StageEmbed      DiscoveryStage = "embed"
	StageFetch      DiscoveryStage = "fetch"
	StageScore      DiscoveryStage = "score"
	StageSupplement DiscoveryStage = "supplement"
	StageDone       DiscoveryStage = "done"
)

// DiscoveryEvent reports progress from a running discovery.
// Exactly one of the payload fields is meaningful for a given Kind.
type DiscoveryEvent struct {
	Kind DiscoveryEventKind

	// Stage is set for EventStageStarted.
	Stage DiscoveryStage

	// Keyword is set for EventKeywordFetched.
	Keyword string

	// Posts is the number of new posts found for Keyword.
	Posts int

	// Candidate is set for EventCandidateScored.
	Candidate *CandidateCommunity

	// Result is set for EventFinished.
	Result *DiscoveryResult

	// Err carries a contained collaborator failure for EventItemSkipped.
	Err error
}

// DiscoveryEventKind classifies a DiscoveryEvent.
type DiscoveryEventKind int

// Event kinds.
const (
	EventStageStarted DiscoveryEventKind = iota
	EventKeywordFetched
	EventCandidateScored
	EventItemSkipped
	EventFinished
)
