package convert

import "context"

// Milestone is a fixed lifecycle checkpoint. Percent values are markers, not
// measured encoding progress.
type Milestone struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}

var (
	MilestoneAccepted = Milestone{Percent: 10, Stage: "accepted"}
	MilestoneLaunch   = Milestone{Percent: 20, Stage: "launching"}
	MilestoneRunning  = Milestone{Percent: 30, Stage: "running"}
	MilestoneFinished = Milestone{Percent: 90, Stage: "finished"}
	MilestoneVerified = Milestone{Percent: 100, Stage: "verified"}
)

// ProgressTotal is the denominator for milestone percentages.
const ProgressTotal = 100

// ProgressSink receives milestones. Implementations must not block for long.
type ProgressSink interface {
	Progress(ctx context.Context, m Milestone)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(ctx context.Context, m Milestone)

func (f ProgressFunc) Progress(ctx context.Context, m Milestone) { f(ctx, m) }

func report(ctx context.Context, sink ProgressSink, m Milestone) {
	if sink != nil {
		sink.Progress(ctx, m)
	}
}
