package jobs

import (
	"context"
	"errors"
	"log/slog"

	"mealdelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultAssignmentSchedule runs the sweep every five seconds.
const DefaultAssignmentSchedule = "*/5 * * * * *"

type readyOrdersAssigner interface {
	Handle(ctx context.Context, cmd commands.AssignReadyOrdersCommand) (int, error)
}

// AgentAssignmentJob periodically attaches agents to ready orders that were
// left unassigned. A run is skipped while the previous one is still going.
type AgentAssignmentJob struct {
	handler  readyOrdersAssigner
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAgentAssignmentJob creates a job that sweeps on schedule, a six-field
// cron expression with seconds. An empty schedule uses
// DefaultAssignmentSchedule.
func NewAgentAssignmentJob(handler readyOrdersAssigner, schedule string, logger *slog.Logger) *AgentAssignmentJob {
	if schedule == "" {
		schedule = DefaultAssignmentSchedule
	}
	return &AgentAssignmentJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "agent_assignment_job"),
	}
}

// Start registers the sweep and starts the scheduler. Returns an error if
// the schedule cannot be parsed.
func (j *AgentAssignmentJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Agent assignment job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *AgentAssignmentJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Agent assignment job stopped")
}

func (j *AgentAssignmentJob) run() {
	ctx := context.Background()

	cmd, err := commands.NewAssignReadyOrdersCommand(commands.DefaultSweepBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Agent assignment job misconfigured", "error", err)
		return
	}

	assigned, err := j.handler.Handle(ctx, cmd)
	if err != nil && !errors.Is(err, commands.ErrNoOrderFound) && !errors.Is(err, commands.ErrNoFreeAgentsFound) {
		j.logger.ErrorContext(ctx, "Agent assignment job failed", "error", err, "assigned", assigned)
		return
	}
	if assigned > 0 {
		j.logger.InfoContext(ctx, "Assigned waiting orders", "count", assigned)
	}
}
