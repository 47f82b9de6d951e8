package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager starts and stops the background jobs of the service.
type JobManager struct {
	agentAssignmentJob *AgentAssignmentJob
}

// NewJobManager creates a manager with the agent assignment job configured.
func NewJobManager(
	assignReadyOrdersHandler readyOrdersAssigner,
	assignmentSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		agentAssignmentJob: NewAgentAssignmentJob(assignReadyOrdersHandler, assignmentSchedule, logger),
	}
}

// StartAll starts all scheduled jobs. Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.agentAssignmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start agent assignment job: %w", err)
	}
	return nil
}

// StopAll blocks until running jobs have finished.
func (jm *JobManager) StopAll() {
	jm.agentAssignmentJob.Stop()
}
