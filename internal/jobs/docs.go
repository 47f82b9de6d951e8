// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// AgentAssignmentJob sweeps ready orders that have no delivery agent, for
// example because no agent existed when the order became ready, and runs
// the assignment engine on each of them. The schedule comes from
// ASSIGNMENT_JOB_SCHEDULE and defaults to every five seconds.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(assignReadyOrdersHandler, cfg.AssignmentJobSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// "Nothing to assign" and "no agent exists" are expected outcomes and are
// not logged as errors.
package jobs
