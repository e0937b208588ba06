package reconciler

import (
	"context"

	"github.com/go-logr/logr"

	awsutil "github.com/johnlam90/ecs-minecraft-ondemand/pkg/aws"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/util"
)

// ServerStatus is a read-only report of the game server service
type ServerStatus struct {
	Cluster      string   `json:"cluster"`
	Service      string   `json:"service"`
	Online       bool     `json:"online"`
	RunningTasks int      `json:"runningTasks"`
	TaskIDs      []string `json:"taskIds"`
}

// StatusReporter reports whether the server has running tasks. It never mutates state.
type StatusReporter struct {
	Config config.ResolvedConfig
	Tasks  awsutil.TaskLister
	Log    logr.Logger
}

// NewStatusReporter creates a new StatusReporter
func NewStatusReporter(cfg config.ResolvedConfig, tasks awsutil.TaskLister, logger logr.Logger) *StatusReporter {
	return &StatusReporter{
		Config: cfg,
		Tasks:  tasks,
		Log:    logger.WithName("status-reporter"),
	}
}

// Status lists the service's running tasks
func (s *StatusReporter) Status(ctx context.Context) (ServerStatus, error) {
	taskARNs, err := s.Tasks.ListRunningTasks(ctx, s.Config.Cluster, s.Config.Service)
	if err != nil {
		return ServerStatus{}, err
	}

	taskIDs := make([]string, 0, len(taskARNs))
	for _, arn := range taskARNs {
		taskIDs = append(taskIDs, util.ResourceIDFromARN(arn))
	}

	status := ServerStatus{
		Cluster:      s.Config.Cluster,
		Service:      s.Config.Service,
		Online:       len(taskIDs) > 0,
		RunningTasks: len(taskIDs),
		TaskIDs:      taskIDs,
	}
	s.Log.V(1).Info("Reporting server status", "online", status.Online, "runningTasks", status.RunningTasks)
	return status, nil
}
