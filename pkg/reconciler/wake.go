package reconciler

import (
	"context"

	"github.com/go-logr/logr"

	awsutil "github.com/johnlam90/ecs-minecraft-ondemand/pkg/aws"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
)

// Wake outcomes
const (
	OutcomeUpdated        = "updated to 1"
	OutcomeAlreadyDesired = "already at desired state"
)

// wakeDesiredCount is the desired count set on a service scaled to zero
const wakeDesiredCount int32 = 1

// WakeResult reports what the wake reconciler did
type WakeResult struct {
	Outcome              string `json:"outcome"`
	PreviousDesiredCount int32  `json:"previousDesiredCount"`
	DesiredCount         int32  `json:"desiredCount"`
}

// WakeReconciler scales the service from zero to one
type WakeReconciler struct {
	Config   config.ResolvedConfig
	Services awsutil.ServiceScaler
	Log      logr.Logger
}

// NewWakeReconciler creates a new WakeReconciler
func NewWakeReconciler(cfg config.ResolvedConfig, services awsutil.ServiceScaler, logger logr.Logger) *WakeReconciler {
	return &WakeReconciler{
		Config:   cfg,
		Services: services,
		Log:      logger.WithName("wake-reconciler"),
	}
}

// Handle reconciles the service's desired count
func (r *WakeReconciler) Handle(ctx context.Context) (WakeResult, error) {
	log := r.Log.WithValues("cluster", r.Config.Cluster, "service", r.Config.Service)

	desired, err := r.Services.DescribeDesiredCount(ctx, r.Config.Cluster, r.Config.Service)
	if err != nil {
		return WakeResult{}, err
	}

	result := WakeResult{PreviousDesiredCount: desired, DesiredCount: desired}
	if desired != 0 {
		result.Outcome = OutcomeAlreadyDesired
		log.Info("desiredCount already at desired state", "desiredCount", desired)
		return result, nil
	}

	log.Info("Updating desiredCount to 1")
	if err := r.Services.SetDesiredCount(ctx, r.Config.Cluster, r.Config.Service, wakeDesiredCount); err != nil {
		return result, err
	}

	result.Outcome = OutcomeUpdated
	result.DesiredCount = wakeDesiredCount
	return result, nil
}
