package handler

import (
	"context"

	lambdaevents "github.com/aws/aws-lambda-go/events"

	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/events"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/observability"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/reconciler"
)

// WakeResponse is returned by the wake handler
type WakeResponse struct {
	reconciler.WakeResult
	Trigger events.WakeTrigger `json:"trigger"`
}

// WakeHandler handles wake requests from a CloudWatch Logs subscription or a manual invocation
type WakeHandler func(ctx context.Context, event lambdaevents.CloudwatchLogsEvent) (WakeResponse, error)

// NewWakeHandler creates the handler that scales the service from zero to one
func NewWakeHandler(opts Options) WakeHandler {
	opts = opts.withDefaults("minecraft-launcher")

	return func(ctx context.Context, event lambdaevents.CloudwatchLogsEvent) (WakeResponse, error) {
		cfg, err := config.LoadWakeConfig(opts.Lookup)
		if err != nil {
			return WakeResponse{}, err
		}

		inv, err := opts.start(ctx, cfg)
		if err != nil {
			return WakeResponse{}, err
		}
		defer opts.finish(ctx, inv)

		opCtx := observability.NewOperationContext(ctx, observability.OperationWake).WithService(cfg)

		// The trigger only annotates the logs
		trigger, err := events.DecodeWakeTrigger(event)
		if err != nil {
			inv.log.Logger().Info("Ignoring undecodable wake trigger", "error", err.Error())
		}
		opCtx.WithMetadata("trigger", trigger.Source)
		if trigger.LogGroup != "" {
			opCtx.WithMetadata("logGroup", trigger.LogGroup)
		}
		inv.log.LogOperationStart(ctx, opCtx, "Handling wake request")

		r := reconciler.NewWakeReconciler(cfg, inv.clients.Services, inv.log.Logger())
		result, err := r.Handle(ctx)
		if err != nil {
			inv.log.LogOperationError(ctx, opCtx, err, "Failed to wake service")
			return WakeResponse{WakeResult: result, Trigger: trigger}, err
		}

		opCtx.WithMetadata("desiredCount", result.DesiredCount)
		inv.log.LogOperationSuccess(ctx, opCtx, result.Outcome, "Reconciled desired count")
		return WakeResponse{WakeResult: result, Trigger: trigger}, nil
	}
}
