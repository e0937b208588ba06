package handler

import (
	"context"

	lambdaevents "github.com/aws/aws-lambda-go/events"

	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/events"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/observability"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/reconciler"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/util"
)

// AttachmentHandler handles "ECS Task State Change" events
type AttachmentHandler func(ctx context.Context, event lambdaevents.CloudWatchEvent) (reconciler.AttachmentResult, error)

// NewAttachmentHandler creates the handler that binds the Elastic IP to new task interfaces
func NewAttachmentHandler(opts Options) AttachmentHandler {
	opts = opts.withDefaults("minecraft-eip-manager")

	return func(ctx context.Context, event lambdaevents.CloudWatchEvent) (reconciler.AttachmentResult, error) {
		cfg, err := config.LoadAttachmentConfig(opts.Lookup)
		if err != nil {
			return reconciler.AttachmentResult{}, err
		}

		inv, err := opts.start(ctx, cfg)
		if err != nil {
			return reconciler.AttachmentResult{}, err
		}
		defer opts.finish(ctx, inv)

		opCtx := observability.NewOperationContext(ctx, observability.OperationAttach).WithService(cfg)
		opCtx.WithMetadata("eventID", event.ID)

		change, err := events.ParseTaskStateChange(event)
		if err != nil {
			inv.log.LogOperationError(ctx, opCtx, err, "Rejected task state change")
			return reconciler.AttachmentResult{}, err
		}
		opCtx.TaskID = util.ResourceIDFromARN(change.TaskARN)
		inv.log.LogOperationStart(ctx, opCtx, "Handling task state change")

		r := reconciler.NewAttachmentReconciler(cfg, inv.clients.Addresses, inv.log.Logger())
		result, err := r.Handle(ctx, change)
		opCtx.ENIID = result.ENIID
		opCtx.AllocationID = result.AllocationID
		opCtx.WithMetadata("attachmentStatus", result.AttachmentStatus)
		if err != nil {
			inv.log.LogOperationError(ctx, opCtx, err, "Failed to reconcile attachment")
			return result, err
		}

		inv.log.LogOperationSuccess(ctx, opCtx, result.Outcome, "Reconciled attachment")
		return result, nil
	}
}
