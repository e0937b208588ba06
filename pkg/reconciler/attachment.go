// Package reconciler implements the stateless reconcilers of the game server service.
//
// Each reconciler inspects reported or current state and issues at most one
// mutating control plane call per invocation. Failures are returned to the
// caller and never retried here; the invoking platform owns retries and dead-lettering.
package reconciler

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	awsutil "github.com/johnlam90/ecs-minecraft-ondemand/pkg/aws"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/events"
)

// Attachment outcomes
const (
	OutcomeSkipped    = "skipped"
	OutcomeAssociated = "associated"
)

// AttachmentResult reports what the attachment reconciler did
type AttachmentResult struct {
	Outcome          string `json:"outcome"`
	AttachmentStatus string `json:"attachmentStatus"`
	ENIID            string `json:"eniID,omitempty"`
	AllocationID     string `json:"allocationID,omitempty"`
	AssociationID    string `json:"associationID,omitempty"`
}

// AttachmentReconciler binds the static Elastic IP to a task's network interface
// once the interface attachment becomes ATTACHED
type AttachmentReconciler struct {
	Config    config.ResolvedConfig
	Addresses awsutil.AddressAssociator
	Log       logr.Logger
}

// NewAttachmentReconciler creates a new AttachmentReconciler
func NewAttachmentReconciler(cfg config.ResolvedConfig, addresses awsutil.AddressAssociator, logger logr.Logger) *AttachmentReconciler {
	return &AttachmentReconciler{
		Config:    cfg,
		Addresses: addresses,
		Log:       logger.WithName("attachment-reconciler"),
	}
}

// Handle reconciles one task state change
func (r *AttachmentReconciler) Handle(ctx context.Context, change events.TaskStateChange) (AttachmentResult, error) {
	attachment, err := change.PrimaryAttachment()
	if err != nil {
		return AttachmentResult{}, err
	}

	result := AttachmentResult{Outcome: OutcomeSkipped, AttachmentStatus: attachment.Status}
	log := r.Log.WithValues("taskArn", change.TaskARN, "attachmentStatus", attachment.Status)

	if attachment.Status != events.AttachmentStatusAttached {
		log.V(1).Info("Attachment is not ATTACHED, nothing to do")
		return result, nil
	}

	eniID, err := attachment.NetworkInterfaceID()
	if err != nil {
		return result, err
	}
	result.ENIID = eniID

	allocationID, err := r.Config.RequireAllocationID()
	if err != nil {
		return result, err
	}
	result.AllocationID = allocationID

	log.Info(fmt.Sprintf("Associating %s to interface %s", allocationID, eniID), "allocationID", allocationID, "eniID", eniID)

	associationID, err := r.Addresses.AssociateAddress(ctx, allocationID, eniID)
	if err != nil {
		return result, err
	}

	result.Outcome = OutcomeAssociated
	result.AssociationID = associationID
	return result, nil
}
