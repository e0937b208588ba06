package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

// AddressAssociator defines the network control plane operations used by the attachment reconciler
type AddressAssociator interface {
	// AssociateAddress associates an Elastic IP allocation with a network interface
	// and returns the association ID
	AssociateAddress(ctx context.Context, allocationID, eniID string) (string, error)
}

// ServiceScaler defines the orchestration control plane operations used by the wake reconciler
type ServiceScaler interface {
	// DescribeDesiredCount returns the desired count of a service.
	// Returns ServiceNotFoundError if the service is not part of the response.
	DescribeDesiredCount(ctx context.Context, cluster, service string) (int32, error)

	// SetDesiredCount sets the desired count of a service
	SetDesiredCount(ctx context.Context, cluster, service string, count int32) error
}

// TaskLister defines the read-only task listing used for status reports
type TaskLister interface {
	// ListRunningTasks returns the ARNs of the service's tasks whose desired status is RUNNING
	ListRunningTasks(ctx context.Context, cluster, service string) ([]string, error)
}

// EC2API is the subset of the EC2 SDK client used by EC2AddressManager
type EC2API interface {
	AssociateAddress(ctx context.Context, params *ec2.AssociateAddressInput, optFns ...func(*ec2.Options)) (*ec2.AssociateAddressOutput, error)
}

// ECSAPI is the subset of the ECS SDK client used by ECSServiceManager
type ECSAPI interface {
	DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error)
	UpdateService(ctx context.Context, params *ecs.UpdateServiceInput, optFns ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error)
	ListTasks(ctx context.Context, params *ecs.ListTasksInput, optFns ...func(*ecs.Options)) (*ecs.ListTasksOutput, error)
}

// Clients bundles the control plane clients of one invocation
type Clients struct {
	Addresses AddressAssociator
	Services  ServiceScaler
	Tasks     TaskLister
}
