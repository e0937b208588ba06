package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

// ECSServiceManager implements the ServiceScaler and TaskLister interfaces
type ECSServiceManager struct {
	// ECS is the underlying AWS SDK v2 ECS client
	ECS ECSAPI
	// Logger is used for structured logging
	Logger logr.Logger
	// Observe is called after every API call when set
	Observe CallObserver
	// Rate limiter for AWS API calls
	rateLimiter *rate.Limiter
}

// NewECSServiceManager creates a new ECSServiceManager
func NewECSServiceManager(ecsClient ECSAPI, logger logr.Logger) *ECSServiceManager {
	return &ECSServiceManager{
		ECS:         ecsClient,
		Logger:      logger.WithName("ecs-service-manager"),
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20), // 10 requests per second, burst of 20
	}
}

// DescribeDesiredCount returns the desired count of a service
func (m *ECSServiceManager) DescribeDesiredCount(ctx context.Context, cluster, service string) (int32, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	if err := m.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait failed: %w", err)
	}

	log := m.Logger.WithValues("cluster", cluster, "service", service)
	log.V(1).Info("Calling DescribeServices")

	start := time.Now()
	result, err := m.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: []string{service},
	})
	m.observe("DescribeServices", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to describe service %s in cluster %s: %w", service, cluster, err)
	}

	if len(result.Services) == 0 {
		return 0, ServiceNotFoundError{Cluster: cluster, Service: service, Reason: failureReasons(result.Failures)}
	}

	desired := result.Services[0].DesiredCount
	log.V(1).Info("Described service", "desiredCount", desired, "runningCount", result.Services[0].RunningCount)
	return desired, nil
}

// SetDesiredCount sets the desired count of a service
func (m *ECSServiceManager) SetDesiredCount(ctx context.Context, cluster, service string, count int32) error {
	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	if err := m.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	log := m.Logger.WithValues("cluster", cluster, "service", service, "desiredCount", count)
	log.V(1).Info("Calling UpdateService")

	start := time.Now()
	_, err := m.ECS.UpdateService(ctx, &ecs.UpdateServiceInput{
		Cluster:      aws.String(cluster),
		Service:      aws.String(service),
		DesiredCount: aws.Int32(count),
	})
	m.observe("UpdateService", start, err)
	if err != nil {
		return fmt.Errorf("failed to set desired count of service %s in cluster %s to %d: %w", service, cluster, count, err)
	}

	log.Info("Successfully updated desired count")
	return nil
}

// ListRunningTasks returns the ARNs of the service's tasks whose desired status is RUNNING
func (m *ECSServiceManager) ListRunningTasks(ctx context.Context, cluster, service string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	log := m.Logger.WithValues("cluster", cluster, "service", service)

	var taskARNs []string
	paginator := ecs.NewListTasksPaginator(m.ECS, &ecs.ListTasksInput{
		Cluster:       aws.String(cluster),
		ServiceName:   aws.String(service),
		DesiredStatus: ecstypes.DesiredStatusRunning,
	})
	for paginator.HasMorePages() {
		if err := m.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}

		start := time.Now()
		page, err := paginator.NextPage(ctx)
		m.observe("ListTasks", start, err)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks of service %s in cluster %s: %w", service, cluster, err)
		}
		taskARNs = append(taskARNs, page.TaskArns...)
	}

	log.V(1).Info("Listed running tasks", "count", len(taskARNs))
	return taskARNs, nil
}

func (m *ECSServiceManager) observe(operation string, start time.Time, err error) {
	if m.Observe != nil {
		m.Observe(ServiceECS, operation, time.Since(start), err)
	}
}

// failureReasons joins the reasons reported in DescribeServices failures
func failureReasons(failures []ecstypes.Failure) string {
	reasons := make([]string, 0, len(failures))
	for _, f := range failures {
		if f.Reason != nil {
			reasons = append(reasons, aws.ToString(f.Reason))
		}
	}
	return strings.Join(reasons, ", ")
}
