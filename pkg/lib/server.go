package lib

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	awsutil "github.com/johnlam90/ecs-minecraft-ondemand/pkg/aws"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/events"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/reconciler"
)

// ServerOptions identifies the game server service.
// Empty fields fall back to the package defaults.
type ServerOptions struct {
	// Region is the AWS region of the cluster
	Region string
	// Cluster is the ECS cluster name
	Cluster string
	// Service is the ECS service name
	Service string
	// AllocationID is the Elastic IP allocation bound to new tasks
	AllocationID string
}

// ServerManager wakes the service, binds its static IP and reports its status.
type ServerManager struct {
	config  config.ResolvedConfig
	clients *awsutil.Clients
	logger  logr.Logger
}

// NewServerManager creates a new ServerManager using credentials from the environment.
func NewServerManager(ctx context.Context, options ServerOptions, logger logr.Logger) (*ServerManager, error) {
	cfg := resolve(options)

	clients, err := awsutil.NewClients(ctx, awsutil.ClientOptions{Region: cfg.Region, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS clients: %w", err)
	}

	return NewServerManagerWithClients(options, clients, logger)
}

// NewServerManagerWithClients creates a new ServerManager with the given clients.
func NewServerManagerWithClients(options ServerOptions, clients *awsutil.Clients, logger logr.Logger) (*ServerManager, error) {
	if clients == nil {
		return nil, fmt.Errorf("clients cannot be nil")
	}

	return &ServerManager{
		config:  resolve(options),
		clients: clients,
		logger:  logger,
	}, nil
}

// Config returns the resolved configuration of the manager.
func (m *ServerManager) Config() config.ResolvedConfig {
	return m.config
}

// Wake sets the desired count to one if it is zero.
func (m *ServerManager) Wake(ctx context.Context) (reconciler.WakeResult, error) {
	return reconciler.NewWakeReconciler(m.config, m.clients.Services, m.logger).Handle(ctx)
}

// HandleTaskStateChange runs the attachment reconciler on a decoded task state change.
func (m *ServerManager) HandleTaskStateChange(ctx context.Context, change events.TaskStateChange) (reconciler.AttachmentResult, error) {
	return reconciler.NewAttachmentReconciler(m.config, m.clients.Addresses, m.logger).Handle(ctx, change)
}

// AssociateStaticIP binds the static IP to the given network interface.
func (m *ServerManager) AssociateStaticIP(ctx context.Context, eniID string) (string, error) {
	if eniID == "" {
		return "", fmt.Errorf("ENI ID cannot be empty")
	}

	allocationID, err := m.config.RequireAllocationID()
	if err != nil {
		return "", err
	}

	m.logger.Info("Associating static IP", "allocationID", allocationID, "eniID", eniID)
	return m.clients.Addresses.AssociateAddress(ctx, allocationID, eniID)
}

// Status reports the running tasks of the service.
func (m *ServerManager) Status(ctx context.Context) (reconciler.ServerStatus, error) {
	return reconciler.NewStatusReporter(m.config, m.clients.Tasks, m.logger).Status(ctx)
}

func resolve(options ServerOptions) config.ResolvedConfig {
	cfg := config.DefaultResolvedConfig()
	if options.Region != "" {
		cfg.Region = options.Region
	}
	if options.Cluster != "" {
		cfg.Cluster = options.Cluster
	}
	if options.Service != "" {
		cfg.Service = options.Service
	}
	cfg.AllocationID = options.AllocationID
	return cfg
}
