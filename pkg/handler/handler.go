// Package handler adapts the reconcilers to AWS Lambda invocations.
//
// Every invocation resolves a fresh configuration snapshot, builds its clients,
// runs one reconciler and returns. Errors are returned to the Lambda runtime,
// whose retry and dead-letter settings form the failure contract.
package handler

import (
	"context"

	"github.com/go-logr/logr"

	awsutil "github.com/johnlam90/ecs-minecraft-ondemand/pkg/aws"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/observability"
)

// ClientFactory creates the control plane clients of an invocation
type ClientFactory func(ctx context.Context, opts awsutil.ClientOptions) (*awsutil.Clients, error)

// Options configures the handlers
type Options struct {
	// Lookup resolves named inputs; nil reads the process environment
	Lookup config.LookupFunc
	// NewClients creates the control plane clients; nil uses awsutil.NewClients
	NewClients ClientFactory
	// Endpoint overrides the AWS service endpoint
	Endpoint string
	// Logger overrides the logger built from DEBUG and LOG_DEVELOPMENT
	Logger logr.Logger
	// Metrics receives operation and API call metrics; nil creates a new set
	Metrics *observability.Metrics
	// Job is the Pushgateway job name
	Job string
}

func (o Options) withDefaults(job string) Options {
	if o.NewClients == nil {
		o.NewClients = awsutil.NewClients
	}
	if o.Metrics == nil {
		o.Metrics = observability.NewMetrics()
	}
	if o.Job == "" {
		o.Job = job
	}
	return o
}

// invocation holds what one handler call needs
type invocation struct {
	cfg     config.ResolvedConfig
	log     *observability.StructuredLogger
	clients *awsutil.Clients
}

func (o Options) logger(cfg config.ResolvedConfig) (logr.Logger, error) {
	if o.Logger.GetSink() != nil {
		return o.Logger, nil
	}
	return observability.NewLogger(cfg.Debug, cfg.LogDevelopment)
}

// start builds the logger and clients for a loaded configuration
func (o Options) start(ctx context.Context, cfg config.ResolvedConfig) (*invocation, error) {
	logger, err := o.logger(cfg)
	if err != nil {
		return nil, err
	}

	sl := observability.NewStructuredLogger(logger, o.Metrics)
	clients, err := o.NewClients(ctx, awsutil.ClientOptions{
		Region:   cfg.Region,
		Endpoint: o.Endpoint,
		Logger:   logger,
		Observe:  sl.LogAWSAPICall,
	})
	if err != nil {
		return nil, err
	}

	return &invocation{cfg: cfg, log: sl, clients: clients}, nil
}

// finish pushes metrics when a Pushgateway is configured. A failed push is logged, not returned.
func (o Options) finish(ctx context.Context, inv *invocation) {
	if inv.cfg.PushgatewayURL == "" {
		return
	}
	if err := o.Metrics.Push(ctx, inv.cfg.PushgatewayURL, o.Job); err != nil {
		inv.log.Logger().Error(err, "Failed to push metrics")
	}
}
