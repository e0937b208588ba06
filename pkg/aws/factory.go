package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/go-logr/logr"
)

// ClientOptions configures NewClients
type ClientOptions struct {
	// Region is the AWS region of every client
	Region string
	// Endpoint overrides the service endpoint, for example a local emulator
	Endpoint string
	// Logger is used for structured logging
	Logger logr.Logger
	// Observe is called after every API call when set
	Observe CallObserver
}

// NewClients loads the default AWS configuration and creates the control plane clients.
// Credentials come from the execution environment.
func NewClients(ctx context.Context, opts ClientOptions) (*Clients, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if opts.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(opts.Endpoint)
	}

	return NewClientsFromConfig(cfg, opts.Logger, opts.Observe), nil
}

// NewClientsFromConfig creates the control plane clients from an existing AWS configuration
func NewClientsFromConfig(cfg aws.Config, logger logr.Logger, observe CallObserver) *Clients {
	addresses := NewEC2AddressManager(ec2.NewFromConfig(cfg), logger)
	addresses.Observe = observe

	services := NewECSServiceManager(ecs.NewFromConfig(cfg), logger)
	services.Observe = observe

	return &Clients{
		Addresses: addresses,
		Services:  services,
		Tasks:     services,
	}
}
