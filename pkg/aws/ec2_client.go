package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

// defaultCallTimeout bounds a single control plane call
const defaultCallTimeout = 30 * time.Second

// EC2AddressManager implements the AddressAssociator interface
type EC2AddressManager struct {
	// EC2 is the underlying AWS SDK v2 EC2 client
	EC2 EC2API
	// Logger is used for structured logging
	Logger logr.Logger
	// Observe is called after every API call when set
	Observe CallObserver
	// Rate limiter for AWS API calls
	rateLimiter *rate.Limiter
}

// NewEC2AddressManager creates a new EC2AddressManager
func NewEC2AddressManager(ec2Client EC2API, logger logr.Logger) *EC2AddressManager {
	return &EC2AddressManager{
		EC2:         ec2Client,
		Logger:      logger.WithName("ec2-address-manager"),
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20), // 10 requests per second, burst of 20
	}
}

// AssociateAddress associates an Elastic IP allocation with a network interface.
// Reassociation is not requested: an address held by another interface fails
// with Resource.AlreadyAssociated instead of being moved.
func (m *EC2AddressManager) AssociateAddress(ctx context.Context, allocationID, eniID string) (string, error) {
	// Add context timeout for AWS operations
	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	if err := m.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	log := m.Logger.WithValues("allocationID", allocationID, "eniID", eniID)
	log.V(1).Info("Calling AssociateAddress")

	input := &ec2.AssociateAddressInput{
		AllocationId:       aws.String(allocationID),
		NetworkInterfaceId: aws.String(eniID),
	}

	start := time.Now()
	result, err := m.EC2.AssociateAddress(ctx, input)
	m.observe("AssociateAddress", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to associate address %s with interface %s: %w", allocationID, eniID, err)
	}

	associationID := aws.ToString(result.AssociationId)
	log.Info("Successfully associated address", "associationID", associationID)
	return associationID, nil
}

func (m *EC2AddressManager) observe(operation string, start time.Time, err error) {
	if m.Observe != nil {
		m.Observe(ServiceEC2, operation, time.Since(start), err)
	}
}
