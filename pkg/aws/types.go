package aws

import (
	"errors"
	"fmt"
	"time"

	"github.com/aws/smithy-go"
)

// Service names used in API call observations
const (
	ServiceEC2 = "ec2"
	ServiceECS = "ecs"
)

// CallObserver is notified after every control plane call
type CallObserver func(service, operation string, duration time.Duration, err error)

// ServiceNotFoundError is returned when DescribeServices does not report the requested service
type ServiceNotFoundError struct {
	Cluster string
	Service string
	Reason  string
}

// Error implements the error interface
func (e ServiceNotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %s not found in cluster %s: %s", e.Service, e.Cluster, e.Reason)
	}
	return fmt.Sprintf("service %s not found in cluster %s", e.Service, e.Cluster)
}

// IsServiceNotFound reports whether err is or wraps a ServiceNotFoundError
func IsServiceNotFound(err error) bool {
	var nf ServiceNotFoundError
	return errors.As(err, &nf)
}

// APIErrorCode returns the AWS error code carried by err, or "" if err is not an API error
func APIErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
