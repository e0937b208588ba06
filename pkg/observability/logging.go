// Package observability provides the structured logger and the metrics shared by the handlers.
package observability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	awsutil "github.com/johnlam90/ecs-minecraft-ondemand/pkg/aws"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/events"
)

// Operation types
const (
	OperationAttach = "eip-attach"
	OperationWake   = "service-wake"
	OperationStatus = "server-status"
)

// NewLogger creates a zap backed logr.Logger.
// Debug enables V(1) messages; development switches to the console encoder.
func NewLogger(debug, development bool) (logr.Logger, error) {
	var zc zap.Config
	if development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	zapLog, err := zc.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build zap logger: %w", err)
	}
	return zapr.NewLogger(zapLog), nil
}

// StructuredLogger provides structured logging with consistent fields
type StructuredLogger struct {
	logger  logr.Logger
	metrics *Metrics
}

// NewStructuredLogger creates a new structured logger. metrics may be nil.
func NewStructuredLogger(logger logr.Logger, metrics *Metrics) *StructuredLogger {
	return &StructuredLogger{
		logger:  logger,
		metrics: metrics,
	}
}

// Logger returns the underlying logger
func (sl *StructuredLogger) Logger() logr.Logger {
	return sl.logger
}

// OperationContext holds context information for an operation
type OperationContext struct {
	OperationID   string
	OperationType string
	Cluster       string
	Service       string
	TaskID        string
	ENIID         string
	AllocationID  string
	StartTime     time.Time
	Metadata      map[string]interface{}
}

// NewOperationContext creates a new operation context. The operation ID is the
// Lambda request ID when running inside Lambda.
func NewOperationContext(ctx context.Context, operationType string) *OperationContext {
	return &OperationContext{
		OperationID:   operationID(ctx),
		OperationType: operationType,
		StartTime:     time.Now(),
		Metadata:      make(map[string]interface{}),
	}
}

// WithService adds the cluster and service to the context
func (oc *OperationContext) WithService(cfg config.ResolvedConfig) *OperationContext {
	oc.Cluster = cfg.Cluster
	oc.Service = cfg.Service
	return oc
}

// WithMetadata adds metadata to the context
func (oc *OperationContext) WithMetadata(key string, value interface{}) *OperationContext {
	oc.Metadata[key] = value
	return oc
}

// Duration returns the elapsed time since the operation started
func (oc *OperationContext) Duration() time.Duration {
	return time.Since(oc.StartTime)
}

// LogFields returns structured log fields for this context
func (oc *OperationContext) LogFields() []interface{} {
	fields := []interface{}{
		"operationID", oc.OperationID,
		"operationType", oc.OperationType,
		"duration", oc.Duration(),
	}

	if oc.Cluster != "" {
		fields = append(fields, "cluster", oc.Cluster)
	}
	if oc.Service != "" {
		fields = append(fields, "service", oc.Service)
	}
	if oc.TaskID != "" {
		fields = append(fields, "taskID", oc.TaskID)
	}
	if oc.ENIID != "" {
		fields = append(fields, "eniID", oc.ENIID)
	}
	if oc.AllocationID != "" {
		fields = append(fields, "allocationID", oc.AllocationID)
	}

	for key, value := range oc.Metadata {
		fields = append(fields, key, value)
	}

	return fields
}

// LogOperationStart logs the start of an operation
func (sl *StructuredLogger) LogOperationStart(ctx context.Context, opCtx *OperationContext, message string) {
	sl.logger.Info(message, opCtx.LogFields()...)
}

// LogOperationSuccess logs successful completion of an operation and records its outcome
func (sl *StructuredLogger) LogOperationSuccess(ctx context.Context, opCtx *OperationContext, outcome, message string) {
	fields := append(opCtx.LogFields(), "outcome", outcome)
	sl.logger.Info(message, fields...)

	if sl.metrics != nil {
		sl.metrics.RecordOperation(opCtx.OperationType, outcome, opCtx.Duration())
	}
}

// LogOperationError logs an error during an operation
func (sl *StructuredLogger) LogOperationError(ctx context.Context, opCtx *OperationContext, err error, message string) {
	category := CategorizeError(err)
	fields := append(opCtx.LogFields(), "errorCategory", category)
	sl.logger.Error(err, message, fields...)

	if sl.metrics != nil {
		sl.metrics.RecordOperation(opCtx.OperationType, "error", opCtx.Duration())
		sl.metrics.RecordOperationError(opCtx.OperationType, category)
	}
}

// LogAWSAPICall logs an AWS API call with timing. It has the awsutil.CallObserver signature.
func (sl *StructuredLogger) LogAWSAPICall(service, operation string, duration time.Duration, err error) {
	fields := []interface{}{
		"service", service,
		"operation", operation,
		"duration", duration,
	}

	if err != nil {
		code := awsutil.APIErrorCode(err)
		fields = append(fields, "errorCode", code)
		sl.logger.Error(err, "AWS API call failed", fields...)

		if sl.metrics != nil {
			sl.metrics.RecordAWSAPICall(service, operation, "error", duration)
			sl.metrics.RecordAWSAPIError(service, operation, code)
		}
		return
	}

	sl.logger.V(1).Info("AWS API call succeeded", fields...)
	if sl.metrics != nil {
		sl.metrics.RecordAWSAPICall(service, operation, "success", duration)
	}
}

// CategorizeError categorizes errors for metrics
func CategorizeError(err error) string {
	if err == nil {
		return "none"
	}

	switch {
	case errors.Is(err, config.ErrConfig):
		return "config"
	case errors.Is(err, events.ErrMalformedEvent):
		return "malformed_event"
	case awsutil.IsServiceNotFound(err):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	}

	errMsg := strings.ToLower(awsutil.APIErrorCode(err) + " " + err.Error())

	if containsAny(errMsg, "throttl", "rate exceeded", "requestlimitexceeded") {
		return "throttling"
	}
	if containsAny(errMsg, "accessdenied", "access denied", "unauthorized", "forbidden") {
		return "authorization"
	}
	if containsAny(errMsg, "notfound", "not found", "does not exist") {
		return "not_found"
	}
	if containsAny(errMsg, "timeout", "connection") {
		return "network"
	}
	if containsAny(errMsg, "invalid", "malformed", "bad request") {
		return "validation"
	}

	return "unknown"
}

// operationID returns the Lambda request ID, or a random ID outside Lambda
func operationID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return "op-" + uuid.NewString()
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
