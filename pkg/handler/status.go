package handler

import (
	"context"
	"encoding/json"
	"net/http"

	lambdaevents "github.com/aws/aws-lambda-go/events"

	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/config"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/observability"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/reconciler"
)

// StatusHandler handles API Gateway proxy requests for the server status
type StatusHandler func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error)

var statusHeaders = map[string]string{
	"Content-Type":                     "application/json",
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Credentials": "true",
}

// NewStatusHandler creates the handler that reports whether the server is running.
// Failures are rendered as a 500 response rather than returned to the runtime.
func NewStatusHandler(opts Options) StatusHandler {
	opts = opts.withDefaults("minecraft-server-status")

	return func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		if req.HTTPMethod != "" && req.HTTPMethod != http.MethodGet {
			return jsonResponse(http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"}), nil
		}

		cfg, err := config.LoadWakeConfig(opts.Lookup)
		if err != nil {
			return jsonResponse(http.StatusInternalServerError, map[string]string{"error": err.Error()}), nil
		}

		inv, err := opts.start(ctx, cfg)
		if err != nil {
			return jsonResponse(http.StatusInternalServerError, map[string]string{"error": err.Error()}), nil
		}
		defer opts.finish(ctx, inv)

		opCtx := observability.NewOperationContext(ctx, observability.OperationStatus).WithService(cfg)

		status, err := reconciler.NewStatusReporter(cfg, inv.clients.Tasks, inv.log.Logger()).Status(ctx)
		if err != nil {
			inv.log.LogOperationError(ctx, opCtx, err, "Failed to read server status")
			return jsonResponse(http.StatusInternalServerError, map[string]string{"error": "failed to read server status"}), nil
		}

		outcome := "offline"
		if status.Online {
			outcome = "online"
		}
		inv.log.LogOperationSuccess(ctx, opCtx, outcome, "Reported server status")
		return jsonResponse(http.StatusOK, status), nil
	}
}

func jsonResponse(code int, body interface{}) lambdaevents.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		code = http.StatusInternalServerError
		raw = []byte(`{"error":"failed to encode response"}`)
	}

	headers := make(map[string]string, len(statusHeaders))
	for k, v := range statusHeaders {
		headers[k] = v
	}

	return lambdaevents.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    headers,
		Body:       string(raw),
	}
}
