package events

import (
	lambdaevents "github.com/aws/aws-lambda-go/events"
)

// Wake trigger sources
const (
	WakeSourceManual = "manual"
	WakeSourceLogs   = "cloudwatch-logs"
)

// WakeTrigger describes what asked for the service to be woken.
// It is informational only and never blocks a wake.
type WakeTrigger struct {
	Source    string `json:"source"`
	LogGroup  string `json:"logGroup,omitempty"`
	LogStream string `json:"logStream,omitempty"`
	Matches   int    `json:"matches,omitempty"`
}

// DecodeWakeTrigger decodes a CloudWatch Logs subscription payload, such as the
// DNS query log lines matching the server hostname. An empty payload is a manual
// invocation.
func DecodeWakeTrigger(event lambdaevents.CloudwatchLogsEvent) (WakeTrigger, error) {
	if event.AWSLogs.Data == "" {
		return WakeTrigger{Source: WakeSourceManual}, nil
	}

	data, err := event.AWSLogs.Parse()
	if err != nil {
		return WakeTrigger{Source: WakeSourceLogs}, &MalformedEventError{Reason: "cannot decode logs payload: " + err.Error()}
	}

	return WakeTrigger{
		Source:    WakeSourceLogs,
		LogGroup:  data.LogGroup,
		LogStream: data.LogStream,
		Matches:   len(data.LogEvents),
	}, nil
}
