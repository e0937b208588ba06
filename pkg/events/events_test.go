package events

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const attachedDetail = `{
  "clusterArn": "arn:aws:ecs:us-east-1:111122223333:cluster/minecraft",
  "taskArn": "arn:aws:ecs:us-east-1:111122223333:task/minecraft/0123456789abcdef",
  "lastStatus": "PROVISIONING",
  "desiredStatus": "RUNNING",
  "group": "service:minecraft-server",
  "attachments": [
    {
      "id": "a1b2c3",
      "type": "eni",
      "status": "ATTACHED",
      "details": [
        {"name": "subnetId", "value": "subnet-123"},
        {"name": "networkInterfaceId", "value": "eni-123"},
        {"name": "macAddress", "value": "0a:00:00:00:00:01"}
      ]
    }
  ]
}`

func newEvent(detail string) lambdaevents.CloudWatchEvent {
	return lambdaevents.CloudWatchEvent{
		Source:     SourceECS,
		DetailType: DetailTypeTaskStateChange,
		Detail:     json.RawMessage(detail),
	}
}

func TestParseTaskStateChange(t *testing.T) {
	change, err := ParseTaskStateChange(newEvent(attachedDetail))
	require.NoError(t, err)

	assert.Equal(t, "PROVISIONING", change.LastStatus)
	assert.Equal(t, "service:minecraft-server", change.Group)
	require.Len(t, change.Attachments, 1)

	att, err := change.PrimaryAttachment()
	require.NoError(t, err)
	assert.Equal(t, AttachmentStatusAttached, att.Status)

	eniID, err := att.NetworkInterfaceID()
	require.NoError(t, err)
	assert.Equal(t, "eni-123", eniID)
}

func TestParseTaskStateChangeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		detail string
	}{
		{name: "no detail", detail: ""},
		{name: "invalid json", detail: `{"attachments": [`},
		{name: "wrong attachments type", detail: `{"attachments": "eni"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaskStateChange(newEvent(tt.detail))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedEvent))
		})
	}
}

func TestPrimaryAttachment(t *testing.T) {
	_, err := TaskStateChange{}.PrimaryAttachment()
	require.Error(t, err)

	var malformed *MalformedEventError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "no attachments", malformed.Reason)

	change := TaskStateChange{Attachments: []Attachment{
		{ID: "first", Status: AttachmentStatusAttaching},
		{ID: "second", Status: AttachmentStatusAttached},
	}}
	att, err := change.PrimaryAttachment()
	require.NoError(t, err)
	assert.Equal(t, "first", att.ID)
}

func TestNetworkInterfaceID(t *testing.T) {
	tests := []struct {
		name        string
		details     []KeyValue
		want        string
		expectError bool
	}{
		{
			name:    "present",
			details: []KeyValue{{Name: "networkInterfaceId", Value: "eni-abc"}},
			want:    "eni-abc",
		},
		{
			name:        "missing",
			details:     []KeyValue{{Name: "subnetId", Value: "subnet-1"}},
			expectError: true,
		},
		{
			name:        "empty value",
			details:     []KeyValue{{Name: "networkInterfaceId", Value: ""}},
			expectError: true,
		},
		{
			name:        "name is case sensitive",
			details:     []KeyValue{{Name: "NetworkInterfaceId", Value: "eni-abc"}},
			expectError: true,
		},
		{
			name:        "no details",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Attachment{ID: "att", Details: tt.details}.NetworkInterfaceID()
			if tt.expectError {
				assert.ErrorIs(t, err, ErrMalformedEvent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func encodeLogs(t *testing.T, data lambdaevents.CloudwatchLogsData) string {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeWakeTrigger(t *testing.T) {
	payload := encodeLogs(t, lambdaevents.CloudwatchLogsData{
		Owner:     "111122223333",
		LogGroup:  "/aws/route53/minecraft.example.com",
		LogStream: "Z1D633PJN98FT9/edge-1",
		LogEvents: []lambdaevents.CloudwatchLogsLogEvent{
			{ID: "1", Timestamp: 1, Message: "1.0 minecraft.example.com A NOERROR"},
			{ID: "2", Timestamp: 2, Message: "1.0 minecraft.example.com AAAA NOERROR"},
		},
	})

	trigger, err := DecodeWakeTrigger(lambdaevents.CloudwatchLogsEvent{
		AWSLogs: lambdaevents.CloudwatchLogsRawData{Data: payload},
	})
	require.NoError(t, err)
	assert.Equal(t, WakeSourceLogs, trigger.Source)
	assert.Equal(t, "/aws/route53/minecraft.example.com", trigger.LogGroup)
	assert.Equal(t, 2, trigger.Matches)
}

func TestDecodeWakeTriggerManual(t *testing.T) {
	trigger, err := DecodeWakeTrigger(lambdaevents.CloudwatchLogsEvent{})
	require.NoError(t, err)
	assert.Equal(t, WakeSourceManual, trigger.Source)
}

func TestDecodeWakeTriggerGarbage(t *testing.T) {
	trigger, err := DecodeWakeTrigger(lambdaevents.CloudwatchLogsEvent{
		AWSLogs: lambdaevents.CloudwatchLogsRawData{Data: "not-base64!"},
	})
	assert.ErrorIs(t, err, ErrMalformedEvent)
	assert.Equal(t, WakeSourceLogs, trigger.Source)
}
