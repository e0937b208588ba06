// Package events decodes the notifications that trigger the reconcilers.
package events

import (
	"encoding/json"
	"errors"
	"fmt"

	lambdaevents "github.com/aws/aws-lambda-go/events"
)

const (
	// SourceECS is the EventBridge source of ECS events
	SourceECS = "aws.ecs"
	// DetailTypeTaskStateChange is the EventBridge detail type of ECS task state changes
	DetailTypeTaskStateChange = "ECS Task State Change"

	// DetailNetworkInterfaceID names the attachment detail holding the ENI ID
	DetailNetworkInterfaceID = "networkInterfaceId"
)

// Attachment statuses reported by ECS for an elastic network interface
const (
	AttachmentStatusPrecreated = "PRECREATED"
	AttachmentStatusCreated    = "CREATED"
	AttachmentStatusAttaching  = "ATTACHING"
	AttachmentStatusAttached   = "ATTACHED"
	AttachmentStatusDetaching  = "DETACHING"
	AttachmentStatusDetached   = "DETACHED"
	AttachmentStatusDeleted    = "DELETED"
	AttachmentStatusFailed     = "FAILED"
)

// ErrMalformedEvent is matched by every MalformedEventError
var ErrMalformedEvent = errors.New("malformed event")

// MalformedEventError reports an event that does not have the expected shape
type MalformedEventError struct {
	Reason string
}

// Error implements the error interface
func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed task state change: %s", e.Reason)
}

// Is makes every MalformedEventError match ErrMalformedEvent
func (e *MalformedEventError) Is(target error) bool {
	return target == ErrMalformedEvent
}

// KeyValue is a name/value pair in an attachment's details
type KeyValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attachment is a binding between a task and a resource such as an ENI
type Attachment struct {
	ID      string     `json:"id,omitempty"`
	Type    string     `json:"type,omitempty"`
	Status  string     `json:"status"`
	Details []KeyValue `json:"details"`
}

// TaskStateChange is the detail of an "ECS Task State Change" event
type TaskStateChange struct {
	Status        string       `json:"status,omitempty"`
	LastStatus    string       `json:"lastStatus,omitempty"`
	DesiredStatus string       `json:"desiredStatus,omitempty"`
	TaskARN       string       `json:"taskArn,omitempty"`
	ClusterARN    string       `json:"clusterArn,omitempty"`
	Group         string       `json:"group,omitempty"`
	Attachments   []Attachment `json:"attachments"`
}

// ParseTaskStateChange decodes the detail of an EventBridge event
func ParseTaskStateChange(event lambdaevents.CloudWatchEvent) (TaskStateChange, error) {
	var change TaskStateChange

	if len(event.Detail) == 0 {
		return change, &MalformedEventError{Reason: "event has no detail"}
	}
	if err := json.Unmarshal(event.Detail, &change); err != nil {
		return TaskStateChange{}, &MalformedEventError{Reason: fmt.Sprintf("cannot decode detail: %v", err)}
	}

	return change, nil
}

// PrimaryAttachment returns the first attachment record.
// Records after the first are not considered.
func (c TaskStateChange) PrimaryAttachment() (Attachment, error) {
	if len(c.Attachments) == 0 {
		return Attachment{}, &MalformedEventError{Reason: "no attachments"}
	}
	return c.Attachments[0], nil
}

// Detail returns the value of the named detail
func (a Attachment) Detail(name string) (string, bool) {
	for _, d := range a.Details {
		if d.Name == name {
			return d.Value, true
		}
	}
	return "", false
}

// NetworkInterfaceID returns the ENI ID carried in the attachment's details
func (a Attachment) NetworkInterfaceID() (string, error) {
	eniID, ok := a.Detail(DetailNetworkInterfaceID)
	if !ok {
		return "", &MalformedEventError{Reason: fmt.Sprintf("attachment %s has no %s detail", a.ID, DetailNetworkInterfaceID)}
	}
	if eniID == "" {
		return "", &MalformedEventError{Reason: fmt.Sprintf("attachment %s has an empty %s detail", a.ID, DetailNetworkInterfaceID)}
	}
	return eniID, nil
}
