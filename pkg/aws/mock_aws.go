package aws

import (
	"context"
	"fmt"
	"sync"
)

// Operation names accepted by MockClient.SetFailureScenario
const (
	OpAssociateAddress     = "AssociateAddress"
	OpDescribeDesiredCount = "DescribeDesiredCount"
	OpSetDesiredCount      = "SetDesiredCount"
	OpListRunningTasks     = "ListRunningTasks"
)

// AssociateCall records one AssociateAddress call
type AssociateCall struct {
	AllocationID string
	ENIID        string
}

// SetDesiredCountCall records one SetDesiredCount call
type SetDesiredCountCall struct {
	Cluster string
	Service string
	Count   int32
}

// MockClient implements AddressAssociator, ServiceScaler and TaskLister for testing purposes.
// It records every call and keeps the desired counts it is asked to set.
type MockClient struct {
	// Mocked resources
	DesiredCounts    map[string]int32    // cluster/service -> desired count
	RunningTasks     map[string][]string // cluster/service -> task ARNs
	FailureScenarios map[string]bool     // operation -> should fail

	AssociateCalls       []AssociateCall
	SetDesiredCountCalls []SetDesiredCountCall
	DescribeCalls        int

	mutex sync.RWMutex
}

// NewMockClient creates a new mock client for testing
func NewMockClient() *MockClient {
	return &MockClient{
		DesiredCounts:    make(map[string]int32),
		RunningTasks:     make(map[string][]string),
		FailureScenarios: make(map[string]bool),
	}
}

// Clients returns a Clients bundle backed entirely by the mock
func (m *MockClient) Clients() *Clients {
	return &Clients{Addresses: m, Services: m, Tasks: m}
}

// SetFailureScenario sets whether a specific operation should fail
func (m *MockClient) SetFailureScenario(operation string, shouldFail bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.FailureScenarios[operation] = shouldFail
}

// AddService adds a service with the given desired count
func (m *MockClient) AddService(cluster, service string, desiredCount int32) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.DesiredCounts[serviceKey(cluster, service)] = desiredCount
}

// AddRunningTask adds a running task to a service
func (m *MockClient) AddRunningTask(cluster, service, taskARN string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	key := serviceKey(cluster, service)
	m.RunningTasks[key] = append(m.RunningTasks[key], taskARN)
}

// Associations returns a copy of the recorded AssociateAddress calls
func (m *MockClient) Associations() []AssociateCall {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]AssociateCall(nil), m.AssociateCalls...)
}

// Updates returns a copy of the recorded SetDesiredCount calls
func (m *MockClient) Updates() []SetDesiredCountCall {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]SetDesiredCountCall(nil), m.SetDesiredCountCalls...)
}

// AssociateAddress records the call
func (m *MockClient) AssociateAddress(ctx context.Context, allocationID, eniID string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.FailureScenarios[OpAssociateAddress] {
		return "", fmt.Errorf("simulated AssociateAddress failure")
	}

	m.AssociateCalls = append(m.AssociateCalls, AssociateCall{AllocationID: allocationID, ENIID: eniID})
	return fmt.Sprintf("eipassoc-%d", len(m.AssociateCalls)), nil
}

// DescribeDesiredCount returns the desired count of a known service
func (m *MockClient) DescribeDesiredCount(ctx context.Context, cluster, service string) (int32, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.DescribeCalls++

	if m.FailureScenarios[OpDescribeDesiredCount] {
		return 0, fmt.Errorf("simulated DescribeDesiredCount failure")
	}

	count, ok := m.DesiredCounts[serviceKey(cluster, service)]
	if !ok {
		return 0, ServiceNotFoundError{Cluster: cluster, Service: service, Reason: "MISSING"}
	}
	return count, nil
}

// SetDesiredCount records the call and stores the new desired count
func (m *MockClient) SetDesiredCount(ctx context.Context, cluster, service string, count int32) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.FailureScenarios[OpSetDesiredCount] {
		return fmt.Errorf("simulated SetDesiredCount failure")
	}

	m.SetDesiredCountCalls = append(m.SetDesiredCountCalls, SetDesiredCountCall{Cluster: cluster, Service: service, Count: count})
	m.DesiredCounts[serviceKey(cluster, service)] = count
	return nil
}

// ListRunningTasks returns the running tasks of a service
func (m *MockClient) ListRunningTasks(ctx context.Context, cluster, service string) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.FailureScenarios[OpListRunningTasks] {
		return nil, fmt.Errorf("simulated ListRunningTasks failure")
	}

	return append([]string(nil), m.RunningTasks[serviceKey(cluster, service)]...), nil
}

func serviceKey(cluster, service string) string {
	return cluster + "/" + service
}
