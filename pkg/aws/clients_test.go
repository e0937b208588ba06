package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/smithy-go"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2 struct {
	inputs []*ec2.AssociateAddressInput
	err    error
}

func (f *fakeEC2) AssociateAddress(ctx context.Context, params *ec2.AssociateAddressInput, optFns ...func(*ec2.Options)) (*ec2.AssociateAddressOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ec2.AssociateAddressOutput{AssociationId: aws.String("eipassoc-1")}, nil
}

type fakeECS struct {
	services  []ecstypes.Service
	failures  []ecstypes.Failure
	updates   []*ecs.UpdateServiceInput
	taskPages [][]string
	listCalls int
	err       error
}

func (f *fakeECS) DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ecs.DescribeServicesOutput{Services: f.services, Failures: f.failures}, nil
}

func (f *fakeECS) UpdateService(ctx context.Context, params *ecs.UpdateServiceInput, optFns ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updates = append(f.updates, params)
	return &ecs.UpdateServiceOutput{}, nil
}

func (f *fakeECS) ListTasks(ctx context.Context, params *ecs.ListTasksInput, optFns ...func(*ecs.Options)) (*ecs.ListTasksOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.taskPages[f.listCalls]
	f.listCalls++

	out := &ecs.ListTasksOutput{TaskArns: page}
	if f.listCalls < len(f.taskPages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestEC2AddressManager_AssociateAddress(t *testing.T) {
	fake := &fakeEC2{}
	m := NewEC2AddressManager(fake, testr.New(t))

	var observed []string
	m.Observe = func(service, operation string, d time.Duration, err error) {
		observed = append(observed, service+":"+operation)
	}

	id, err := m.AssociateAddress(context.Background(), "eipalloc-abc", "eni-123")
	require.NoError(t, err)
	assert.Equal(t, "eipassoc-1", id)

	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "eipalloc-abc", aws.ToString(fake.inputs[0].AllocationId))
	assert.Equal(t, "eni-123", aws.ToString(fake.inputs[0].NetworkInterfaceId))
	assert.Nil(t, fake.inputs[0].AllowReassociation)
	assert.Equal(t, []string{"ec2:AssociateAddress"}, observed)
}

func TestEC2AddressManager_AssociateAddressError(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "InvalidAllocationID.NotFound", Message: "not found"}
	m := NewEC2AddressManager(&fakeEC2{err: apiErr}, testr.New(t))

	_, err := m.AssociateAddress(context.Background(), "eipalloc-abc", "eni-123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apiErr))
	assert.Equal(t, "InvalidAllocationID.NotFound", APIErrorCode(err))
}

func TestECSServiceManager_DescribeDesiredCount(t *testing.T) {
	fake := &fakeECS{services: []ecstypes.Service{{ServiceName: aws.String("minecraft-server"), DesiredCount: 2}}}
	m := NewECSServiceManager(fake, testr.New(t))

	count, err := m.DescribeDesiredCount(context.Background(), "minecraft", "minecraft-server")
	require.NoError(t, err)
	assert.Equal(t, int32(2), count)
}

func TestECSServiceManager_DescribeDesiredCountMissingService(t *testing.T) {
	fake := &fakeECS{failures: []ecstypes.Failure{{Reason: aws.String("MISSING")}}}
	m := NewECSServiceManager(fake, testr.New(t))

	_, err := m.DescribeDesiredCount(context.Background(), "minecraft", "minecraft-server")
	require.Error(t, err)
	assert.True(t, IsServiceNotFound(err))
	assert.Contains(t, err.Error(), "MISSING")
}

func TestECSServiceManager_SetDesiredCount(t *testing.T) {
	fake := &fakeECS{}
	m := NewECSServiceManager(fake, testr.New(t))

	require.NoError(t, m.SetDesiredCount(context.Background(), "minecraft", "minecraft-server", 1))
	require.Len(t, fake.updates, 1)
	assert.Equal(t, "minecraft", aws.ToString(fake.updates[0].Cluster))
	assert.Equal(t, "minecraft-server", aws.ToString(fake.updates[0].Service))
	assert.Equal(t, int32(1), aws.ToInt32(fake.updates[0].DesiredCount))
}

func TestECSServiceManager_ListRunningTasksPaginates(t *testing.T) {
	fake := &fakeECS{taskPages: [][]string{{"arn:task/a"}, {"arn:task/b", "arn:task/c"}}}
	m := NewECSServiceManager(fake, testr.New(t))

	tasks, err := m.ListRunningTasks(context.Background(), "minecraft", "minecraft-server")
	require.NoError(t, err)
	assert.Equal(t, []string{"arn:task/a", "arn:task/b", "arn:task/c"}, tasks)
	assert.Equal(t, 2, fake.listCalls)
}

func TestAPIErrorCode(t *testing.T) {
	assert.Equal(t, "", APIErrorCode(nil))
	assert.Equal(t, "", APIErrorCode(errors.New("plain")))
	assert.Equal(t, "ThrottlingException", APIErrorCode(&smithy.GenericAPIError{Code: "ThrottlingException"}))
}
