package sigsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahamid/pmansignal/internal/kernel"
	"github.com/ahamid/pmansignal/internal/sigsvc/proto"
)

func newTestService(t *testing.T) (*Service, *kernel.Fake) {
	t.Helper()
	f := kernel.NewFake()
	f.AddTask(&kernel.Task{ID: 1, State: kernel.TaskRunning})
	f.AddThread(&kernel.Thread{ID: 1, TaskID: 1, State: kernel.ThrRunning})
	return New(f.Collaborators(), nil), f
}

func TestWait_BlockingParksThreadAndInsertsRecord(t *testing.T) {
	svc, f := newTestService(t)

	svc.Wait(proto.WaitForSignal{
		Cmd:            proto.CmdWaitForSignal,
		RequestingTask: 1,
		ThrID:          1,
		EventType:      proto.EventSleep,
		Task:           proto.PmanTask,
		SignalParam:    proto.ParamIgnore,
		SignalPort:     5,
		Timeout:        proto.Infinite,
	})

	require.Equal(t, []uint32{1}, f.Deactivations)
	ts, ok := svc.threads.lookup(1)
	require.True(t, ok)
	assert.NotZero(t, ts.blockingSignal)
	assert.NotZero(t, ts.first)
	assert.Empty(t, f.Sent, "no reply until matched or timed out")
}

func TestWait_NBlockDoesNotDeactivate(t *testing.T) {
	svc, f := newTestService(t)

	svc.Wait(proto.WaitForSignal{
		Cmd:            proto.CmdWaitForSignalNBlock,
		RequestingTask: 1,
		ThrID:          1,
		EventType:      proto.EventSleep,
		Task:           proto.PmanTask,
		SignalParam:    proto.ParamIgnore,
		SignalPort:     5,
		Timeout:        proto.Infinite,
	})

	assert.Empty(t, f.Deactivations)
	ts, ok := svc.threads.lookup(1)
	require.True(t, ok)
	assert.Zero(t, ts.blockingSignal, "NBLOCK never sets blocking_signal")
	assert.NotZero(t, ts.first)
}

func TestWait_RejectsUnknownRequestingTask(t *testing.T) {
	svc, f := newTestService(t)

	svc.Wait(proto.WaitForSignal{
		RequestingTask: 99,
		ThrID:          1,
		SignalPort:     5,
		Timeout:        proto.Infinite,
	})

	require.Len(t, f.Sent, 1)
	reply := f.Sent[0].Msg.(proto.SignalCmd)
	assert.Equal(t, proto.Failed, reply.Ret)
}

func TestWait_RejectsMmappingTask(t *testing.T) {
	svc, f := newTestService(t)
	task, _ := f.Get(1)
	task.State = kernel.TaskMmapping

	svc.Wait(proto.WaitForSignal{RequestingTask: 1, ThrID: 1, SignalPort: 5, Timeout: proto.Infinite})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SignalCmd).Ret)
}

func TestWait_RejectsThreadNotOwnedByTask(t *testing.T) {
	svc, f := newTestService(t)
	f.AddTask(&kernel.Task{ID: 2, State: kernel.TaskRunning})
	f.AddThread(&kernel.Thread{ID: 2, TaskID: 2, State: kernel.ThrRunning})

	svc.Wait(proto.WaitForSignal{RequestingTask: 1, ThrID: 2, SignalPort: 5, Timeout: proto.Infinite})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SignalCmd).Ret)
}

func TestWait_RejectsSecondBlockingWaitOnSameThread(t *testing.T) {
	svc, f := newTestService(t)

	req := proto.WaitForSignal{
		Cmd:            proto.CmdWaitForSignal,
		RequestingTask: 1,
		ThrID:          1,
		SignalPort:     5,
		Timeout:        proto.Infinite,
	}
	svc.Wait(req)
	require.Empty(t, f.Sent)

	svc.Wait(req)
	require.Len(t, f.Sent, 1, "second blocking wait on an already-blocking thread must fail")
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SignalCmd).Ret)
}

func TestWait_RejectsRepeatingBlockingCombination(t *testing.T) {
	svc, f := newTestService(t)

	svc.Wait(proto.WaitForSignal{
		Cmd:            proto.CmdWaitForSignal,
		RequestingTask: 1,
		ThrID:          1,
		SignalPort:     5,
		Timeout:        proto.Repeating,
	})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SignalCmd).Ret)
}

func TestWait_RepeatingNBlockSurvivesDeliveryLoop(t *testing.T) {
	svc, f := newTestService(t)

	svc.Wait(proto.WaitForSignal{
		Cmd:            proto.CmdWaitForSignalNBlock,
		RequestingTask: 1,
		ThrID:          1,
		EventType:      proto.EventUser,
		Task:           1,
		SignalParam:    proto.ParamIgnore,
		SignalPort:     5,
		Timeout:        proto.Repeating,
	})

	svc.Event(proto.Event{Task: 1, EventType: proto.EventUser, Param: 1})
	svc.Event(proto.Event{Task: 1, EventType: proto.EventUser, Param: 2})

	require.Len(t, f.Sent, 2, "a REPEATING record is never unlinked on delivery")
	ts, ok := svc.threads.lookup(1)
	require.True(t, ok)
	assert.NotZero(t, ts.first, "record must still be present for further events")
}

func TestWait_InterruptRegistrationFailureRollsBack(t *testing.T) {
	svc, f := newTestService(t)
	f.InterruptAccept[[2]uint32{proto.PmanTask, 7}] = assert.AnError

	svc.Wait(proto.WaitForSignal{
		Cmd:            proto.CmdWaitForSignal,
		RequestingTask: 1,
		ThrID:          1,
		EventType:      proto.EventIntr,
		Task:           proto.PmanTask,
		SignalParam:    7,
		SignalPort:     5,
		Timeout:        proto.Infinite,
	})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SignalCmd).Ret)
	assert.Equal(t, []uint32{1}, f.Deactivations)
	assert.Equal(t, []uint32{1}, f.Activations, "reactivated after rollback")
	ts, ok := svc.threads.lookup(1)
	require.True(t, ok)
	assert.Zero(t, ts.first, "record must be fully unlinked and freed on rollback")
	assert.Zero(t, ts.blockingSignal)
}

func TestWait_RateLimiterRejectsOverLimit(t *testing.T) {
	svc, f := newTestService(t)
	svc.SetRateLimiter(zeroAllowanceLimiter(t))

	svc.Wait(proto.WaitForSignal{RequestingTask: 1, ThrID: 1, SignalPort: 5, Timeout: proto.Infinite})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SignalCmd).Ret)
}
