package sigsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahamid/pmansignal/internal/kernel"
	"github.com/ahamid/pmansignal/internal/sigsvc/proto"
)

func TestSetSignalHandler_Success(t *testing.T) {
	svc, f := newTestService(t)
	f.ExecRegions[[2]uint64{1, 0x1000}] = true

	svc.SetSignalHandler(proto.SetSignalHandler{
		ThrID:          1,
		HandlerEP:      0x1000,
		ExceptionsPort: 7,
		RetPort:        11,
	})

	require.Len(t, f.Sent, 1)
	reply := f.Sent[0].Msg.(proto.SetSignalHandlerRes)
	assert.Equal(t, proto.CmdSetSignalHandler, reply.Command)
	assert.Equal(t, proto.OK, reply.Result)
	task, ok := f.Get(1)
	require.True(t, ok)
	assert.Equal(t, uintptr(0x1000), task.HandlerEP)
	assert.Equal(t, uint32(7), task.ExceptionsPort)
}

func TestSetSignalHandler_NullHandlerAlwaysValid(t *testing.T) {
	svc, f := newTestService(t)

	svc.SetSignalHandler(proto.SetSignalHandler{ThrID: 1, RetPort: 11})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.OK, f.Sent[0].Msg.(proto.SetSignalHandlerRes).Result)
}

func TestSetSignalHandler_RejectsNonExecutableHandler(t *testing.T) {
	svc, f := newTestService(t)

	svc.SetSignalHandler(proto.SetSignalHandler{ThrID: 1, HandlerEP: 0x2000, RetPort: 11})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SetSignalHandlerRes).Result)
}

func TestSetSignalHandler_RejectsStackWithoutHandler(t *testing.T) {
	svc, f := newTestService(t)

	svc.SetSignalHandler(proto.SetSignalHandler{ThrID: 1, Stack: 0x8000, RetPort: 11})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SetSignalHandlerRes).Result)
}

func TestSetSignalHandler_RejectsKilledTask(t *testing.T) {
	svc, f := newTestService(t)
	task, _ := f.Get(1)
	task.State = kernel.TaskKilled

	svc.SetSignalHandler(proto.SetSignalHandler{ThrID: 1, RetPort: 11})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SetSignalHandlerRes).Result)
}

func TestSetSignalStack_Success(t *testing.T) {
	svc, f := newTestService(t)
	task, _ := f.Get(1)
	task.VMM.MaxAddr = 0x7000

	svc.SetSignalStack(proto.SetSignalStack{ThrID: 1, Stack: 0x7000, RetPort: 11})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.OK, f.Sent[0].Msg.(proto.SetSignalHandlerRes).Result)
	thr, ok := f.GetThread(1)
	require.True(t, ok)
	assert.Equal(t, uintptr(0x7000), thr.Stack)
}

func TestSetSignalStack_RejectsBelowMaxAddr(t *testing.T) {
	svc, f := newTestService(t)
	task, _ := f.Get(1)
	task.VMM.MaxAddr = 0x7000

	svc.SetSignalStack(proto.SetSignalStack{ThrID: 1, Stack: 0x6000, RetPort: 11})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SetSignalHandlerRes).Result)
}

func TestSetSignalStack_RejectsExceptionState(t *testing.T) {
	svc, f := newTestService(t)
	thr, _ := f.GetThread(1)
	thr.State = kernel.ThrException

	svc.SetSignalStack(proto.SetSignalStack{ThrID: 1, RetPort: 11})

	require.Len(t, f.Sent, 1)
	assert.Equal(t, proto.Failed, f.Sent[0].Msg.(proto.SetSignalHandlerRes).Result)
}
