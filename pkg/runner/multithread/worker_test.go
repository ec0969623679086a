package multithread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/meshrunner/pkg/app"
	"github.com/eventflow/meshrunner/pkg/topology"
)

type stubFollower struct {
	pulled chan string
}

func (stubFollower) ClassName() string       { return "stub" }
func (stubFollower) ReceivePrompt(string)    {}
func (stubFollower) Follow(string, any)      {}
func (s stubFollower) PullAndProcess(leaderName string) {
	s.pulled <- leaderName
}

func TestWorker_ConstructsAndProcesses(t *testing.T) {
	pulled := make(chan string, 1)
	cls := topology.Class{
		Name:         "B",
		Capabilities: app.CapApplication | app.CapFollower,
		New:          func() app.Application { return stubFollower{pulled: pulled} },
	}

	w := newWorker("B", cls)
	go w.run()
	defer w.stop()

	select {
	case <-w.ready:
	case <-time.After(time.Second):
		t.Fatal("worker never became ready")
	}
	require.NoError(t, w.failErr)

	w.ReceivePrompt("A")
	select {
	case got := <-pulled:
		assert.Equal(t, "A", got)
	case <-time.After(time.Second):
		t.Fatal("worker never processed the prompt")
	}
}

func TestWorker_FailsWhenClassIsNotAFollower(t *testing.T) {
	cls := topology.Class{
		Name:         "B",
		Capabilities: app.CapApplication,
		New:          func() app.Application { return &notAFollower{} },
	}

	w := newWorker("B", cls)
	go w.run()
	defer w.stop()

	select {
	case <-w.ready:
	case <-time.After(time.Second):
		t.Fatal("worker never signaled readiness")
	}
	require.Error(t, w.failErr)
}

func TestWorker_RecoversFromConstructorPanic(t *testing.T) {
	cls := topology.Class{
		Name:         "B",
		Capabilities: app.CapApplication | app.CapFollower,
		New:          func() app.Application { panic("boom") },
	}

	w := newWorker("B", cls)
	go w.run()
	defer w.stop()

	select {
	case <-w.ready:
	case <-time.After(time.Second):
		t.Fatal("worker never signaled readiness")
	}
	require.Error(t, w.failErr)
	assert.Contains(t, w.failErr.Error(), "boom")
}

type notAFollower struct{}

func (*notAFollower) ClassName() string { return "notAFollower" }
