package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsvox/internal/ai"
	"newsvox/internal/dialogue"
	"newsvox/internal/ipc"
)

type fakePoster struct {
	got    []dialogue.Command
	err    error
	status dialogue.Status
	silent bool
}

func (f *fakePoster) Post(_ context.Context, cmd dialogue.Command) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, cmd)
	if cmd.Reply != nil && !f.silent {
		cmd.Reply <- f.status
	}
	return nil
}

func TestDispatchPostsCommand(t *testing.T) {
	p := &fakePoster{}
	resp := dispatch(context.Background(), p, ipc.ControlMessage{Cmd: "summarize", Args: []string{"2"}})

	require.True(t, resp.OK, resp.Error)
	require.Len(t, p.got, 1)
	assert.Equal(t, dialogue.CmdAI, p.got[0].Kind)
	assert.Equal(t, ai.OpSummarize, p.got[0].Op)
	assert.Equal(t, 1, p.got[0].Index)
}

func TestDispatchRejectsUnknown(t *testing.T) {
	p := &fakePoster{}
	resp := dispatch(context.Background(), p, ipc.ControlMessage{Cmd: "dance"})

	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "unknown command")
	assert.Empty(t, p.got)
}

func TestDispatchStatus(t *testing.T) {
	p := &fakePoster{status: dialogue.Status{Mic: dialogue.MicLive, Articles: 3, Capturing: true}}
	resp := dispatch(context.Background(), p, ipc.ControlMessage{Cmd: "status"})
	require.True(t, resp.OK, resp.Error)

	var st dialogue.Status
	require.NoError(t, json.Unmarshal(resp.Data, &st))
	assert.Equal(t, dialogue.MicLive, st.Mic)
	assert.Equal(t, 3, st.Articles)
}

func TestDispatchStatusTimesOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := dispatch(ctx, &fakePoster{silent: true}, ipc.ControlMessage{Cmd: "status"})
	assert.False(t, resp.OK)
	assert.Equal(t, context.Canceled.Error(), resp.Error)
}

func TestDispatchStoppedSession(t *testing.T) {
	resp := dispatch(context.Background(), &fakePoster{err: dialogue.ErrStopped}, ipc.ControlMessage{Cmd: "start"})
	assert.False(t, resp.OK)
	assert.Equal(t, dialogue.ErrStopped.Error(), resp.Error)
}
