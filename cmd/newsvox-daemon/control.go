package main

import (
	"context"
	"encoding/json"
	"time"

	"newsvox/internal/dialogue"
	"newsvox/internal/ipc"
)

const statusTimeout = 2 * time.Second

type poster interface {
	Post(ctx context.Context, cmd dialogue.Command) error
}

// dispatch turns a control message, from the socket or the UI bus, into a
// session command.
func dispatch(ctx context.Context, ctrl poster, msg ipc.ControlMessage) ipc.Response {
	cmd, err := dialogue.ParseCommand(msg.Cmd, msg.Args)
	if err != nil {
		return ipc.Response{Error: err.Error()}
	}

	if cmd.Kind != dialogue.CmdStatus {
		if err := ctrl.Post(ctx, cmd); err != nil {
			return ipc.Response{Error: err.Error()}
		}
		return ipc.Response{OK: true}
	}

	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	reply := make(chan dialogue.Status, 1)
	cmd.Reply = reply
	if err := ctrl.Post(ctx, cmd); err != nil {
		return ipc.Response{Error: err.Error()}
	}

	select {
	case st := <-reply:
		data, err := json.Marshal(st)
		if err != nil {
			return ipc.Response{Error: err.Error()}
		}
		return ipc.Response{OK: true, Data: data}
	case <-ctx.Done():
		return ipc.Response{Error: ctx.Err().Error()}
	}
}
