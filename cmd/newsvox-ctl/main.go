package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cli "github.com/spf13/pflag"

	"newsvox/internal/ipc"
)

const usage = `usage: newsvox-ctl [flags] <command> [args...]

commands:
  start | pause | resume | stop
  lang <key>            e.g. lang hi-IN
  visible | hidden
  say <transcript>      feed text as if it was heard
  summarize <n> | keypoints <n> | sentiment <n>
  ask <n> <question>
  status
`

func main() {
	socket := cli.StringP("socket", "s", ipc.SocketPath, "Control socket path")
	timeout := cli.DurationP("timeout", "t", 5*time.Second, "Request timeout")
	cli.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		cli.PrintDefaults()
	}
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		cli.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := ipc.Send(ctx, *socket, ipc.ControlMessage{Cmd: args[0], Args: args[1:]})
	if err != nil {
		fmt.Println("newsvox-daemon not running:", err)
		os.Exit(1)
	}
	if !resp.OK {
		fmt.Println("error:", resp.Error)
		os.Exit(1)
	}
	if len(resp.Data) > 0 {
		fmt.Println(strings.TrimSpace(string(resp.Data)))
	}
}
