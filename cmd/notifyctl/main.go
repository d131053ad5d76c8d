package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: notifyctl [-config path] <command> [flags]

commands:
  classify   show the context, priority and emoji for a message
  send       create a notification for one or more users
  unread     list a user's unread notifications
  read       mark notifications as read
  watch      print a user's new unread notifications as they arrive
  setup      edit the configuration interactively
  secret     set or delete the stored redis password
`

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to config yaml (default ~/.config/sitehub/notify.yaml)")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd, args := flag.Arg(0), flag.Args()[1:]

	var err error
	switch cmd {
	case "classify":
		err = runClassify(args)
	case "send":
		err = withApp(ctx, cfgPath, func(a *app) error { return runSend(ctx, a, args) })
	case "unread":
		err = withApp(ctx, cfgPath, func(a *app) error { return runUnread(ctx, a, args) })
	case "read":
		err = withApp(ctx, cfgPath, func(a *app) error { return runRead(ctx, a, args) })
	case "watch":
		err = withApp(ctx, cfgPath, func(a *app) error { return runWatch(ctx, a, args) })
	case "setup":
		err = runSetup(cfgPath)
	case "secret":
		err = runSecret(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
