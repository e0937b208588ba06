// Command mcctl invokes the reconcilers by hand, outside Lambda.
//
//	mcctl wake
//	mcctl attach --event task-state-change.json
//	mcctl status
//
// Configuration is read from the same environment inputs as the Lambda functions.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/spf13/pflag"

	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/handler"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/observability"
	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/util"
)

var commands = []string{"wake", "attach", "status"}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, handler.Options{}); err != nil {
		fmt.Fprintf(os.Stderr, "mcctl: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: mcctl [flags] <%s>\n\nFlags:\n", strings.Join(commands, "|"))
	flags.SetOutput(w)
	flags.PrintDefaults()
}

// run executes one command. Results go to stdout; usage and flag errors go to stderr.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts handler.Options) error {
	flags := pflag.NewFlagSet("mcctl", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	endpoint := flags.String("endpoint", "", "Override the AWS service endpoint")
	debug := flags.Bool("debug", false, "Enable debug logging")
	timeout := flags.Duration("timeout", 60*time.Second, "Timeout for the whole invocation")
	eventPath := flags.StringP("event", "e", "-", "Task state change event for attach, \"-\" reads stdin")
	flags.Usage = func() { usage(stderr, flags) }

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 || !util.ContainsString(commands, flags.Arg(0)) {
		usage(stderr, flags)
		return fmt.Errorf("expected exactly one command of %s", strings.Join(commands, ", "))
	}

	if *endpoint != "" {
		opts.Endpoint = *endpoint
	}
	if opts.Logger.GetSink() == nil {
		logger, err := observability.NewLogger(*debug, true)
		if err != nil {
			return err
		}
		opts.Logger = logger
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	var (
		result interface{}
		err    error
	)
	switch flags.Arg(0) {
	case "wake":
		result, err = handler.NewWakeHandler(opts)(ctx, lambdaevents.CloudwatchLogsEvent{})
	case "attach":
		var event lambdaevents.CloudWatchEvent
		if event, err = readEvent(*eventPath, stdin); err != nil {
			return err
		}
		result, err = handler.NewAttachmentHandler(opts)(ctx, event)
	case "status":
		var resp lambdaevents.APIGatewayProxyResponse
		resp, err = handler.NewStatusHandler(opts)(ctx, lambdaevents.APIGatewayProxyRequest{HTTPMethod: "GET"})
		if err == nil && resp.StatusCode != 200 {
			err = fmt.Errorf("status request failed with %d: %s", resp.StatusCode, resp.Body)
		}
		result = json.RawMessage(resp.Body)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readEvent(path string, stdin io.Reader) (lambdaevents.CloudWatchEvent, error) {
	var event lambdaevents.CloudWatchEvent

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return event, fmt.Errorf("failed to open event file: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&event); err != nil {
		return event, fmt.Errorf("failed to decode event: %w", err)
	}
	return event, nil
}
