package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/basslinehq/bltctl/internal/client"
	"github.com/basslinehq/bltctl/internal/observability"
	"github.com/basslinehq/bltctl/internal/protocol"
)

const usageText = `bltctl - BL/T protocol client

Usage:
  bltctl [flags]                        interactive shell
  bltctl [flags] version                negotiate protocol version
  bltctl [flags] read <ref>             read a cell or fold
  bltctl [flags] write <ref> <value>    write a value to a cell
  bltctl [flags] fold <kind> <a,b,c>    read a fold over sources
  bltctl [flags] info <ref>             capability metadata for a ref
  bltctl [flags] subscribe <ref>        stream changes until interrupted

Refs may be bare names (resolved as cells) or fully qualified bl:/// refs.

Flags:
`

var errUsage = errors.New("usage")

func main() {
	var (
		configPath string
		host       string
		port       int
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "path to a TOML config file")
	flag.StringVar(&host, "host", "", "server host (overrides config and "+envHost+")")
	flag.IntVar(&port, "port", 0, "server port (overrides config and "+envPort+")")
	flag.StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	observability.InitLogger("bltctl")

	cfg, fileLogLevel, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bltctl: %v\n", err)
		os.Exit(1)
	}
	applyEnvOverrides(&cfg)
	if host != "" {
		cfg.Host = host
	}
	if port != 0 {
		cfg.Port = port
	}
	if logLevel == "" {
		logLevel = fileLogLevel
	}
	if logLevel != "" {
		observability.SetLevel(logLevel)
	}

	c := client.New(cfg)

	args := flag.Args()
	if len(args) == 0 {
		runShell(c)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatch(ctx, c, args); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "bltctl: %v\n", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, c *client.Client, args []string) error {
	switch args[0] {
	case "version":
		line, err := c.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Println(line)
		return nil

	case "read":
		if len(args) < 2 {
			return errUsage
		}
		value, err := c.Read(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Println(value.String())
		return nil

	case "write":
		if len(args) < 3 {
			return errUsage
		}
		if err := c.Write(ctx, args[1], parseArgValue(args[2])); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil

	case "fold":
		if len(args) < 3 {
			return errUsage
		}
		value, err := c.ReadFold(ctx, args[1], splitSources(args[2]))
		if err != nil {
			return err
		}
		fmt.Println(value.String())
		return nil

	case "info":
		if len(args) < 2 {
			return errUsage
		}
		info, err := c.Info(ctx, args[1])
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(info)
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil

	case "subscribe":
		if len(args) < 2 {
			return errUsage
		}
		return runSubscribe(ctx, c, args[1])
	}

	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// runSubscribe streams notifications until the server closes the stream, an
// error frame arrives, or the context is canceled. Cancellation unblocks the
// pending read by closing the subscription.
func runSubscribe(ctx context.Context, c *client.Client, ref string) error {
	sub, err := c.Subscribe(ctx, ref)
	if err != nil {
		return err
	}
	defer sub.Close()

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	for {
		n, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		switch n.Kind {
		case client.NotificationStream:
			fmt.Printf("stream: %s\n", n.StreamID)
		default:
			fmt.Printf("event: %s\n", notificationValue(n))
		}
	}
}

func notificationValue(n client.Notification) string {
	if !n.HasValue {
		return "null"
	}
	return n.Value.String()
}

// parseArgValue types a CLI-supplied value the way the wire decoder would:
// numbers, bools, null, and JSON come through typed, anything else is text.
func parseArgValue(raw string) protocol.Value {
	value, err := protocol.DecodeValue(raw)
	if err != nil {
		return protocol.NewText(raw)
	}
	return value
}

func splitSources(raw string) []string {
	parts := strings.Split(raw, ",")
	sources := make([]string, 0, len(parts))
	for _, part := range parts {
		if src := strings.TrimSpace(part); src != "" {
			sources = append(sources, src)
		}
	}
	return sources
}
