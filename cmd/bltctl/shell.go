package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/basslinehq/bltctl/internal/client"
)

// runShell is the interactive mode: one command per prompt line until EOF or
// quit. Errors print and the loop continues.
func runShell(c *client.Client) {
	fmt.Printf("BL/T client - %s\n", c.Config().Addr())
	fmt.Println("Commands: read <ref>, write <ref> <value>, fold <kind> <a,b,c>, info <ref>, subscribe <ref>, quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := splitCommand(line, 3)
		if quit := runShellCommand(c, parts); quit {
			return
		}
	}
}

func runShellCommand(c *client.Client, parts []string) (quit bool) {
	ctx := context.Background()
	cmd := strings.ToLower(parts[0])

	var err error
	switch {
	case cmd == "read" && len(parts) >= 2:
		if value, readErr := c.Read(ctx, parts[1]); readErr != nil {
			err = readErr
		} else {
			fmt.Println(value.String())
		}

	case cmd == "write" && len(parts) >= 3:
		err = c.Write(ctx, parts[1], parseArgValue(parts[2]))
		if err == nil {
			fmt.Println("ok")
		}

	case cmd == "fold" && len(parts) >= 3:
		if value, foldErr := c.ReadFold(ctx, parts[1], splitSources(parts[2])); foldErr != nil {
			err = foldErr
		} else {
			fmt.Println(value.String())
		}

	case cmd == "info" && len(parts) >= 2:
		if info, infoErr := c.Info(ctx, parts[1]); infoErr != nil {
			err = infoErr
		} else {
			encoded, _ := json.Marshal(info)
			fmt.Println(string(encoded))
		}

	case cmd == "subscribe" && len(parts) >= 2:
		fmt.Println("Subscribing... (Ctrl+C to stop)")
		subCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		err = runSubscribe(subCtx, c, parts[1])
		stop()

	case cmd == "quit" || cmd == "exit" || cmd == "q":
		return true

	default:
		fmt.Printf("Unknown command: %s\n", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
	return false
}

// splitCommand splits on space runs, capping at max fields so the last one
// keeps its embedded whitespace (write values may contain spaces).
func splitCommand(line string, max int) []string {
	var parts []string
	rest := strings.TrimSpace(line)
	for rest != "" {
		if len(parts) == max-1 {
			parts = append(parts, rest)
			break
		}
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			parts = append(parts, rest)
			break
		}
		parts = append(parts, rest[:idx])
		rest = strings.TrimLeft(rest[idx+1:], " \t")
	}
	return parts
}
