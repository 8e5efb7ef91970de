package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it;
// tests use a stub.
type execIface interface {
	isUnlocked() bool
	Enroll(ctx context.Context) error
	Unlock(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Lock(ctx context.Context) error
}

// runREPL reads one command per line and dispatches it to a. It returns on
// EOF, on "exit"/"quit", or once ctx is done, even while waiting for input.
//
//	Locked:
//	  - help | enroll | unlock | exit | quit
//
//	Unlocked:
//	  - help
//	  - list (l)       — list passes
//	  - add <code>     — import a scanned code
//	  - open <id>      — reveal a pass, prompting if it is protected
//	  - toggle <id>    — flip protection of a pass
//	  - remove <id>    — delete a pass
//	  - lock           — forget the key and the passes
//	  - exit | quit
//
// Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	// Lines are read on request only, so nothing reads stdin while a
	// command (and any passcode prompt it shows) is running.
	requests := make(chan struct{})
	lines := make(chan string, 1)
	defer close(requests)
	go func() {
		defer close(lines)
		for range requests {
			if !scanner.Scan() {
				return
			}
			lines <- scanner.Text()
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("securepass %s> ", statusFn()))

		select {
		case requests <- struct{}{}:
		case <-ctx.Done():
			return
		}

		var line string
		select {
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = l
		case <-ctx.Done():
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn("Available commands: (l)ist, add <code>, open <id>, toggle <id>, remove <id>, lock, exit")
			} else {
				printlnFn("Available commands: enroll, unlock, exit")
			}

		case "enroll":
			_ = a.Enroll(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx, args)

		case "open":
			_ = a.Open(ctx, args)

		case "toggle":
			_ = a.Toggle(ctx, args)

		case "remove", "rm":
			_ = a.Remove(ctx, args)

		case "lock":
			_ = a.Lock(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
