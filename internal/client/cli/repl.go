package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Verify(ctx context.Context) error
	RefreshSession(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Boards(ctx context.Context) error
	NewBoard(ctx context.Context) error
	Tasks(ctx context.Context, args []string) error
	NewTask(ctx context.Context) error
	MoveTask(ctx context.Context, args []string) error
	SetStatus(ctx context.Context, args []string) error
	DeleteTask(ctx context.Context, args []string) error
	Reminders(ctx context.Context) error
	Notifications(ctx context.Context) error
	ReadAll(ctx context.Context) error
	SetName(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Avatar(ctx context.Context, args []string) error
	RemoveAvatar(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, exit"
	helpMember = "Available commands: dashboard, boards, newboard, tasks [board], newtask, " +
		"move <task> <board>, status <task> <status>, deltask <task>, reminders, notifications, " +
		"readall, whoami, name <full name>, profile, avatar <file>, rmavatar, verify, refresh, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the taskflow CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn): the signed-in user,
// if any, and the screen the user is on. Commands other than help, register,
// login and exit need a stored session.
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tf %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}
			continue

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !isMemberCommand(cmd) {
				printlnFn("Unknown command:", cmd)
				continue
			}
			if !a.isLoggedIn(ctx) {
				printlnFn("Please log in first.")
				continue
			}
			err = runMemberCommand(ctx, a, cmd, args)
		}

		if err != nil {
			printlnFn("Error:", describeError(err))
		}
	}
}

var memberCommands = map[string]struct{}{
	"logout": {}, "whoami": {}, "verify": {}, "refresh": {},
	"dashboard": {}, "d": {}, "boards": {}, "b": {}, "newboard": {},
	"tasks": {}, "t": {}, "newtask": {}, "move": {}, "status": {}, "deltask": {},
	"reminders": {}, "notifications": {}, "n": {}, "readall": {},
	"name": {}, "profile": {}, "avatar": {}, "rmavatar": {},
}

func isMemberCommand(cmd string) bool {
	_, ok := memberCommands[cmd]
	return ok
}

func runMemberCommand(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "verify":
		return a.Verify(ctx)
	case "refresh":
		return a.RefreshSession(ctx)
	case "d", "dashboard":
		return a.Dashboard(ctx)
	case "b", "boards":
		return a.Boards(ctx)
	case "newboard":
		return a.NewBoard(ctx)
	case "t", "tasks":
		return a.Tasks(ctx, args)
	case "newtask":
		return a.NewTask(ctx)
	case "move":
		return a.MoveTask(ctx, args)
	case "status":
		return a.SetStatus(ctx, args)
	case "deltask":
		return a.DeleteTask(ctx, args)
	case "reminders":
		return a.Reminders(ctx)
	case "n", "notifications":
		return a.Notifications(ctx)
	case "readall":
		return a.ReadAll(ctx)
	case "name":
		return a.SetName(ctx, args)
	case "profile":
		return a.Profile(ctx)
	case "avatar":
		return a.Avatar(ctx, args)
	case "rmavatar":
		return a.RemoveAvatar(ctx)
	}
	return nil
}
