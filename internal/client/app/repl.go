package app

import (
	"context"
	"fmt"
	"strings"

	"qoralist/internal/client/guard"
)

// prompt returns the shell prompt reflecting the session state.
func (a *App) prompt() string {
	if user := a.sess.User(); user != nil {
		return fmt.Sprintf("qoralist (%s)> ", user.Username)
	}
	if a.sess.IsAuthenticated() {
		return "qoralist (signed in)> "
	}
	return "qoralist> "
}

// Run starts the interactive loop. It reads one command per line and
// dispatches through the route guard, so a protected command typed while
// logged out lands on the login form instead.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Type 'help' for a list of commands.")

	for {
		fmt.Fprint(a.out, a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		args := strings.Fields(strings.TrimSpace(line))
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			a.printHelp()

		case "login":
			a.navigate(ctx, guard.RouteLogin)

		case "search", "s":
			a.navigate(ctx, guard.RouteHome)

		case "my", "list":
			a.navigate(ctx, guard.RouteMyRecords)

		case "add":
			a.navigate(ctx, guard.RouteAddRecord)

		case "delete":
			if len(args) < 2 {
				fmt.Fprintln(a.out, "Usage: delete <id>")
				continue
			}
			if a.guard.Resolve(guard.RouteMyRecords) != guard.RouteMyRecords {
				a.navigate(ctx, guard.RouteLogin)
				continue
			}
			a.deleteRecord(ctx, args[1])

		case "profile":
			a.navigate(ctx, guard.RouteProfile)

		case "refresh":
			a.refresh()

		case "logout":
			a.logout()

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (a *App) printHelp() {
	if a.sess.IsAuthenticated() {
		fmt.Fprintln(a.out, "Available commands: search, my, add, delete <id>, profile, refresh, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: login, exit")
	}
}
