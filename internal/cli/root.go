package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.monitor.Current() {
		return "(online)"
	}
	return "(offline)"
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to papersync (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("psync %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: add, list, favs, search, fav, rename, delete, sync, exit")
		case "add":
			a.add(ctx, args)
		case "list":
			a.list(ctx, "", false)
		case "favs":
			a.list(ctx, "", true)
		case "search":
			a.list(ctx, strings.Join(args, " "), false)
		case "fav":
			a.fav(ctx, args)
		case "rename":
			a.rename(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "sync":
			a.sync(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command %q, type 'help'\n", cmd)
		}
	}
}
