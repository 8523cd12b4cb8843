package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkarpov/papersync/internal/common"
	"github.com/dkarpov/papersync/internal/models"
)

func (a *App) add(ctx context.Context, args []string) {
	name := strings.Join(args, " ")
	if name == "" {
		fmt.Println("usage: add <name>")
		return
	}

	doc, err := a.docs.Create(ctx, name, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Created %s (%s)\n", doc.Name, doc.ID)
}

func (a *App) list(ctx context.Context, query string, favoritesOnly bool) {
	docs, err := a.docs.List(ctx, query, favoritesOnly)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(docs) == 0 {
		fmt.Println("No documents")
		return
	}
	for _, d := range docs {
		fmt.Println(formatDocument(&d))
	}
}

func (a *App) fav(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: fav <id>")
		return
	}

	doc, err := a.docs.ToggleFavorite(ctx, args[0])
	if err != nil {
		printDocError(err)
		return
	}
	if doc.IsFavorite {
		fmt.Printf("%s is now a favorite\n", doc.Name)
	} else {
		fmt.Printf("%s is no longer a favorite\n", doc.Name)
	}
}

func (a *App) rename(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: rename <id> <new name>")
		return
	}

	doc, err := a.docs.Rename(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		printDocError(err)
		return
	}
	fmt.Printf("Renamed to %s\n", doc.Name)
}

func (a *App) delete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: delete <id>")
		return
	}

	if err := a.docs.Delete(ctx, args[0]); err != nil {
		printDocError(err)
		return
	}
	fmt.Println("Deleted")
}

func (a *App) sync(ctx context.Context) {
	if !a.monitor.Current() {
		fmt.Println("Offline, changes will sync on reconnection")
		return
	}

	fmt.Println("Syncing...")
	done := make(chan struct{})
	a.coordinator.RequestSync(func() { close(done) })
	select {
	case <-done:
		fmt.Println("Done")
	case <-ctx.Done():
	}
}

func formatDocument(d *models.Document) string {
	marker := " "
	if d.IsFavorite {
		marker = "*"
	}
	status := ""
	if d.SyncState.Pending() {
		status = " [pending]"
	}
	return fmt.Sprintf("%s %s  %s%s", marker, d.ID, d.Name, status)
}

func printDocError(err error) {
	if errors.Is(err, common.ErrNotFound) {
		fmt.Println("No such document")
		return
	}
	fmt.Printf("Error: %v\n", err)
}
