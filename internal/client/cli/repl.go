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
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Feed(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Like(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	Likes(ctx context.Context, args []string) error
	NewPost(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Notifications(ctx context.Context) error
	Read(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Follow(ctx context.Context) error
	Edit(ctx context.Context) error
	Broadcast(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Uni Yatwon CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands needing a signed-in session are refused locally before any
// handler runs. Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("yatwon %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			printHelp(a)
			continue
		}

		var err error
		switch cmd {
		case "login":
			err = a.Login(ctx)
		case "signup":
			err = a.Signup(ctx)
		default:
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch cmd {
			case "feed", "f":
				err = a.Feed(ctx, args)
			case "open":
				err = a.Open(ctx, args)
			case "like":
				err = a.Like(ctx, args)
			case "save":
				err = a.Save(ctx, args)
			case "comment":
				err = a.Comment(ctx, args)
			case "likes":
				err = a.Likes(ctx, args)
			case "post":
				err = a.NewPost(ctx)
			case "delete":
				err = a.Delete(ctx, args)
			case "search":
				err = a.Search(ctx, args)
			case "history":
				err = a.History(ctx)
			case "noti":
				err = a.Notifications(ctx)
			case "read":
				err = a.Read(ctx, args)
			case "profile":
				err = a.Profile(ctx, args)
			case "follow":
				err = a.Follow(ctx)
			case "edit":
				err = a.Edit(ctx)
			case "logout":
				err = a.Logout(ctx)
			case "broadcast":
				if !a.isAdmin() {
					printlnFn("Admins only")
					continue
				}
				err = a.Broadcast(ctx)
			default:
				printlnFn("Unknown command:", cmd)
				continue
			}
		}
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}

func printHelp(a execIface) {
	if !a.isLoggedIn() {
		printlnFn("Available commands: login, signup, exit")
		return
	}
	printlnFn("Available commands: (f)eed [category], open <post>, like <post>, save <post>,")
	printlnFn("  comment <post>, likes <post>, post, delete <post>, search <query>, history,")
	printlnFn("  noti, read <n>, profile [user], follow, edit, logout, exit")
	if a.isAdmin() {
		printlnFn("  admin: broadcast")
	}
}
