package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	st := a.session.Snapshot()
	s := ""
	if st.IsLoggedIn() {
		s = st.User.Name
		if st.NotificationCount > 0 {
			s = fmt.Sprintf("%s, %d new", s, st.NotificationCount)
		}
	}
	if s != "" {
		s = fmt.Sprintf("(%s) ", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to TaskCrew CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("taskcrew %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: profile, avatar, saveprofile, projects, tasks, board, move, submit, comments, comment, notifications, refresh, logout, exit")
			} else {
				fmt.Println("Available commands: login, exit")
			}

		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "profile":
			a.ShowProfile(ctx)
		case "avatar":
			a.SetAvatar(ctx, args)
		case "saveprofile":
			a.SaveProfile(ctx)
		case "projects":
			a.ListProjects(ctx)
		case "tasks":
			a.ListTasks(ctx, args)
		case "board":
			a.OpenBoard(ctx, args)
		case "move":
			a.MoveTask(ctx, args)
		case "submit":
			a.SubmitBoard(ctx)
		case "comments":
			a.ListComments(ctx, args)
		case "comment":
			a.AddComment(ctx, args)
		case "notifications":
			a.ListNotifications(ctx)
		case "refresh":
			a.Refresh(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
