package cli

import (
	"context"
	"fmt"
)

func (a *App) ShowProfile(ctx context.Context) error {
	if err := a.session.RefetchProfile(ctx); err != nil {
		fmt.Println("Could not refresh profile:", err)
		return err
	}

	st := a.session.Snapshot()
	if !st.IsLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}

	u := st.User
	fmt.Printf("Name:   %s\nEmail:  %s\nPhone:  %s\nAvatar: %s\n",
		u.Name, u.Email, u.Phone, u.Avatar)
	return nil
}

// SetAvatar changes the avatar locally only. Use saveprofile to persist.
func (a *App) SetAvatar(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: avatar <url>")
		return nil
	}
	a.session.UpdateAvatar(args[0])
	fmt.Println("Avatar updated locally (use 'saveprofile' to persist)")
	return nil
}

func (a *App) SaveProfile(ctx context.Context) error {
	if err := a.session.SaveProfile(ctx); err != nil {
		fmt.Println("Could not save profile:", err)
		return err
	}
	fmt.Println("Profile saved")
	return nil
}
