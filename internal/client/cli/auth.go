package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// wipe zeroes a password buffer once it has been handed to the session.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Login prompts for credentials and signs in. A failed attempt prints an
// inline error and leaves the session logged out; the REPL keeps running.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.session.SignIn(ctx, email, password); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	st := a.session.Snapshot()
	fmt.Printf("Welcome, %s!\n", st.User.Name)
	return nil
}

// Logout ends the session and clears the persisted token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	fmt.Println("Logged out")
	return nil
}
