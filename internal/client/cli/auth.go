package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and attempts to create a new
// account. On success the returned session is established immediately; no
// separate login step is needed.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := validateCredentials(username, password); err != nil {
		return err
	}

	identity, err := a.session.Signup(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account created. You are logged in as %s.\n", identity.Username)
	return a.registry.Refresh(ctx)
}

// Login prompts for credentials and establishes a session, then loads the
// user's project list.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := validateCredentials(username, password); err != nil {
		return err
	}

	identity, err := a.session.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", identity.Username)
	return a.registry.Refresh(ctx)
}

// Logout drops the session and all project and conversation state.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.registry.Reset()
	a.conversation.ReleaseAll()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Whoami prints the identity decoded from the current token.
func (a *App) Whoami(ctx context.Context) error {
	identity, ok := a.session.Identity()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "id: %s\nusername: %s\n", identity.ID, identity.Username)
	if identity.Email != "" {
		fmt.Fprintf(a.out, "email: %s\n", identity.Email)
	}
	return nil
}
