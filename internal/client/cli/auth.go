package cli

import (
	"context"
	"fmt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// credentials prompts for the password, and for the username unless the
// flag gave one.
func (c *Cli) credentials(username string) (string, string, error) {
	var err error
	if username == "" {
		if username, err = c.io.ReadInput("Username: "); err != nil {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	if username == "" || password == "" {
		return "", "", fmt.Errorf("username and password cannot be empty")
	}
	return username, password, nil
}

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	fs := c.flagSet("register")
	username := fs.String("username", "", "operator username")
	role := fs.String("role", models.RoleCashier, "cashier or manager")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, password, err := c.credentials(*username)
	if err != nil {
		return err
	}
	if !c.json {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if confirm != password {
			return fmt.Errorf("passwords do not match")
		}
	}

	return show(c, c.engine.Register(ctx, user, password, *role), "registered")
}

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	fs := c.flagSet("login")
	username := fs.String("username", "", "operator username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, password, err := c.credentials(*username)
	if err != nil {
		return err
	}
	if !c.json {
		c.io.Println("Authenticating...")
	}
	return show(c, c.engine.Login(ctx, user, password), "session")
}

func (c *Cli) runLogout(ctx context.Context) error {
	return show(c, c.engine.Logout(ctx), "loggedout")
}
