package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielsouzza/momu-go/internal/role"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		password := loginPassword
		if email == "" || password == "" {
			var err error
			email, password, err = promptCredentials(email, password)
			if err != nil {
				return err
			}
		}

		if err := app.session.SubmitLogin(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("login failed: %s", app.session.State().Reason)
		}
		profile := app.session.State().Profile
		fmt.Printf("signed in as %s <%s>\n", profile.Name, profile.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.roles.Reset()
		if err := app.session.SignOut(); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Resolve the roles available to the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredential(); err != nil {
			return err
		}
		resolution, err := app.roles.Resolve(cmd.Context())
		if err != nil {
			return err
		}
		switch resolution.Outcome {
		case role.OutcomeReauthenticate:
			fmt.Println("no roles on this account; run `momu login` again")
		case role.OutcomeResolved:
			fmt.Printf("active role: %s (%d)\n", resolution.Role.Name, resolution.Role.ID)
		case role.OutcomeChoices:
			fmt.Println("choose a role with `momu switch-role <id>`:")
			for _, r := range resolution.Roles {
				fmt.Printf("  %d\t%s\n", r.ID, r.Name)
			}
		}
		return nil
	},
}

var switchRoleCmd = &cobra.Command{
	Use:   "switch-role <role-id>",
	Short: "Scope the session to one of the account's roles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredential(); err != nil {
			return err
		}
		roleID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("role id must be an integer: %q", args[0])
		}
		// The selection sticks locally even when the server rejects it.
		if err := app.roles.SwitchRole(cmd.Context(), roleID); err != nil {
			fmt.Printf("role %d selected locally, but the server did not acknowledge: %v\n", roleID, err)
			return nil
		}
		fmt.Printf("active role: %d\n", roleID)
		return nil
	},
}

func requireCredential() error {
	if _, ok := app.store.Get(); !ok {
		return errors.New("not signed in; run `momu login` first")
	}
	return nil
}

func promptCredentials(email, password string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		fmt.Print("email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Print("password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		password = strings.TrimSpace(line)
	}
	return email, password, nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
}
