package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"finsight/internal/logging"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagEmail    string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store a session token",
	Long: `Exchanges your credentials for a session token, stored under the
FinSight config directory. The token is reused until it expires or you
log out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentials()
		if err != nil {
			return err
		}
		if err := client.Login(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Println("Logged in. Run \"finsight\" to start chatting.")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new FinSight account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentials()
		if err != nil {
			return err
		}
		if err := client.Register(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Println("Account created. Log in with \"finsight login\".")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and connection status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("API:", client.BaseURL())
		if store.Authenticated() {
			fmt.Println("Session: logged in")
		} else {
			fmt.Println("Session: not logged in")
		}
		if logging.IsEnabled() {
			fmt.Println("Debug logging: on")
		} else {
			fmt.Println("Debug logging: off")
		}
		return nil
	},
}

// credentials resolves email and password from flags, prompting for
// whatever is missing. The password prompt does not echo.
func credentials() (string, string, error) {
	email := strings.TrimSpace(flagEmail)
	password := flagPassword

	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}

	return email, password, nil
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVar(&flagEmail, "email", "", "account email")
		cmd.Flags().StringVar(&flagPassword, "password", "", "account password (prompted when omitted)")
	}
}
