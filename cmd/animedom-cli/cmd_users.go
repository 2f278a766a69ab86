package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/animedom/animedom/internal/auth"
	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/store"
)

const minPasswordLength = 6

var (
	userEmail    string
	userPassword string
	userAdmin    bool
	roleName     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account.

When --password is omitted a random password is generated and printed once.`,
	Args: cobra.NoArgs,
	RunE: runUserCreate,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user account together with its sessions and roles",
	Args:  cobra.NoArgs,
	RunE:  runUserDelete,
}

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Grant or revoke user roles",
}

var roleGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant a role to a user",
	Args:  cobra.NoArgs,
	RunE:  runRoleGrant,
}

var roleRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke a role from a user",
	Args:  cobra.NoArgs,
	RunE:  runRoleRevoke,
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address of the new user")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (generated when empty)")
	userCreateCmd.Flags().BoolVar(&userAdmin, "admin", false, "Grant the admin role")
	userCreateCmd.MarkFlagRequired("email")

	userDeleteCmd.Flags().StringVar(&userEmail, "email", "", "Email address of the user")
	userDeleteCmd.MarkFlagRequired("email")

	for _, c := range []*cobra.Command{roleGrantCmd, roleRevokeCmd} {
		c.Flags().StringVar(&userEmail, "email", "", "Email address of the user")
		c.Flags().StringVar(&roleName, "role", models.RoleAdmin, "Role name")
		c.MarkFlagRequired("email")
	}
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(userEmail)
	if email == "" {
		return errors.New("email is required")
	}

	password := userPassword
	generated := password == ""
	if generated {
		p, err := auth.GeneratePassword(12)
		if err != nil {
			return err
		}
		password = p
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user, err := st.CreateUser(cmd.Context(), email, hash)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("user %s already exists", email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if userAdmin {
		if err := st.GrantRole(cmd.Context(), user.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to grant admin role: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created user %s (%s)\n", user.Email, user.ID)
	if generated {
		fmt.Fprintf(out, "Password: %s\n", password)
	}
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	user, err := lookupUser(cmd)
	if err != nil {
		return err
	}
	if err := st.DeleteUser(cmd.Context(), user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", user.Email)
	return nil
}

func runRoleGrant(cmd *cobra.Command, args []string) error {
	user, err := lookupUser(cmd)
	if err != nil {
		return err
	}
	if err := st.GrantRole(cmd.Context(), user.ID, roleName); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Granted %s to %s\n", roleName, user.Email)
	return nil
}

func runRoleRevoke(cmd *cobra.Command, args []string) error {
	user, err := lookupUser(cmd)
	if err != nil {
		return err
	}
	if err := st.RevokeRole(cmd.Context(), user.ID, roleName); err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Revoked %s from %s\n", roleName, user.Email)
	return nil
}

func lookupUser(cmd *cobra.Command) (*models.User, error) {
	user, err := st.GetUserByEmail(cmd.Context(), userEmail)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no user with email %s", userEmail)
	}
	return user, err
}
