package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/hafiz229/doctors-portal-server/internal/config"
	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/internal/tokens"
	"github.com/spf13/cobra"
)

func promoteCmd(open userStoreFunc) *cobra.Command {
	var email string
	var create bool
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant the admin role to a user, bypassing the HTTP admin check",
		Long: `Grant the admin role directly in the user store.

The HTTP promotion route needs an existing admin, so the first admin of a
deployment is bootstrapped with this command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			svc, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if create {
				_, err := svc.Register(cmd.Context(), models.User{Email: email})
				if err != nil && !errors.Is(err, models.ErrConflict) {
					return err
				}
			}
			res, err := svc.GrantAdmin(cmd.Context(), email)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("no user with email %s (use --create to register it)", email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email of the user to promote")
	cmd.Flags().BoolVar(&create, "create", false, "Register the user first when it does not exist")
	return cmd
}

func adminsCmd(open userStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "admins",
		Short: "List users holding the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			admins, err := svc.Admins(cmd.Context())
			if err != nil {
				return err
			}
			if len(admins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no admins")
				return nil
			}
			for _, u := range admins {
				fmt.Fprintln(cmd.OutOrStdout(), u.Email)
			}
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var email string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development identity token signed with DEV_TOKEN_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			cfg, err := config.LoadConfig(false)
			if err != nil {
				return err
			}
			dev, err := tokens.NewDevTokens(cfg.Dev.TokenSecret)
			if err != nil {
				return err
			}
			tok, err := dev.Issue(email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email claim of the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	return cmd
}
