package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"karigari/internal/apierr"
	"karigari/internal/backend"
	"karigari/internal/identity"
	"karigari/internal/lifecycle"
	"karigari/internal/logging"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the artisan platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return apierr.New(apierr.KindValidation, "Email and password are required.")
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			store, err := ctx.identityStore()
			if err != nil {
				return err
			}

			slot := lifecycle.NewSlot[backend.LoginResult]("login", ctx.log())
			slot.Start(cmd.Context(), func(opCtx context.Context) (backend.LoginResult, error) {
				return client.Login(opCtx, email, password)
			})
			snap, err := slot.Await(cmd.Context())
			if err != nil {
				return err
			}
			if snap.Phase == lifecycle.PhaseError {
				return snap.Err
			}

			result := snap.Value
			if strings.TrimSpace(result.UserID) == "" {
				return apierr.New(apierr.KindParse, "Login response did not include a user id.")
			}
			session := identity.Session{UserID: result.UserID, Email: email}
			if err := store.Save(session); err != nil {
				return err
			}
			ctx.log().Info("logged in", logging.FieldUserID, session.UserID)

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{
					"user_id": session.UserID,
					"email":   session.Email,
					"message": result.Message,
				})
			}
			message := strings.TrimSpace(result.Message)
			if message == "" {
				message = "Login successful."
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (user %s)\n", session.Email, session.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var reg backend.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new artisan account",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg.Name = strings.TrimSpace(reg.Name)
			reg.Email = strings.TrimSpace(reg.Email)
			if reg.Name == "" || reg.Email == "" || reg.Password == "" {
				return apierr.New(apierr.KindValidation, "Name, email, and password are required.")
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}

			slot := lifecycle.NewSlot[string]("register", ctx.log())
			slot.Start(cmd.Context(), func(opCtx context.Context) (string, error) {
				return client.Register(opCtx, reg)
			})
			snap, err := slot.Await(cmd.Context())
			if err != nil {
				return err
			}
			if snap.Phase == lifecycle.PhaseError {
				return snap.Err
			}

			message := strings.TrimSpace(snap.Value)
			if message == "" {
				message = "Registration successful. You can now log in."
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"message": message})
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "Artisan name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Account email address")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Account password")
	cmd.Flags().StringVar(&reg.Craft, "craft", "", "Primary craft, e.g. pottery or weaving")
	cmd.Flags().StringVar(&reg.Experience, "experience", "", "Years of experience")
	cmd.Flags().StringVar(&reg.Location, "location", "", "Where the artisan works from")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.identityStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.identityStore()
			if err != nil {
				return err
			}
			session, err := store.Current()
			if err != nil {
				if errors.Is(err, identity.ErrNoSession) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{
					"user_id": session.UserID,
					"email":   session.Email,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (user %s)\n", session.Email, session.UserID)
			return nil
		},
	}
}
