package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MonikaTammineni/fsadproject/client"
	"github.com/MonikaTammineni/fsadproject/session"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("--password or --password-stdin required")
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			s, err := a.client.Login(ctx, client.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			if err := session.Save(a.store, s); err != nil {
				return fmt.Errorf("store session: %w", err)
			}
			a.log.Debug().Str("account_type", s.AccountType).Msg("logged in")

			outf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", s.DisplayName(), s.AccountType)
			if exp, ok := session.TokenExpiry(s.Token); ok {
				outf(cmd.OutOrStdout(), "Session expires %s\n", exp.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			outln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			u, err := a.client.CurrentUser(ctx, s)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(u)
			}
			w := cmd.OutOrStdout()
			outf(w, "%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
			outf(w, "Account: %s (id %d)\n", u.AccountType, u.ID)
			if exp, ok := session.TokenExpiry(s.Token); ok {
				outf(w, "Session expires %s\n", exp.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var req client.RegisterRequest
	var addr client.Address

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr.Line1 != "" || addr.City != "" {
				composed, err := client.ComposeAddress(addr)
				if err != nil {
					return err
				}
				req.Address = composed
			}
			req.Gender = strings.ToUpper(req.Gender)
			req.AccountType = strings.ToUpper(req.AccountType)
			req.Status = true

			ctx, cancel := a.context(cmd)
			defer cancel()
			rr, err := a.client.Register(ctx, req)
			if err != nil {
				return err
			}
			msg := rr.Message
			if msg == "" {
				msg = "Registered"
			}
			outf(cmd.OutOrStdout(), "%s (id %d)\n", msg, rr.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Gender, "gender", "", "MALE, FEMALE or OTHER")
	f.StringVar(&req.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&req.MobileNumber, "mobile", "", "10 digit mobile number")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.Password, "password", "", "password (min 6 chars, letters & numbers)")
	f.StringVar(&req.AccountType, "account-type", client.AccountPatient, "ADMIN, PATIENT, DOCTOR or STAFF")
	f.StringVar(&req.Address, "address", "", "full address; use the --line1 group to compose one")
	f.StringVar(&addr.Line1, "line1", "", "address line 1")
	f.StringVar(&addr.Line2, "line2", "", "address line 2")
	f.StringVar(&addr.City, "city", "", "city")
	f.StringVar(&addr.State, "state", "", "state")
	f.StringVar(&addr.Zipcode, "zip", "", "6 digit zipcode")
	return cmd
}

func newPasswordCmd(a *app) *cobra.Command {
	var oldPassword, newPassword, confirm string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the signed-in user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSession()
			if err != nil {
				return err
			}
			if confirm == "" {
				confirm = newPassword
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			msg, err := a.client.ChangePassword(ctx, s, oldPassword, newPassword, confirm)
			if err != nil {
				return err
			}
			outln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&oldPassword, "old", "", "current password (required)")
	cmd.Flags().StringVar(&newPassword, "new", "", "new password (required)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "repeat the new password (default: --new)")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}
