package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	vm "github.com/rathinsam/Vehicle-Parking-app/internal/viewmodel"
)

type credentialFlags struct {
	username string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password")
}

func newLoginCommand(e *env) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := e.app()
			snap, err := e.act(cmd.Context(), app, vm.PageLogin, func(page any) error {
				return page.(*vm.Login).Login(cmd.Context(), creds.username, creds.password)
			})
			if err != nil {
				return fmt.Errorf("%s", errorOf(snap.View))
			}
			s, _ := e.session.Get()
			fmt.Fprintf(e.out, "Logged in as %s (%s)\n", s.Username, s.Role)
			return nil
		},
	}
	creds.register(cmd)
	return cmd
}

func newRegisterCommand(e *env) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := e.app()
			snap, err := e.act(cmd.Context(), app, vm.PageRegister, func(page any) error {
				return page.(*vm.Register).Register(cmd.Context(), creds.username, creds.password)
			})
			if err != nil {
				return fmt.Errorf("%s", errorOf(snap.View))
			}
			if v, ok := snap.View.(vm.RegisterView); ok {
				fmt.Fprintln(e.out, v.Success)
			}
			return nil
		},
	}
	creds.register(cmd)
	return cmd
}

func newLogoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(*cobra.Command, []string) error {
			e.app().Logout(vm.PageLogin)
			fmt.Fprintln(e.out, "Logged out")
			return nil
		},
	}
}
