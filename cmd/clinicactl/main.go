// clinicactl is the terminal front end of the clinic client: it signs in,
// resolves the surface for the signed-in role, and runs CRUD commands against
// the controllers that surface mounts. State (token, role) persists across
// invocations in the session state file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/ports"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
	"github.com/luis5368/web-clinica-medica/internal/infrastructure/config"
	"github.com/luis5368/web-clinica-medica/internal/infrastructure/statefile"
	"github.com/luis5368/web-clinica-medica/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	session *service.SessionStore
	router  *service.RoleRouter
}

func newApp() (*app, error) {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	statePath := cfg.StateFile
	if statePath == "" {
		statePath = statefile.DefaultPath()
	}

	session := service.NewSessionStore(statefile.New(statePath), log)

	notifier := ports.NotifierFunc(func(reason string) {
		fmt.Fprintf(os.Stderr, "\n*** %s ***\n", reason)
	})
	client, err := api.NewClient(cfg.APIBaseURL, session, notifier, cfg.Timeout, log)
	if err != nil {
		return nil, err
	}
	session.SetAuthGateway(api.NewAuthGateway(client))

	router, err := newRouter(client, session, log)
	if err != nil {
		return nil, err
	}

	if err := session.Restore(); err != nil {
		return nil, err
	}
	return &app{session: session, router: router}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clinicactl",
		Short:         "Role-gated terminal client for the clinic backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		listCmd(),
		addCmd(),
		removeCmd(),
	)
	return root
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in and persist the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sess, err := a.session.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					return fmt.Errorf("login rejected: check username and password")
				}
				return err
			}
			fmt.Printf("signed in as %s (%s surface)\n", args[0], a.router.Resolve(sess).Name())
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session and surface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sess := a.session.Current()
			if sess.Anonymous() {
				fmt.Println("not signed in")
				return nil
			}
			fmt.Printf("role: %s\nsurface: %s\n", sess.Role, a.router.Resolve(sess).Name())
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <resource>",
		Short: "List a resource collection visible to the current role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.runList(cmd.Context(), args[0])
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <resource> <field>...",
		Short: "Create one record on a resource visible to the current role",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.runAdd(cmd.Context(), args[0], args[1:])
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <resource> <id>",
		Short: "Delete one record by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			var id int64
			if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}
			return a.runRemove(cmd.Context(), args[0], id)
		},
	}
}

func (a *app) runList(ctx context.Context, resource string) error {
	panel, err := a.panel()
	if err != nil {
		return err
	}
	lister, ok := panel.listers[resource]
	if !ok {
		return fmt.Errorf("resource %q is not available on the %s surface", resource, panel.name)
	}
	rows, err := lister(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Println(row)
	}
	return nil
}

func (a *app) runAdd(ctx context.Context, resource string, args []string) error {
	panel, err := a.panel()
	if err != nil {
		return err
	}
	creator, ok := panel.creators[resource]
	if !ok {
		return fmt.Errorf("resource %q is not available on the %s surface", resource, panel.name)
	}
	row, err := creator(ctx, args)
	if err != nil {
		return err
	}
	fmt.Println(row)
	return nil
}

func (a *app) runRemove(ctx context.Context, resource string, id int64) error {
	panel, err := a.panel()
	if err != nil {
		return err
	}
	remover, ok := panel.removers[resource]
	if !ok {
		return fmt.Errorf("resource %q is not removable on the %s surface", resource, panel.name)
	}
	if err := remover(ctx, id); err != nil {
		return err
	}
	fmt.Printf("removed %s %d\n", resource, id)
	return nil
}
