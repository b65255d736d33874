package client

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/jbccc/znote/internal/workers"
	"github.com/jbccc/znote/models"
)

func (a *App) loginCommand() *cobra.Command {
	var idToken string
	var refreshToken string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Google ID token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if idToken == "" {
				return errors.New("an --id-token is required")
			}

			if err := a.services.Engine.SignIn(cmd.Context(), idToken, refreshToken); err != nil {
				return err
			}

			if user := a.services.Engine.GetUser(); user != nil {
				fmt.Printf("signed in as %s <%s>\n", user.Name, user.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&idToken, "id-token", "", "Google ID token obtained out of band")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "optional refresh token")

	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop credentials, keep local notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.services.Engine.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("signed out; local notes kept")
			return nil
		},
	}
}

func (a *App) meCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := a.services.Engine.GetUser()
			if user == nil {
				fmt.Println("not signed in")
				return nil
			}
			fmt.Printf("%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

func (a *App) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Append a line to the log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			block, err := a.services.Engine.SaveBlock(cmd.Context(), models.BlockChange{Text: &text})
			if err != nil {
				return err
			}

			a.syncIfSignedIn(cmd.Context())
			fmt.Println(block.ID)
			return nil
		},
	}
}

func (a *App) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the log ordered by creation time",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, block := range a.services.Engine.GetBlocks() {
				fmt.Println(formatBlock(block))
			}
			return nil
		},
	}
}

func (a *App) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a line from the log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.services.Engine.DeleteBlock(cmd.Context(), args[0]); err != nil {
				return err
			}

			a.syncIfSignedIn(cmd.Context())
			return nil
		},
	}
}

func (a *App) taskCommand() *cobra.Command {
	task := &cobra.Command{
		Use:   "task",
		Short: "Manage tomorrow tasks",
	}

	var taskTime string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Queue a task for tomorrow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			change := models.TomorrowTaskChange{Text: &text}
			if taskTime != "" {
				change.Time = &taskTime
			}
			position := len(a.services.Engine.GetTomorrowTasks())
			change.Position = &position

			created, err := a.services.Engine.SaveTomorrowTask(cmd.Context(), change)
			if err != nil {
				return err
			}

			a.syncIfSignedIn(cmd.Context())
			fmt.Println(created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&taskTime, "time", "", `optional "HH:MM" tag`)

	list := &cobra.Command{
		Use:   "list",
		Short: "List tomorrow tasks in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range a.services.Engine.GetTomorrowTasks() {
				fmt.Println(formatTask(t))
			}
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tomorrow task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.services.Engine.DeleteTomorrowTask(cmd.Context(), args[0]); err != nil {
				return err
			}

			a.syncIfSignedIn(cmd.Context())
			return nil
		},
	}

	task.AddCommand(add, list, remove)
	return task
}

func (a *App) settingsCommand() *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print current preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			current := a.services.Engine.GetSettings()
			fmt.Printf("theme: %s\nday cut hour: %d\n", current.Theme, current.DayCutHour)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <theme|day-cut-hour> <value>",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current := a.services.Engine.GetSettings()

			switch args[0] {
			case "theme":
				theme := models.Theme(args[1])
				if !theme.Valid() {
					return fmt.Errorf("unknown theme %q (system, light, dark)", args[1])
				}
				current.Theme = theme
			case "day-cut-hour":
				hour, err := strconv.Atoi(args[1])
				if err != nil || hour < 0 || hour > 23 {
					return fmt.Errorf("day-cut-hour must be an integer in [0,23]")
				}
				current.DayCutHour = hour
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}

			if err := a.services.Engine.SaveSettings(cmd.Context(), current); err != nil {
				return err
			}

			a.syncIfSignedIn(cmd.Context())
			return nil
		},
	}

	settings.AddCommand(get, set)
	return settings
}

func (a *App) syncCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push pending changes and pull the server delta",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.services.Adapter.Token() == "" {
				return errors.New("not signed in")
			}

			if full {
				return a.services.Engine.FullSync(cmd.Context())
			}
			return a.services.Engine.Sync(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "replace local state with the server snapshot")

	return cmd
}

func (a *App) copyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a line's text to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, block := range a.services.Engine.GetBlocks() {
				if block.ID == args[0] {
					return clipboard.WriteAll(block.Text)
				}
			}
			return fmt.Errorf("no block with id %q", args[0])
		},
	}
}

func (a *App) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a plain-text file, one block per line",
		Long: `Import reads the given plain-text file and appends one block per
non-empty line. Imported blocks are saved pending and ride the next push as
a single batch, so the upload is applied atomically on the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			imported := 0
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := strings.TrimRight(scanner.Text(), "\r")
				if strings.TrimSpace(line) == "" {
					continue
				}

				text := line
				position := imported
				if _, err = a.services.Engine.SaveBlock(cmd.Context(), models.BlockChange{
					Text:     &text,
					Position: &position,
				}); err != nil {
					return err
				}
				imported++
			}
			if err = scanner.Err(); err != nil {
				return err
			}

			a.syncIfSignedIn(cmd.Context())
			fmt.Printf("imported %d blocks\n", imported)
			return nil
		},
	}
}

func (a *App) conflictsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List unresolved sync conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.services.Adapter.Token() == "" {
				return errors.New("not signed in")
			}

			conflicts, err := a.services.Adapter.Conflicts(cmd.Context())
			if err != nil {
				return err
			}

			for _, c := range conflicts {
				fmt.Printf("%s  %s %s (local v%d, server v%d)\n", c.ID, c.RecordType, c.RecordID, c.LocalVersion, c.ServerVersion)
			}
			return nil
		},
	}
}

func (a *App) resolveCommand() *cobra.Command {
	var resolution string

	cmd := &cobra.Command{
		Use:   "resolve <conflict-id>",
		Short: "Mark a sync conflict as resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.services.Adapter.Token() == "" {
				return errors.New("not signed in")
			}

			return a.services.Adapter.ResolveConflict(cmd.Context(), models.ResolveConflictRequest{
				ConflictID: args[0],
				Resolution: models.Resolution(resolution),
			})
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", string(models.ResolutionKeptBoth), "kept_local, kept_server, or kept_both")

	return cmd
}

func (a *App) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the background sync loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			background := workers.NewWorkers(
				workers.NewSyncTicker(a.services.Engine, a.cfg.Workers.SyncInterval, a.logger),
				workers.NewOnlineProbe(a.services.Engine, a.services.Adapter, 0),
			)
			background.Start(ctx)
			defer background.Stop()

			fmt.Println("sync loop running; ctrl-c to stop")
			<-ctx.Done()
			return nil
		},
	}
}
