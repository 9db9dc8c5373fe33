package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/javiermolinar/dayboard/internal/config"
	"github.com/javiermolinar/dayboard/internal/sessionlog"
	"github.com/javiermolinar/dayboard/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  dayboard config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.AddCommand(a.configPasswordCmd())
	return cmd
}

func (a *App) configPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Store the Postgres password in the OS keyring",
		Long: `Prompt for the session log database password and store it in the
OS keyring. Set storage.postgres.use_keyring = true to use it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := a.config.Storage.Postgres.User
			if user == "" {
				user = a.config.User
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Password for %s@%s: ", user, a.config.Storage.Postgres.Host)
			password, err := readPassword(cmd.InOrStdin())
			fmt.Fprintln(out)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			if password == "" {
				return errors.New("password cannot be empty")
			}
			if err := sessionlog.StorePassword(user, password); err != nil {
				return err
			}
			fmt.Fprintln(out, "Password stored in keyring.")
			return nil
		},
	}
}

// readPassword reads a line without echo when in is a terminal.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return strings.TrimSpace(string(b)), err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runConfigInteractive(in io.Reader, out io.Writer) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	cfg.User = promptValue(reader, out, "User", cfg.User)
	cfg.Schedule.EndOfDay = promptValue(reader, out, "End of day commit time", cfg.Schedule.EndOfDay)
	if err := promptDuration(reader, out, "Snapshot interval", &cfg.Schedule.SnapshotInterval); err != nil {
		return err
	}
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Storage.SnapshotBackend = promptValue(reader, out, "Snapshot backend (sqlite, redis)", cfg.Storage.SnapshotBackend)
	if cfg.Storage.SnapshotBackend == config.BackendRedis {
		cfg.Storage.Redis.Addr = promptValue(reader, out, "Redis address", cfg.Storage.Redis.Addr)
	}
	cfg.Storage.SessionLogBackend = promptValue(reader, out, "Session log backend (sqlite, postgres)", cfg.Storage.SessionLogBackend)
	if cfg.Storage.SessionLogBackend == config.BackendPostgres {
		cfg.Storage.Postgres.Host = promptValue(reader, out, "Postgres host", cfg.Storage.Postgres.Host)
		cfg.Storage.Postgres.Database = promptValue(reader, out, "Postgres database", cfg.Storage.Postgres.Database)
		cfg.Storage.Postgres.User = promptValue(reader, out, "Postgres user", cfg.Storage.Postgres.User)
	}
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.UI.DefaultView = promptValue(reader, out, "Default view (day, schedule)", cfg.UI.DefaultView)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintf(out, "user                  = %s\n", cfg.User)
	fmt.Fprintln(out, "\n[schedule]")
	fmt.Fprintf(out, "  snapshot_interval   = %s\n", cfg.Schedule.SnapshotInterval)
	fmt.Fprintf(out, "  end_of_day_check    = %s\n", cfg.Schedule.EndOfDayCheck)
	fmt.Fprintf(out, "  end_of_day          = %s\n", cfg.Schedule.EndOfDay)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path             = %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(out, "  snapshot_backend    = %s\n", cfg.Storage.SnapshotBackend)
	if cfg.Storage.SnapshotBackend == config.BackendRedis {
		fmt.Fprintf(out, "  redis.addr          = %s\n", cfg.Storage.Redis.Addr)
	}
	fmt.Fprintf(out, "  session_log_backend = %s\n", cfg.Storage.SessionLogBackend)
	if cfg.Storage.SessionLogBackend == config.BackendPostgres {
		fmt.Fprintf(out, "  postgres.host       = %s\n", cfg.Storage.Postgres.Host)
		fmt.Fprintf(out, "  postgres.database   = %s\n", cfg.Storage.Postgres.Database)
	}
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme               = %s\n", cfg.UI.Theme)
	fmt.Fprintf(out, "  default_view        = %s\n", cfg.UI.DefaultView)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptDuration(reader *bufio.Reader, out io.Writer, label string, d *config.Duration) error {
	value := promptValue(reader, out, label, d.String())
	if err := d.UnmarshalText([]byte(value)); err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return nil
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
