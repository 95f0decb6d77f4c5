// ABOUTME: Cloud sync commands for the charm backend.
// ABOUTME: Link and unlink devices, inspect state, sync on demand, and recover the local store.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/charm"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

var syncRepairForce bool

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync wellness data across devices",
	Long: `Sync wellness data through a Charm server.

Only the "charm" backend syncs. Records are encrypted with your SSH key
before they leave the machine, and every write is pushed automatically.

To start syncing an existing sqlite or badger store:

  wellness sync link
  wellness migrate --to charm
  export WELLNESS_BACKEND=charm`,
	Annotations: noStorage(),
}

func noStorage() map[string]string {
	return map[string]string{annotationNoStorage: "true"}
}

// withCharm opens the charm store regardless of the configured backend and
// closes it once fn returns.
func withCharm(fn func(c *charm.Client) error) error {
	c, err := charm.InitClient(cfg.CharmOptions())
	if err != nil {
		return fmt.Errorf("open charm store: %w", err)
	}
	defer c.Close()
	return fn(c)
}

// charmCLI runs the external charm binary against the configured host.
func charmCLI(cmd *cobra.Command, args ...string) error {
	c := exec.Command("charm", args...)
	c.Env = append(os.Environ(), "CHARM_HOST="+cfg.GetCharmHost())
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}

// storeCounts tallies what a repository holds.
type storeCounts struct {
	Users, Days, Analyses int
}

func countStore(repo storage.Repository) (storeCounts, error) {
	data, err := storage.CollectAll(repo)
	if err != nil {
		return storeCounts{}, err
	}
	return storeCounts{
		Users:    len(data.Users),
		Days:     len(data.DailyMetrics),
		Analyses: len(data.Analyses),
	}, nil
}

var syncLinkCmd = &cobra.Command{
	Use:         "link",
	Short:       "Link this device to a Charm account",
	Long:        `Link this device to a Charm account, creating one from your SSH key if needed.`,
	Annotations: noStorage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := charmCLI(cmd, "link"); err != nil {
			return fmt.Errorf("charm link: %w (install the CLI with: go install github.com/charmbracelet/charm@latest)", err)
		}
		color.Green("✓ Linked")

		err := withCharm(func(c *charm.Client) error { return c.Sync() })
		if err != nil {
			color.Yellow("first sync did not complete: %v", err)
			return nil
		}
		color.Green("✓ First sync done")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:         "unlink",
	Short:       "Unlink this device; local data stays",
	Annotations: noStorage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := charmCLI(cmd, "unlink"); err != nil {
			return fmt.Errorf("charm unlink: %w", err)
		}
		color.Green("✓ Unlinked (local data kept)")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show account, server and record counts",
	Annotations: noStorage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-10s %s\n", "backend", cfg.GetBackend())

		return withCharm(func(c *charm.Client) error {
			fmt.Fprintf(out, "%-10s %s\n", "server", c.Host())

			id, err := c.ID()
			if err != nil {
				color.Yellow("not linked; run 'wellness sync link'")
				return nil
			}
			fmt.Fprintf(out, "%-10s %s\n", "charm id", id)
			if c.IsReadOnly() {
				color.Yellow("read-only: another process holds the store lock")
			}

			n, err := countStore(c)
			if err != nil {
				return fmt.Errorf("count records: %w", err)
			}
			fmt.Fprintf(out, "%-10s %d users, %d days, %d analyses\n", "records", n.Users, n.Days, n.Analyses)
			return nil
		})
	},
}

var syncNowCmd = &cobra.Command{
	Use:         "now",
	Short:       "Push and pull changes immediately",
	Annotations: noStorage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCharm(func(c *charm.Client) error {
			if c.IsReadOnly() {
				return charm.ErrReadOnly
			}
			if err := c.Sync(); err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			color.Green("✓ In sync with %s", c.Host())
			return nil
		})
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Permanently delete cloud backups and local charm data",
	Long: `Permanently delete every cloud backup and the local charm store.

There is no undo. Type "wipe" at the prompt to proceed.`,
	Annotations: noStorage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Type 'wipe' to delete all synced wellness data: ", "wipe")
		if err != nil || !ok {
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
			}
			return err
		}

		if _, err := charm.ConfigureEnv(cfg.CharmOptions()); err != nil {
			return err
		}
		res, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe: %w", err)
		}
		color.Green("✓ Wiped %d cloud backups and %d local files", res.CloudBackupsDeleted, res.LocalFilesDeleted)
		return nil
	},
}

// repairStep is one line of the repair report.
type repairStep struct {
	done  bool
	label string
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Recover a locked or corrupted local charm store",
	Long: `Checkpoint the WAL, drop a stale shared-memory file, check integrity
and vacuum the local charm store. Use --force to continue past a failed
integrity check.`,
	Annotations: noStorage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := charm.ConfigureEnv(cfg.CharmOptions()); err != nil {
			return err
		}

		res, err := kv.Repair(charm.DBName, syncRepairForce)
		steps := []repairStep{
			{res.WalCheckpointed, "WAL checkpointed"},
			{res.ShmRemoved, "shared-memory file removed"},
			{res.IntegrityOK, "integrity check"},
			{res.Vacuumed, "vacuumed"},
		}
		for _, step := range steps {
			if step.done {
				color.Green("  ✓ %s", step.label)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), faint.Sprintf("  - %s", step.label))
			}
		}
		if err != nil {
			if !syncRepairForce {
				color.Yellow("retry with --force to attempt recovery")
			}
			return fmt.Errorf("repair: %w", err)
		}
		color.Green("✓ Store repaired")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace local charm data with the cloud copy",
	Long: `Delete the local charm store and pull it again from the server.
Useful when a device has drifted or holds conflicting records.`,
	Annotations: noStorage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Replace local wellness data with the cloud copy? [y/N] ", "y", "yes")
		if err != nil || !ok {
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
			}
			return err
		}

		return withCharm(func(c *charm.Client) error {
			if err := c.Reset(); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			color.Green("✓ Local store restored from %s", c.Host())
			return nil
		})
	},
}

func init() {
	syncRepairCmd.Flags().BoolVar(&syncRepairForce, "force", false, "Continue even if the integrity check fails")

	syncCmd.AddCommand(
		syncLinkCmd,
		syncUnlinkCmd,
		syncStatusCmd,
		syncNowCmd,
		syncRepairCmd,
		syncResetCmd,
		syncWipeCmd,
	)
	rootCmd.AddCommand(syncCmd)
}
