// ABOUTME: Installs the Claude Code skill for wellness.
// ABOUTME: Embeds the skill definition and writes it to ~/.claude/skills/wellness/.

package main

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

const skillFile = "skill/SKILL.md"

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the wellness skill for Claude Code.

The skill is written to ~/.claude/skills/wellness/SKILL.md. With it,
Claude Code logs days and runs analyses when you mention sleep,
exercise, or how you feel.`,
	Annotations: map[string]string{annotationNoStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		return installSkill(home, cmd.InOrStdin())
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Install without asking")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "wellness", "SKILL.md")
}

func installSkill(home string, in io.Reader) error {
	path := skillPath(home)
	out := os.Stdout

	fmt.Fprintf(out, "Skill destination: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(out, faint.Sprint("An existing skill file will be replaced."))
	}

	if !skillSkipConfirm {
		ok, err := confirm(in, out, "Install the wellness skill? [y/N] ", "y", "yes")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Nothing installed.")
			return nil
		}
	}

	content, err := skillFS.ReadFile(skillFile)
	if err != nil {
		return fmt.Errorf("read embedded skill: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create skill directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("write skill: %w", err)
	}

	color.Green("✓ Wellness skill installed")
	fmt.Fprintln(out, `Ask Claude something like "I slept 6 hours and walked 8000 steps, how am I doing?"`)
	return nil
}
