package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/adapta-compat/internal/config"
	"github.com/mvp-joe/adapta-compat/internal/rebrand"
)

var (
	dryRunFlag  bool
	excludeFlag []string
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename files and directories from the old library name to the new one",
	Long: `Rename walks the root bottom-up and renames every file and directory whose
name contains the old library or prefix (Adwaita → Adapta, Adw → Adap), keeping
the case of each match. .git is left alone.

Run rename, then replace, then generate.`,
	RunE: runRename,
}

// replaceCmd represents the replace command
var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Rewrite file contents from the old library name to the new one",
	Long: `Replace rewrites every text file under the root, substituting the old library
and prefix with the new ones while keeping the case of each match. Binary files,
files that are not UTF-8, .git and excluded root files are left alone.`,
	RunE: runReplace,
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(replaceCmd)

	for _, cmd := range []*cobra.Command{renameCmd, replaceCmd} {
		cmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Report changes without applying them")
	}
	replaceCmd.Flags().StringSliceVar(&excludeFlag, "exclude", nil, "Base names in the root to leave untouched")
}

func runRename(cmd *cobra.Command, args []string) error {
	rootDir, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return executeRename(cmd.OutOrStdout(), rootDir, cfg, dryRunFlag)
}

func runReplace(cmd *cobra.Command, args []string) error {
	rootDir, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return executeReplace(cmd.OutOrStdout(), rootDir, cfg, excludeFlag, dryRunFlag)
}

func executeRename(out io.Writer, rootDir string, cfg *config.Config, dryRun bool) error {
	r := rebrand.NewReplacer(rebrand.NamePairs(cfg.SymbolNaming()))

	n, err := rebrand.RenameTree(rootDir, r, rebrand.Options{DryRun: dryRun}, func(oldPath, newPath string) {
		fmt.Fprintf(out, "Renamed: %s → %s\n", displayPath(rootDir, oldPath), displayPath(rootDir, newPath))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %d path(s)\n", verb(dryRun, "Renamed", "Would rename"), n)
	return nil
}

func executeReplace(out io.Writer, rootDir string, cfg *config.Config, exclude []string, dryRun bool) error {
	r := rebrand.NewReplacer(rebrand.ContentPairs(cfg.SymbolNaming()))
	opts := rebrand.Options{Exclude: exclude, DryRun: dryRun}

	n, err := rebrand.ReplaceTree(rootDir, r, opts, func(path string) {
		fmt.Fprintf(out, "Modified: %s\n", displayPath(rootDir, path))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %d file(s)\n", verb(dryRun, "Modified", "Would modify"), n)
	return nil
}

func verb(dryRun bool, done, planned string) string {
	if dryRun {
		return planned
	}
	return done
}
