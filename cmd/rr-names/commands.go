package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haukened/rr-names/internal/names/common/log"
	"github.com/haukened/rr-names/internal/names/domain"
	"github.com/haukened/rr-names/internal/names/repos/blacklist/bolt"
	"github.com/haukened/rr-names/internal/names/selftest"
)

// Subcommands receive **Application because the root builds it in
// PersistentPreRunE, after the commands are constructed.

func newSelfTestCmd(app **Application) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run the built-in lint and blacklist battery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfTest(cmd, *app)
		},
	}
}

func runSelfTest(cmd *cobra.Command, app *Application) error {
	if !selftest.Run(cmd.OutOrStdout(), app.checker) {
		return errChecksFailed
	}
	return nil
}

func newValidCmd(app **Application) *cobra.Command {
	var maxLength int
	cmd := &cobra.Command{
		Use:   "valid <name>...",
		Short: "Print the canonical form of each well-formed name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			if !cmd.Flags().Changed("max-length") {
				maxLength = a.config.MaxLength
			}
			if maxLength < 0 {
				return fmt.Errorf("invalid --max-length %d: must be >= 0", maxLength)
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, name := range args {
				var (
					canonical string
					ok        bool
				)
				if maxLength > 0 {
					canonical, ok = a.checker.ValidMaxLength(name, maxLength)
				} else {
					canonical, ok = a.checker.Valid(name)
				}
				if !ok {
					failed++
					fmt.Fprintf(out, "%s: invalid\n", name)
					continue
				}
				fmt.Fprintln(out, canonical)
			}
			if failed > 0 {
				return errChecksFailed
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&maxLength, "max-length", "m", 0, "Reject names longer than this (0 = NAMES_MAX_LENGTH or unbounded)")
	return cmd
}

func newAllowedCmd(app **Application) *cobra.Command {
	var collection string
	cmd := &cobra.Command{
		Use:   "allowed <name>...",
		Short: "Check names against a blacklist collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			out := cmd.OutOrStdout()
			failed := 0
			for _, name := range args {
				d, err := a.checker.Check(name, collection)
				if err != nil {
					return err
				}
				if !d.IsAllowed() {
					failed++
				}
				fmt.Fprintln(out, describe(name, d))
			}
			if failed > 0 {
				return errChecksFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Collection to check against (default NAMES_COLLECTION)")
	return cmd
}

// describe renders one decision for humans.
func describe(name string, d domain.Decision) string {
	switch {
	case d.Invalid:
		return fmt.Sprintf("%s: invalid", name)
	case d.IsAllowed():
		return fmt.Sprintf("%s: allowed", name)
	default:
		return fmt.Sprintf("%s: disallowed by %s entry %q in %s (%s)",
			name, d.Entry.Kind, d.Entry.Raw, d.MatchedIn, strings.Join(d.Path, " -> "))
	}
}

func newCollectionsCmd(app **Application) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List collections with their entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bl := (*app).blacklist
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "COLLECTION\tENTRIES\tREFERENCES")
			for _, name := range bl.Collections() {
				entries, _ := bl.Collection(name)
				var refs []string
				for _, e := range entries {
					if e.IsReference() {
						refs = append(refs, e.Value)
					}
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(entries), strings.Join(refs, ","))
			}
			return w.Flush()
		},
	}
}

func newCompileCmd(app **Application) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <out.db>",
		Short: "Write the loaded blacklist into a bbolt snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			st, err := bolt.New(args[0])
			if err != nil {
				return fmt.Errorf("failed to open snapshot: %w", err)
			}
			defer st.Close()

			next := st.Stats().Version + 1
			if err := st.RebuildAll(a.blacklist, next, a.clock.Now().Unix()); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			stats := st.Stats()
			log.Info(map[string]any{
				"path":        args[0],
				"version":     stats.Version,
				"collections": stats.Collections,
				"entries":     stats.Entries,
			}, "Snapshot written")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: version %d, %d collections, %d entries\n",
				args[0], stats.Version, stats.Collections, stats.Entries)
			return nil
		},
	}
}
