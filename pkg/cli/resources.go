package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/langconv/langconv/pkg/catalog"
	"github.com/langconv/langconv/pkg/cli/internal/output"
	"github.com/langconv/langconv/pkg/model"
	"github.com/langconv/langconv/pkg/resource"
)

// resourceCommands describes how the generic verbs map onto one record type.
type resourceCommands[R model.Identifiable] struct {
	plural   string
	singular string
	client   func(*catalog.Catalog) *resource.Client[R]
	add      func(cmd *cobra.Command, c *catalog.Catalog, name string) (*R, bool)
	addFlags func(*cobra.Command)
	rename   func(R, string) R
	header   []string
	row      func(R) []string
}

func newLanguagesCmd(s *session) *cobra.Command {
	var description string
	rc := resourceCommands[model.Language]{
		plural:   "languages",
		singular: "language",
		client:   func(c *catalog.Catalog) *resource.Client[model.Language] { return c.Languages },
		add: func(cmd *cobra.Command, c *catalog.Catalog, name string) (*model.Language, bool) {
			return c.AddLanguage(cmd.Context(), name, description)
		},
		rename: func(l model.Language, name string) model.Language {
			l.Name = name
			return l
		},
		addFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVarP(&description, "description", "d", "", "Language description")
		},
		header: []string{"ID", "NAME", "DESCRIPTION"},
		row: func(l model.Language) []string {
			return []string{strconv.Itoa(l.ID), l.Name, l.Description}
		},
	}
	return rc.command(s)
}

func newConversionsCmd(s *session) *cobra.Command {
	rc := resourceCommands[model.Conversion]{
		plural:   "conversions",
		singular: "conversion",
		client:   func(c *catalog.Catalog) *resource.Client[model.Conversion] { return c.Conversions },
		add: func(cmd *cobra.Command, c *catalog.Catalog, name string) (*model.Conversion, bool) {
			return c.AddConversion(cmd.Context(), name)
		},
		rename: func(c model.Conversion, name string) model.Conversion {
			c.Name = name
			return c
		},
		header: []string{"ID", "NAME"},
		row: func(c model.Conversion) []string {
			return []string{strconv.Itoa(c.ID), c.Name}
		},
	}
	return rc.command(s)
}

// command builds the parent command and its verbs.
func (rc resourceCommands[R]) command(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   rc.plural,
		Short: "Manage " + rc.plural,
		Example: fmt.Sprintf(`  langconv %[1]s list
  langconv %[1]s get 11
  langconv %[1]s search ma --json
  langconv %[1]s add "New name"
  langconv %[1]s delete 11`, rc.plural),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all " + rc.plural,
			Args:  cobra.NoArgs,
			RunE: rc.run(s, func(cmd *cobra.Command, c *catalog.Catalog, _ []string) error {
				return rc.printList(cmd.OutOrStdout(), s, rc.client(c).List(cmd.Context()))
			}),
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Get a " + rc.singular + " by id; fails when it does not exist",
			Args:  cobra.ExactArgs(1),
			RunE: rc.run(s, func(cmd *cobra.Command, c *catalog.Catalog, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				rec, err := rc.client(c).Get(cmd.Context(), id)
				if errors.Is(err, resource.ErrNotFound) {
					return fmt.Errorf("%s %d not found", rc.singular, id)
				}
				if rec == nil {
					return nil
				}
				return rc.printOne(cmd.OutOrStdout(), s, *rec)
			}),
		},
		&cobra.Command{
			Use:   "find <id>",
			Short: "Look a " + rc.singular + " up by id; a miss is not an error",
			Args:  cobra.ExactArgs(1),
			RunE: rc.run(s, func(cmd *cobra.Command, c *catalog.Catalog, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				rec := rc.client(c).Find(cmd.Context(), id)
				if rec == nil {
					if s.flags.jsonOutput {
						return output.JSON(cmd.OutOrStdout(), nil)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "No %s with id %d\n", rc.singular, id)
					return nil
				}
				return rc.printOne(cmd.OutOrStdout(), s, *rec)
			}),
		},
		&cobra.Command{
			Use:   "search <term>",
			Short: "Search " + rc.plural,
			Args:  cobra.ExactArgs(1),
			RunE: rc.run(s, func(cmd *cobra.Command, c *catalog.Catalog, args []string) error {
				return rc.printList(cmd.OutOrStdout(), s, rc.client(c).Search(cmd.Context(), args[0]))
			}),
		},
		rc.addCommand(s),
		&cobra.Command{
			Use:   "update <id> <name>",
			Short: "Rename a " + rc.singular,
			Args:  cobra.ExactArgs(2),
			RunE: rc.run(s, func(cmd *cobra.Command, c *catalog.Catalog, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				name := strings.TrimSpace(args[1])
				if name == "" {
					return errors.New("name cannot be blank")
				}
				client := rc.client(c)
				rec, err := client.Get(cmd.Context(), id)
				if errors.Is(err, resource.ErrNotFound) {
					return fmt.Errorf("%s %d not found", rc.singular, id)
				}
				if rec == nil {
					return nil
				}
				updated := rc.rename(*rec, name)
				if !client.Update(cmd.Context(), updated) {
					return nil
				}
				return rc.printOne(cmd.OutOrStdout(), s, updated)
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a " + rc.singular,
			Args:  cobra.ExactArgs(1),
			RunE: rc.run(s, func(cmd *cobra.Command, c *catalog.Catalog, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				removed := rc.client(c).Delete(cmd.Context(), model.ID(id))
				if removed != nil {
					return rc.printOne(cmd.OutOrStdout(), s, *removed)
				}
				return nil
			}),
		},
	)
	return cmd
}

func (rc resourceCommands[R]) addCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a " + rc.singular,
		Args:  cobra.ExactArgs(1),
		RunE: rc.run(s, func(cmd *cobra.Command, c *catalog.Catalog, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return errors.New("name cannot be blank")
			}
			rec, ok := rc.add(cmd, c, args[0])
			if !ok {
				return nil
			}
			return rc.printOne(cmd.OutOrStdout(), s, *rec)
		}),
	}
	if rc.addFlags != nil {
		rc.addFlags(cmd)
	}
	return cmd
}

// run wraps fn with catalog setup and message reporting.
func (rc resourceCommands[R]) run(s *session, fn func(*cobra.Command, *catalog.Catalog, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := s.catalog()
		if err != nil {
			return err
		}
		mark := c.Messages().Len()
		runErr := fn(cmd, c, args)
		if err := s.report(cmd.ErrOrStderr(), c, mark); err != nil && runErr == nil {
			return err
		}
		return runErr
	}
}

func (rc resourceCommands[R]) printList(w io.Writer, s *session, records []R) error {
	if s.flags.jsonOutput {
		return output.JSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintf(w, "No %s found\n", rc.plural)
		return nil
	}
	tw := output.Table(w)
	fmt.Fprintln(tw, strings.Join(rc.header, "\t"))
	for _, r := range records {
		fmt.Fprintln(tw, strings.Join(rc.row(r), "\t"))
	}
	return tw.Flush()
}

func (rc resourceCommands[R]) printOne(w io.Writer, s *session, record R) error {
	if s.flags.jsonOutput {
		return output.JSON(w, record)
	}
	return rc.printList(w, s, []R{record})
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", raw)
	}
	return id, nil
}
