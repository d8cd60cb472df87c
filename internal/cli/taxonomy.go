package cli

import (
	"context"
	"fmt"
	"go-blog-app/internal/data"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Maximum lengths, in characters, of category and tag names.
const (
	maxCategoryName = 20
	maxTagName      = 25
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

// nameStore is what category and tag commands need from their repository.
type nameStore interface {
	create(ctx context.Context, name string) (int64, error)
	delete(ctx context.Context, id int64) error
	list(ctx context.Context) ([][2]string, error)
}

type categoryStore struct{ repo *data.CategoryRepository }

func (s categoryStore) create(ctx context.Context, name string) (int64, error) {
	return s.repo.Save(ctx, &data.Category{Name: name})
}

func (s categoryStore) delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s categoryStore) list(ctx context.Context) ([][2]string, error) {
	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][2]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, [2]string{strconv.FormatInt(c.ID, 10), c.Name})
	}
	return rows, nil
}

type tagStore struct{ repo *data.TagRepository }

func (s tagStore) create(ctx context.Context, name string) (int64, error) {
	return s.repo.Save(ctx, &data.Tag{Name: name})
}

func (s tagStore) delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s tagStore) list(ctx context.Context) ([][2]string, error) {
	tags, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][2]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, [2]string{strconv.FormatInt(t.ID, 10), t.Name})
	}
	return rows, nil
}

func init() {
	rootCmd.AddCommand(categoryCmd, tagCmd)
	addNameCommands(categoryCmd, "category", maxCategoryName, func() nameStore { return categoryStore{data.NewCategoryRepository(db)} })
	addNameCommands(tagCmd, "tag", maxTagName, func() nameStore { return tagStore{data.NewTagRepository(db)} })
}

// addNameCommands attaches create, delete and list to parent. store is
// resolved at run time, after the database is open.
func addNameCommands(parent *cobra.Command, noun string, maxLen int, store func() nameStore) {
	parent.AddCommand(
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a " + noun,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.TrimSpace(args[0])
				if name == "" || len([]rune(name)) > maxLen {
					return fmt.Errorf("%s name must be 1 to %d characters", noun, maxLen)
				}
				id, err := store().create(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %d: %s\n", noun, id, name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a " + noun,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := store().delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", noun, id)
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List " + noun + " names",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := store().list(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
				}
				return tw.Flush()
			},
		},
	)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
