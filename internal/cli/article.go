package cli

import (
	"fmt"
	"go-blog-app/internal/data"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// Maximum lengths, in characters, of the article text columns.
const (
	maxTitle    = 80
	maxAbstract = 70
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Manage articles",
}

var articleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an article",
	Long: `Create an article from a Markdown file or standard input.

Examples:
  blogctl article create --title Hello --body-file hello.md
  cat post.md | blogctl article create --title Post --status published --tag 1 --tag 2`,
	Args: cobra.NoArgs,
	RunE: runArticleCreate,
}

var articleEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit an article",
	Long: `Edit an article. Only the fields whose flags are given change; the
creation time and the view and like counters are kept.

--tag replaces the whole tag set, --category 0 clears the category and an
empty --abstract clears the abstract. --body-file - reads standard input.

Examples:
  blogctl article edit 3 --title "New title"
  blogctl article edit 3 --body-file post.md --tag 1 --tag 4
  blogctl article edit 3 --status draft --topped=false`,
	Args: cobra.ExactArgs(1),
	RunE: runArticleEdit,
}

var articlePublishCmd = &cobra.Command{
	Use:   "publish ID",
	Short: "Publish an article",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticlePublish,
}

var articleDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an article and its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticleDelete,
}

var articleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List articles, most recently modified first",
	Args:    cobra.NoArgs,
	RunE:    runArticleList,
}

func init() {
	rootCmd.AddCommand(articleCmd)
	articleCmd.AddCommand(articleCreateCmd, articleEditCmd, articlePublishCmd, articleDeleteCmd, articleListCmd)

	articleCreateCmd.Flags().String("title", "", "article title (required)")
	articleCreateCmd.Flags().String("body-file", "", "Markdown body file (default: read standard input)")
	articleCreateCmd.Flags().String("abstract", "", "short abstract shown in listings")
	articleCreateCmd.Flags().String("status", "draft", "draft or published")
	articleCreateCmd.Flags().Int64("category", 0, "category id")
	articleCreateCmd.Flags().Int64Slice("tag", nil, "tag id (repeatable)")
	articleCreateCmd.Flags().Bool("topped", false, "pin the article")
	_ = articleCreateCmd.MarkFlagRequired("title")

	articleEditCmd.Flags().String("title", "", "new title")
	articleEditCmd.Flags().String("body-file", "", "Markdown body file, - for standard input")
	articleEditCmd.Flags().String("abstract", "", "new abstract, empty to clear")
	articleEditCmd.Flags().String("status", "", "draft or published")
	articleEditCmd.Flags().Int64("category", 0, "category id, 0 to clear")
	articleEditCmd.Flags().Int64Slice("tag", nil, "tag id (repeatable), replaces the tag set")
	articleEditCmd.Flags().Bool("topped", false, "pin or unpin the article")

	articleListCmd.Flags().String("status", "", "only list draft or published articles")
}

func runArticleCreate(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	bodyFile, _ := cmd.Flags().GetString("body-file")
	abstract, _ := cmd.Flags().GetString("abstract")
	statusFlag, _ := cmd.Flags().GetString("status")
	categoryID, _ := cmd.Flags().GetInt64("category")
	tagIDs, _ := cmd.Flags().GetInt64Slice("tag")
	topped, _ := cmd.Flags().GetBool("topped")

	title, err := checkTitle(title)
	if err != nil {
		return err
	}
	status, err := data.ParseStatus(statusFlag)
	if err != nil {
		return err
	}
	body, err := readBody(cmd, bodyFile)
	if err != nil {
		return err
	}

	article := &data.Article{
		Title:  title,
		Body:   body,
		Status: status,
		Topped: topped,
	}
	if article.Abstract, err = checkAbstract(abstract); err != nil {
		return err
	}
	if article.CategoryID, err = checkCategory(cmd, categoryID); err != nil {
		return err
	}
	if err := checkTags(cmd, tagIDs); err != nil {
		return err
	}

	if err := data.NewArticleRepository(db).Create(cmd.Context(), article, tagIDs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created article %d: %s (%s)\n", article.ID, article.Title, article.Status)
	return nil
}

func runArticleEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	articles := data.NewArticleRepository(db)
	article, err := articles.GetByID(cmd.Context(), id)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		if article.Title, err = checkTitle(title); err != nil {
			return err
		}
	}
	if flags.Changed("body-file") {
		bodyFile, _ := flags.GetString("body-file")
		if article.Body, err = readBody(cmd, bodyFile); err != nil {
			return err
		}
	}
	if flags.Changed("abstract") {
		abstract, _ := flags.GetString("abstract")
		if article.Abstract, err = checkAbstract(abstract); err != nil {
			return err
		}
	}
	if flags.Changed("status") {
		statusFlag, _ := flags.GetString("status")
		if article.Status, err = data.ParseStatus(statusFlag); err != nil {
			return err
		}
	}
	if flags.Changed("category") {
		categoryID, _ := flags.GetInt64("category")
		if article.CategoryID, err = checkCategory(cmd, categoryID); err != nil {
			return err
		}
	}
	if flags.Changed("topped") {
		article.Topped, _ = flags.GetBool("topped")
	}
	tagIDs, _ := flags.GetInt64Slice("tag")
	if flags.Changed("tag") {
		if err := checkTags(cmd, tagIDs); err != nil {
			return err
		}
	}

	if err := articles.Update(cmd.Context(), article); err != nil {
		return err
	}
	if flags.Changed("tag") {
		if err := articles.SetTags(cmd.Context(), article.ID, tagIDs); err != nil {
			return err
		}
	}
	log.Debug(fmt.Sprintf("article %d modified at %s", article.ID, article.UpdatedAt.Format(time.RFC3339Nano)))
	fmt.Fprintf(cmd.OutOrStdout(), "Updated article %d: %s (%s)\n", article.ID, article.Title, article.Status)
	return nil
}

func checkTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || len([]rune(title)) > maxTitle {
		return "", fmt.Errorf("title must be 1 to %d characters", maxTitle)
	}
	return title, nil
}

// checkAbstract trims the abstract; empty means no abstract.
func checkAbstract(abstract string) (*string, error) {
	abstract = strings.TrimSpace(abstract)
	if abstract == "" {
		return nil, nil
	}
	if len([]rune(abstract)) > maxAbstract {
		return nil, fmt.Errorf("abstract must be at most %d characters", maxAbstract)
	}
	return &abstract, nil
}

// checkCategory verifies the category exists; 0 means no category.
func checkCategory(cmd *cobra.Command, id int64) (*int64, error) {
	if id <= 0 {
		return nil, nil
	}
	if _, err := data.NewCategoryRepository(db).GetByID(cmd.Context(), id); err != nil {
		return nil, err
	}
	return &id, nil
}

func checkTags(cmd *cobra.Command, ids []int64) error {
	tags := data.NewTagRepository(db)
	for _, id := range ids {
		if _, err := tags.GetByID(cmd.Context(), id); err != nil {
			return err
		}
	}
	return nil
}

func readBody(cmd *cobra.Command, path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "" || path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading article body: %w", err)
	}
	return string(raw), nil
}

func runArticlePublish(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := data.NewArticleRepository(db).SetStatus(cmd.Context(), id, data.StatusPublished); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published article %d\n", id)
	return nil
}

func runArticleDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := data.NewArticleRepository(db).Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted article %d\n", id)
	return nil
}

func runArticleList(cmd *cobra.Command, args []string) error {
	var f data.ArticleFilter
	if s, _ := cmd.Flags().GetString("status"); s != "" {
		status, err := data.ParseStatus(s)
		if err != nil {
			return err
		}
		f.Status = &status
	}

	articles, err := data.NewArticleRepository(db).List(cmd.Context(), f)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tVIEWS\tLIKES\tMODIFIED\tTITLE")
	for _, a := range articles {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\n",
			a.ID, a.Status, a.Views, a.Likes, a.UpdatedAt.Format("2006-01-02 15:04"), a.Title)
	}
	return tw.Flush()
}
