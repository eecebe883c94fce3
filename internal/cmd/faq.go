package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/unibot/cli/internal/faq"
)

// FAQCmd returns the `unibot faq` command group. Every subcommand logs in
// first and every mutation prints the reloaded list.
func FAQCmd(g *Globals) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Manage the FAQ knowledge base",
	}
	cmd.PersistentFlags().StringVarP(&username, "username", "u", "", "admin username (prompted when empty)")
	cmd.AddCommand(faqListCmd(g, &username))
	cmd.AddCommand(faqAddCmd(g, &username))
	cmd.AddCommand(faqEditCmd(g, &username))
	cmd.AddCommand(faqDeleteCmd(g, &username))
	return cmd
}

func faqListCmd(g *Globals, username *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List FAQs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := g.resolve(false)
			if err != nil {
				return err
			}
			defer e.close()

			repo, err := adminLogin(cmd, e, *username)
			if err != nil {
				return err
			}
			printFAQs(cmd.OutOrStdout(), repo.Entries())
			return nil
		},
	}
}

func faqAddCmd(g *Globals, username *string) *cobra.Command {
	var (
		question string
		answer   string
		keywords []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a FAQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := g.resolve(false)
			if err != nil {
				return err
			}
			defer e.close()

			repo, err := adminLogin(cmd, e, *username)
			if err != nil {
				return err
			}
			edit := faq.NewEditSession(repo, e.logger)
			edit.OpenForCreate()
			edit.SetQuestion(question)
			edit.SetAnswer(answer)
			for _, kw := range keywords {
				edit.AddKeyword(kw)
			}
			if err := save(cmd, e, edit); err != nil {
				return err
			}
			printFAQs(cmd.OutOrStdout(), repo.Entries())
			return nil
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "question text")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "answer text (markdown)")
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "keyword (repeatable or comma-separated)")
	return cmd
}

func faqEditCmd(g *Globals, username *string) *cobra.Command {
	var (
		question string
		answer   string
		keywords []string
	)
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Replace fields of the FAQ at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			e, err := g.resolve(false)
			if err != nil {
				return err
			}
			defer e.close()

			repo, err := adminLogin(cmd, e, *username)
			if err != nil {
				return err
			}
			edit := faq.NewEditSession(repo, e.logger)
			if err := edit.OpenForEdit(index); err != nil {
				return commandError(e, "edit faq", err)
			}
			flags := cmd.Flags()
			if flags.Changed("question") {
				edit.SetQuestion(question)
			}
			if flags.Changed("answer") {
				edit.SetAnswer(answer)
			}
			if flags.Changed("keyword") {
				for len(edit.Keywords()) > 0 {
					edit.RemoveKeyword(0)
				}
				for _, kw := range keywords {
					edit.AddKeyword(kw)
				}
			}
			if err := save(cmd, e, edit); err != nil {
				return err
			}
			printFAQs(cmd.OutOrStdout(), repo.Entries())
			return nil
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "new question text")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "new answer text (markdown)")
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "replacement keywords")
	return cmd
}

func faqDeleteCmd(g *Globals, username *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the FAQ at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			e, err := g.resolve(false)
			if err != nil {
				return err
			}
			defer e.close()

			prompt := newCredentialPrompt(cmd)
			repo, err := adminLoginWith(cmd, e, prompt, *username)
			if err != nil {
				return err
			}
			entry, ok := repo.Entry(index)
			if !ok {
				return fmt.Errorf("delete faq: no FAQ at index %d", index)
			}

			confirmed := yes
			if !confirmed {
				reply, err := prompt.line(fmt.Sprintf("Delete %q? [y/N]: ", entry.Question))
				if err != nil {
					return err
				}
				confirmed = strings.EqualFold(reply, "y") || strings.EqualFold(reply, "yes")
			}

			edit := faq.NewEditSession(repo, e.logger)
			if err := edit.Delete(cmd.Context(), index, confirmed); err != nil {
				if reloadErr := asReloadError(err); reloadErr != nil {
					color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "deleted, but reloading FAQs failed")
					return commandError(e, "reload faqs", reloadErr.Err)
				}
				return commandError(e, "delete faq", err)
			}
			printFAQs(cmd.OutOrStdout(), repo.Entries())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func save(cmd *cobra.Command, e *env, edit *faq.EditSession) error {
	err := edit.Save(cmd.Context())
	if err == nil {
		return nil
	}
	if reloadErr := asReloadError(err); reloadErr != nil {
		color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "saved, but reloading FAQs failed")
		return commandError(e, "reload faqs", reloadErr.Err)
	}
	return commandError(e, "save faq", err)
}

func asReloadError(err error) *faq.ReloadError {
	var reloadErr *faq.ReloadError
	if errors.As(err, &reloadErr) {
		return reloadErr
	}
	return nil
}

func parseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid index %q", raw)
	}
	return index, nil
}

func printFAQs(w io.Writer, entries []faq.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no FAQs found")
		return
	}
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	for i, entry := range entries {
		fmt.Fprintf(w, "%3d  ", i)
		bold.Fprintln(w, entry.Question)
		fmt.Fprintf(w, "     %s\n", entry.Answer)
		fmt.Fprint(w, "     ")
		cyan.Fprintln(w, entry.Keywords.String())
	}
}
