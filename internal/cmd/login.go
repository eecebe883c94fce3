package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/unibot/cli/internal/faq"
	"github.com/unibot/cli/internal/session"
)

// PasswordEnv lets scripts supply the admin password without a prompt.
const PasswordEnv = "UNIBOT_PASSWORD"

// credentialPrompt reads the admin username and password. The password is
// read without echo when in is a terminal.
type credentialPrompt struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func newCredentialPrompt(cmd *cobra.Command) *credentialPrompt {
	in := cmd.InOrStdin()
	return &credentialPrompt{in: in, out: cmd.ErrOrStderr(), reader: bufio.NewReader(in)}
}

func (p *credentialPrompt) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	text, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(label, ": "), err)
	}
	return strings.TrimSpace(text), nil
}

func (p *credentialPrompt) password() (string, error) {
	if pw, ok := os.LookupEnv(PasswordEnv); ok {
		return pw, nil
	}
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, "password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	return p.line("password: ")
}

func (p *credentialPrompt) credentials(username string) (string, string, error) {
	if username == "" {
		var err error
		if username, err = p.line("username: "); err != nil {
			return "", "", err
		}
	}
	password, err := p.password()
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// adminLogin runs the login gate and returns the loaded repository.
func adminLogin(cmd *cobra.Command, e *env, username string) (*faq.Repository, error) {
	return adminLoginWith(cmd, e, newCredentialPrompt(cmd), username)
}

func adminLoginWith(cmd *cobra.Command, e *env, p *credentialPrompt, username string) (*faq.Repository, error) {
	username, password, err := p.credentials(username)
	if err != nil {
		return nil, err
	}
	repo := faq.NewRepository(e.client, e.logger)
	controller := session.NewController(e.client, repo, e.logger)
	if err := controller.Login(cmd.Context(), username, password); err != nil {
		return nil, commandError(e, "login", err)
	}
	if err := repo.LastError(); err != nil && !repo.Loaded() {
		return nil, commandError(e, "load faqs", err)
	}
	return repo, nil
}

// LoginCmd returns the `unibot login` command. It only verifies the
// credentials; nothing is stored.
func LoginCmd(g *Globals) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify admin credentials against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := g.resolve(false)
			if err != nil {
				return err
			}
			defer e.close()

			repo, err := adminLogin(cmd, e, username)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprint(out, "logged in")
			fmt.Fprintf(out, " (%d FAQs)\n", repo.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username (prompted when empty)")
	return cmd
}
