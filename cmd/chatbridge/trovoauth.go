package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iarazumov/go-twitch-chat/trovo"
)

func newTrovoAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trovo-auth",
		Short: "Authorize the Trovo application and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := cfg.ValidateTrovo(); err != nil {
				return err
			}

			auth := trovo.NewAuth(cfg.Trovo.ClientID, cfg.Trovo.ClientSecret, cfg.Trovo.RedirectURL, trovo.NewTokenStore(cfg.Trovo.TokenFile))

			code, err := promptCode(auth.AuthCodeURL(trovo.NewState()), cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if _, err := auth.Exchange(cmd.Context(), code); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token stored in %s\n", cfg.Trovo.TokenFile)
			return nil
		},
	}
}

// promptCode prints the authorize URL and reads the redirect URL the user pastes back
func promptCode(authURL string, in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintf(out, "Open this URL and approve the application:\n%s\n", authURL)
	fmt.Fprint(out, "Please input redirection URL\n> ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(answer) == "") {
		return "", fmt.Errorf("read redirect url: %w", err)
	}

	return trovo.ExtractCode(answer)
}
