package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chimewidget/chime/comments"
	"github.com/chimewidget/chime/internal/logging"
	"github.com/chimewidget/chime/recaptcha"
	"github.com/chimewidget/chime/widget"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse and reply to the comments of one post",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := strings.TrimSpace(flagOrViperString(cmd, "endpoint", "endpoint"))
			if endpoint == "" {
				return errors.New("missing --endpoint (or CHIME_ENDPOINT)")
			}
			post := flagOrViperInt(cmd, "post", "post")
			if post <= 0 {
				return errors.New("missing --post")
			}

			closeLogs, err := logging.Setup(
				flagOrViperString(cmd, "log-file", "log_file"),
				flagOrViperString(cmd, "log-level", "log_level"),
			)
			if err != nil {
				return err
			}
			defer closeLogs()

			client := comments.New(comments.Config{
				Endpoint: endpoint,
				APIKey:   flagOrViperString(cmd, "api-key", "api_key"),
				Root:     flagOrViperString(cmd, "api-root", "api_root"),
			})

			// A static token stands in for a real browser integration so
			// token-gated services can be exercised from the terminal.
			var provider recaptcha.Provider
			if tok := strings.TrimSpace(flagOrViperString(cmd, "recaptcha-token", "recaptcha_token")); tok != "" {
				provider = &recaptcha.StaticProvider{TokenValue: tok}
			}

			order := comments.OrderDesc
			if strings.EqualFold(flagOrViperString(cmd, "order", "order"), "asc") {
				order = comments.OrderAsc
			}

			w := widget.New(widget.Options{
				Client:   client,
				PostID:   post,
				Order:    order,
				Provider: provider,
			})

			p := tea.NewProgram(newApp(w, post, endpoint), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, "running program")
			}
			return nil
		},
	}

	cmd.Flags().Int("post", 0, "Post ID whose comments to show")
	cmd.Flags().String("order", "desc", "Sort direction: asc or desc")
	cmd.Flags().String("recaptcha-token", "", "Static recaptcha token attached to submissions")

	return cmd
}
