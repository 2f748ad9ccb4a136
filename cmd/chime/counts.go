package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chimewidget/chime/comments"
	"github.com/chimewidget/chime/internal/logging"
)

func newCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts <post-id>...",
		Short: "Print the comment count of each post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := strings.TrimSpace(flagOrViperString(cmd, "endpoint", "endpoint"))
			if endpoint == "" {
				return errors.New("missing --endpoint (or CHIME_ENDPOINT)")
			}

			ids, err := parsePostIDs(args)
			if err != nil {
				return err
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

			counts, err := client.Counts(cmd.Context(), ids)
			if err != nil {
				return err
			}

			for _, line := range formatCounts(ids, counts) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

// parsePostIDs converts the argument list, dropping duplicates and rejecting
// anything that is not a positive integer.
func parsePostIDs(args []string) ([]int, error) {
	seen := make(map[int]bool, len(args))
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || id <= 0 {
			return nil, errors.Errorf("invalid post ID %q", arg)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// formatCounts renders one tab-separated line per requested post, in request
// order. Posts missing from counts failed to resolve and show a dash.
func formatCounts(ids []int, counts map[int]int) []string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		n, ok := counts[id]
		if !ok {
			lines = append(lines, fmt.Sprintf("%d\t-", id))
			continue
		}
		lines = append(lines, fmt.Sprintf("%d\t%d", id, n))
	}
	return lines
}
