package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bissquit/incident-tracker/internal/client"
	"github.com/bissquit/incident-tracker/internal/pkg/ctxlog"
	"github.com/spf13/cobra"
)

const fetchFailedBanner = "Failed to fetch incidents. Please try again."

const browseHelp = `Commands:
  n | p                  next / previous page
  /<text>                search title or service ("/" alone clears)
  sev <SEV1..SEV4|all>   filter by severity
  st <status|all>        filter by status
  sort <field> [order]   createdAt, severity or title; asc or desc
  r                      reload
  h                      help
  q                      quit`

func newBrowseCommand(opts *options) *cobra.Command {
	var (
		limit    int
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively page, search and filter incidents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := &browser{
				client:    opts.client(),
				state:     NewListState(limit),
				out:       cmd.OutOrStdout(),
				debouncer: NewDebouncer(debounce),
			}
			return b.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "incidents per page")
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "quiet period before a search is sent")
	return cmd
}

type browser struct {
	client    *client.Client
	out       io.Writer
	debouncer *Debouncer

	mu    sync.Mutex
	state *ListState
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(b.out, browseHelp)
	b.update(ctx, func(*ListState) bool { return true })

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !b.handle(ctx, strings.TrimSpace(scanner.Text())) {
			break
		}
	}

	// A search typed just before quitting still gets answered.
	b.debouncer.Flush()
	return scanner.Err()
}

// handle reports false when the session should end.
func (b *browser) handle(ctx context.Context, line string) bool {
	if line == "" {
		return true
	}

	if q, ok := strings.CutPrefix(line, "/"); ok {
		b.debouncer.Trigger(func() {
			b.update(ctx, func(s *ListState) bool { return s.SetSearch(q) })
		})
		return true
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "q", "quit", "exit":
		return false
	case "h", "help":
		b.println(browseHelp)
	case "n", "next":
		b.update(ctx, (*ListState).Next)
	case "p", "prev":
		b.update(ctx, (*ListState).Prev)
	case "r", "reload":
		b.update(ctx, func(*ListState) bool { return true })
	case "sev", "severity":
		b.update(ctx, func(s *ListState) bool { return b.reportErr(s.SetSeverity(arg)) })
	case "st", "status":
		b.update(ctx, func(s *ListState) bool { return b.reportErr(s.SetStatus(arg)) })
	case "sort":
		field, order, _ := strings.Cut(arg, " ")
		b.update(ctx, func(s *ListState) bool {
			s.SetSort(field, strings.TrimSpace(order))
			return true
		})
	default:
		b.println("unknown command, type h for help")
	}
	return true
}

// update applies mutate and, if it changed anything, fetches and renders
// the current page. Fetching and rendering happen under one lock so a
// debounced search cannot interleave with a keyboard command.
func (b *browser) update(ctx context.Context, mutate func(*ListState) bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !mutate(b.state) {
		return
	}

	result, err := b.client.ListIncidents(ctx, b.state.Params())
	if err != nil {
		ctxlog.FromContext(ctx).Debug("list incidents failed", "error", err)
		fmt.Fprintln(b.out, fetchFailedBanner)
		return
	}
	b.state.Apply(result)

	_ = RenderTable(b.out, result.Data)
	fmt.Fprintf(b.out, "Page %d of %d (%d incidents)\n", b.state.Page, b.state.TotalPages, result.Total)
}

func (b *browser) reportErr(err error) bool {
	if err != nil {
		fmt.Fprintln(b.out, err)
		return false
	}
	return true
}

func (b *browser) println(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintln(b.out, s)
}
