package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tag-admin/pkg/services"
)

// Command options
var (
	browseURL      string
	browseDebounce time.Duration
)

const browseHelp = `Type to edit the filter, then:
  :f          apply the typed filter (back to page 1)
  :n / :p     next / previous page
  :g N        go to page N
  :q          quit`

// newBrowseCmd creates a new command for browsing tags interactively
func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse tags interactively",
		Long: `Browse tags page by page from the terminal. Lines typed at the prompt edit the
filter draft; ":f" applies it. With --debounce the draft is applied automatically
once typing pauses for the given duration.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, _ := setup()

			debounce := browseDebounce
			if !cmd.Flags().Changed("debounce") {
				debounce = cfg.FilterDebounce
			}

			b := newBrowser(os.Stdout, services.Default().NewView(), browseURL, debounce)
			b.run(readLines(os.Stdin))
		},
	}

	cmd.Flags().StringVarP(&browseURL, "url", "u", "", "Start from this tags URL or query, e.g. \"page=2&filter=music\"")
	cmd.Flags().DurationVarP(&browseDebounce, "debounce", "d", 0, "Apply the filter draft after typing pauses for this long (0 disables)")

	return cmd
}

// browser is a terminal rendition of the tags screen
type browser struct {
	out       io.Writer
	query     *services.QueryState
	view      *services.ListView
	draft     string
	debouncer *services.Debouncer[string]
}

func newBrowser(out io.Writer, view *services.ListView, startURL string, debounce time.Duration) *browser {
	if idx := strings.Index(startURL, "?"); idx != -1 {
		startURL = startURL[idx+1:]
	}

	b := &browser{
		out:   out,
		query: services.NewQueryState(startURL),
		view:  view,
	}
	b.draft = b.query.ReadIntent().FilterText
	if debounce > 0 {
		b.debouncer = services.NewDebouncer[string](debounce)
	}
	return b
}

// run processes input lines until ":q" or end of input
func (b *browser) run(lines <-chan string) {
	var settled <-chan string
	if b.debouncer != nil {
		defer b.debouncer.Stop()
		settled = b.debouncer.C()
	}

	fmt.Fprintln(b.out, browseHelp)
	done := b.load()

	for {
		select {
		case <-done:
			done = nil
			b.render()

		case value := <-settled:
			done = b.commit(value)

		case line, ok := <-lines:
			if !ok {
				// Wait for the page being loaded, the draft is abandoned
				if done != nil {
					<-done
					b.render()
				}
				return
			}
			next, quit := b.handle(line)
			if quit {
				return
			}
			if next != nil {
				done = next
			}
		}
	}
}

// handle applies one input line. It returns the settle channel of a new fetch, if any.
func (b *browser) handle(line string) (<-chan struct{}, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, ":") {
		b.draft = line
		if b.debouncer != nil {
			b.debouncer.Observe(line)
		}
		return nil, false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":q", ":quit":
		return nil, true
	case ":f", ":filter":
		return b.commit(b.draft), false
	case ":n", ":next":
		return b.goTo(b.query.ReadIntent().Page + 1), false
	case ":p", ":prev":
		return b.goTo(b.query.ReadIntent().Page - 1), false
	case ":g", ":go":
		if len(fields) < 2 {
			fmt.Fprintln(b.out, "usage: :g N")
			return nil, false
		}
		page, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(b.out, "not a page number: %s\n", fields[1])
			return nil, false
		}
		return b.goTo(page), false
	default:
		fmt.Fprintln(b.out, browseHelp)
		return nil, false
	}
}

func (b *browser) commit(filter string) <-chan struct{} {
	b.draft = filter
	b.query.CommitFilter(filter)
	fmt.Fprintf(b.out, "Applied filter %q\n", filter)
	return b.load()
}

func (b *browser) goTo(page int) <-chan struct{} {
	if page < 1 {
		page = 1
	}
	if state := b.view.State(); state.Page != nil && state.Page.Pages > 0 && page > state.Page.Pages {
		page = state.Page.Pages
	}
	if page == b.query.ReadIntent().Page {
		return nil
	}
	b.query.SetPage(page)
	return b.load()
}

// load selects the current intent. A cache hit is rendered right away.
func (b *browser) load() <-chan struct{} {
	done := b.view.Select(b.query.ReadIntent())
	select {
	case <-done:
		b.render()
		return nil
	default:
		b.render()
		return done
	}
}

func (b *browser) render() {
	state := b.view.State()

	fmt.Fprintf(b.out, "\n/tags?%s\n", b.query.Encode())

	if state.Err != nil {
		fmt.Fprintf(b.out, "! could not load tags: %v\n", state.Err)
	}
	if state.IsLoading {
		if state.Err == nil {
			fmt.Fprintln(b.out, "Loading...")
		}
		return
	}

	printTagTable(b.out, state.Page.Data)
	printPageSummary(b.out, b.query.ReadIntent(), state.Page)
	if state.IsFetching {
		fmt.Fprintln(b.out, "(refreshing...)")
	}
}

// readLines streams stdin lines until EOF
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
