package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"anicatalog/render"
	"anicatalog/ui"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Drive the home page widgets from stdin",
	Long: `shell loads the home page into an in-memory document, attaches the search,
carousel and menu controllers, and reads one command per line:

  type TEXT        type into the search box
  focus | blur     focus or blur the search box
  click SELECTOR   click an element
  press KEY        press a key (ArrowLeft, ArrowRight)
  wait DURATION    let timers run, e.g. "wait 400ms"
  show SELECTOR    print the HTML of an element
  state            print widget state
  quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		return runShell(cmd.Context(), app, shellOptions(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func shellOptions() ui.SessionOptions {
	opts := ui.DefaultSessionOptions()
	opts.Search.Debounce = cfg.SearchDebounce
	opts.Search.MinChars = cfg.SearchMinChars
	opts.Search.PageSize = cfg.SuggestPageSize
	return opts
}

// runShell reads commands from in until EOF or quit
func runShell(ctx context.Context, app *App, opts ui.SessionOptions, in io.Reader, out io.Writer) error {
	html, err := app.renderFragment(ctx, "home", "")
	if err != nil {
		app.logger.Warn("Failed to load catalog", zap.Error(err))
	}
	page, err := ui.ParsePageString(string(render.Page(render.PageData{Nav: "home", Content: html})))
	if err != nil {
		return fmt.Errorf("failed to load home page: %w", err)
	}

	session := ui.NewSession(page, app.catalog, opts, app.logger)
	session.Start()
	defer session.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "quit", "exit":
			return nil
		case "type":
			session.Dispatch(ui.Event{Type: ui.EventInput, Target: opts.Search.InputSelector, Value: arg})
		case "focus":
			session.Dispatch(ui.Event{Type: ui.EventFocus, Target: opts.Search.InputSelector})
		case "blur":
			session.Dispatch(ui.Event{Type: ui.EventBlur, Target: opts.Search.InputSelector})
		case "click":
			session.Dispatch(ui.Event{Type: ui.EventPointerDown, Target: arg})
			session.Dispatch(ui.Event{Type: ui.EventClick, Target: arg})
		case "press":
			session.Dispatch(ui.Event{Type: ui.EventKeyDown, Key: arg})
		case "wait":
			d, err := time.ParseDuration(arg)
			if err != nil {
				fmt.Fprintf(out, "bad duration %q: %v\n", arg, err)
				continue
			}
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
		case "show":
			session.Do(func() {
				sel := session.Page().Find(arg).First()
				if sel.Length() == 0 {
					fmt.Fprintf(out, "no element matches %q\n", arg)
					return
				}
				inner, err := sel.Html()
				if err != nil {
					app.logger.Warn("Failed to serialise element", zap.String("selector", arg), zap.Error(err))
					return
				}
				fmt.Fprintln(out, strings.TrimSpace(inner))
			})
		case "state":
			session.Do(func() { printState(out, session) })
		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
		}
	}
	return scanner.Err()
}

func printState(out io.Writer, s *ui.Session) {
	slide := "none"
	if c := s.Carousel.Instance(); c != nil {
		slide = fmt.Sprintf("%d/%d", c.Active()+1, c.Len())
	}
	fmt.Fprintf(out, "search=%s menu=%t slide=%s\n", s.Search.State(), s.Menu.IsOpen(), slide)
}
