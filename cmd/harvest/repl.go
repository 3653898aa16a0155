package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/controller"
	"github.com/ChamsBouzaiene/harvest/internal/gateway"
	"github.com/ChamsBouzaiene/harvest/internal/pages"
	"github.com/ChamsBouzaiene/harvest/internal/session"
)

const replHelp = `commands:
  state                      show the current page and the actions it accepts
  go <action>                navigate, e.g. "go get_started" or "go open_chat"
  submit key=value ...       submit the page form, e.g. "submit full_name=Dana Ruiz location=Austin"
  fields [page]              list the inputs a page accepts (default: current)
  chat <text>                ask the advisor (chat page)
  dashboard                  show the dashboard summary
  history                    list saved recommendations, newest first
  search <query>             full-text search over saved recommendations
  delete <n>                 delete the n-th recommendation from "history"
  help                       show this text
  quit                       leave`

// repl drives one session from line-oriented text input.
type repl struct {
	ctrl   *controller.Controller
	out    io.Writer
	logger *zap.Logger
}

func runREPL(ctx context.Context, env *runtimeEnv, in io.Reader, out io.Writer) error {
	ctrl, err := env.newController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	r := &repl{ctrl: ctrl, out: out, logger: env.logger}
	fmt.Fprintln(out, "🌾 harvest: your farming advisor. Type \"help\" for commands.")
	if !env.gateway.Configured() {
		fmt.Fprintln(out, "⚠️  No language model configured; set LLM_PROVIDER and its API key, or run \"harvest config set\".")
	}
	r.printState()

	s := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s> ", ctrl.Page())
		if !s.Scan() {
			break
		}
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if err := r.exec(ctx, line); err != nil {
			r.logger.Debug("repl command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintf(out, "error: %s\n", describeError(err))
		}
		if ctx.Err() != nil {
			break
		}
	}
	return s.Err()
}

func (r *repl) exec(ctx context.Context, line string) error {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "help":
		fmt.Fprintln(r.out, replHelp)
	case "state":
		r.printState()
	case "go":
		action, err := controller.ParseAction(rest)
		if err != nil {
			return err
		}
		if _, err := r.ctrl.GoTo(action); err != nil {
			return err
		}
		r.printState()
		if r.ctrl.Page() == pages.Dashboard {
			r.printDashboard(ctx)
		}
	case "fields":
		page := r.ctrl.Page()
		if rest != "" {
			p, err := pages.Parse(rest)
			if err != nil {
				return err
			}
			page = p
		}
		return r.printFields(page)
	case "submit":
		res, err := r.ctrl.SubmitText(ctx, parsePairs(rest))
		if err != nil {
			return err
		}
		r.printResult(res)
		if res.Page == pages.Dashboard && r.ctrl.Page() == pages.Dashboard {
			r.printDashboard(ctx)
		}
	case "chat":
		if rest == "" {
			return errors.New("usage: chat <text>")
		}
		res, err := r.ctrl.Submit(ctx, map[string]any{"message": rest})
		if err != nil {
			return err
		}
		r.printResult(res)
	case "dashboard":
		if !r.ctrl.Page().InApp() {
			return errors.New("create a profile first")
		}
		r.printDashboard(ctx)
	case "history":
		r.printRecords(r.ctrl.Recommendations())
	case "search":
		if rest == "" {
			return errors.New("usage: search <query>")
		}
		recs, err := r.ctrl.SearchHistory(rest, "")
		if err != nil {
			return err
		}
		r.printRecords(recs)
	case "delete":
		n, err := strconv.Atoi(rest)
		recs := r.ctrl.Recommendations()
		if err != nil || n < 1 || n > len(recs) {
			return fmt.Errorf("usage: delete <n> with 1 <= n <= %d", len(recs))
		}
		rec, err := r.ctrl.DeleteRecommendation(recs[n-1].ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "🗑️  deleted %q\n", rec.Title)
	default:
		return fmt.Errorf("unknown command %q (try \"help\")", verb)
	}
	return nil
}

func (r *repl) printState() {
	fmt.Fprintf(r.out, "📍 page: %s\n", r.ctrl.Page())
	actions := r.ctrl.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	if len(names) > 0 {
		fmt.Fprintf(r.out, "   actions: %s\n", strings.Join(names, ", "))
	}
	if _, err := pages.FormFor(r.ctrl.Page()); err == nil {
		fmt.Fprintln(r.out, `   this page takes input: "fields" lists it, "submit" sends it`)
	}
	if r.ctrl.Page().Advisory() {
		fmt.Fprintln(r.out, "   submitting asks the advisor and saves the answer to history")
	}
}

func (r *repl) printFields(page pages.ID) error {
	form, err := pages.FormFor(page)
	if err != nil {
		return err
	}
	for _, f := range form.Fields {
		line := fmt.Sprintf("  %s (%s", f.Name, f.Kind)
		if f.Required {
			line += ", required"
		}
		line += ")"
		if len(f.Options) > 0 {
			line += ": " + strings.Join(f.Options, " | ")
		}
		if f.Default != nil {
			line += fmt.Sprintf(" [default %v]", f.Default)
		}
		fmt.Fprintln(r.out, line)
	}
	return nil
}

func (r *repl) printResult(res controller.Result) {
	if res.Message != "" {
		fmt.Fprintln(r.out, res.Message)
	}
	if res.Title != "" {
		fmt.Fprintf(r.out, "\n%s\n%s\n", res.Title, strings.Repeat("=", len([]rune(res.Title))))
	}
	if res.Reply != nil {
		fmt.Fprintf(r.out, "\n🤖 %s\n", res.Reply.Content)
	} else if res.Body != "" {
		fmt.Fprintln(r.out, res.Body)
	}
	if res.Page != "" && res.Page != pages.Chat {
		fmt.Fprintf(r.out, "📍 page: %s\n", res.Page)
	}
}

func (r *repl) printDashboard(ctx context.Context) {
	v := r.ctrl.Dashboard(ctx)
	fmt.Fprintf(r.out, "\n👋 Welcome back, %s!\n", v.FirstName)
	fmt.Fprintf(r.out, "   🌱 active crops: %d   📋 recommendations: %d   💬 chat messages: %d\n",
		v.ActiveCrops, v.Recommendations, v.ChatMessages)
	if w := v.Weather; w != nil {
		fmt.Fprintf(r.out, "   🌤️  %d°C, %d%% humidity, %s\n", w.TemperatureC, w.HumidityPct, w.Description)
	} else {
		fmt.Fprintln(r.out, "   🌤️  weather unavailable")
	}
}

func (r *repl) printRecords(recs []session.RecommendationRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(r.out, "no recommendations saved")
		return
	}
	for i, rec := range recs {
		fmt.Fprintf(r.out, "%d. [%s] %s (%s)\n", i+1, rec.Kind, rec.Title, rec.CreatedAt.Format("2006-01-02 15:04"))
	}
}

var pairKey = regexp.MustCompile(`(?:^|\s)([a-z_]+)=`)

// parsePairs splits `a=1 b=two words c=x,y` into a map. A value runs until the
// next key= token, so values may contain spaces.
func parsePairs(s string) map[string]string {
	out := map[string]string{}
	locs := pairKey.FindAllStringSubmatchIndex(s, -1)
	for i, loc := range locs {
		key := s[loc[2]:loc[3]]
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out[key] = strings.TrimSpace(s[loc[1]:end])
	}
	return out
}

// describeError turns session errors into one-line messages for the terminal.
func describeError(err error) string {
	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		return "please fix: " + strings.Join(verr.Errors, "; ")
	case gateway.IsConfigurationError(err):
		return err.Error() + " (run \"harvest config set api_key ...\")"
	case gateway.IsServiceError(err):
		return err.Error() + " (try again)"
	}
	return err.Error()
}
