package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/roguepikachu/pasteshare/internal/apiclient"
	"github.com/roguepikachu/pasteshare/internal/config"
	"github.com/roguepikachu/pasteshare/internal/data"
	"github.com/roguepikachu/pasteshare/internal/domain"
	"github.com/roguepikachu/pasteshare/internal/service"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

const usage = `usage: pastectl [-api URL] [-json] [-timeout D] <command> [args]

commands:
  create [-file F] [-title T] [-lang L] [-ttl SECONDS] [-max-views N] [-password P]
  get [-password P] <id>
  health
  clock show | set <ms|RFC3339> | advance <duration> | clear
`

type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// readPassword reads a hidden line from the terminal; nil when stdin is not one.
	readPassword func() (string, error)
}

type app struct {
	streams
	client *apiclient.Client
	clock  *service.TestClockService
	json   bool
}

func run(ctx context.Context, args []string, st streams) int {
	fs := flag.NewFlagSet("pastectl", flag.ContinueOnError)
	fs.SetOutput(st.stderr)
	fs.Usage = func() { fmt.Fprint(st.stderr, usage) }
	apiBase := fs.String("api", "", "paste API base URL (overrides "+apiclient.BaseURLEnvVar+")")
	asJSON := fs.Bool("json", false, "print results as JSON")
	timeout := fs.Duration("timeout", 0, "per request timeout (0 means none)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(st.stderr, "config: %v\n", err)
		return exitFail
	}
	if *apiBase != "" {
		cfg.APIBaseURL = *apiBase
	}
	if *timeout > 0 {
		cfg.APITimeout = *timeout
	}
	// Without a separate UI origin, share links point at the API host.
	if cfg.PublicOrigin == "" {
		cfg.PublicOrigin = cfg.APIBaseURL
	}

	settings, closeSettings, err := data.NewSettingRepository(ctx, cfg)
	if err != nil {
		fmt.Fprintf(st.stderr, "settings store: %v\n", err)
		return exitFail
	}
	defer closeSettings()

	a := &app{streams: st, json: *asJSON}
	a.clock = service.NewTestClockService(settings, service.RealClock{})
	a.client = data.NewAPIClient(cfg, apiclient.WithTestClock(a.clock))

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "clock" && cfg.SettingsStore == config.StoreMemory {
		fmt.Fprintf(st.stderr, "warning: the %s settings store does not outlive this command\n", config.StoreMemory)
	}
	if cmd != "clock" && a.client.BaseURL() == "" {
		fmt.Fprintf(st.stderr, "no API base URL: set %s or pass -api\n", apiclient.BaseURLEnvVar)
		return exitUsage
	}

	switch cmd {
	case "create":
		err = a.create(ctx, rest)
	case "get":
		err = a.get(ctx, rest)
	case "health":
		return a.health(ctx)
	case "clock":
		err = a.clockCmd(ctx, rest)
	default:
		fmt.Fprintf(st.stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return exitUsage
	}
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprint(st.stderr, usage)
		return exitUsage
	case errors.Is(err, flag.ErrHelp):
		return exitUsage
	default:
		fmt.Fprintln(st.stderr, err)
		return exitFail
	}
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	file := fs.String("file", "", "read content from file instead of stdin")
	var req domain.CreatePasteRequest
	fs.StringVar(&req.Title, "title", "", "paste title")
	fs.StringVar(&req.Language, "lang", "", "language for syntax highlighting")
	fs.IntVar(&req.TTLSeconds, "ttl", 0, "expire after this many seconds")
	fs.IntVar(&req.MaxViews, "max-views", 0, "expire after this many views")
	fs.StringVar(&req.Password, "password", "", "protect the paste with a password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}

	content, err := a.readContent(*file)
	if err != nil {
		return err
	}
	req.Content = content
	if err := req.Validate(); err != nil {
		return err
	}

	res, err := a.client.CreatePaste(ctx, req)
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(res)
	}
	fmt.Fprintln(a.stdout, res.URL)
	if res.ExpireAt != nil {
		fmt.Fprintf(a.stderr, "expires at %s\n", *res.ExpireAt)
	}
	return nil
}

func (a *app) readContent(file string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	password := fs.String("password", "", "password for a protected paste")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	id := fs.Arg(0)

	p, err := a.client.GetPaste(ctx, id, *password)
	if apiclient.IsPasswordRequired(err) && *password == "" && a.readPassword != nil {
		fmt.Fprint(a.stderr, "Password: ")
		pw, rerr := a.readPassword()
		fmt.Fprintln(a.stderr)
		if rerr != nil {
			return fmt.Errorf("read password: %w", rerr)
		}
		p, err = a.client.GetPaste(ctx, id, pw)
	}
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(p)
	}
	fmt.Fprint(a.stdout, p.Content)
	if !strings.HasSuffix(p.Content, "\n") {
		fmt.Fprintln(a.stdout)
	}
	if p.RemainingViews != nil {
		fmt.Fprintf(a.stderr, "%d views left\n", *p.RemainingViews)
	}
	return nil
}

func (a *app) health(ctx context.Context) int {
	ok := a.client.CheckHealth(ctx)
	if a.json {
		_ = a.printJSON(map[string]bool{"healthy": ok})
	} else if ok {
		fmt.Fprintln(a.stdout, "healthy")
	} else {
		fmt.Fprintln(a.stdout, "unhealthy")
	}
	if !ok {
		return exitFail
	}
	return exitOK
}

func (a *app) clockCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "show":
		return a.showClock(ctx)
	case "set":
		if len(args) != 2 {
			return errUsage
		}
		t, err := parseInstant(args[1])
		if err != nil {
			return err
		}
		if err := a.clock.Set(ctx, t); err != nil {
			return err
		}
		return a.showClock(ctx)
	case "advance":
		if len(args) != 2 {
			return errUsage
		}
		d, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", args[1], err)
		}
		if _, err := a.clock.Advance(ctx, d); err != nil {
			return err
		}
		return a.showClock(ctx)
	case "clear":
		if err := a.clock.Clear(ctx); err != nil {
			return err
		}
		return a.showClock(ctx)
	default:
		return errUsage
	}
}

type clockState struct {
	Overridden bool   `json:"overridden"`
	TestNowMS  int64  `json:"test_now_ms,omitempty"`
	Time       string `json:"time,omitempty"`
}

func (a *app) showClock(ctx context.Context) error {
	now, overridden, err := a.clock.Now(ctx)
	if err != nil {
		return err
	}
	st := clockState{Overridden: overridden}
	if overridden {
		st.TestNowMS = now.UnixMilli()
		st.Time = now.Format(time.RFC3339Nano)
	}
	if a.json {
		return a.printJSON(st)
	}
	if !overridden {
		fmt.Fprintln(a.stdout, "test clock: not set")
		return nil
	}
	fmt.Fprintf(a.stdout, "test clock: %d (%s)\n", st.TestNowMS, st.Time)
	return nil
}

// parseInstant accepts epoch milliseconds or an RFC 3339 timestamp.
func parseInstant(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: want epoch milliseconds or RFC 3339", s)
	}
	return t, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
