// Command trainerctl drives the TrainerHub API from a terminal. It signs in
// with the /jwt exchange and then runs one command.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainerhub/app/internal/apiclient"
	"trainerhub/app/internal/authprobe"
	"trainerhub/app/internal/authstate"
	"trainerhub/app/internal/config"
	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/logger"
	"trainerhub/app/internal/retry"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Usage: trainerctl [flags] <command>

Commands:
  probe       confirm the session with the retrying status check
  me          show the signed-in account
  clients     list clients
  sessions    list sessions (use --date or --month to filter)
  templates   list workout templates
  exercises   list the exercise library
  logout      revoke the session

Flags:
`

var commands = map[string]bool{
	"probe": true, "me": true, "clients": true, "sessions": true,
	"templates": true, "exercises": true, "logout": true,
}

type options struct {
	apiURL   string
	email    string
	password string
	name     string
	patient  bool
	date     string
	month    string
	timeout  time.Duration
	verbose  bool
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	var opts options
	flags := pflag.NewFlagSet("trainerctl", pflag.ContinueOnError)
	flags.StringVar(&opts.apiURL, "api-url", cfg.Client.APIURL, "TrainerHub server URL")
	flags.StringVarP(&opts.email, "email", "e", os.Getenv("TRAINERHUB_EMAIL"), "account email")
	flags.StringVarP(&opts.password, "password", "p", os.Getenv("TRAINERHUB_PASSWORD"), "account password")
	flags.StringVar(&opts.name, "register-name", "", "register a trainer with this name if the email is unknown")
	flags.BoolVar(&opts.patient, "patient", false, "use the patient probe policy (6 attempts, up to 3s apart)")
	flags.StringVar(&opts.date, "date", "", "session date filter (YYYY-MM-DD)")
	flags.StringVar(&opts.month, "month", "", "session month filter (YYYY-MM)")
	flags.DurationVar(&opts.timeout, "timeout", cfg.Client.Timeout, "per-request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	if err := logger.Init(logger.ParseLevel(level), zap.String("component", "trainerctl")); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags.Arg(0), opts, cfg, logger.Log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, apiclient.ErrUnauthorized) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, opts options, cfg config.Config, log *zap.Logger) error {
	// Checked before signing in, which may register an account.
	if !commands[command] {
		return fmt.Errorf("unknown command %q", command)
	}
	session := authstate.New()
	nav := authprobe.NavigatorFunc(func(path string) {
		fmt.Fprintf(os.Stderr, "-> navigate %s\n", path)
	})
	client, err := apiclient.New(opts.apiURL,
		apiclient.WithTimeout(opts.timeout),
		apiclient.WithSession(session),
		apiclient.WithNavigator(nav),
		apiclient.WithLogger(log),
		apiclient.WithSignOutHook(func() { fmt.Fprintln(os.Stderr, "session expired, signed out") }),
	)
	if err != nil {
		return err
	}

	if opts.email == "" || opts.password == "" {
		return errors.New("--email and --password (or TRAINERHUB_EMAIL/TRAINERHUB_PASSWORD) are required")
	}
	if _, err := client.ExchangeToken(ctx, apiclient.TokenRequest{
		Email:    opts.email,
		Password: opts.password,
		Name:     opts.name,
		Role:     domain.RoleTrainer,
	}); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	switch command {
	case "probe":
		policy := retry.FromConfig(cfg.Probe)
		if opts.patient {
			policy = retry.Patient()
		}
		prober := authprobe.New(client, nav, session,
			authprobe.WithPolicy(policy),
			authprobe.WithLogger(log))
		res, err := prober.Run(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"state":       res.State.String(),
			"attempts":    res.Attempts,
			"elapsed":     res.Elapsed.String(),
			"destination": res.Destination,
			"user":        res.User,
		})
	case "me":
		user, err := client.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)
	case "clients":
		clients, err := client.ListClients(ctx)
		if err != nil {
			return err
		}
		return printJSON(clients)
	case "sessions":
		sessions, err := client.ListSessions(ctx, apiclient.SessionQuery{Date: opts.date, Month: opts.month})
		if err != nil {
			return err
		}
		return printJSON(sessions)
	case "templates":
		templates, err := client.ListTemplates(ctx)
		if err != nil {
			return err
		}
		return printJSON(templates)
	case "exercises":
		exercises, err := client.ListExercises(ctx)
		if err != nil {
			return err
		}
		return printJSON(exercises)
	case "logout":
		return client.Logout(ctx)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
