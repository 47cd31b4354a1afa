// Command userdatactl is a small operational CLI around the datastore and
// submitter clients: fetch or store a user's payload, submit a bundle, or
// poll a submission's status.
//
// Secrets are read from USERDATA_SERVICE_TOKEN, USERDATA_SERVICE_SECRET and
// USERDATA_USER_TOKEN, with a no-echo terminal prompt as fallback.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/riversafe/userdata-go/datastore"
	"github.com/riversafe/userdata-go/internal/cli"
	"github.com/riversafe/userdata-go/submitter"
)

const usage = `usage: userdatactl <command> [flags]

commands:
  get     -url <datastore-url> -slug <service> -user <id>
  set     -url <datastore-url> -slug <service> -user <id> -data <json>
  submit  -url <submitter-url> -slug <service> -user <id> -data <json-array>
  status  -url <submitter-url> -slug <service> -id <submission-id>

secrets are read from USERDATA_SERVICE_TOKEN, USERDATA_SERVICE_SECRET and
USERDATA_USER_TOKEN, or prompted for when unset`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s", usage)
	}

	ctx := context.Background()

	switch args[0] {
	case "get":
		return runGet(ctx, args[1:])
	case "set":
		return runSet(ctx, args[1:])
	case "submit":
		return runSubmit(ctx, args[1:])
	case "status":
		return runStatus(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

type commonFlags struct {
	url     string
	slug    string
	verbose bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.url, "url", "", "service base URL")
	fs.StringVar(&f.slug, "slug", "", "service slug")
	fs.BoolVar(&f.verbose, "v", false, "log requests to stderr")
}

func (f *commonFlags) logger() *slog.Logger {
	if !f.verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newDatastoreClient(f *commonFlags) (*datastore.Client, error) {
	token, err := cli.Secret(os.Stderr, "Service token", "USERDATA_SERVICE_TOKEN")
	if err != nil {
		return nil, err
	}

	return datastore.New(datastore.Config{
		UserDataStoreURL: f.url,
		ServiceSlug:      f.slug,
		ServiceToken:     token,
		Logger:           f.logger(),
	})
}

func newSubmitterClient(f *commonFlags) (*submitter.Client, error) {
	token, err := cli.Secret(os.Stderr, "Service token", "USERDATA_SERVICE_TOKEN")
	if err != nil {
		return nil, err
	}
	secret, err := cli.Secret(os.Stderr, "Service secret", "USERDATA_SERVICE_SECRET")
	if err != nil {
		return nil, err
	}

	return submitter.New(submitter.Config{
		SubmitterURL:  f.url,
		ServiceSlug:   f.slug,
		ServiceToken:  token,
		ServiceSecret: secret,
		Logger:        f.logger(),
	})
}

func userToken() (string, error) {
	return cli.Secret(os.Stderr, "User token", "USERDATA_USER_TOKEN")
}

func runGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	user := fs.String("user", "", "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := newDatastoreClient(&common)
	if err != nil {
		return err
	}
	token, err := userToken()
	if err != nil {
		return err
	}

	var data any
	if err := c.GetData(ctx, *user, token, &data); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func runSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	user := fs.String("user", "", "user id")
	data := fs.String("data", "", "payload as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var payload any
	if err := json.Unmarshal([]byte(*data), &payload); err != nil {
		return fmt.Errorf("-data is not valid JSON: %w", err)
	}

	c, err := newDatastoreClient(&common)
	if err != nil {
		return err
	}
	token, err := userToken()
	if err != nil {
		return err
	}

	if err := c.SetData(ctx, *user, token, payload); err != nil {
		return err
	}
	fmt.Println("stored")
	return nil
}

func runSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	user := fs.String("user", "", "user id")
	data := fs.String("data", "", "submissions as a JSON array")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var submissions []any
	if err := json.Unmarshal([]byte(*data), &submissions); err != nil {
		return fmt.Errorf("-data is not a valid JSON array: %w", err)
	}

	c, err := newSubmitterClient(&common)
	if err != nil {
		return err
	}
	token, err := userToken()
	if err != nil {
		return err
	}

	if err := c.Submit(ctx, *user, token, submissions); err != nil {
		return err
	}
	fmt.Println("submitted")
	return nil
}

func runStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	id := fs.String("id", "", "submission id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := newSubmitterClient(&common)
	if err != nil {
		return err
	}

	raw, err := c.GetStatus(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
