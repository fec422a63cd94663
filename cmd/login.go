package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ighist/ig"
	"github.com/google/subcommands"
)

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "opens an IG session and stores its credentials" }
func (*loginCmd) Usage() string {
	return `igh login -u <username> -p <password>

  Logs into the IG API, retrieves the security tokens and the list of
  accounts, and saves them to a temporary session file for use by the
  other commands.

  Credentials can also come from the IG_USERNAME and IG_PASSWORD
  environment variables.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "IG username")
	f.StringVar(&c.password, "p", "", "IG password")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.username == "" {
		c.username = os.Getenv("IG_USERNAME")
	}
	if c.password == "" {
		c.password = os.Getenv("IG_PASSWORD")
	}
	if c.username == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "Error: -u and -p (or IG_USERNAME and IG_PASSWORD) are required.")
		return subcommands.ExitUsageError
	}

	session, err := ig.Login(*apiURI, c.username, c.password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: login failed: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := session.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save session: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println("✅ IG session successfully stored.")
	for _, a := range session.Accounts {
		fmt.Printf("  %s %q (%s)\n", a.ID, a.Name, a.Type)
	}
	return subcommands.ExitSuccess
}
