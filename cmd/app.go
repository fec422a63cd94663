// Package cmd implements the CLI application to fetch and rebuild IG
// account history.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/ighist"
	"github.com/google/subcommands"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&loginCmd{},
	&fetchCmd{},
	&historyCmd{},
	&reviewCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok
// to use global variables.

var storePath = flag.String("store", ".", "Path to the folder holding fetched event logs")
var apiURI = flag.String("api-uri", "", "IG API host, defaults to production")

func eventsPath(accountID string) string {
	return filepath.Join(*storePath, "events-"+accountID+".jsonl")
}

func rehydrationPath(accountID string) string {
	return filepath.Join(*storePath, "rehydration-"+accountID+".json")
}

// DecodeEvents reads the stored event log of one account.
func DecodeEvents(accountID string) (*ighist.EventLog, error) {
	f, err := os.Open(eventsPath(accountID))
	if err != nil {
		return nil, fmt.Errorf("no event log for account %s, run 'igh fetch' first: %w", accountID, err)
	}
	defer f.Close()
	return ighist.DecodeEventLog(f)
}

// AppendEvents appends freshly fetched events to the account's log file.
func AppendEvents(events *ighist.EventLog) error {
	filename := eventsPath(events.AccountID)
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open event log %q: %w", filename, err)
	}
	defer f.Close()

	if err := ighist.EncodeEventLog(f, events); err != nil {
		return fmt.Errorf("cannot write event log %q: %w", filename, err)
	}
	return nil
}

// DecodeRehydration reads the persisted fetch progress of one account,
// nil when there is none yet.
func DecodeRehydration(accountID string) (*ighist.Rehydration, error) {
	data, err := os.ReadFile(rehydrationPath(accountID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := &ighist.Rehydration{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("corrupt fetch progress for account %s: %w", accountID, err)
	}
	return r, nil
}

// EncodeRehydration persists the fetch progress of one account.
func EncodeRehydration(accountID string, r *ighist.Rehydration) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(rehydrationPath(accountID), data, 0644)
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when the terminal cannot be styled.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
