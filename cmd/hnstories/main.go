// Command hnstories-cli runs one story search without the terminal UI.
//
//	hnstories-cli [flags] search [term]
//
// The results are printed as a table (or JSON with --json). The exit
// status is 1 when the search fails.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"hnstories/internal/config"
	"hnstories/internal/coordinator"
	"hnstories/internal/domain"
	"hnstories/internal/eventbus"
	"hnstories/internal/ui/views"
)

var errUsage = errors.New("usage: hnstories-cli [flags] search [term]")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hnstories-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the config file")
	endpoint := fs.String("endpoint", "", "Search endpoint prefix; the term is appended")
	backend := fs.String("store", "", "Where to keep the search term: memory, file or redis")
	filter := fs.String("filter", "", "Only print stories whose title contains this text")
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 || rest[0] != "search" || len(rest) > 2 {
		fs.Usage()
		return errUsage
	}

	config.LoadDotEnv()
	bus := eventbus.New(nil)
	configSvc := config.NewConfigServiceWithBus(*configPath, bus)
	cfg, created, err := configSvc.LoadOrCreate()
	if err != nil {
		bus.Close()
		return err
	}
	if created {
		fmt.Fprintf(stderr, "Wrote default config to %s\n", configSvc.Path())
	}
	if *endpoint != "" {
		cfg.Fetch.Endpoint = *endpoint
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	core, err := coordinator.New(ctx, cfg, coordinator.Options{Bus: bus})
	if err != nil {
		return err
	}
	defer core.Close()

	if core.Degraded != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", core.Degraded)
	}

	ctrl := core.Controller
	term := ctrl.SearchTerm()
	if len(rest) == 2 {
		term = rest[1]
	}
	ctrl.SetFilter(*filter)

	if err := ctrl.Search(ctx, term); err != nil {
		return fmt.Errorf("search %q failed: %w", term, err)
	}

	view := ctrl.Snapshot()
	if *asJSON {
		return writeJSON(stdout, view.Stories)
	}
	return writeTable(stdout, view.Stories)
}

func writeJSON(w io.Writer, stories []domain.Story) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stories)
}

func writeTable(w io.Writer, stories []domain.Story) error {
	if len(stories) == 0 {
		_, err := fmt.Fprintln(w, "No stories found.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "SITE", "AUTHOR", "COMMENTS", "POINTS")
	for _, s := range stories {
		t.Row(
			s.ObjectID.String(),
			s.Title,
			views.Host(s.URL),
			s.Author,
			strconv.Itoa(s.NumComments),
			strconv.Itoa(s.Points),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
