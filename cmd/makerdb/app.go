package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-makerdb/internal/config"
	"github.com/goliatone/go-makerdb/pkg/apiclient"
	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/registry"
	"github.com/goliatone/go-makerdb/pkg/renderers/tui"
	"github.com/goliatone/go-makerdb/pkg/search"
)

// app carries what every subcommand needs once configuration is resolved.
type app struct {
	stdout io.Writer
	stderr io.Writer
	lookup config.LookupFunc
	driver tui.PromptDriver

	flags   *config.Flags
	cfg     config.Config
	logger  *log.Logger
	client  *apiclient.Client
	models  *registry.Registry
	display field.Display
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, lookup: os.LookupEnv}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "makerdb",
		Short:         "Browse and edit MakerDB inventory records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	a.flags = config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newModelsCmd(a),
		newShowCmd(a),
		newSetCmd(a),
		newEditCmd(a),
		newBOMCmd(a),
		newSearchCmd(a),
		newRenderCmd(a),
		newUnitsCmd(a),
		newSchemaCmd(a),
		newLintCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.flags.Path(), config.WithLookup(a.lookup))
	if err != nil {
		return err
	}
	if err := a.flags.Apply(&cfg); err != nil {
		return err
	}
	a.cfg = cfg

	logOut := io.Discard
	if cfg.Verbose {
		logOut = a.stderr
	}
	a.logger = log.New(logOut, "makerdb: ", 0)

	a.models = registry.Default()
	if cfg.Registry != "" {
		if a.models, err = registry.LoadFile(cfg.Registry); err != nil {
			return err
		}
		a.logger.Printf("registry loaded from %s", cfg.Registry)
	}

	a.display = field.Display{Locale: cfg.Locale}
	if cfg.Translations != "" {
		cat, err := loadCatalog(cfg.Translations)
		if err != nil {
			return err
		}
		a.display.Translator = cat
	}

	a.client = apiclient.New(
		apiclient.WithBaseURL(cfg.BaseURL),
		apiclient.WithBasePath(cfg.BasePath),
		apiclient.WithHTTPClient(&http.Client{
			Timeout:   cfg.Timeout,
			Transport: loggingTransport{next: http.DefaultTransport, logger: a.logger},
		}),
	)
	a.logger.Printf("backend %s", a.client.URL("/"))
	return nil
}

func (a *app) model(key string) (registry.Model, error) {
	m, ok := a.models.Lookup(key)
	if !ok {
		return registry.Model{}, fmt.Errorf("%w: %q (known: %v)", registry.ErrUnknownModel, key, a.models.Keys())
	}
	return m, nil
}

func (a *app) searcher() *search.Searcher {
	return search.New(a.client, search.WithErrorHook(func(query, kind string, err error) {
		a.logger.Printf("search %s %q: %v", kind, query, err)
	}))
}

func (a *app) session() *tui.Session {
	opts := []tui.Option{tui.WithOutput(a.stdout), tui.WithSearcher(a.searcher())}
	if a.driver != nil {
		opts = append(opts, tui.WithPromptDriver(a.driver))
	}
	return tui.New(opts...)
}

// loggingTransport logs every request when verbose output is on.
type loggingTransport struct {
	next   http.RoundTripper
	logger *log.Logger
}

func (t loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Printf("%s %s: %v", req.Method, req.URL.Path, err)
		return nil, err
	}
	t.logger.Printf("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}
