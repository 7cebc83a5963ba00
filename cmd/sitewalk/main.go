// Command sitewalk discovers the pages of a website and prints their
// URLs, one per line. It is a thin wire-up over the discovery core;
// configuration files, content conversion and storage live elsewhere.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/fwojciec/sitewalk"
	"github.com/fwojciec/sitewalk/crawl"
	"github.com/fwojciec/sitewalk/goquery"
	swhttp "github.com/fwojciec/sitewalk/http"
	"github.com/fwojciec/sitewalk/rod"
	swslog "github.com/fwojciec/sitewalk/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging."`

	Sitemap string   `help:"Sitemap path to resolve (e.g. /sitemap.xml)."`
	URL     []string `help:"Explicit page path or glob pattern; repeatable."`
	Crawl   bool     `help:"Crawl the site breadth-first."`

	Start    string   `default:"/" help:"Crawl start path."`
	MaxDepth int      `default:"2" help:"Crawl link depth ceiling."`
	MaxPages int      `default:"50" help:"Crawl page budget."`
	Include  []string `help:"Crawl include pattern; repeatable."`
	Exclude  []string `help:"Crawl exclude pattern; repeatable."`

	JS        bool          `name:"js" help:"Render pages with headless Chrome."`
	WaitUntil string        `default:"load" enum:"load,domcontentloaded,networkidle,commit" help:"JS navigation wait condition."`
	Timeout   time.Duration `default:"30s" help:"Fetch timeout per attempt."`
	Delay     time.Duration `default:"1s" help:"Delay between requests."`
	Retries   int           `default:"3" help:"Fetch attempt budget."`
	UserAgent string        `default:"sitewalk/1.0 (+https://github.com/fwojciec/sitewalk)" help:"User-Agent header."`

	BaseURL string `arg:"" help:"Site base URL, e.g. https://docs.example.com"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitewalk"),
		kong.Description("Discover the pages of a website"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cli.BaseURL = strings.TrimRight(cli.BaseURL, "/")

	site := sitewalk.Site{
		BaseURL: cli.BaseURL,
		Fetch: sitewalk.FetchConfig{
			Delay:      cli.Delay,
			Timeout:    cli.Timeout,
			UserAgent:  cli.UserAgent,
			JavaScript: cli.JS,
			Retries:    cli.Retries,
			WaitUntil:  sitewalk.WaitUntil(cli.WaitUntil),
		},
	}
	site.Discovery.URLs = cli.URL
	site.Discovery.Sitemap = cli.Sitemap
	if cli.Crawl {
		site.Discovery.Crawl = &sitewalk.CrawlSpec{
			Start:    cli.Start,
			MaxDepth: cli.MaxDepth,
			MaxPages: cli.MaxPages,
			Include:  cli.Include,
			Exclude:  cli.Exclude,
		}
	}

	fetcher := newFetcher(site.Fetch)
	defer fetcher.Close()
	fetcher = swslog.NewLoggingFetcher(fetcher, logger)

	discoverer := &crawl.Discoverer{
		Fetcher:  fetcher,
		Sitemaps: swslog.NewLoggingSitemapResolver(swhttp.NewSitemapResolver(fetcher), logger),
		Links:    goquery.NewExtractor(),
		Limiter:  crawl.NewDomainLimiter(site.Fetch.Delay),
		Logger:   logger,
	}

	urls, err := discoverer.Discover(ctx, site)
	if err != nil {
		return err
	}

	for _, u := range urls {
		fmt.Fprintln(stdout, u)
	}
	return nil
}

// newFetcher builds the fetch backend selected by the config.
func newFetcher(cfg sitewalk.FetchConfig) sitewalk.Fetcher {
	cfg = cfg.WithDefaults()
	if cfg.JavaScript {
		return rod.NewFetcher(
			rod.WithFetchTimeout(cfg.Timeout),
			rod.WithRetries(cfg.Retries),
			rod.WithWaitUntil(cfg.WaitUntil),
		)
	}
	return swhttp.NewFetcher(
		swhttp.WithTimeout(cfg.Timeout),
		swhttp.WithUserAgent(cfg.UserAgent),
		swhttp.WithRetries(cfg.Retries),
	)
}
