package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMain(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := NewMain().Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_no_arguments_prints_help(t *testing.T) {
	t.Parallel()

	stdout, _, err := runMain(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no arguments provided")
	assert.Contains(t, stdout, "Usage:")
}

func TestMain_Run_rejects_unknown_flags(t *testing.T) {
	t.Parallel()

	_, _, err := runMain(t, "--bogus", "https://example.com")
	require.Error(t, err)
}

func TestMain_Run_rejects_invalid_wait_until(t *testing.T) {
	t.Parallel()

	_, _, err := runMain(t, "--js", "--wait-until", "whenever", "https://example.com")
	require.Error(t, err)
}

func TestMain_Run_defaults_to_base_url_only(t *testing.T) {
	t.Parallel()

	stdout, _, err := runMain(t, "https://example.com/")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com\n", stdout,
		"trailing slash is trimmed and the bare base URL is the fallback")
}

func TestMain_Run_sitemap_discovery(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<url><loc>%[1]s/docs</loc></url>
	<url><loc>%[1]s/about</loc></url>
</urlset>`, srv.URL)
	})

	stdout, _, err := runMain(t, "--sitemap", "/sitemap.xml", "--delay", "0", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/about",
		srv.URL + "/docs",
	}, strings.Fields(stdout))
}

func TestMain_Run_crawl_discovery(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<html><body><a href="/docs">docs</a><a href="/blog">blog</a></body></html>`)
		default:
			fmt.Fprint(w, `<html><body></body></html>`)
		}
	})

	stdout, _, err := runMain(t,
		"--crawl", "--max-depth", "1", "--delay", "0",
		"--exclude", "/blog*",
		srv.URL,
	)

	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/",
		srv.URL + "/docs",
	}, strings.Fields(stdout))
}

func TestMain_Run_url_list_discovery(t *testing.T) {
	t.Parallel()

	stdout, _, err := runMain(t,
		"--url", "/docs", "--url", "/about",
		"https://example.com",
	)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/about",
		"https://example.com/docs",
	}, strings.Fields(stdout))
}

func TestMain_Run_strategy_failure_falls_back_to_base_url(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	stdout, _, err := runMain(t, "--sitemap", "/sitemap.xml", "--delay", "0", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"\n", stdout)
}
