package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const noaaBaseURL = "https://services.swpc.noaa.gov/"

const (
	alertsMaxAge   = time.Hour
	forecastMaxAge = 4 * time.Hour
)

// noaaClient downloads NOAA SWPC text products, keeping a file cache so
// repeated commands inside the product's refresh window do not hit the
// upstream service again.
type noaaClient struct {
	baseURL  string
	cacheDir string
	client   *http.Client
	clock    Clock
}

func newNOAAClient(cacheDir string, clock Clock) *noaaClient {
	return &noaaClient{
		baseURL:  noaaBaseURL,
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 30 * time.Second},
		clock:    clock,
	}
}

// fetchCached returns the local path of a NOAA text product, downloading
// it only when the cached copy is missing or older than maxAge.
func (n *noaaClient) fetchCached(ctx context.Context, product string, maxAge time.Duration) (string, error) {
	path := filepath.Join(n.cacheDir, filepath.Base(product))
	if info, err := os.Stat(path); err == nil {
		if n.clock.Now().Sub(info.ModTime()) < maxAge {
			return path, nil
		}
	}

	productURL, err := url.JoinPath(n.baseURL, product)
	if err != nil {
		return "", fmt.Errorf("building url for %s: %w", product, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, productURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", productURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %s", productURL, resp.Status)
	}

	// Write to a temp file first so a failed download never clobbers a
	// still-usable cached copy.
	tmp, err := os.CreateTemp(n.cacheDir, filepath.Base(product)+".*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("saving %s: %w", productURL, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}

// Alerts returns the current WWV space weather announcement, stripped of
// comments and product headers.
func (n *noaaClient) Alerts(ctx context.Context) (string, error) {
	path, err := n.fetchCached(ctx, "text/wwv.txt", alertsMaxAge)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ":Product") {
			continue
		}
		lines = append(lines, strings.Replace(line, ":Issued: ", "Report from: ", 1))
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("wwv announcement is empty")
	}
	return strings.Join(lines, "\n"), nil
}

// Forecast returns the forecast section of the NOAA discussion product,
// joined into a single paragraph.
func (n *noaaClient) Forecast(ctx context.Context) (string, error) {
	path, err := n.fetchCached(ctx, "text/discussion.txt", forecastMaxAge)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var forecast []string
	inForecast := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, ".Forecast") {
			inForecast = true
			continue
		}
		if inForecast && line == "" {
			break
		}
		if inForecast {
			forecast = append(forecast, line)
		}
	}
	if len(forecast) == 0 {
		return "", fmt.Errorf("no forecast section in discussion product")
	}
	return strings.Join(forecast, " "), nil
}
