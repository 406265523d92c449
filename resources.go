package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sourceNote is appended to every graph caption.
const sourceNote = "\nMore information at https://bsdworld.org/"

const (
	imageRefresh = 15 * time.Minute
	videoRefresh = time.Hour
)

// Resource is one graph or animation the bot can deliver in response to a
// slash command.
type Resource struct {
	Command     string
	URL         string
	Description string
}

// resourceTable lists every graph command. The upstream site regenerates
// the graphs continuously; delivery appends a cache-buster so Telegram
// refetches them instead of serving a stale copy.
var resourceTable = []Resource{
	{"/aindex", "https://bsdworld.org/aindex.jpg", "The A index shows the fluctuations in the magnetic field."},
	{"/dxcc", "https://bsdworld.org/dxcc-week-stats.jpg", "Daily total number of spots for each continent."},
	{"/enlil", "https://bsdworld.org/enlil.mp4", "WSA-Enlil Solar Wind Prediction."},
	{"/flux", "https://bsdworld.org/flux.jpg", "Solar radio flux at 10.7 cm (2800 MHz) is an indicator of solar activity."},
	{"/forecast", "https://bsdworld.org/kpi-forecast.jpg", "Recently observed and a three day forecast of space weather conditions."},
	{"/kpindex", "https://bsdworld.org/kpindex.jpg", "Kp is an indicator of disturbances in the Earth's magnetic field."},
	{"/modes", "https://bsdworld.org/modes.jpg", "Daily total activity per mode."},
	{"/muf", "https://bsdworld.org/muf.mp4", "Show the maximum usable frequency."},
	{"/proton", "https://bsdworld.org/proton_flux.jpg", "Proton Flux is the number of high-energy protons coming from the Sun."},
	{"/sunspot", "https://bsdworld.org/ssn.jpg", "Daily index of sunspot activity."},
	{"/wind", "https://bsdworld.org/solarwind.jpg", "Density, speed, and temperature of protons and electrons plasma."},
	{"/xray", "https://bsdworld.org/xray_flux.jpg", "X-ray emissions from the Sun are primarily associated with solar flares."},
}

// findResource looks up a graph command in the resource table.
func findResource(command string) (Resource, bool) {
	for _, res := range resourceTable {
		if res.Command == command {
			return res, true
		}
	}
	return Resource{}, false
}

// validateResources checks the resource table at startup so a bad entry is
// an operator error rather than a request-time surprise.
func validateResources() error {
	seen := make(map[string]bool)
	for _, res := range resourceTable {
		if !strings.HasPrefix(res.Command, "/") {
			return fmt.Errorf("resource %q: command must start with a slash", res.Command)
		}
		if seen[res.Command] {
			return fmt.Errorf("resource %q: duplicate command", res.Command)
		}
		seen[res.Command] = true
		if !strings.HasSuffix(res.URL, ".jpg") && !strings.HasSuffix(res.URL, ".mp4") {
			return fmt.Errorf("resource %q: unknown resource type %q", res.Command, res.URL)
		}
		if res.Description == "" {
			return fmt.Errorf("resource %q: empty description", res.Command)
		}
	}
	return nil
}

// cacheBuster returns an id that changes once per period.
func cacheBuster(clock Clock, period time.Duration) string {
	return strconv.FormatInt(clock.Now().Unix()/int64(period.Seconds()), 10)
}

func (r Resource) isVideo() bool {
	return strings.HasSuffix(r.URL, ".mp4")
}

// freshURL returns the resource URL with the cache-buster appended. Videos
// are regenerated hourly upstream, images every few minutes.
func (r Resource) freshURL(clock Clock) string {
	period := imageRefresh
	if r.isVideo() {
		period = videoRefresh
	}
	return fmt.Sprintf("%s?s=%s", r.URL, cacheBuster(clock, period))
}

func (r Resource) caption() string {
	return r.Description + sourceNote
}
