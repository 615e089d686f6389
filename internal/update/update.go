// Package update looks up the newest published release of the CLI.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Release is a published build of the CLI.
type Release struct {
	Version string // without the leading "v"
	URL     string
}

// ReleasesURL is the GitHub "latest release" endpoint; tests point it at a
// local server.
var ReleasesURL = "https://api.github.com/repos/mercurychat/mercury-cli/releases/latest"

const fetchTimeout = 5 * time.Second

// Latest fetches the newest published release. Callers decide whether a
// failure is worth surfacing; the version command only logs it at debug.
func Latest(ctx context.Context) (*Release, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release endpoint returned %s", resp.Status)
	}

	var payload struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if payload.TagName == "" {
		return nil, errors.New("release has no tag")
	}
	return &Release{
		Version: strings.TrimPrefix(payload.TagName, "v"),
		URL:     payload.HTMLURL,
	}, nil
}

// Newer reports whether the release is strictly newer than the running
// version. Anything that is not valid semver on either side compares as
// not newer.
func (r *Release) Newer(current string) bool {
	cur, rel := canonical(current), canonical(r.Version)
	if cur == "" || rel == "" {
		return false
	}
	return semver.Compare(rel, cur) > 0
}

// canonical maps a version string (with or without the "v" prefix) to
// canonical semver, or "" when it does not parse.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
