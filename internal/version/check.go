package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
)

// The update check asks the GitHub releases API for the newest tag at most
// once per checkInterval. The last answer lives in a small JSON file next to
// the config so repeated invocations stay off the network.
const (
	latestReleaseURL = "https://api.github.com/repos/buildlens/buildlens/releases/latest"
	checkInterval    = 24 * time.Hour
	checkTimeout     = 3 * time.Second
	checkStateFile   = ".buildlens/version_check.json"
)

type checkState struct {
	LatestTag string    `json:"latestTag"`
	CheckedAt time.Time `json:"checkedAt"`
}

// PrintUpdateNotification tells the user on stderr when a newer release
// exists. Best effort: network or parse failures skip the notice rather than
// disturb the command.
func PrintUpdateNotification(ctx context.Context, skipVersionCheck bool) {
	if skipVersionCheck || Version == "dev" {
		return
	}

	latest, err := latestReleaseTag(ctx)
	if err != nil {
		return
	}

	newer, err := isNewerRelease(latest)
	if err != nil || !newer {
		return
	}

	fmt.Fprintf(os.Stderr, "\nA newer buildlens is available: %s (current %s)\n", latest, Version)
	fmt.Fprintf(os.Stderr, "Get it at https://github.com/buildlens/buildlens/releases/latest\n")
	fmt.Fprintf(os.Stderr, "Silence this notice with: buildlens config set skip-version-check true\n\n")
}

// isNewerRelease reports whether the release tag sorts above the running
// version under semver ordering. A "v" prefix on either side is tolerated.
func isNewerRelease(latestTag string) (bool, error) {
	current, err := goversion.NewVersion(strings.TrimPrefix(Version, "v"))
	if err != nil {
		return false, fmt.Errorf("running version %q does not parse: %w", Version, err)
	}
	latest, err := goversion.NewVersion(strings.TrimPrefix(latestTag, "v"))
	if err != nil {
		return false, fmt.Errorf("release tag %q does not parse: %w", latestTag, err)
	}
	return latest.GreaterThan(current), nil
}

// latestReleaseTag answers from the on-disk state when it is fresh enough,
// otherwise queries GitHub and rewrites the state.
func latestReleaseTag(ctx context.Context) (string, error) {
	if state, ok := readCheckState(); ok && time.Since(state.CheckedAt) < checkInterval {
		return state.LatestTag, nil
	}

	tag, err := fetchLatestTag(ctx)
	if err != nil {
		return "", err
	}
	writeCheckState(checkState{LatestTag: tag, CheckedAt: time.Now()})
	return tag, nil
}

func fetchLatestTag(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestReleaseURL, nil)
	if err != nil {
		return "", err
	}
	// GitHub rejects requests without a User-Agent
	req.Header.Set("User-Agent", "buildlens-cli")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return release.TagName, nil
}

func checkStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, checkStateFile), nil
}

func readCheckState() (checkState, bool) {
	path, err := checkStatePath()
	if err != nil {
		return checkState{}, false
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return checkState{}, false
	}

	var state checkState
	if err := json.Unmarshal(data, &state); err != nil {
		return checkState{}, false
	}
	return state, true
}

// writeCheckState is best effort; an unwritable home directory only means the
// next invocation checks again.
func writeCheckState(state checkState) {
	path, err := checkStatePath()
	if err != nil {
		return
	}

	//nolint:errcheck,gosec
	os.MkdirAll(filepath.Dir(path), 0o755)

	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	//nolint:errcheck,gosec
	os.WriteFile(path, data, 0o644)
}
