package detect

import (
	"strings"

	git "github.com/go-git/go-git/v5"
)

// detectPlatform resolves the hosting platform in a fixed priority
// order: marker paths first (slice order of rules.Platforms is the
// tie-break when several platforms have markers present), then the
// origin remote of a local git checkout, then the rule set default.
func detectPlatform(root string, rules *RuleSet, ev Evidence) string {
	for _, m := range rules.Platforms {
		for _, marker := range m.Paths {
			if ev.HasPath(marker) {
				return m.Platform
			}
		}
	}
	if p := platformFromRemote(root); p != "" {
		return p
	}
	return rules.DefaultPlatform
}

// platformFromRemote inspects the origin remote URL of a git
// checkout. Best-effort: any failure means no answer.
func platformFromRemote(root string) string {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return ""
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return ""
	}
	for _, r := range remotes {
		cfg := r.Config()
		if cfg.Name != "origin" && len(remotes) > 1 {
			continue
		}
		for _, u := range cfg.URLs {
			u = strings.ToLower(u)
			switch {
			case strings.Contains(u, "github.com"):
				return PlatformGitHub
			case strings.Contains(u, "dev.azure.com"), strings.Contains(u, "visualstudio.com"):
				return PlatformAzureDevOps
			}
		}
	}
	return ""
}
