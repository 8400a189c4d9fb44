// Package lint reports likely mistakes in a DevServerConfig.
//
// Loading never validates: a record with problems is still a valid record
// and the live-reload tool is the final judge. Check is an opt-in report.
package lint

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/auctions-dev/bsconf/internal/config"
	"github.com/auctions-dev/bsconf/internal/globs"
)

// Severity ranks a Problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is a single diagnostic.
type Problem struct {
	Severity Severity
	Code     string
	Key      string
	Message  string
}

// String formats the problem as "severity key: message".
func (p Problem) String() string {
	if p.Code != "" {
		return fmt.Sprintf("%s %s %s: %s", p.Severity, p.Code, p.Key, p.Message)
	}
	return fmt.Sprintf("%s %s: %s", p.Severity, p.Key, p.Message)
}

// Check inspects cfg and returns its problems in key order.
func Check(cfg *config.DevServerConfig) []Problem {
	var problems []Problem
	problems = append(problems, checkProxy(cfg.Proxy())...)
	problems = append(problems, checkFiles(cfg.Files())...)
	problems = append(problems, checkIgnored(cfg.Ignored())...)
	return problems
}

// HasErrors reports whether any problem is an error.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

func checkProxy(proxy string) []Problem {
	errorf := func(format string, args ...any) []Problem {
		return []Problem{{
			Severity: SeverityError,
			Code:     "E301",
			Key:      config.KeyProxy,
			Message:  fmt.Sprintf(format, args...),
		}}
	}

	if proxy == "" {
		return errorf("proxy target is empty")
	}

	hostport := proxy
	if strings.Contains(proxy, "://") {
		u, err := url.Parse(proxy)
		if err != nil {
			return errorf("%q is not a valid URL: %v", proxy, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errorf("%q uses unsupported scheme %q", proxy, u.Scheme)
		}
		if u.Port() == "" {
			return nil
		}
		hostport = u.Host
	}

	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return errorf("%q is not a host:port address", proxy)
	}
	if host == "" {
		return errorf("%q has no host", proxy)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return errorf("port %q must be a number between 1 and 65535", port)
	}
	return nil
}

func checkFiles(files []string) []Problem {
	if len(files) == 0 {
		return []Problem{{
			Severity: SeverityWarning,
			Key:      config.KeyFiles,
			Message:  "no files are watched; changes will never trigger a reload",
		}}
	}

	var problems []Problem
	seen := make(map[string]int, len(files))
	for i, pattern := range files {
		key := fmt.Sprintf("%s[%d]", config.KeyFiles, i)

		if strings.TrimSpace(pattern) == "" {
			problems = append(problems, Problem{
				Severity: SeverityError,
				Code:     "E300",
				Key:      key,
				Message:  "pattern is empty",
			})
			continue
		}
		if !globs.ValidPattern(pattern) {
			problems = append(problems, Problem{
				Severity: SeverityError,
				Code:     "E300",
				Key:      key,
				Message:  fmt.Sprintf("%q is not a valid glob pattern", pattern),
			})
			continue
		}
		if globs.Escapes(pattern) {
			problems = append(problems, Problem{
				Severity: SeverityWarning,
				Key:      key,
				Message:  fmt.Sprintf("%q points outside the project root", pattern),
			})
		}

		normalized := globs.Normalize(pattern)
		if first, ok := seen[normalized]; ok {
			problems = append(problems, Problem{
				Severity: SeverityWarning,
				Key:      key,
				Message:  fmt.Sprintf("%q duplicates %s[%d]", pattern, config.KeyFiles, first),
			})
			continue
		}
		seen[normalized] = i
	}
	return problems
}

func checkIgnored(ignored string) []Problem {
	key := config.KeyWatchOptions + "." + config.KeyIgnored
	if ignored == "" {
		return nil
	}
	if !globs.ValidPattern(ignored) {
		return []Problem{{
			Severity: SeverityError,
			Code:     "E300",
			Key:      key,
			Message:  fmt.Sprintf("%q is not a valid glob pattern", ignored),
		}}
	}
	return nil
}
