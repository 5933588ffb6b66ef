package fetch

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"strings"
)

// DefaultUserAgents is the pool a user agent is drawn from on each attempt.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36 Edg/140.0.0.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:130.0) Gecko/20100101 Firefox/130.0",
	"Mozilla/5.0 (Linux; Android 12; Pixel 6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Mobile Safari/537.36",
}

// Identity is the network face of one fetch attempt.
type Identity struct {
	UserAgent string
	// Proxy is a proxy URL, empty for a direct connection.
	Proxy string
}

// IdentityPool holds the read-only rotation inputs. The zero value means
// default user agents and no proxy.
type IdentityPool struct {
	UserAgents        []string
	UserAgentOverride string
	// ProxyOverride wins over Proxies for the first attempt.
	ProxyOverride string
	Proxies       []string
}

func (p IdentityPool) userAgent(intn func(int) int) string {
	if p.UserAgentOverride != "" {
		return p.UserAgentOverride
	}
	agents := p.UserAgents
	if len(agents) == 0 {
		agents = DefaultUserAgents
	}
	return agents[intn(len(agents))]
}

// firstProxy: override > pool > none.
func (p IdentityPool) firstProxy(intn func(int) int) string {
	if p.ProxyOverride != "" {
		return p.ProxyOverride
	}
	if len(p.Proxies) == 0 {
		return ""
	}
	return p.Proxies[intn(len(p.Proxies))]
}

// reroll picks a new proxy from the pool after a failed attempt. Without a
// pool the current proxy is kept.
func (p IdentityPool) reroll(current string, intn func(int) int) string {
	if len(p.Proxies) == 0 {
		return current
	}
	return p.Proxies[intn(len(p.Proxies))]
}

// LoadProxyFile reads one proxy URL per line, ignoring blank lines and lines
// starting with #. A missing file is an empty pool.
func LoadProxyFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open proxy list: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read proxy list: %w", err)
	}
	return out, nil
}

var proxyCredentials = regexp.MustCompile(`:([^:@/]+)@`)

// MaskProxy hides the password part of any user:pass@ inside s.
func MaskProxy(s string) string {
	return proxyCredentials.ReplaceAllString(s, ":***@")
}

// DescribeProxy is the loggable form of a proxy, "OFF" for none.
func DescribeProxy(p string) string {
	if p == "" {
		return "OFF"
	}
	return MaskProxy(p)
}

func defaultIntn(n int) int {
	return rand.Intn(n)
}
