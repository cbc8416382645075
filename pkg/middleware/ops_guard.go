package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ZSuraj/abcd-sub000/pkg/configuration"
)

type opsGuard struct {
	opts         configuration.OpsGuardOptions
	realIPHeader string
	paths        map[string]struct{}
	cidrs        []netip.Prefix
}

// OpsGuard hides the given operational paths behind a CIDR allowlist or a shared
// token. Unauthorized callers get a plain 404.
func OpsGuard(opts configuration.OpsGuardOptions, realIPHeader string, paths ...string) mux.MiddlewareFunc {
	g := &opsGuard{
		opts:         opts,
		realIPHeader: realIPHeader,
		paths:        make(map[string]struct{}, len(paths)),
		cidrs:        parseCIDRs(opts.CIDRs),
	}
	for _, p := range paths {
		g.paths[p] = struct{}{}
	}
	return g.middleware
}

func (g *opsGuard) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.opts.Enabled {
			next.ServeHTTP(w, r)
			return
		}
		if _, guarded := g.paths[r.URL.Path]; !guarded {
			next.ServeHTTP(w, r)
			return
		}
		if g.authorized(r) {
			next.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func (g *opsGuard) authorized(r *http.Request) bool {
	if len(g.cidrs) > 0 {
		if ip, ok := realIP(r, g.realIPHeader); ok {
			if addr, err := netip.ParseAddr(ip); err == nil {
				for _, p := range g.cidrs {
					if p.Contains(addr) {
						return true
					}
				}
			}
		}
	}

	if token := strings.TrimSpace(g.opts.Token); token != "" {
		if subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Ops-Token")), []byte(token)) == 1 {
			return true
		}
	}
	return false
}

func parseCIDRs(raw string) []netip.Prefix {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == ' ' })
	out := make([]netip.Prefix, 0, len(parts))
	for _, part := range parts {
		if p, err := netip.ParsePrefix(part); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func realIP(r *http.Request, header string) (string, bool) {
	if header != "" {
		if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
			// X-Forwarded-For style: take the first item
			if i := strings.IndexByte(v, ','); i >= 0 {
				v = strings.TrimSpace(v[:i])
			}
			return stripPort(v)
		}
	}
	return stripPort(r.RemoteAddr)
}

func stripPort(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		return host, true
	}
	return s, true
}
