package pkg

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LocalhostIP is returned by ReadUserIP for requests coming from this machine or the docker gateway.
const LocalhostIP = "localhost"

var localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1$`)

// IPIsLocal reports whether addr, with or without a port, is a loopback or docker gateway address.
func IPIsLocal(addr string) bool {
	host := stripPort(addr)
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	if ip.IsLoopback() {
		return true
	}
	return localDockerIpRegex.MatchString(host)
}

// ReadUserIP returns the client address of r, taken from X-Real-Ip, then the first
// X-Forwarded-For hop, then the connection itself. The port is dropped.
func ReadUserIP(r *http.Request) (string, error) {
	addr := strings.TrimSpace(r.Header.Get("X-Real-Ip"))
	if addr == "" {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			addr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
	}
	if addr == "" {
		addr = r.RemoteAddr
	}

	if IPIsLocal(addr) {
		log.Tracef("read user IP: %s is local", addr)
		return LocalhostIP, nil
	}

	ip, err := netip.ParseAddr(stripPort(addr))
	if err != nil {
		return "", fmt.Errorf("ip addr %s is invalid", addr)
	}
	return ip.Unmap().String(), nil
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
