package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPIsLocal(t *testing.T) {
	cases := []struct {
		addr            string
		expectedIsLocal bool
	}{
		{addr: "83.12.53.65:2145", expectedIsLocal: false},
		{addr: "83.12.53.65", expectedIsLocal: false},
		{addr: "127.0.0.1:35325", expectedIsLocal: true},
		{addr: "127.23.0.1", expectedIsLocal: true},
		{addr: "[::1]:8080", expectedIsLocal: true},
		{addr: "172.20.0.1:60102", expectedIsLocal: true},
		{addr: "172.19.0.1", expectedIsLocal: true},
		{addr: "172.19.0.7:42452", expectedIsLocal: false},
		{addr: "111.12.56.65:8080", expectedIsLocal: false},
		{addr: "not-an-ip", expectedIsLocal: false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expectedIsLocal, IPIsLocal(tc.addr), tc.addr)
	}
}

func TestReadUserIP(t *testing.T) {
	cases := map[string]struct {
		realIP     string
		forwarded  string
		remoteAddr string
		expectedIP string
		expectErr  bool
	}{
		"real ip header wins": {
			realIP:     "83.12.53.65",
			forwarded:  "10.1.1.1",
			remoteAddr: "192.0.2.1:1234",
			expectedIP: "83.12.53.65",
		},
		"first forwarded hop": {
			forwarded:  "203.0.113.9, 10.0.0.2, 10.0.0.3",
			remoteAddr: "192.0.2.1:1234",
			expectedIP: "203.0.113.9",
		},
		"remote addr without port": {
			remoteAddr: "198.51.100.20:52311",
			expectedIP: "198.51.100.20",
		},
		"ipv6 remote addr": {
			remoteAddr: "[2001:db8::7]:443",
			expectedIP: "2001:db8::7",
		},
		"loopback": {
			remoteAddr: "127.0.0.1:51234",
			expectedIP: LocalhostIP,
		},
		"docker gateway": {
			realIP:     "172.18.0.1",
			expectedIP: LocalhostIP,
		},
		"garbage": {
			realIP:    "not-an-ip",
			expectErr: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/myip", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.realIP != "" {
				req.Header.Set("X-Real-Ip", tc.realIP)
			}
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}

			ip, err := ReadUserIP(req)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedIP, ip)
		})
	}
}
