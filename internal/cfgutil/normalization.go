// Copyright (c) 2015-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"fmt"
	"net"
	"strings"
)

// NormalizeAddress returns the normalized host:port form of a node RPC
// address, adding a default port if necessary.  A leading http:// scheme and
// trailing slash are accepted since node documentation usually gives the RPC
// endpoint as a URL.  An error is returned if the address, even without a
// port, is not valid.
func NormalizeAddress(addr string, defaultPort string) (string, error) {
	addr = strings.TrimSpace(addr)
	if strings.HasPrefix(addr, "https://") {
		return "", fmt.Errorf("TLS RPC endpoints are not supported: %s",
			addr)
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimSuffix(addr, "/")
	if addr == "" {
		return "", fmt.Errorf("empty address")
	}

	// If the first SplitHostPort errors because of a missing port and not
	// for an invalid host, add the port.  If the second SplitHostPort
	// fails, then a port is not missing and the original error should be
	// returned.
	host, port, origErr := net.SplitHostPort(addr)
	if origErr == nil {
		if host == "" {
			host = "localhost"
		}
		return net.JoinHostPort(host, port), nil
	}
	addr = net.JoinHostPort(addr, defaultPort)
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", origErr
	}
	return addr, nil
}
