package resolver

import (
	"net"
	"strings"
)

// isPrivateHost reports whether a host names a private, loopback, or
// link-local address by literal inspection.
//
// The decision must not perform network I/O: a host that merely
// resolves to a private address via DNS is not skipped, only hosts that
// are literally private. This matches the policy's purpose of keeping
// obviously-internal links out of public link checks.
func isPrivateHost(host string) bool {
	host = strings.ToLower(host)

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
