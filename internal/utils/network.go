package utils

import "net"

const fallbackIPAddress = "127.0.0.1"

// LocalIPAddress returns the first non-loopback IPv4 address of this host.
func LocalIPAddress() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return fallbackIPAddress
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return fallbackIPAddress
}
