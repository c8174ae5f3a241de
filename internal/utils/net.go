package utils

import "net"

// probeAddr is only used for routing table resolution, no packet is sent.
const probeAddr = "8.8.8.8:80"

// GetOutboundIP returns the IP address the host would use for outbound
// traffic, or loopback when no route can be resolved.
func GetOutboundIP() string {
	conn, err := net.Dial("udp", probeAddr)
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}
