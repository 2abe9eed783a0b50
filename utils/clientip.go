package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownIP is stored when no proxy header names the caller.
const UnknownIP = "unknown"

// ClientIP extracts the visitor IP from proxy headers.
// Priority: first hop of X-Forwarded-For > CF-Connecting-IP > X-Real-IP,
// else the "unknown" sentinel.
func ClientIP(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); v != "" {
		if first := strings.TrimSpace(strings.Split(v, ",")[0]); first != "" {
			return stripPort(first)
		}
	}
	if v := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); v != "" {
		return stripPort(v)
	}
	if v := strings.TrimSpace(c.GetHeader("X-Real-IP")); v != "" {
		return stripPort(v)
	}
	return UnknownIP
}

func stripPort(ip string) string {
	if h, _, err := net.SplitHostPort(ip); err == nil {
		return h
	}
	return ip
}

func isParseableIP(s string) bool {
	return net.ParseIP(s) != nil
}

// IsPrivateIP returns true for RFC1918 and loopback ranges.
func IsPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}
