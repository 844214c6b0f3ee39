// Package clientip extracts the client IP address from an HTTP request.
//
// Proxy headers listed in Headers are consulted first (Cloudflare, DigitalOcean
// App Platform, X-Forwarded-For, X-Real-IP), then RemoteAddr. Invalid values are
// skipped. Only deploy behind proxies that overwrite these headers; otherwise
// clients can spoof them.
//
//	ip := clientip.GetIP(r)
package clientip
