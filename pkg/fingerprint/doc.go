// Package fingerprint derives a coarse device key from an HTTP request.
//
// The key hashes the User-Agent, Accept-Language and client IP. It keys the
// server-side signal store, so a browser that blocks cookies can still continue
// its marketing session across pageviews:
//
//	key := fingerprint.Generate(r)
//
// Keys collide for identical browsers behind one NAT and change when any of the
// inputs change. Treat them as a best-effort hint.
package fingerprint
