// Package mssession resolves a marketing session id for every pageview and
// caches it for the lifetime of that pageview.
//
// A pageview reads a handful of signals: the current time, the page and referrer
// hosts, and three values previously written to device storage by a separate,
// consent-gated persist collaborator (last activity timestamp, the tab-scoped
// session id and a cross-tab candidate id). From these the Resolver decides to:
//
//   - start a new session on an external entry, after the inactivity timeout, or
//     when nothing can be continued;
//   - carry the cross-tab candidate into a tab that has no id of its own;
//   - keep the tab's own id.
//
// The package never writes storage. It hands a Decision to the persist
// collaborator, which chooses what to store.
//
// # Architecture
//
//	┌──────────────┐  signals  ┌──────────┐  Input  ┌──────────┐
//	│ SignalSource │ ────────► │   Page   │ ──────► │ Resolver │
//	└──────────────┘           └──────────┘         └──────────┘
//	                                │ Ready (once)
//	                                ▼
//	                          ┌──────────┐
//	                          │ Notifier │ ──► persist collaborator
//	                          └──────────┘
//
// Page is the page-scoped RAM cache: the first GetOrCompute resolves and stores
// the id, every later call returns it unchanged. Sources report missing or
// unreadable values as errors, which the resolver treats as absent.
//
// # Usage
//
//	manager := mssession.New(
//	    mssession.WithMode(mssession.ModeETLD1),
//	    mssession.WithTimeout(30*time.Minute),
//	)
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
//	    id := mssession.SessionIDFromContext(r.Context())
//	    fmt.Fprintln(w, id)
//	})
//	http.ListenAndServe(":8080", manager.Middleware(mux))
//
// Outside HTTP, build a Page over any SignalSource:
//
//	page := manager.NewPage(mssession.StaticSource{Page: "shop.example.com"})
//	id := page.GetOrCompute(ctx)
//
// # Referrer classification
//
// ModeETLD1 compares the last two host labels and is the default. It is a naive
// approximation and treats every site under a multi-label public suffix (co.uk)
// as one domain. ModeHostname compares full hostnames. ModeCustom treats hosts on
// the InternalHosts allowlist as one site; when neither host is listed it falls
// back to ModeETLD1.
//
// # Configuration
//
// Config fields carry env tags and can be loaded with the config package.
// Timeout defaults to 30 minutes and Prefix to "pvs".
package mssession
