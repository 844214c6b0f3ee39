// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a client-supplied X-Request-ID when it is at most 128
// characters of [a-zA-Z0-9_-], otherwise it generates a UUID. The id is stored
// in the request context and echoed in the response header. LoggerExtractor
// adds it to every log record written with a request context:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	handler := requestid.Middleware(mux)
package requestid
