// Package logger builds *slog.Logger values with functional options and injects
// request-scoped attributes from context.Context.
//
// New picks a text or JSON handler, applies static attributes, and wraps the
// result in LogHandlerDecorator, which runs every registered ContextExtractor on
// each record. Request ids and pageview/session ids reach log lines this way
// without being threaded through call sites.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "mssession"),
//	    logger.WithContextExtractors(
//	        requestid.LoggerExtractor(),
//	        mssession.LoggerExtractor(),
//	    ),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "session resolved", logger.SessionID(id))
//
// Attribute helpers in attr.go keep key names consistent. Error, SessionID and
// friends return an empty slog.Attr for nil or empty input, so they can be passed
// unconditionally.
//
// Libraries that accept an optional logger default to Discard.
package logger
