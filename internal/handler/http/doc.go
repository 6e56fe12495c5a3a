// Package http implements the HTTP transport layer of the duct-tape server.
//
// Routes are declared as a [urls.Table] mounted on a chi router: the JSON
// resources and autocomplete endpoints of the library models under /api,
// and their generated HTML pages. Authentication, request tracing, access
// logging and response compression are applied as route decorators or
// router middleware before requests reach the generic handlers.
package http
