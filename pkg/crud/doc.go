// Package crud provides a lightweight client for the item CRUD API. Items are
// flat records ({value, txHash}) addressed by an opaque id and exposed under
// /items on the configured base URL. Every request carries the static
// x-api-key header.
//
// Each operation validates its arguments locally, issues exactly one HTTP
// request and returns the response body decoded into a typed result. Failures
// are reported as *Error values whose Kind is one of the sentinel errors
// declared in this package, so callers can branch with errors.Is:
//
//	res, err := client.Get(ctx, "id1")
//	switch {
//	case errors.Is(err, crud.ErrQuotaExceeded):
//		// top up credits
//	case errors.Is(err, crud.ErrRemote):
//		// the service rejected the request
//	}
//
// The client performs no retries, caching or response schema validation; the
// service is trusted to return bodies shaped like the documented results.
package crud
