// Package api translates HTTP requests into account service calls and
// service results into the response bodies clients expect.
//
// Routes that need an authenticated caller sit behind the gates in the
// middleware subpackage; response helpers shared with those gates live in
// the shared subpackage.
package api
