// Package api provides a typed request pipeline for JSON services that wrap
// every payload in a {"code","message","data"} envelope.
//
// A call is described by a RequestSpec and a payload, sent with Send, and
// always yields exactly one Result: Success when the service answers with
// business code 0, or an *Error classified into a closed set of kinds.
// Send never panics past its boundary and never retries; callers that want
// retries wrap it with the netretry package.
package api
