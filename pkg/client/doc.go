// Package client holds the HTTP side of apidelta.
//
//   - api: The typed request pipeline that sends a RequestSpec and classifies
//     the response into a Result
//   - netretry: Caller-side retries of transient pipeline failures
package client
