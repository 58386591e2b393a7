// Package bridge runs context-aware asynchronous calls on behalf of blocking
// callers.
//
// A Loop owns one goroutine for its whole lifetime. Blocking callers submit a
// task to it with Run and wait on a completion channel of their own. The loop
// is never shared between clients.
package bridge
