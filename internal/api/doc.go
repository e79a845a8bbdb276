// Package api provides the HTTP client for the equipment service.
//
// # Overview
//
// The client covers three resources: assets, requests and the aggregate
// stats record. Each resource has one function family (list, create,
// update, delete, status change) and every call carries the session
// headers built by package session.
//
// # Architecture
//
//   - transport.go: timeout-bounded request execution and status checks
//   - client.go: construction, options and the Service interface
//   - assets.go, requests.go, stats.go: one file per resource
//   - types.go, enum.go: wire types and closed enumerations
//   - errors.go: the error taxonomy
//
// # Client Usage
//
//	client, err := api.NewClient(api.Options{
//		BaseURL:   cfg.APIURL,
//		SessionID: sessionID,
//		Timeout:   cfg.Timeout(),
//	})
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	assets, err := client.ListAssets(ctx, api.Filter{Status: api.FilterAll})
//	if err != nil {
//		log.Printf("fetch assets failed: %v", err)
//	}
//
// # Error Handling
//
// Every failure is an *OpError. Its message is fixed per operation
// ("Failed to fetch assets") so screens can show it directly. A client
// deadline is the exception and reads "Request timed out - please try
// again". The cause stays reachable with errors.As:
//
//   - *TimeoutError: the per-call deadline fired and the call was aborted
//   - *NetworkError: the call failed before a response arrived
//   - *APIError: the service answered with a non-2xx status
//   - *DecodeError: the body did not match the expected shape
//
// Unknown enum values in a response are decode errors, so display code
// only ever sees the closed value sets.
//
// # Retries
//
// None. A failed call is reported once; retrying is a user action.
package api
