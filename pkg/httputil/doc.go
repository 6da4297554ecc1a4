// Package httputil provides the HTTP client used to fetch schemas from live
// GraphQL endpoints.
//
// [Client.PostJSON] sends a JSON request and decodes a JSON response.
// Network errors, 5xx responses and 429 rate limits are retried with
// exponential backoff; a Retry-After header overrides the next delay.
//
//	client := httputil.NewClient(httputil.WithHeader("Authorization", "Bearer "+token))
//	var resp map[string]any
//	err := client.PostJSON(ctx, "https://api.example.com/graphql", body, &resp)
package httputil
