// Package httpclient is the outbound HTTP client used for Deepgram, OpenAI and
// the capsule API itself.
//
// It resolves paths against a base URL, applies default headers and
// authentication, encodes JSON and multipart bodies, and classifies non-2xx
// responses into *Error values. The client never retries. A client built
// with Config.Breaker fails fast with ErrCodeCircuitOpen while its upstream
// keeps timing out or returning 5xx.
//
//	client, _ := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.deepgram.com",
//	    Auth:    httpclient.SchemeAuth("Token", key),
//	})
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/v1/listen"})
package httpclient
