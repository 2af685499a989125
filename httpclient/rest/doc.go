// Package rest adds typed JSON helpers on top of httpclient.
//
//	out, err := rest.Post[listenResponse](ctx, client, "/v1/listen", body,
//	    rest.WithQuery(map[string]string{"diarize": "true"}))
package rest
