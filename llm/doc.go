// Package llm is a small chat-completion client built on httpclient.
//
// Provider wire formats are Dialects registered by name. Importing a
// dialect package registers it:
//
//	import _ "github.com/zillusion/capsule/llm/openai"
//
//	adapter, err := llm.New(llm.Config{Dialect: "openai", APIKey: key})
//	text, err := llm.Complete(ctx, adapter, system, user)
package llm
