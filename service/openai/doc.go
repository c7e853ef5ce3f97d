// Package openai implements core.Service on top of the OpenAI Assistants
// API. Agents map to assistants, threads and runs map one to one, and hosted
// tools (code_interpreter, file_search) are declared through the agent's tool
// manifest.
//
// The adapter also implements core.FileService and core.VectorStoreService,
// discoverable by type assertion:
//
//	svc := openai.NewService()
//
//	if fs, ok := core.Service(svc).(core.FileService); ok {
//		file, _ := fs.UploadFile(ctx, "notes.md", strings.NewReader(doc))
//		_ = file
//	}
//
// All calls honor an optional client side rate limiter:
//
//	svc := openai.NewService(func(o *openai.Options) {
//		o.Limiter = rate.NewLimiter(rate.Limit(5), 1)
//	})
package openai
