// Package local implements core.Service in process, so the full agent loop
// can run hermetically: in tests against a scripted model.MockModel, or
// offline against any chat model implementing model.Model.
//
// Runs execute on background goroutines, one model turn at a time. A model
// reply that requests tool calls parks the run in requires_action until the
// caller submits outputs for exactly the pending call ids; unknown,
// duplicate and missing ids are rejected. A per-run turn budget terminates
// runaway tool loops as failed runs.
//
//	svc := local.New(model.NewMockModel())
//
//	r := runner.New(svc, registry)
//	run, err := r.ProcessRun(ctx, threadID, agentID)
//
// The emulation also implements core.FileService and
// core.VectorStoreService, holding uploads in memory so file-bound flows can
// be exercised without a hosted backend. Stores come back completed
// immediately; no actual retrieval happens.
//
// Everything lives in memory and comes back as defensive copies; nothing
// survives process exit.
package local
