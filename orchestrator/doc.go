// Package orchestrator coordinates multiple specialist agents into a content
// pipeline: a researcher gathers notes on a topic, a writer turns them into
// an article, and a reviewer critiques the result.
//
// The three stages run strictly in order and each stage's output is embedded
// in the next stage's prompt. Stages talk to their agents through the
// Conversation interface, normally backed by conversation.Channel:
//
//	orch := orchestrator.New(svc, channel, func(o *orchestrator.Options) {
//		o.Model = "gpt-4o"
//	})
//
//	if err := orch.Setup(ctx); err != nil {
//		return err
//	}
//	defer orch.Cleanup(ctx)
//
//	results, err := orch.Orchestrate(ctx, "Best practices for building AI applications")
//
// Orchestrate returns whatever stages completed even when a later stage
// fails, and Cleanup tears the agents down best-effort.
package orchestrator
