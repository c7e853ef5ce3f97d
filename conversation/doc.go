// Package conversation provides the one-shot ask channel: post a prompt to
// a fresh thread, drive a run of the chosen agent over it, and hand back the
// reply text.
//
// A Channel isolates every exchange on its own thread and deletes the thread
// best-effort on the way out, so repeated asks never share context. Failed
// runs surface as *core.RunError values, keeping transport faults and
// agent-side failures distinguishable:
//
//	channel := conversation.New(svc, r)
//
//	reply, err := channel.Ask(ctx, agent, "What is the capital of France?")
//	var runErr *core.RunError
//	if errors.As(err, &runErr) {
//		// the run itself failed; runErr.Code carries the service's reason
//	}
package conversation
