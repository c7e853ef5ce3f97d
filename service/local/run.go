package local

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/model"
)

// CreateRun implements core.Service. The run snapshots the agent's model,
// instructions and tools plus the thread transcript at creation time, then
// executes turn by turn on a background goroutine.
func (s *Service) CreateRun(_ context.Context, threadID, agentID string) (*core.Run, error) {
	s.mu.Lock()

	ts, ok := s.threads[threadID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("thread not found: %s", threadID)
	}

	agent, ok := s.agents[agentID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("agent not found: %s", agentID)
	}

	rs := &runState{
		run: core.Run{
			ID:        "run_" + core.NewID(),
			ThreadID:  threadID,
			AgentID:   agentID,
			Status:    core.RunStatusQueued,
			CreatedAt: time.Now(),
		},
		instructions: agent.Instructions,
		modelName:    agent.Model,
		tools:        append([]core.ToolDefinition(nil), agent.Tools...),
		turns:        transcriptTurns(ts.messages),
		limiter:      core.NewTurnLimiter(s.maxTurns),
	}
	s.runs[rs.run.ID] = rs

	snapshot := copyRun(rs.run)
	s.mu.Unlock()

	s.logger.Debug("local.run.created", "run_id", snapshot.ID, "thread_id", threadID, "agent_id", agentID)

	go s.advance(snapshot.ID)

	return snapshot, nil
}

// GetRun implements core.Service.
func (s *Service) GetRun(_ context.Context, threadID, runID string) (*core.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rs, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if rs.run.ThreadID != threadID {
		return nil, fmt.Errorf("run %s does not belong to thread %s", runID, threadID)
	}

	return copyRun(rs.run), nil
}

// SubmitToolOutputs implements core.Service. The submission must cover
// exactly the pending call ids: unknown ids, duplicate ids and missing ids
// are all rejected without changing the run.
func (s *Service) SubmitToolOutputs(_ context.Context, threadID, runID string, outputs []core.ToolOutput) (*core.Run, error) {
	s.mu.Lock()

	rs, ok := s.runs[runID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if rs.run.ThreadID != threadID {
		s.mu.Unlock()
		return nil, fmt.Errorf("run %s does not belong to thread %s", runID, threadID)
	}
	if rs.run.Status != core.RunStatusRequiresAction {
		s.mu.Unlock()
		return nil, fmt.Errorf("run %s is not awaiting tool outputs (status %s)", runID, rs.run.Status)
	}

	seen := make(map[string]struct{}, len(outputs))
	for _, output := range outputs {
		if _, dup := seen[output.ToolCallID]; dup {
			s.mu.Unlock()
			return nil, fmt.Errorf("duplicate tool output for call %s", output.ToolCallID)
		}
		seen[output.ToolCallID] = struct{}{}

		if _, pending := rs.pending[output.ToolCallID]; !pending {
			s.mu.Unlock()
			return nil, fmt.Errorf("unknown tool call id: %s", output.ToolCallID)
		}
	}
	if len(seen) != len(rs.pending) {
		s.mu.Unlock()
		return nil, fmt.Errorf("incomplete tool outputs: %d pending, %d submitted", len(rs.pending), len(seen))
	}

	rs.turns = append(rs.turns, model.Turn{
		Role:        model.RoleTool,
		ToolOutputs: append([]core.ToolOutput(nil), outputs...),
	})
	rs.pending = nil
	rs.run.RequiredAction = nil
	rs.run.Status = core.RunStatusQueued

	snapshot := copyRun(rs.run)
	s.mu.Unlock()

	s.logger.Debug("local.run.outputs_accepted", "run_id", runID, "count", len(outputs))

	go s.advance(runID)

	return snapshot, nil
}

// advance performs one model turn: mark the run in_progress, generate, then
// either pause on requested tool calls or complete with the reply appended
// to the thread. The model call runs outside the lock.
func (s *Service) advance(runID string) {
	req, ok := s.beginTurn(runID)
	if !ok {
		return
	}

	resp, err := s.model.Generate(context.Background(), req)

	s.finishTurn(runID, resp, err)
}

func (s *Service) beginTurn(runID string) (model.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, ok := s.runs[runID]
	if !ok || rs.run.Status.Terminal() {
		return model.Request{}, false
	}

	if err := rs.limiter.Increment(); err != nil {
		s.failRunLocked(rs, "max_turns_exceeded", err.Error())
		return model.Request{}, false
	}

	rs.run.Status = core.RunStatusInProgress

	return model.Request{
		Model:        rs.modelName,
		Instructions: rs.instructions,
		Turns:        append([]model.Turn(nil), rs.turns...),
		Tools:        append([]core.ToolDefinition(nil), rs.tools...),
	}, true
}

func (s *Service) finishTurn(runID string, resp *model.Response, genErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, ok := s.runs[runID]
	if !ok {
		return
	}

	if genErr != nil {
		s.failRunLocked(rs, "server_error", genErr.Error())
		return
	}

	if len(resp.ToolCalls) > 0 {
		calls := make([]core.ToolCall, len(resp.ToolCalls))
		pending := make(map[string]struct{}, len(resp.ToolCalls))
		for i, call := range resp.ToolCalls {
			if call.ID == "" {
				call.ID = "call_" + core.NewID()
			}
			calls[i] = call
			pending[call.ID] = struct{}{}
		}

		rs.turns = append(rs.turns, model.Turn{
			Role:      model.RoleAssistant,
			Text:      resp.Text,
			ToolCalls: append([]core.ToolCall(nil), calls...),
		})
		rs.pending = pending
		rs.run.RequiredAction = &core.RequiredAction{ToolCalls: calls}
		rs.run.Status = core.RunStatusRequiresAction

		s.logger.Debug("local.run.requires_action", "run_id", runID, "calls", len(calls))
		return
	}

	rs.turns = append(rs.turns, model.Turn{Role: model.RoleAssistant, Text: resp.Text})

	ts, ok := s.threads[rs.run.ThreadID]
	if !ok {
		s.failRunLocked(rs, "server_error", fmt.Sprintf("thread deleted: %s", rs.run.ThreadID))
		return
	}

	ts.messages = append(ts.messages, core.Message{
		ID:        "msg_" + core.NewID(),
		ThreadID:  rs.run.ThreadID,
		Role:      core.RoleAssistant,
		Parts:     []core.Part{core.TextPart{Text: resp.Text}},
		CreatedAt: time.Now(),
	})
	rs.run.Status = core.RunStatusCompleted

	s.logger.Debug("local.run.completed", "run_id", runID, "turns", rs.limiter.Count())
}

func (s *Service) failRunLocked(rs *runState, code, message string) {
	rs.run.Status = core.RunStatusFailed
	rs.run.RequiredAction = nil
	rs.run.LastError = &core.RunError{Code: code, Message: message}
	rs.pending = nil

	s.logger.Warn("local.run.failed", "run_id", rs.run.ID, "error_code", code, "error", message)
}

// transcriptTurns converts the thread's message history into model turns.
func transcriptTurns(messages []core.Message) []model.Turn {
	turns := make([]model.Turn, 0, len(messages))
	for _, msg := range messages {
		role := model.RoleUser
		if msg.Role == core.RoleAssistant {
			role = model.RoleAssistant
		}
		turns = append(turns, model.Turn{Role: role, Text: msg.Text()})
	}
	return turns
}
