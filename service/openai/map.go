package openai

import (
	"time"

	"github.com/openai/openai-go"

	"github.com/hupe1980/agentloop/core"
)

// mapRun converts an SDK run to the domain shape. The nested
// submit_tool_outputs action is flattened into RequiredAction; the zero
// LastError becomes a nil pointer.
func mapRun(run *openai.Run) *core.Run {
	mapped := &core.Run{
		ID:        run.ID,
		ThreadID:  run.ThreadID,
		AgentID:   run.AssistantID,
		Status:    core.RunStatus(run.Status),
		CreatedAt: time.Unix(run.CreatedAt, 0),
	}

	if calls := run.RequiredAction.SubmitToolOutputs.ToolCalls; len(calls) > 0 {
		mapped.RequiredAction = &core.RequiredAction{ToolCalls: mapToolCalls(calls)}
	}

	if run.LastError.Code != "" || run.LastError.Message != "" {
		mapped.LastError = &core.RunError{
			Code:    string(run.LastError.Code),
			Message: run.LastError.Message,
		}
	}

	return mapped
}

func mapToolCalls(calls []openai.RequiredActionFunctionToolCall) []core.ToolCall {
	mapped := make([]core.ToolCall, len(calls))
	for i, call := range calls {
		mapped[i] = core.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		}
	}
	return mapped
}

func mapAgent(assistant *openai.Assistant) *core.Agent {
	return &core.Agent{
		ID:           assistant.ID,
		Name:         assistant.Name,
		Model:        assistant.Model,
		Instructions: assistant.Instructions,
		CreatedAt:    time.Unix(assistant.CreatedAt, 0),
	}
}

func mapMessage(msg openai.Message) core.Message {
	mapped := core.Message{
		ID:        msg.ID,
		ThreadID:  msg.ThreadID,
		Role:      core.Role(msg.Role),
		CreatedAt: time.Unix(msg.CreatedAt, 0),
	}

	for _, content := range msg.Content {
		switch content.Type {
		case "text":
			mapped.Parts = append(mapped.Parts, core.TextPart{
				Text:        content.Text.Value,
				Annotations: mapAnnotations(content.Text.Annotations),
			})
		case "image_file":
			mapped.Parts = append(mapped.Parts, core.ImageFilePart{FileID: content.ImageFile.FileID})
		}
	}

	return mapped
}

func mapAnnotations(annotations []openai.AnnotationUnion) []core.Annotation {
	if len(annotations) == 0 {
		return nil
	}

	mapped := make([]core.Annotation, 0, len(annotations))
	for _, a := range annotations {
		ann := core.Annotation{
			Type:       string(a.Type),
			Text:       a.Text,
			StartIndex: int(a.StartIndex),
			EndIndex:   int(a.EndIndex),
		}
		switch a.Type {
		case "file_citation":
			ann.FileID = a.FileCitation.FileID
		case "file_path":
			ann.FileID = a.FilePath.FileID
		}
		mapped = append(mapped, ann)
	}

	return mapped
}

// buildAssistantTools converts the tool manifest to assistant tool params.
// Function entries carry their schema; hosted entries translate to bare
// code_interpreter / file_search declarations.
func buildAssistantTools(defs []core.ToolDefinition) []openai.AssistantToolUnionParam {
	var tools []openai.AssistantToolUnionParam

	for _, def := range defs {
		switch def.Type {
		case core.ToolTypeFunction:
			if def.Function == nil {
				continue
			}
			tools = append(tools, openai.AssistantToolUnionParam{
				OfFunction: &openai.FunctionToolParam{
					Function: openai.FunctionDefinitionParam{
						Name:        def.Function.Name,
						Description: openai.String(def.Function.Description),
						Parameters:  def.Function.Parameters,
					},
				},
			})
		case core.ToolTypeCodeInterpreter:
			tools = append(tools, openai.AssistantToolUnionParam{
				OfCodeInterpreter: &openai.CodeInterpreterToolParam{},
			})
		case core.ToolTypeFileSearch:
			tools = append(tools, openai.AssistantToolUnionParam{
				OfFileSearch: &openai.FileSearchToolParam{},
			})
		}
	}

	return tools
}

func buildToolResources(res *core.ToolResources) openai.BetaAssistantNewParamsToolResources {
	var out openai.BetaAssistantNewParamsToolResources
	if res == nil {
		return out
	}

	if res.CodeInterpreter != nil {
		out.CodeInterpreter.FileIDs = res.CodeInterpreter.FileIDs
	}
	if res.FileSearch != nil {
		out.FileSearch.VectorStoreIDs = res.FileSearch.VectorStoreIDs
	}

	return out
}

func buildToolOutputs(outputs []core.ToolOutput) []openai.BetaThreadRunSubmitToolOutputsParamsToolOutput {
	mapped := make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, len(outputs))
	for i, output := range outputs {
		mapped[i] = openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(output.ToolCallID),
			Output:     openai.String(output.Output),
		}
	}
	return mapped
}
