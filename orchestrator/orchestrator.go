package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/internal/util"
	"github.com/hupe1980/agentloop/logging"
)

// Stage identifies one step of the content pipeline.
type Stage string

const (
	// StageResearch gathers the key points of the topic.
	StageResearch Stage = "research"
	// StageArticle turns the research notes into an article.
	StageArticle Stage = "article"
	// StageReview critiques the finished article.
	StageReview Stage = "review"
)

// PipelineResult maps each completed stage to its output text. After a stage
// error the map holds the outputs produced so far.
type PipelineResult map[Stage]string

// Conversation is the ask seam the pipeline drives its stages through.
// *conversation.Channel satisfies it.
type Conversation interface {
	Ask(ctx context.Context, agent *core.Agent, prompt string) (string, error)
}

const (
	roleResearcher = "researcher"
	roleWriter     = "writer"
	roleReviewer   = "reviewer"
)

type roleSpec struct {
	role         string
	name         string
	instructions string
}

var roleSpecs = []roleSpec{
	{
		role: roleResearcher,
		name: "researcher-agent",
		instructions: `You are a research specialist.
Investigate the given topic and organize its key points.
Keep it concise and use bullet points.`,
	},
	{
		role: roleWriter,
		name: "writer-agent",
		instructions: `You are a professional technical writer.
Turn the provided material into readable, engaging prose.
Write the output in Markdown.`,
	},
	{
		role: roleReviewer,
		name: "reviewer-agent",
		instructions: `You are a quality assurance specialist.
Review the provided content and point out concrete improvements.
Mention both strengths and weaknesses.`,
	},
}

const (
	researchPrompt = `Research the following topic: {{.Topic}}`

	writingPrompt = `Write a blog article based on the research notes below:

Research notes:
{{.Research}}

Topic: {{.Topic}}`

	reviewPrompt = `Review the following article:

{{.Article}}`
)

// Options holds configuration overrides passed to New().
type Options struct {
	// Model names the chat model every pipeline agent is created with.
	Model string
	// Logging services.
	Logger logging.Logger
}

// Orchestrator owns the three pipeline agents and runs the research, writing
// and review stages strictly in order. It is not safe for concurrent use;
// drive one pipeline per Orchestrator.
type Orchestrator struct {
	svc    core.Service
	conv   Conversation
	model  string
	logger logging.Logger
	agents map[string]*core.Agent
}

// New constructs an Orchestrator over the given service and conversation.
func New(svc core.Service, conv Conversation, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Model:  "gpt-4o",
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		svc:    svc,
		conv:   conv,
		model:  opts.Model,
		logger: opts.Logger,
		agents: make(map[string]*core.Agent),
	}
}

// Setup creates the researcher, writer and reviewer agents. Roles that
// already exist are kept, so Setup may be retried after a partial failure.
func (o *Orchestrator) Setup(ctx context.Context) error {
	for _, spec := range roleSpecs {
		if _, exists := o.agents[spec.role]; exists {
			continue
		}

		agent, err := o.svc.CreateAgent(ctx, core.NewAgentParams{
			Model:        o.model,
			Name:         spec.name,
			Instructions: spec.instructions,
		})
		if err != nil {
			return fmt.Errorf("create %s agent: %w", spec.role, err)
		}

		o.agents[spec.role] = agent

		o.logger.Debug("orchestrator.agent.created", "role", spec.role, "agent_id", agent.ID)
	}

	return nil
}

// Orchestrate runs the three stages in order, feeding each stage's output
// into the next stage's prompt. A stage error aborts the pipeline; the
// returned map then carries the outputs of the stages that finished.
func (o *Orchestrator) Orchestrate(ctx context.Context, topic string) (PipelineResult, error) {
	results := make(PipelineResult, 3)

	research, err := o.runStage(ctx, StageResearch, roleResearcher, researchPrompt, map[string]any{
		"Topic": topic,
	})
	if err != nil {
		return results, err
	}
	results[StageResearch] = research

	article, err := o.runStage(ctx, StageArticle, roleWriter, writingPrompt, map[string]any{
		"Research": research,
		"Topic":    topic,
	})
	if err != nil {
		return results, err
	}
	results[StageArticle] = article

	review, err := o.runStage(ctx, StageReview, roleReviewer, reviewPrompt, map[string]any{
		"Article": article,
	})
	if err != nil {
		return results, err
	}
	results[StageReview] = review

	return results, nil
}

func (o *Orchestrator) runStage(ctx context.Context, stage Stage, role, promptTmpl string, data map[string]any) (string, error) {
	agent, ok := o.agents[role]
	if !ok {
		return "", fmt.Errorf("%s stage: no %s agent, call Setup first", stage, role)
	}

	prompt, err := util.RenderTemplate(promptTmpl, data)
	if err != nil {
		return "", fmt.Errorf("%s stage: render prompt: %w", stage, err)
	}

	o.logger.Debug("orchestrator.stage.start", "stage", string(stage), "agent_id", agent.ID)

	start := time.Now()

	output, err := o.conv.Ask(ctx, agent, prompt)
	if err != nil {
		return "", fmt.Errorf("%s stage: %w", stage, err)
	}

	o.logger.Info("orchestrator.stage.completed", "stage", string(stage), "duration_ms", time.Since(start).Milliseconds())

	return output, nil
}

// Cleanup deletes every held agent, logging and moving past individual
// failures. The role map is cleared afterwards, so a second call is a no-op.
func (o *Orchestrator) Cleanup(ctx context.Context) {
	for role, agent := range o.agents {
		if err := o.svc.DeleteAgent(ctx, agent.ID); err != nil {
			o.logger.Warn("orchestrator.agent.delete_failed", "role", role, "agent_id", agent.ID, "error", err.Error())
			continue
		}

		o.logger.Debug("orchestrator.agent.deleted", "role", role)
	}

	clear(o.agents)
}
