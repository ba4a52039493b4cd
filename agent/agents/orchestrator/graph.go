package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/appointment-assistant/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(ctx, in, o.template, o.defaultModel, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("decide",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Decide(ctx, in, o.toolModel)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node decide: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeReplyDirect,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.ReplyDirect(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reply_direct: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeExecuteTools,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecuteTools(ctx, in, o.tools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_tools: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Synthesize(ctx, in, o.chatModel)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.Route(in)
		},
		map[string]bool{
			nodex.NodeReplyDirect:  true,
			nodex.NodeExecuteTools: true,
		},
	)
	if err := graph.AddBranch("decide", branch); err != nil {
		return nil, fmt.Errorf("add branch after decide: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "decide"},
		{nodex.NodeReplyDirect, compose.END},
		{nodex.NodeExecuteTools, "synthesize"},
		{"synthesize", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
