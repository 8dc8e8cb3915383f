package app

import (
	"github.com/vk/agrun/components/agent_eval"
	"github.com/vk/agrun/components/basic_agent"
	"github.com/vk/agrun/components/benchmark"
	"github.com/vk/agrun/components/docker_studio"
	"github.com/vk/agrun/components/dotnet_group"
	"github.com/vk/agrun/components/function_call"
	"github.com/vk/agrun/components/group_chat"
	"github.com/vk/agrun/components/human_feedback"
	"github.com/vk/agrun/components/rag"
	"github.com/vk/agrun/components/run_all"
	"github.com/vk/agrun/components/studio"
	"github.com/vk/agrun/internal/registry"
)

// coreComponents is the definitive list of all components that are compiled
// into the agrun binary.
var coreComponents = []registry.Component{
	&agent_eval.Component{},
	&basic_agent.Component{},
	&benchmark.Component{},
	&docker_studio.Component{},
	&dotnet_group.Component{},
	&function_call.Component{},
	&group_chat.Component{},
	&human_feedback.Component{},
	&rag.Component{},
	&run_all.Component{},
	&studio.Component{},
}
