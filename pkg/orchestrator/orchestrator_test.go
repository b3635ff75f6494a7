package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmelo/supreme/pkg/agent"
	"github.com/nmelo/supreme/pkg/tools"
)

type fakeAnalyzer struct {
	configs []agent.Config
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, task string) []agent.Config {
	return f.configs
}

type fakeFactory struct{}

func (f *fakeFactory) Create(cfg agent.Config) *agent.Agent {
	return &agent.Agent{Name: cfg.Name, Instructions: cfg.Instructions, Tools: cfg.Tools}
}

type fakeRunner struct {
	outputs []string
	err     error
	runs    [][]agent.Message
	agents  []string
}

func (f *fakeRunner) Run(ctx context.Context, ag *agent.Agent, messages []agent.Message) (string, error) {
	f.runs = append(f.runs, messages)
	f.agents = append(f.agents, ag.Name)
	if f.err != nil {
		return "", f.err
	}
	out := f.outputs[0]
	if len(f.outputs) > 1 {
		f.outputs = f.outputs[1:]
	}
	return out, nil
}

type fakeInvoker struct {
	result  string
	queries []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, name string, params map[string]interface{}) tools.Result {
	if q, ok := params["query"].(string); ok {
		f.queries = append(f.queries, q)
	}
	return tools.Result{Output: f.result}
}

type fakeCloser struct {
	closed int
}

func (f *fakeCloser) CloseBrowser() { f.closed++ }

type fixture struct {
	analyzer *fakeAnalyzer
	runner   *fakeRunner
	invoker  *fakeInvoker
	closer   *fakeCloser
	orch     *Orchestrator
}

func newFixture(t *testing.T, configs []agent.Config, runner *fakeRunner, invoker *fakeInvoker) *fixture {
	t.Helper()

	f := &fixture{
		analyzer: &fakeAnalyzer{configs: configs},
		runner:   runner,
		invoker:  invoker,
		closer:   &fakeCloser{},
	}

	orch, err := New(Options{
		Analyzer:  f.analyzer,
		Factory:   &fakeFactory{},
		Runner:    f.runner,
		Registry:  f.invoker,
		Resources: f.closer,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	f.orch = orch
	return f
}

func TestNew(t *testing.T) {
	t.Run("should require all collaborators", func(t *testing.T) {
		opts := Options{
			Analyzer:  &fakeAnalyzer{},
			Factory:   &fakeFactory{},
			Runner:    &fakeRunner{},
			Registry:  &fakeInvoker{},
			Resources: &fakeCloser{},
		}

		_, err := New(opts)
		assert.NoError(t, err)

		missing := opts
		missing.Analyzer = nil
		_, err = New(missing)
		assert.Error(t, err)

		missing = opts
		missing.Resources = nil
		_, err = New(missing)
		assert.Error(t, err)
	})
}

func TestExecute(t *testing.T) {
	t.Run("should short-circuit a clean search", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{{Name: "search_agent", Tools: []string{"browser_search"}}},
			&fakeRunner{outputs: []string{"unused"}},
			&fakeInvoker{result: "Title: Go\nURL: https://go.dev"},
		)

		result := f.orch.Execute(context.Background(), "search for go", "")

		assert.Equal(t, "Title: Go\nURL: https://go.dev", result)
		assert.Equal(t, []string{"search for go"}, f.invoker.queries)
		assert.Empty(t, f.runner.runs, "model should not be consulted")
		assert.Equal(t, 1, f.closer.closed)
	})

	t.Run("should not search directly when the agent lacks the tool", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{{Name: "search_agent", Tools: []string{"code_write"}}},
			&fakeRunner{outputs: []string{"model answer"}},
			&fakeInvoker{result: "Title: Go\nURL: https://go.dev"},
		)

		result := f.orch.Execute(context.Background(), "search for go", "")

		assert.Equal(t, "model answer", result)
		assert.Empty(t, f.invoker.queries, "unbound search must not invoke the tool")
		require.Len(t, f.runner.runs, 1)
	})

	t.Run("should fall through to the model when the search fails", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{{Name: "search_agent", Tools: []string{"browser_search"}}},
			&fakeRunner{outputs: []string{"recovered answer"}},
			&fakeInvoker{result: "Error: browser search: timeout"},
		)

		result := f.orch.Execute(context.Background(), "search for go", "")

		assert.Equal(t, "recovered answer", result)
		require.Len(t, f.runner.runs, 1)
	})

	t.Run("should hand each agent's output to the next", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{
				{Name: "code_agent", Tools: []string{"code_write"}},
				{Name: "run_agent", Tools: []string{"terminal_run"}},
			},
			&fakeRunner{outputs: []string{"Code written to hello.py", "Command executed"}},
			&fakeInvoker{},
		)

		result := f.orch.Execute(context.Background(), "write and run hello world", "")

		assert.Equal(t, "Command executed", result)
		require.Len(t, f.runner.runs, 2)
		assert.Equal(t, []string{"code_agent", "run_agent"}, f.runner.agents)

		// Second agent receives the first agent's output as its user message
		second := f.runner.runs[1]
		assert.Equal(t, "Code written to hello.py", second[len(second)-1].Content)
	})

	t.Run("should seed the first agent with the task when no initial input is given", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{{Name: "default_agent"}},
			&fakeRunner{outputs: []string{"done"}},
			&fakeInvoker{},
		)

		f.orch.Execute(context.Background(), "summarize the report", "")

		first := f.runner.runs[0]
		assert.Equal(t, "summarize the report", first[len(first)-1].Content)
	})

	t.Run("should prefer an explicit initial input", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{{Name: "processing_agent"}},
			&fakeRunner{outputs: []string{"done"}},
			&fakeInvoker{},
		)

		f.orch.Execute(context.Background(), "process this", "Title: Go\nURL: https://go.dev")

		first := f.runner.runs[0]
		assert.Equal(t, "Title: Go\nURL: https://go.dev", first[len(first)-1].Content)
	})

	t.Run("should include the role prompt for each agent", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{{Name: "processing_agent"}},
			&fakeRunner{outputs: []string{"done"}},
			&fakeInvoker{},
		)

		f.orch.Execute(context.Background(), "process this", "input")

		first := f.runner.runs[0]
		assert.Equal(t, "system", first[0].Role)
		assert.Contains(t, first[0].Content, "processing_agent")
	})

	t.Run("should report failures as an error string and still close the browser", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{{Name: "default_agent"}},
			&fakeRunner{err: errors.New("provider unavailable")},
			&fakeInvoker{},
		)

		result := f.orch.Execute(context.Background(), "do something", "")

		assert.Contains(t, result, "Error executing task:")
		assert.Contains(t, result, "provider unavailable")
		assert.Equal(t, 1, f.closer.closed)
	})

	t.Run("should close the browser after a successful run", func(t *testing.T) {
		f := newFixture(t,
			[]agent.Config{{Name: "default_agent"}},
			&fakeRunner{outputs: []string{"done"}},
			&fakeInvoker{},
		)

		f.orch.Execute(context.Background(), "task", "")
		assert.Equal(t, 1, f.closer.closed)
	})
}
