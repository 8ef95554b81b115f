package orchestrator

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/Yates-Labs/linkforge/internal/analysis"
	"github.com/Yates-Labs/linkforge/internal/llm"
	"github.com/Yates-Labs/linkforge/internal/prompt"
)

// isHashtagCall and isEmojiCall classify prompts received by the mock.
func isHashtagCall(p string) bool {
	return strings.HasPrefix(p, "Generate 5 relevant hashtags")
}

func isEmojiCall(p string) bool {
	return strings.HasPrefix(p, "Add relevant emojis to this LinkedIn post")
}

func newTestOrchestrator(t *testing.T, client llm.LLM, parallel bool) *Orchestrator {
	t.Helper()
	config := DefaultConfig()
	config.ParallelVariations = parallel
	o, err := NewWithLLM(client, config, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return o
}

// countingResponder answers post prompts with "post N" in call order.
func countingResponder() func(string) (string, error) {
	var n atomic.Int64
	return func(p string) (string, error) {
		switch {
		case isHashtagCall(p):
			return "#a #b #c #d #e", nil
		case isEmojiCall(p):
			return "🚀 decorated", nil
		default:
			return "post " + strconv.FormatInt(n.Add(1), 10) + ".", nil
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, llm.ProviderGroq, config.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", config.LLM.Model)
	assert.False(t, config.ParallelVariations)
	assert.Empty(t, config.LLM.APIKey)
}

func TestNew_MissingCredential(t *testing.T) {
	_, err := New(DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestNew_WithCredential(t *testing.T) {
	config := DefaultConfig()
	config.LLM.APIKey = "gsk_test"

	o, err := New(config)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", o.Model())
}

func TestNewWithLLM_NilClient(t *testing.T) {
	_, err := NewWithLLM(nil, DefaultConfig())
	assert.Error(t, err)
}

func TestGenerate_VariationCount(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		for k := MinVariations; k <= MaxVariations; k++ {
			name := "sequential/" + strconv.Itoa(k)
			if parallel {
				name = "parallel/" + strconv.Itoa(k)
			}
			t.Run(name, func(t *testing.T) {
				defer goleak.VerifyNone(t)

				mock := llm.NewMockLLMFunc(countingResponder())
				o := newTestOrchestrator(t, mock, parallel)

				req := DefaultRequest("remote work")
				req.Variations = k

				result, err := o.Generate(context.Background(), req)
				require.NoError(t, err)
				require.Len(t, result, k)
				assert.Equal(t, k, mock.Calls())

				if !parallel {
					for i, post := range result {
						assert.Equal(t, "post "+strconv.Itoa(i+1)+".", post.Post)
					}
				}
				for _, post := range result {
					assert.Equal(t, analysis.Analyze(post.Post), post.Analysis)
				}
			})
		}
	}
}

func TestGenerate_InvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*GenerationRequest)
		wantField string
	}{
		{"zero variations", func(r *GenerationRequest) { r.Variations = 0 }, "variations"},
		{"four variations", func(r *GenerationRequest) { r.Variations = 4 }, "variations"},
		{"negative variations", func(r *GenerationRequest) { r.Variations = -1 }, "variations"},
		{"unknown tone", func(r *GenerationRequest) { r.Tone = "sarcastic" }, "tone"},
		{"decorated tone is not canonical", func(r *GenerationRequest) { r.Tone = "friendly 😊" }, "tone"},
		{"unknown template", func(r *GenerationRequest) { r.Template = "listicle" }, "template"},
		{"empty prompt", func(r *GenerationRequest) { r.Prompt = "  " }, "prompt"},
		{"zero words", func(r *GenerationRequest) { r.Words = 0 }, "words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockLLM("unused")
			o := newTestOrchestrator(t, mock, false)

			req := DefaultRequest("remote work")
			req.AddHashtags = true
			req.AddEmojis = true
			tt.mutate(&req)

			result, err := o.Generate(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrInvalidParameter)

			var perr *InvalidParameterError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantField, perr.Field)
			assert.Zero(t, mock.Calls(), "no LLM call may be made for an invalid request")
		})
	}
}

func TestGenerate_ValidationOrder(t *testing.T) {
	req := DefaultRequest("remote work")
	req.Variations = 9
	req.Tone = "sarcastic"
	req.Template = "listicle"

	var perr *InvalidParameterError
	require.ErrorAs(t, Validate(req), &perr)
	assert.Equal(t, "variations", perr.Field)

	req.Variations = 1
	require.ErrorAs(t, Validate(req), &perr)
	assert.Equal(t, "tone", perr.Field)

	req.Tone = prompt.ToneCasual
	require.ErrorAs(t, Validate(req), &perr)
	assert.Equal(t, "template", perr.Field)
}

func TestGenerate_HashtagsOncePerRequest(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(map[bool]string{false: "sequential", true: "parallel"}[parallel], func(t *testing.T) {
			defer goleak.VerifyNone(t)

			mock := llm.NewMockLLMFunc(countingResponder())
			o := newTestOrchestrator(t, mock, parallel)

			req := DefaultRequest("remote work")
			req.AddHashtags = true
			req.Variations = 3

			result, err := o.Generate(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, result, 3)

			prompts := mock.Prompts()
			require.Len(t, prompts, 4)
			assert.True(t, isHashtagCall(prompts[0]), "hashtags must be resolved before any variation")

			hashtagCalls := 0
			for _, p := range prompts {
				if isHashtagCall(p) {
					hashtagCalls++
					continue
				}
				assert.Contains(t, p, "Include these hashtags: #a #b #c #d #e")
			}
			assert.Equal(t, 1, hashtagCalls)
		})
	}
}

func TestGenerate_HashtagFailureIsNotFatal(t *testing.T) {
	tests := []struct {
		name  string
		reply func() (string, error)
	}{
		{"error", func() (string, error) { return "", errors.New("quota exceeded") }},
		{"blank", func() (string, error) { return "  \n", nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockLLMFunc(func(p string) (string, error) {
				if isHashtagCall(p) {
					return tt.reply()
				}
				return "A post.", nil
			})
			o := newTestOrchestrator(t, mock, false)

			req := DefaultRequest("remote work")
			req.AddHashtags = true
			req.Variations = 2

			result, err := o.Generate(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, result, 2)
			for _, p := range mock.Prompts()[1:] {
				assert.NotContains(t, p, "Include these hashtags")
			}
		})
	}
}

func TestGenerate_NoEmojisMeansVerbatimOutput(t *testing.T) {
	raw := "  Raw model output, untouched!\n"
	mock := llm.NewMockLLM(raw)
	o := newTestOrchestrator(t, mock, false)

	req := DefaultRequest("remote work")
	req.Variations = 2

	result, err := o.Generate(context.Background(), req)
	require.NoError(t, err)
	for _, post := range result {
		assert.Equal(t, raw, post.Post)
	}
	for _, p := range mock.Prompts() {
		assert.False(t, isEmojiCall(p), "emoji step must not run")
		assert.NotContains(t, p, prompt.EmojiClause(true))
	}
	assert.Equal(t, 2, mock.Calls())
}

func TestGenerate_EmojisPerVariation(t *testing.T) {
	mock := llm.NewMockLLMFunc(countingResponder())
	o := newTestOrchestrator(t, mock, false)

	req := DefaultRequest("remote work")
	req.AddEmojis = true
	req.Variations = 2

	result, err := o.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result, 2)

	prompts := mock.Prompts()
	require.Len(t, prompts, 4)
	assert.Contains(t, prompts[0], prompt.EmojiClause(true))
	assert.True(t, isEmojiCall(prompts[1]))
	assert.Contains(t, prompts[1], "post 1.")
	assert.True(t, isEmojiCall(prompts[3]))
	assert.Contains(t, prompts[3], "post 2.")

	for _, post := range result {
		assert.Equal(t, "🚀 decorated", post.Post)
		assert.Equal(t, analysis.Analyze("🚀 decorated"), post.Analysis)
	}
}

func TestGenerate_UpstreamFailureAbortsRequest(t *testing.T) {
	boom := errors.New("503 service unavailable")
	tests := []struct {
		name       string
		failOnCall int
		emojis     bool
	}{
		{"first variation", 1, false},
		{"second variation", 2, false},
		{"emoji step", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &llm.MockLLM{Response: "A post.", Error: boom, FailOnCall: tt.failOnCall}
			o := newTestOrchestrator(t, mock, false)

			req := DefaultRequest("remote work")
			req.AddEmojis = tt.emojis
			req.Variations = 3

			result, err := o.Generate(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, result, "no partial results")
			assert.ErrorIs(t, err, ErrUpstreamFailure)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, tt.failOnCall, mock.Calls(), "no call after the failure")
		})
	}
}

func TestGenerate_ParallelFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("rate limited")
	mock := &llm.MockLLM{Response: "A post.", Error: boom, FailOnCall: 2}
	o := newTestOrchestrator(t, mock, true)

	req := DefaultRequest("remote work")
	req.Variations = 3

	result, err := o.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUpstreamFailure)
}

func TestGenerate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(t, llm.NewMockLLM("A post."), false)
	_, err := o.Generate(ctx, DefaultRequest("remote work"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_EndToEnd(t *testing.T) {
	// Stub echoes the length of the prompt it receives.
	stub := llm.NewMockLLMFunc(func(p string) (string, error) {
		return strconv.Itoa(len(p)), nil
	})
	o := newTestOrchestrator(t, stub, false)

	req := GenerationRequest{
		Prompt:      "remote work",
		Words:       100,
		Tone:        prompt.ToneFriendly,
		Template:    prompt.TemplateCasual,
		AddHashtags: false,
		AddEmojis:   false,
		Variations:  2,
	}

	result, err := o.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result, 2)

	prompts := stub.Prompts()
	require.Len(t, prompts, 2)
	assert.Equal(t, prompts[0], prompts[1], "both variations render identical prompts")

	expected, err := prompt.Render(prompt.TemplateCasual, prompt.Params{
		Topic: "remote work",
		Tone:  prompt.ToneFriendly,
		Words: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, expected, prompts[0])

	want := strconv.Itoa(len(expected))
	for _, post := range result {
		assert.Equal(t, want, post.Post)
		assert.Equal(t, analysis.PostAnalysis{
			WordCount:     1,
			CharCount:     len(want),
			SentenceCount: 0,
		}, post.Analysis)
	}
}
