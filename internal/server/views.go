package server

import (
	"context"
	"html/template"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/Yates-Labs/linkforge/internal/analysis"
	"github.com/Yates-Labs/linkforge/internal/prompt"
)

// SelectOption is one entry of a form select.
type SelectOption struct {
	Value    string
	Selected bool
}

// PostView is a rendered variation.
type PostView struct {
	Number   int
	HTML     template.HTML
	Raw      string
	Analysis analysis.PostAnalysis
}

// FormState is everything the form page renders.
type FormState struct {
	CSRF       string
	Prompt     string
	Words      int
	Tone       prompt.Tone
	Template   prompt.Template
	Variations int
	Hashtags   bool
	Emojis     bool

	Error   string
	Results []PostView
}

// ToneOptions returns the decorated tone labels with the current one selected.
func (f FormState) ToneOptions() []SelectOption {
	out := make([]SelectOption, 0, len(prompt.Tones()))
	for _, t := range prompt.Tones() {
		out = append(out, SelectOption{Value: t.Label(), Selected: t == f.Tone})
	}
	return out
}

// TemplateOptions returns the decorated template labels.
func (f FormState) TemplateOptions() []SelectOption {
	out := make([]SelectOption, 0, len(prompt.Templates()))
	for _, t := range prompt.Templates() {
		out = append(out, SelectOption{Value: t.Label(), Selected: t == f.Template})
	}
	return out
}

// VariationOptions returns 1..max.
func (f FormState) VariationOptions(limit int) []SelectOption {
	out := make([]SelectOption, 0, limit)
	for i := 1; i <= limit; i++ {
		out = append(out, SelectOption{Value: strconv.Itoa(i), Selected: i == f.Variations})
	}
	return out
}

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := layoutTmpl.ExecuteTemplate(w, "head", title); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return layoutTmpl.ExecuteTemplate(w, "foot", nil)
	})
}

// GeneratorForm renders the input form.
func GeneratorForm(state FormState, maxVariations int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return formTmpl.Execute(w, struct {
			FormState
			MaxVariations int
		}{state, maxVariations})
	})
}

// Results renders the generated variations, or the inline error.
func Results(state FormState) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return resultsTmpl.Execute(w, state)
	})
}

// FormPage is the full generator page.
func FormPage(state FormState, maxVariations int) templ.Component {
	return Layout("LinkedIn Post Generator", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := GeneratorForm(state, maxVariations).Render(ctx, w); err != nil {
			return err
		}
		return Results(state).Render(ctx, w)
	}))
}

var layoutTmpl = template.Must(template.New("layout").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; color: #1d2226; }
label { display: block; margin-top: 1rem; font-weight: 600; }
textarea, select, input[type=number] { width: 100%; padding: .5rem; margin-top: .25rem; }
.checks label { display: inline-block; font-weight: normal; margin-right: 1rem; }
button { margin-top: 1.5rem; padding: .6rem 1.4rem; background: #0a66c2; color: #fff; border: 0; border-radius: 4px; }
.error { background: #fde7e9; border: 1px solid #e0245e; padding: .75rem; margin-top: 1.5rem; }
.post { border: 1px solid #dce6f1; border-radius: 6px; padding: 1rem; margin-top: 1.5rem; }
.metrics { display: flex; gap: 2rem; color: #56687a; font-size: .9rem; }
</style>
</head>
<body>
<h1>LinkedIn Post Generator</h1>
{{end}}
{{define "foot"}}
</body>
</html>
{{end}}`))

var formTmpl = template.Must(template.New("form").Parse(`
<form method="post" action="/">
<input type="hidden" name="_csrf" value="{{.CSRF}}">
<label for="prompt">What do you want to post about?</label>
<textarea id="prompt" name="prompt" rows="4" placeholder="Enter a topic or idea">{{.Prompt}}</textarea>

<label for="words">Word count</label>
<input type="number" id="words" name="words" min="50" max="500" step="10" value="{{.Words}}">

<label for="tone">Tone</label>
<select id="tone" name="tone">
{{range .ToneOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{end}}</select>

<label for="template">Template</label>
<select id="template" name="template">
{{range .TemplateOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{end}}</select>

<label for="variations">Variations</label>
<select id="variations" name="variations">
{{range .VariationOptions .MaxVariations}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{end}}</select>

<div class="checks">
<label><input type="checkbox" name="add_hashtags" value="on"{{if .Hashtags}} checked{{end}}> Add hashtags</label>
<label><input type="checkbox" name="add_emojis" value="on"{{if .Emojis}} checked{{end}}> Add emojis</label>
</div>

<button type="submit">Generate</button>
</form>
`))

var resultsTmpl = template.Must(template.New("results").Parse(`
{{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}
{{range .Results}}
<section class="post">
<h2>Variation {{.Number}}</h2>
<div class="post-body">{{.HTML}}</div>
<div class="metrics">
<span>Words: {{.Analysis.WordCount}}</span>
<span>Characters: {{.Analysis.CharCount}}</span>
<span>Sentences: {{.Analysis.SentenceCount}}</span>
</div>
</section>
{{end}}
`))
