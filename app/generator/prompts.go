package generator

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"

	"goal-planner/app/engine"
	"goal-planner/app/models"
)

//go:embed templates/system.md
var systemPrompt string

//go:embed templates/plan.md
var planPromptTemplate string

//go:embed templates/replan.md
var replanPromptTemplate string

//go:embed templates/explain.md
var explainPromptTemplate string

//go:embed templates/motivate.md
var motivatePromptTemplate string

var (
	planTmpl     = template.Must(template.New("plan").Parse(planPromptTemplate))
	replanTmpl   = template.Must(template.New("replan").Parse(replanPromptTemplate))
	explainTmpl  = template.Must(template.New("explain").Parse(explainPromptTemplate))
	motivateTmpl = template.Must(template.New("motivate").Parse(motivatePromptTemplate))
)

type planTemplateData struct {
	Goal       models.GoalInput
	Categories string
}

type replanTemplateData struct {
	models.ReplanContext
	Categories string
}

type explainTemplateData struct {
	Goal models.GoalInput
	Task models.FlatTask
}

type motivateTemplateData struct {
	Goal     models.GoalInput
	Progress *engine.Progress
}

func categoryList() string {
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func render(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", goerr.Wrap(err, "failed to render prompt", goerr.V("template", tmpl.Name()))
	}
	return b.String(), nil
}
