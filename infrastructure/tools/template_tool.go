package tools

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/ahrav/go-multitool/internal/domain"
)

// TemplateConfig configures the template tool.
type TemplateConfig struct {
	// Template is a text/template source rendered on every call.
	Template string `yaml:"template" json:"template" validate:"required"`
}

// TemplateData is the value a template is executed against.
type TemplateData struct {
	// Args are the tool's positional arguments in InProps order.
	Args []any
	// Params are the tool's custom parameters.
	Params domain.Params
}

// parsed caches compiled templates by source text.
var parsed sync.Map

// NewTemplateTool creates a tool that renders a text/template into
// "text". It reads no props until customized with in_props; the values
// read are available to the template as .Args.
//
// The template is parsed when the tool is created, so syntax errors are
// reported at build time.
func NewTemplateTool(name string, params map[string]any) (domain.Tool, error) {
	var cfg TemplateConfig
	if err := decodeParams(params, &cfg, true); err != nil {
		return domain.Tool{}, err
	}
	if _, err := compileTemplate(cfg.Template); err != nil {
		return domain.Tool{}, err
	}

	tool, err := newTool(name, params, nil, []string{"text"}, templateHook)
	if err != nil {
		return domain.Tool{}, err
	}
	// Any number of inputs is accepted.
	tool.Signature = nil
	return tool, nil
}

func templateHook(args []any, params domain.Params) ([]any, error) {
	var cfg TemplateConfig
	if err := decodeParams(params, &cfg, false); err != nil {
		return nil, err
	}

	tmpl, err := compileTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, TemplateData{Args: args, Params: params}); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	return []any{buf.String()}, nil
}

// CheckTemplate reports whether src parses as a tool template.
func CheckTemplate(src string) error {
	_, err := compileTemplate(src)
	return err
}

func compileTemplate(src string) (*template.Template, error) {
	if t, ok := parsed.Load(src); ok {
		return t.(*template.Template), nil
	}

	t, err := template.New("tool").Funcs(FuncMap()).Option("missingkey=zero").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	actual, _ := parsed.LoadOrStore(src, t)
	return actual.(*template.Template), nil
}
