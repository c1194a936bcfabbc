package formatters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"resumeready/internal/analysis"
	"resumeready/internal/extract"
	"resumeready/internal/rules"
	"resumeready/internal/tailoring"

	"gopkg.in/yaml.v3"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// Data type keys used by the registry.
const (
	TypeAny        = "any"
	TypePlan       = "Plan"
	TypeScorecard  = "Scorecard"
	TypeReport     = "Report"
	TypeExtraction = "Extraction"
	TypeRules      = "RuleEvaluations"
)

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", TypeAny, &JSONFormatter{})
	registry.RegisterFormatter("yaml", TypeAny, &YAMLFormatter{})
	registry.RegisterFormatter("text", TypePlan, &PlanTextFormatter{})
	registry.RegisterFormatter("markdown", TypePlan, &PlanMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeScorecard, &ScorecardTextFormatter{})
	registry.RegisterFormatter("markdown", TypeScorecard, &ScorecardMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeReport, &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", TypeReport, &ReportMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeExtraction, &ExtractionTextFormatter{})
	registry.RegisterFormatter("markdown", TypeExtraction, &ExtractionMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeRules, &RulesTextFormatter{})
	registry.RegisterFormatter("markdown", TypeRules, &RulesMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters[TypeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *tailoring.Plan:
		return TypePlan
	case *tailoring.Scorecard:
		return TypeScorecard
	case *analysis.Report:
		return TypeReport
	case *extract.Result:
		return TypeExtraction
	case []rules.RuleEvaluation:
		return TypeRules
	default:
		return TypeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return TypeAny
}

// YAMLFormatter renders any data type as block-style YAML. Field names and
// omission follow the JSON encoding so both formats show the same document.
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(jsonData, &node); err != nil {
		return "", fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return TypeAny
}

// blockStyle clears the flow and quoting styles the JSON input carries; the
// encoder re-quotes scalars that would otherwise change type.
func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		if len(n.Content) > 0 {
			n.Style &^= yaml.FlowStyle
		}
	case yaml.ScalarNode:
		n.Style &^= yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
