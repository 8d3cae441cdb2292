package manifest

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/requirements.schema.json
var requirementsSchemaBytes []byte

//go:embed schema/confirmations.schema.json
var confirmationsSchemaBytes []byte

var (
	requirementsSchema  = &lazySchema{name: "requirements.schema.json", raw: requirementsSchemaBytes}
	confirmationsSchema = &lazySchema{name: "confirmations.schema.json", raw: confirmationsSchemaBytes}
	printer             = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// Error joins the issues into one line, for logging.
func (r *ValidationResult) Error() string {
	parts := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		if issue.Path == "" {
			parts[i] = issue.Message
			continue
		}
		parts[i] = issue.Path + ": " + issue.Message
	}
	return strings.Join(parts, "; ")
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/0", "/less")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

// lazySchema compiles an embedded schema on first use.
type lazySchema struct {
	name string
	raw  []byte

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

func (l *lazySchema) get() (*jsonschema.Schema, error) {
	l.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(l.raw))
		if err != nil {
			l.err = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(l.name, doc); err != nil {
			l.err = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		l.compiled, l.err = c.Compile(l.name)
		if l.err != nil {
			l.err = fmt.Errorf("compiling schema: %w", l.err)
		}
	})
	return l.compiled, l.err
}

// ValidateRequirements validates a raw extra.<key> JSON value against the
// requirement block schema. The error return is for schema or JSON decoding
// failures; validation issues are returned in the ValidationResult.
func ValidateRequirements(raw []byte) (*ValidationResult, error) {
	return validate(requirementsSchema, raw)
}

// ValidateConfirmations validates a raw confirmation block.
func ValidateConfirmations(raw []byte) (*ValidationResult, error) {
	return validate(confirmationsSchema, raw)
}

func validate(ls *lazySchema, raw []byte) (*ValidationResult, error) {
	schema, err := ls.get()
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", ls.name, err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
// oneOf branches are walked so the specific failures are reported instead of
// a bare "oneOf failed".
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		msg := ""
		if ve.ErrorKind != nil {
			if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords carry no detail of their own.
		if keyword == "oneOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
