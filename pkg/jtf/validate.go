package jtf

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/ukaji3/jtf-go/pkg/jtf/models"
	"github.com/ukaji3/jtf-go/pkg/jtf/target"
)

var (
	// indexPattern validates map keys at the data, table and row levels.
	indexPattern = regexp.MustCompile(`^[0-9]+$`)

	// versionPattern validates metadata "jtf" values (e.g. "v1.1.9").
	versionPattern = regexp.MustCompile(`^v[0-9]+(\.[0-9]+)+$`)

	documentKeys = []string{"data", "metadata", "style", "createdAt", "updatedAt"}
	tableKeys    = []string{"data", "label", "style"}
	metadataKeys = []string{"author", "title", "jtf", "extra", "css"}
	styleKeys    = []string{"type", "target", "data"}
)

// Validator checks decoded JSON values against the JTF grammar. It stops at
// the first violation and returns it as a *SchemaError.
//
// Values are expected in the shape produced by encoding/json decoding into
// any: map[string]any, []any, string, bool, nil and json.Number or float64.
type Validator struct {
	versions      []string
	checkFormulas bool
	logger        *slog.Logger
}

// NewValidator creates a validator for the given options.
func NewValidator(opts Options) *Validator {
	return &Validator{
		versions:      slices.Clone(opts.versions()),
		checkFormulas: opts.CheckFormulas,
		logger:        opts.logger(),
	}
}

// SupportedVersions returns the metadata "jtf" allow-list.
func (v *Validator) SupportedVersions() []string {
	return slices.Clone(v.versions)
}

// PreferredVersion returns the version stamped into unversioned documents.
func (v *Validator) PreferredVersion() string {
	return v.versions[0]
}

// ValidateDocument validates a whole document.
func (v *Validator) ValidateDocument(raw any) error {
	if raw == nil {
		return NewSchemaError("", "no data provided")
	}
	doc, err := asObject("", raw)
	if err != nil {
		return err
	}
	if err := checkKeys("", "document", doc, documentKeys); err != nil {
		return err
	}

	if err := v.validateData(doc["data"]); err != nil {
		return err
	}
	if style, ok := present(doc, "style"); ok {
		if err := v.validateStyle("style", style); err != nil {
			return err
		}
	}
	if metadata, ok := present(doc, "metadata"); ok {
		if err := v.validateMetadata("metadata", metadata); err != nil {
			return err
		}
	} else {
		v.warnMissingVersion("metadata.jtf")
	}
	for _, key := range []string{"createdAt", "updatedAt"} {
		if ts, ok := present(doc, key); ok {
			if err := validateTimestamp(key, ts); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateTable validates a single table object.
func (v *Validator) ValidateTable(raw any) error {
	return v.validateTable("", raw)
}

// ValidateCell validates a single cell value.
func (v *Validator) ValidateCell(raw any) error {
	_, err := v.cell("", raw)
	return err
}

// ValidateStyle validates a style rule array.
func (v *Validator) ValidateStyle(raw any) error {
	return v.validateStyle("", raw)
}

// ValidateMetadata validates a metadata object.
func (v *Validator) ValidateMetadata(raw any) error {
	return v.validateMetadata("", raw)
}

func (v *Validator) validateData(raw any) error {
	if raw == nil {
		return NewSchemaError("data", "no data object provided to document")
	}
	data, err := asObject("data", raw)
	if err != nil {
		return err
	}
	seen := make(map[int]string, len(data))
	for _, key := range sortedKeys(data) {
		path := joinPath("data", key)
		if err := uniqueIndex(path, key, seen); err != nil {
			return err
		}
		if err := v.validateTable(path, data[key]); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateTable(path string, raw any) error {
	table, err := asObject(path, raw)
	if err != nil {
		return err
	}
	if err := checkKeys(path, "table", table, tableKeys); err != nil {
		return err
	}

	label, ok := table["label"].(string)
	if !ok || label == "" {
		return NewSchemaError(joinPath(path, "label"), `each table must have a non-empty "label" string`)
	}

	dataPath := joinPath(path, "data")
	if table["data"] == nil {
		return NewSchemaError(dataPath, "no data object provided to table")
	}
	rows, err := asObject(dataPath, table["data"])
	if err != nil {
		return err
	}
	seen := make(map[int]string, len(rows))
	for _, key := range sortedKeys(rows) {
		rowPath := joinPath(dataPath, key)
		if err := uniqueIndex(rowPath, key, seen); err != nil {
			return err
		}
		if err := v.validateRow(rowPath, rows[key]); err != nil {
			return err
		}
	}

	if style, ok := present(table, "style"); ok {
		return v.validateStyle(joinPath(path, "style"), style)
	}
	return nil
}

func (v *Validator) validateRow(path string, raw any) error {
	row, err := asObject(path, raw)
	if err != nil {
		return err
	}
	seen := make(map[int]string, len(row))
	for _, key := range sortedKeys(row) {
		cellPath := joinPath(path, key)
		if err := uniqueIndex(cellPath, key, seen); err != nil {
			return err
		}
		if _, err := v.cell(cellPath, row[key]); err != nil {
			return err
		}
	}
	return nil
}

// cell converts raw into a Cell, applying the formula check when enabled.
func (v *Validator) cell(path string, raw any) (models.Cell, error) {
	c, err := models.CellFromValue(raw)
	if err != nil {
		return models.Cell{}, wrapSchemaError(path, err)
	}
	if s, ok := c.Str(); ok && v.checkFormulas && IsFormula(s) {
		if err := ValidateFormula(s); err != nil {
			return models.Cell{}, wrapSchemaError(path, err)
		}
	}
	return c, nil
}

func (v *Validator) validateMetadata(path string, raw any) error {
	metadata, err := asObject(path, raw)
	if err != nil {
		return err
	}
	if err := checkKeys(path, "metadata", metadata, metadataKeys); err != nil {
		return err
	}

	for _, key := range []string{"author", "title"} {
		if val, ok := present(metadata, key); ok {
			if _, isString := val.(string); !isString {
				return NewSchemaError(joinPath(path, key),
					fmt.Sprintf("expected type %q, got %s", "string", typeName(val)))
			}
		}
	}

	if jtf, ok := present(metadata, "jtf"); ok {
		if err := v.validateVersion(joinPath(path, "jtf"), jtf); err != nil {
			return err
		}
	} else {
		v.warnMissingVersion(joinPath(path, "jtf"))
	}

	if css, ok := present(metadata, "css"); ok {
		if err := validateCSS(joinPath(path, "css"), css); err != nil {
			return err
		}
	}

	if extra, ok := present(metadata, "extra"); ok {
		if err := v.validateExtra(joinPath(path, "extra"), extra); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateVersion(path string, raw any) error {
	version, ok := raw.(string)
	if !ok {
		return NewSchemaError(path, fmt.Sprintf("expected type %q, got %s", "string", typeName(raw)))
	}
	if !versionPattern.MatchString(version) {
		return NewSchemaError(path, fmt.Sprintf(`version not in valid format, expected "v0.0.0", got %q`, version))
	}
	if !slices.Contains(v.versions, version) {
		return NewSchemaError(path, fmt.Sprintf("JTF syntax version %q is not supported, supported versions: %s",
			version, quoteList(v.versions)))
	}
	return nil
}

func (v *Validator) warnMissingVersion(path string) {
	v.logger.Warn("JTF syntax version not provided in metadata, document compatibility unknown",
		"path", path,
		"suggested", v.PreferredVersion(),
	)
}

func validateCSS(path string, raw any) error {
	switch css := raw.(type) {
	case string:
		return nil
	case []any:
		for i, entry := range css {
			if _, ok := entry.(string); !ok {
				return NewSchemaError(indexPath(path, i), "css array must contain only strings")
			}
		}
		return nil
	default:
		return NewSchemaError(path, "css must be a string or an array of strings")
	}
}

func (v *Validator) validateExtra(path string, raw any) error {
	extra, ok := raw.([]any)
	if !ok {
		return NewSchemaError(path, fmt.Sprintf("expected an array of processor data, got %s", typeName(raw)))
	}
	for i, entry := range extra {
		entryPath := indexPath(path, i)
		data, err := asObject(entryPath, entry)
		if err != nil {
			return err
		}
		if processor, ok := data[models.ProcessorKey].(string); !ok || processor == "" {
			return NewSchemaError(joinPath(entryPath, models.ProcessorKey),
				`processor data requires a "processor" key with a non-empty string value`)
		}
	}
	v.logger.Debug("Extra processor data detected in document, no action is required",
		"path", path,
		"processors", len(extra),
	)
	return nil
}

func (v *Validator) validateStyle(path string, raw any) error {
	rules, ok := raw.([]any)
	if !ok {
		return NewSchemaError(path, fmt.Sprintf("expected an array, got %s", typeName(raw)))
	}
	for i, entry := range rules {
		rulePath := indexPath(path, i)
		rule, err := asObject(rulePath, entry)
		if err != nil {
			return err
		}
		if err := checkKeys(rulePath, "style definition", rule, styleKeys); err != nil {
			return err
		}

		ruleType, _ := rule["type"].(string)
		if !models.RuleType(ruleType).Valid() {
			return NewSchemaError(joinPath(rulePath, "type"),
				fmt.Sprintf("invalid style definition type, must be one of: %s",
					quoteList([]string{string(models.RuleClass), string(models.RuleStyle)})))
		}

		if _, err := target.Parse(rule["target"]); err != nil {
			return wrapSchemaError(joinPath(rulePath, "target"), err)
		}

		if data, ok := rule["data"].(string); !ok || data == "" {
			return NewSchemaError(joinPath(rulePath, "data"), `style definition "data" must be a non-empty string`)
		}
	}
	return nil
}

func validateTimestamp(path string, raw any) error {
	s, ok := raw.(string)
	if !ok {
		return NewSchemaError(path, fmt.Sprintf("expected type %q, got %s", "string", typeName(raw)))
	}
	if _, err := ParseTimestamp(s); err != nil {
		return wrapSchemaError(path, err)
	}
	return nil
}

// ParseIndex parses a map key that must be a non-negative integer string.
func ParseIndex(path, key string) (int, error) {
	if !indexPattern.MatchString(key) {
		return 0, NewSchemaError(path,
			fmt.Sprintf("each key must be a string containing a non-negative integer, %q is invalid", key))
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, NewSchemaError(path, fmt.Sprintf("index %q is out of range", key))
	}
	return n, nil
}

// uniqueIndex parses key and rejects it when another key of the same object
// names the same index, such as "1" and "01".
func uniqueIndex(path, key string, seen map[int]string) error {
	n, err := ParseIndex(path, key)
	if err != nil {
		return err
	}
	if other, dup := seen[n]; dup {
		return NewSchemaError(path, fmt.Sprintf("index %q duplicates %q", key, other))
	}
	seen[n] = key
	return nil
}

func asObject(path string, raw any) (map[string]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, NewSchemaError(path, fmt.Sprintf("expected a plain object, got %s", typeName(raw)))
	}
	return obj, nil
}

func checkKeys(path, what string, obj map[string]any, allowed []string) error {
	for _, key := range sortedKeys(obj) {
		if !slices.Contains(allowed, key) {
			return NewSchemaError(joinPath(path, key),
				fmt.Sprintf("invalid key %q provided to %s, expected one of: %s", key, what, quoteList(allowed)))
		}
	}
	return nil
}

// present returns obj[key] when the key exists and is not null.
func present(obj map[string]any, key string) (any, bool) {
	val, ok := obj[key]
	return val, ok && val != nil
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return `"null"`
	case []any:
		return `"array"`
	case map[string]any:
		return `"object"`
	case string:
		return `"string"`
	case bool:
		return `"boolean"`
	default:
		if _, err := models.CellFromValue(v); err == nil {
			return `"number"`
		}
		return fmt.Sprintf("%q", fmt.Sprintf("%T", v))
	}
}
