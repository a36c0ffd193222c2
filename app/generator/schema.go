package generator

import (
	"bytes"
	"embed"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	planSchema   = "plan.json"
	replanSchema = "replan.json"
)

func compileSchema(name string) (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read schema", goerr.V("name", name))
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse schema", goerr.V("name", name))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to add schema", goerr.V("name", name))
	}
	sch, err := c.Compile(name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile schema", goerr.V("name", name))
	}
	return sch, nil
}

// decodeReply extracts the JSON object from reply, checks it against sch and
// decodes it into v.
func decodeReply(reply string, sch *jsonschema.Schema, v any) error {
	raw := extractJSON(reply)

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return generationError(err, "reply is not JSON", goerr.V("reply", truncate(reply, 200)))
	}
	if err := sch.Validate(inst); err != nil {
		return generationError(err, "reply does not match schema", goerr.V("schema", sch.Location))
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return generationError(err, "failed to decode reply")
	}
	return nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
