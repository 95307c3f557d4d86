package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiled sync.Map // schema name -> *jsonschema.Schema

// finish checks a provider response: truncated output is an error, and
// output for a schema request must be JSON matching the schema.
func finish(req Request, resp *Response) error {
	if resp.StopReason == StopMaxTokens {
		return &Error{Kind: KindTruncated, Content: resp.Content}
	}
	if req.Schema == nil {
		return nil
	}
	return validate(req.Schema, resp.Content)
}

func validate(s *Schema, raw json.RawMessage) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalidOutput(raw, fmt.Errorf("decode output: %w", err))
	}
	sch, err := compile(s)
	if err != nil {
		return invalidOutput(raw, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalidOutput(raw, err)
	}
	return nil
}

func compile(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}
	// Round-trip so the compiler sees plain JSON values.
	b, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", s.Name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", s.Name, err)
	}
	url := "mem://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	compiled.Store(s.Name, sch)
	return sch, nil
}
