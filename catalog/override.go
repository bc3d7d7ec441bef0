package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// overrideSchema constrains catalog override documents. Overrides arrive
// out of band (newer schema data from the documentation service) and are
// rejected before they can corrupt the catalog.
const overrideSchema = `
#ParamKind: "string" | "number" | "bool" | "list" | "map"

#Override: close({
	Enums?: [string]: [...string]
	AdapterTypes?: [string]: close({
		Description?: string
		DefaultPort?: int & >=0 & <=65535
	})
	TargetTypes?: [string]: close({
		Description?: string
		Streaming?:   bool
		Required?: [string]: #ParamKind
		Optional?: [string]: #ParamKind
	})
})
`

type overrideAdapter struct {
	Description string `json:"Description"`
	DefaultPort int    `json:"DefaultPort"`
}

type overrideShape struct {
	Description string               `json:"Description"`
	Streaming   bool                 `json:"Streaming"`
	Required    map[string]ParamKind `json:"Required"`
	Optional    map[string]ParamKind `json:"Optional"`
}

type overrideDoc struct {
	Enums        map[string][]string        `json:"Enums"`
	AdapterTypes map[string]overrideAdapter `json:"AdapterTypes"`
	TargetTypes  map[string]overrideShape   `json:"TargetTypes"`
}

// WithOverride returns a new catalog with the override document applied.
// The receiver is never modified. The override must be a JSON document
// matching the override schema; enum domains are replaced wholesale,
// adapter and target type entries are upserted.
func (c *Catalog) WithOverride(raw []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("override document is empty")
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode override document: %w", err)
	}

	if err := validateOverride(generic); err != nil {
		return nil, err
	}

	var doc overrideDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode override document: %w", err)
	}

	merged := c.clone()
	for domain, values := range doc.Enums {
		merged.enums[domain] = enumSet(values...)
	}
	for name, adapter := range doc.AdapterTypes {
		merged.adapters[name] = AdapterInfo{
			Description: adapter.Description,
			DefaultPort: adapter.DefaultPort,
		}
	}
	for name, shape := range doc.TargetTypes {
		params := make(map[string]ParamSpec, len(shape.Required)+len(shape.Optional))
		for param, kind := range shape.Optional {
			params[param] = ParamSpec{Name: param, Kind: kind}
		}
		for param, kind := range shape.Required {
			params[param] = ParamSpec{Name: param, Kind: kind, Required: true}
		}
		merged.targets[name] = TargetShape{
			Description: shape.Description,
			Streaming:   shape.Streaming,
			Params:      params,
		}
	}
	return merged, nil
}

func validateOverride(doc interface{}) error {
	ctx := cuecontext.New()
	compiled := ctx.CompileString(overrideSchema)
	if err := compiled.Err(); err != nil {
		return fmt.Errorf("compile override schema: %w", err)
	}
	def := compiled.LookupPath(cue.ParsePath("#Override"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("resolve override schema: %w", err)
	}
	data := ctx.Encode(doc)
	if err := data.Err(); err != nil {
		return fmt.Errorf("encode override document: %w", err)
	}
	if err := def.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("override document rejected: %w", err)
	}
	return nil
}
