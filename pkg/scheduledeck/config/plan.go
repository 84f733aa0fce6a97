package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

//go:embed plan.schema.json
var planSchemaJSON []byte

var planSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("plan.schema.json", bytes.NewReader(planSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("plan.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// ParsePlan validates data against the plan schema and decodes it.
// Crop rectangles are normalized.
func ParsePlan(data []byte) (models.Plan, error) {
	schema, err := planSchema()
	if err != nil {
		return models.Plan{}, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return models.Plan{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return models.Plan{}, fmt.Errorf("plan does not match schema: %w", err)
	}

	var plan models.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	for i := range plan.Scenes {
		if c := plan.Scenes[i].Crop; c != nil {
			n := c.Normalized()
			plan.Scenes[i].Crop = &n
		}
	}
	return plan, nil
}

// LoadPlan reads and parses a plan file.
func LoadPlan(path string) (models.Plan, error) {
	data, err := readJSONFile(path)
	if err != nil {
		return models.Plan{}, err
	}
	return ParsePlan(data)
}

// MarshalPlan encodes plan as indented JSON accepted by ParsePlan.
func MarshalPlan(plan models.Plan) ([]byte, error) {
	if plan.Scenes == nil {
		plan.Scenes = []models.ScenePlan{}
	}
	return json.MarshalIndent(plan, "", "  ")
}
