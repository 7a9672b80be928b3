package schema

import (
	"fmt"
	"sort"
)

const (
	ContractGenerate = "generate"
	ContractExport   = "export"
)

type Contract struct {
	Name   string
	Schema string
}

var contractsRegistry = map[string]Contract{
	ContractGenerate: {
		Name:   ContractGenerate,
		Schema: generateRequestSchema,
	},
	ContractExport: {
		Name:   ContractExport,
		Schema: exportRequestSchema,
	},
}

// AvailableContracts returns a sorted list of supported contract names.
func AvailableContracts() []string {
	names := make([]string, 0, len(contractsRegistry))
	for name := range contractsRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasContract reports whether contract is registered.
func HasContract(name string) bool {
	_, ok := contractsRegistry[name]
	return ok
}

func lookup(name string) (Contract, error) {
	contract, ok := contractsRegistry[name]
	if !ok {
		return Contract{}, fmt.Errorf("unknown contract: %s", name)
	}
	return contract, nil
}

// generateRequestSchema only pins down what the handler cannot work without:
// businesses must be a list of objects. type, sender_role and demo_site are
// coerced to text later.
const generateRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["businesses"],
  "properties": {
    "businesses": {
      "type": "array",
      "items": {"type": "object"}
    }
  }
}`

const exportRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["rows"],
  "properties": {
    "rows": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "object"}
    }
  }
}`
