package schema

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedJSON is returned when the document is not JSON at all.
var ErrMalformedJSON = errors.New("malformed JSON body")

// ValidationResult carries validation details.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

func compileAll() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema, len(contractsRegistry))
		for name, contract := range contractsRegistry {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(contract.Schema))
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

// Validate checks a request body against a registered contract. A non-nil
// error means the body could not be checked at all (unknown contract,
// malformed JSON); schema violations are reported in the result.
func Validate(contractName string, body []byte) (ValidationResult, error) {
	result := ValidationResult{}

	if _, err := lookup(contractName); err != nil {
		return result, err
	}
	if !gjson.ValidBytes(body) {
		return result, ErrMalformedJSON
	}

	schemas, err := compileAll()
	if err != nil {
		return result, err
	}

	res, err := schemas[contractName].Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	for _, desc := range res.Errors() {
		result.Errors = append(result.Errors, desc.String())
	}
	result.IsValid = res.Valid()
	return result, nil
}
