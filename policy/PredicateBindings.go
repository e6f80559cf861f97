package policy

import (
	"embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed data/bindings.yaml data/conventions.txt
var policyFS embed.FS

// PredicateBinding maps rule text onto the predicate that mechanically
// checks it. Rules matching no binding are reported as not mechanically
// checkable rather than dropped.
type PredicateBinding struct {
	Predicate string `yaml:"predicate"`
	Match     string `yaml:"match"`
	regex     *regexp.Regexp
}

type bindingsFile struct {
	Bindings []PredicateBinding `yaml:"bindings"`
}

// LoadBindings reads the embedded bindings table and compiles its patterns.
func LoadBindings() ([]PredicateBinding, error) {
	content, err := policyFS.ReadFile("data/bindings.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded bindings: %w", err)
	}

	var parsed bindingsFile
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bindings: %w", err)
	}

	for i := range parsed.Bindings {
		re, err := regexp.Compile(parsed.Bindings[i].Match)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for predicate '%s': %w", parsed.Bindings[i].Predicate, err)
		}
		parsed.Bindings[i].regex = re
	}

	return parsed.Bindings, nil
}

// DefaultDocument returns the policy document shipped with the tool, used
// when no --policy flag is given.
func DefaultDocument() string {
	content, err := policyFS.ReadFile("data/conventions.txt")
	if err != nil {
		// The file is embedded at build time; missing it is a packaging bug.
		panic(fmt.Sprintf("embedded default policy missing: %v", err))
	}
	return string(content)
}

func matchPredicate(text string, bindings []PredicateBinding) string {
	for _, binding := range bindings {
		if binding.regex != nil && binding.regex.MatchString(text) {
			return binding.Predicate
		}
	}
	return ""
}
