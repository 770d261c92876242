package gitenv

import "strings"

const (
	terminalPromptVariableNameConstant  = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant = "0"
	httpUserAgentVariableNameConstant   = "GIT_HTTP_USER_AGENT"
	traceVariableFamilyPrefixConstant   = "GIT_TRACE"
	configurationKeyDotConstant         = "."
	configurationKeySpaceConstant       = " "
	configurationKeyUnderscoreConstant  = "_"
)

var configurationKeyReplacer = strings.NewReplacer(
	configurationKeyDotConstant, configurationKeyUnderscoreConstant,
	configurationKeySpaceConstant, configurationKeyUnderscoreConstant,
)

// Sanitizer composes child-process environment maps from ambient configuration.
type Sanitizer struct{}

// NewSanitizer constructs a Sanitizer instance.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Build assembles the child environment: the fixed prompt-disabling base, the
// composed user agent when available, then every configuration variable under
// its transformed key. Keys in the GIT_TRACE family are dropped entirely and
// duplicate transformed keys resolve to last write wins.
func (sanitizer *Sanitizer) Build(configurationVariables map[string]string, userAgent string) map[string]string {
	environmentVariables := map[string]string{
		terminalPromptVariableNameConstant: terminalPromptDisabledValueConstant,
	}

	if len(strings.TrimSpace(userAgent)) > 0 {
		environmentVariables[httpUserAgentVariableNameConstant] = userAgent
	}

	for configurationKey, configurationValue := range configurationVariables {
		transformedKey := TransformConfigurationKey(configurationKey)
		if len(transformedKey) == 0 {
			continue
		}
		if strings.HasPrefix(transformedKey, traceVariableFamilyPrefixConstant) {
			continue
		}
		environmentVariables[transformedKey] = configurationValue
	}

	return environmentVariables
}

// TransformConfigurationKey normalizes a configuration variable name into an
// environment key by replacing dots and spaces with underscores and
// upper-casing the result.
func TransformConfigurationKey(configurationKey string) string {
	return strings.ToUpper(configurationKeyReplacer.Replace(configurationKey))
}
