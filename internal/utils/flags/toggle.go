package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValueConstant       = "true"
	toggleFalseCanonicalValueConstant      = "false"
	toggleValueTypeNameConstant            = "bool"
	toggleParseErrorTemplateConstant       = "invalid toggle value %q"
	toggleUsagePlaceholderDefaultYes       = "<YES|no>"
	toggleUsagePlaceholderDefaultNo        = "<yes|NO>"
	toggleUsageBareTemplateConstant        = "`%s`"
	toggleUsageDescriptionTemplateConstant = "`%s` %s"
	longFlagPrefixConstant                 = "--"
	shortFlagPrefixConstant                = "-"
	flagValueSeparatorConstant             = "="
	argumentTerminatorConstant             = "--"
)

var (
	affirmativeToggleLiterals = []string{toggleTrueCanonicalValueConstant, "yes", "on", "1", "t", "y"}
	negativeToggleLiterals    = []string{toggleFalseCanonicalValueConstant, "no", "off", "0", "f", "n"}

	registeredToggleMutex      sync.RWMutex
	registeredToggleNames      = map[string]struct{}{}
	registeredToggleShorthands = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag accepting yes/no style literals in
// addition to true/false. Supplying the flag without a value selects true.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, flagName string, flagShorthand string, defaultValue bool, usageDescription string) {
	if flagSet == nil || len(flagName) == 0 {
		return
	}

	toggleValue := newToggleValue(defaultValue, target)
	if len(flagShorthand) > 0 {
		flagSet.VarP(toggleValue, flagName, flagShorthand, usageDescription)
	} else {
		flagSet.Var(toggleValue, flagName, usageDescription)
	}

	registeredFlag := flagSet.Lookup(flagName)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValueConstant
	registeredFlag.Usage = formatToggleUsage(usageDescription, defaultValue)

	registeredToggleMutex.Lock()
	registeredToggleNames[flagName] = struct{}{}
	if len(flagShorthand) > 0 {
		registeredToggleShorthands[flagShorthand] = struct{}{}
	}
	registeredToggleMutex.Unlock()
}

// NormalizeToggleArguments rewrites space-separated toggle values into the
// "--flag=value" form pflag expects from flags carrying NoOptDefVal. Arguments
// after the bare terminator pass through untouched.
func NormalizeToggleArguments(commandArguments []string) []string {
	if len(commandArguments) == 0 {
		return nil
	}

	normalizedArguments := make([]string, 0, len(commandArguments))
	argumentIndex := 0
	for argumentIndex < len(commandArguments) {
		currentArgument := commandArguments[argumentIndex]
		if currentArgument == argumentTerminatorConstant {
			normalizedArguments = append(normalizedArguments, commandArguments[argumentIndex:]...)
			break
		}

		flagIdentifier, identifierIsToggle := toggleIdentifier(currentArgument)
		if !identifierIsToggle || len(flagIdentifier) == 0 {
			normalizedArguments = append(normalizedArguments, currentArgument)
			argumentIndex++
			continue
		}

		if strings.Contains(currentArgument, flagValueSeparatorConstant) || argumentIndex+1 >= len(commandArguments) {
			normalizedArguments = append(normalizedArguments, currentArgument)
			argumentIndex++
			continue
		}

		followingArgument := commandArguments[argumentIndex+1]
		if strings.HasPrefix(followingArgument, shortFlagPrefixConstant) {
			normalizedArguments = append(normalizedArguments, currentArgument)
			argumentIndex++
			continue
		}

		normalizedArguments = append(normalizedArguments, currentArgument+flagValueSeparatorConstant+followingArgument)
		argumentIndex += 2
	}

	return normalizedArguments
}

// toggleIdentifier extracts the flag name or shorthand from an argument and
// reports whether a toggle was registered under it.
func toggleIdentifier(argument string) (string, bool) {
	var identifier string
	var lookupSet map[string]struct{}

	switch {
	case strings.HasPrefix(argument, longFlagPrefixConstant):
		identifier = strings.TrimPrefix(argument, longFlagPrefixConstant)
		lookupSet = registeredToggleNames
	case strings.HasPrefix(argument, shortFlagPrefixConstant):
		identifier = strings.TrimPrefix(argument, shortFlagPrefixConstant)
		lookupSet = registeredToggleShorthands
	default:
		return "", false
	}

	if separatorIndex := strings.Index(identifier, flagValueSeparatorConstant); separatorIndex >= 0 {
		identifier = identifier[:separatorIndex]
	}
	if len(identifier) == 0 {
		return "", false
	}
	if lookupSet == nil {
		return "", false
	}
	// Shorthands are single characters; anything longer after one dash is a
	// combined short-flag cluster this rewrite does not touch.
	if !strings.HasPrefix(argument, longFlagPrefixConstant) && len(identifier) != 1 {
		return "", false
	}

	registeredToggleMutex.RLock()
	defer registeredToggleMutex.RUnlock()
	_, registered := lookupSet[identifier]
	return identifier, registered
}

func formatToggleUsage(usageDescription string, defaultValue bool) string {
	placeholder := toggleUsagePlaceholderDefaultNo
	if defaultValue {
		placeholder = toggleUsagePlaceholderDefaultYes
	}

	trimmedDescription := strings.TrimSpace(usageDescription)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(toggleUsageBareTemplateConstant, placeholder)
	}
	return fmt.Sprintf(toggleUsageDescriptionTemplateConstant, placeholder, trimmedDescription)
}

type toggleValue struct {
	currentValue bool
	target       *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{currentValue: defaultValue, target: target}
}

// Set parses a toggle literal; an empty value selects true so bare flag usage
// behaves like an affirmation.
func (value *toggleValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		normalizedValue = toggleTrueCanonicalValueConstant
	}

	for _, affirmativeLiteral := range affirmativeToggleLiterals {
		if normalizedValue == affirmativeLiteral {
			value.assign(true)
			return nil
		}
	}
	for _, negativeLiteral := range negativeToggleLiterals {
		if normalizedValue == negativeLiteral {
			value.assign(false)
			return nil
		}
	}

	return fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
}

func (value *toggleValue) assign(parsedValue bool) {
	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
}

func (value *toggleValue) String() string {
	if value != nil && value.currentValue {
		return toggleTrueCanonicalValueConstant
	}
	return toggleFalseCanonicalValueConstant
}

func (value *toggleValue) Type() string {
	return toggleValueTypeNameConstant
}
