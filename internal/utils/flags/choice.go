package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderOpenConstant      = "<"
	choicePlaceholderCloseConstant     = ">"
	choiceSeparatorConstant            = "|"
	choiceUsageBareTemplateConstant    = "`%s`"
	choiceUsageWithDescriptionTemplate = "`%s` %s"
)

// FormatChoiceUsage renders a flag usage string listing every accepted choice,
// with the default choice upper-cased inside the placeholder.
func FormatChoiceUsage(defaultChoice string, availableChoices []string, usageDescription string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))

	displayChoices := make([]string, 0, len(availableChoices))
	seenChoices := make(map[string]struct{}, len(availableChoices))
	for _, availableChoice := range availableChoices {
		trimmedChoice := strings.TrimSpace(availableChoice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, alreadyListed := seenChoices[normalizedChoice]; alreadyListed {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		displayChoices = append(displayChoices, trimmedChoice)
	}

	placeholder := choicePlaceholderOpenConstant + strings.Join(displayChoices, choiceSeparatorConstant) + choicePlaceholderCloseConstant

	trimmedDescription := strings.TrimSpace(usageDescription)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageBareTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageWithDescriptionTemplate, placeholder, trimmedDescription)
}
