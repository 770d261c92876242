package gitoutput

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/temirov/gitgate/internal/gitversion"
)

const (
	versionPatternConstant            = `\d+\.\d+(\.\d+)?`
	versionComponentSeparatorConstant = "."
	expectedOutputLineCountConstant   = 1
)

var versionPattern = regexp.MustCompile(versionPatternConstant)

// ExtractVersion parses a probed version from captured output. The output must
// reduce to exactly one non-empty line containing a major.minor or
// major.minor.patch sequence; anything else yields nil.
func ExtractVersion(outputLines []string) *gitversion.Version {
	contentLine, lineAvailable := singleContentLine(outputLines)
	if !lineAvailable {
		return nil
	}

	versionMatch := versionPattern.FindString(contentLine)
	if len(versionMatch) == 0 {
		return nil
	}

	versionComponents := strings.Split(versionMatch, versionComponentSeparatorConstant)
	majorComponent, majorError := strconv.Atoi(versionComponents[0])
	if majorError != nil {
		return nil
	}
	minorComponent, minorError := strconv.Atoi(versionComponents[1])
	if minorError != nil {
		return nil
	}

	if len(versionComponents) < 3 {
		parsedVersion := gitversion.NewMajorMinorVersion(majorComponent, minorComponent)
		return &parsedVersion
	}

	patchComponent, patchError := strconv.Atoi(versionComponents[2])
	if patchError != nil {
		return nil
	}

	parsedVersion := gitversion.NewVersion(majorComponent, minorComponent, patchComponent)
	return &parsedVersion
}

// ExtractRemoteURL accepts captured output as a remote URL only when it
// reduces to exactly one non-empty line holding an absolute well-formed URI.
func ExtractRemoteURL(outputLines []string) *url.URL {
	contentLine, lineAvailable := singleContentLine(outputLines)
	if !lineAvailable {
		return nil
	}

	parsedURL, parseError := url.Parse(contentLine)
	if parseError != nil {
		return nil
	}
	if !parsedURL.IsAbs() || len(parsedURL.Host) == 0 {
		return nil
	}

	return parsedURL
}

func singleContentLine(outputLines []string) (string, bool) {
	contentLines := make([]string, 0, len(outputLines))
	for _, outputLine := range outputLines {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) > 0 {
			contentLines = append(contentLines, trimmedLine)
		}
	}

	if len(contentLines) != expectedOutputLineCountConstant {
		return "", false
	}

	return contentLines[0], true
}
