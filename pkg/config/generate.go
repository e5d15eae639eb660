package config

import (
	"fmt"
	"strings"
)

// GenerateManifest returns a manifest for an application with a single
// primary executable. Defaults are included commented out so they can be
// edited in place.
func GenerateManifest(name, binary string) string {
	var b strings.Builder
	b.WriteString("# prebuilt manifest\n\n")
	b.WriteString(commentOutConfigValues(withName(DefaultConfigContent(), name)))
	b.WriteString("\n[[executables]]\n")
	fmt.Fprintf(&b, "binary = %q\n", binary)
	fmt.Fprintf(&b, "shortcut = %q\n", name)
	b.WriteString("primary = true\n")
	return b.String()
}

// withName inserts the application name as the first key of [app]
func withName(content, name string) string {
	return strings.Replace(content, "[app]\n", fmt.Sprintf("[app]\nname = %q\n", name), 1)
}

// commentOutConfigValues comments out every assignment except the app
// name, keeping comments, blank lines and section headers as they are.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "",
			strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"),
			strings.HasPrefix(trimmed, "name ="):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
