// Where: deploy/internal/infra/tfvars/tfvars.go
// What: In-place update of a single assignment in a terraform.tfvars file.
// Why: Inject the database password from Secret Manager before plan/apply.
package tfvars

import (
	"fmt"
	"os"
	"strings"
)

// PasswordKey is the variable name the database password is stored under.
const PasswordKey = "db_password"

var hclEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "${", "$${", "%{", "%%{")

// Assignment renders a quoted HCL string assignment.
func Assignment(key, value string) string {
	return fmt.Sprintf("%s = \"%s\"", key, hclEscaper.Replace(value))
}

// SetPassword returns contents with the db_password assignment set to
// password. When the key appears anywhere in contents, every line starting
// with it is replaced and all other lines keep their order; otherwise the
// assignment is appended after trailing newlines are trimmed. The result
// always ends with exactly one newline.
func SetPassword(contents, password string) string {
	line := Assignment(PasswordKey, password)
	if !strings.Contains(contents, PasswordKey) {
		return strings.TrimRight(contents, "\n") + "\n" + line + "\n"
	}

	lines := splitLines(contents)
	for i, existing := range lines {
		if strings.HasPrefix(strings.TrimSpace(existing), PasswordKey) {
			lines[i] = line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// UpdateFile rewrites the file at path with the password assignment set.
// The whole file is overwritten and its permissions are preserved.
func UpdateFile(path, password string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat tfvars: %w", err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tfvars: %w", err)
	}
	updated := SetPassword(string(payload), password)
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write tfvars: %w", err)
	}
	return nil
}

func splitLines(contents string) []string {
	normalized := strings.ReplaceAll(contents, "\r\n", "\n")
	normalized = strings.TrimSuffix(normalized, "\n")
	return strings.Split(normalized, "\n")
}
