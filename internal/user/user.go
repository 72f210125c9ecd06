package user

import (
	"os"
	"os/user"
	"strings"
)

// AuthorEnv overrides the author recorded in generated PDFs
const AuthorEnv = "ETIQUETAS_AUTHOR"

// Author returns the name recorded as the PDF author.
// It tries, in order:
// 1. $ETIQUETAS_AUTHOR
// 2. the full name of the OS account
// 3. the OS username, then $USER and $USERNAME
// An empty result means no author is recorded.
func Author() string {
	if name := strings.TrimSpace(os.Getenv(AuthorEnv)); name != "" {
		return name
	}

	if current, err := user.Current(); err == nil {
		if name := strings.TrimSpace(current.Name); name != "" {
			return name
		}
		if current.Username != "" {
			return current.Username
		}
	}

	for _, env := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(env); name != "" {
			return name
		}
	}
	return ""
}
