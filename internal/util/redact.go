package util

import "strings"

const redacted = "<redacted>"

var sensitiveFlags = map[string]struct{}{
	"--newpassword": {},
	"--password":    {},
	"--bind-pw":     {},
}

// RedactArgs returns a copy of args safe for logs and audit storage.
// Values following a sensitive flag (or attached with "=") are replaced, as
// is any argument exactly equal to one of the given secrets.
func RedactArgs(args []string, secrets ...string) []string {
	out := make([]string, 0, len(args))
	skipNext := false

	for _, arg := range args {
		if skipNext {
			out = append(out, redacted)
			skipNext = false
			continue
		}

		if _, ok := sensitiveFlags[arg]; ok {
			out = append(out, arg)
			skipNext = true
			continue
		}

		if key, _, ok := strings.Cut(arg, "="); ok {
			if _, ok := sensitiveFlags[key]; ok {
				out = append(out, key+"="+redacted)
				continue
			}
		}

		if isSecret(arg, secrets) {
			out = append(out, redacted)
			continue
		}

		out = append(out, arg)
	}

	return out
}

func isSecret(arg string, secrets []string) bool {
	for _, s := range secrets {
		if s != "" && arg == s {
			return true
		}
	}
	return false
}
