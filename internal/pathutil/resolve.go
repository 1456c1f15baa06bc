// Package pathutil resolves user-typed paths against a working directory.
package pathutil

import "strings"

// Root is the filesystem root
const Root = "/"

// expandHome replaces a leading "~" when it stands alone or is followed by "/".
// Forms like "~guest" are left untouched.
func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return home + path[1:]
	}
	return path
}

// Resolve turns input into a normalized absolute path.
// Empty input resolves to cwd (or "/" when cwd is empty). Resolve does no I/O
// and never fails; whether the path exists is for the filesystem to decide.
func Resolve(input, cwd, home string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		if cwd == "" {
			return Root
		}
		return cwd
	}

	expanded := expandHome(trimmed, home)

	var combined string
	switch {
	case strings.HasPrefix(expanded, Root):
		combined = expanded
	case cwd == Root || cwd == "":
		combined = Root + expanded
	default:
		combined = cwd + "/" + expanded
	}

	stack := make([]string, 0, 8)
	for _, part := range strings.Split(combined, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, part)
		}
	}

	if len(stack) == 0 {
		return Root
	}
	return Root + strings.Join(stack, "/")
}

// Join appends name to an absolute directory path
func Join(dir, name string) string {
	if dir == Root || dir == "" {
		return Root + name
	}
	return dir + "/" + name
}

// Base returns the last segment of path, or "/" for the root
func Base(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return Root
	}
	return trimmed[strings.LastIndex(trimmed, "/")+1:]
}

// Parent returns the directory containing path. The parent of "/" is "/".
func Parent(path string) string {
	trimmed := strings.TrimRight(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return Root
	}
	return trimmed[:idx]
}

// Segments splits an absolute path into its non-empty components
func Segments(path string) []string {
	var out []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
