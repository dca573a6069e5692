package cloud

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// CleanPath normalizes a remote path to the "/a/b" form.
// The root is returned as the empty string.
func CleanPath(p string) (string, error) {
	for _, r := range p {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("%q contains a control character", p)
		}
		if r == '\\' {
			return "", fmt.Errorf("%q contains a backslash", p)
		}
	}

	if trimmed := strings.TrimRight(p, "/"); trimmed == "" || trimmed == "." {
		return "", nil
	}

	var segments []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "":
			continue
		case ".", "..":
			return "", fmt.Errorf("%q contains a relative segment", p)
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return "", nil
	}
	return "/" + strings.Join(segments, "/"), nil
}

// ParentOf returns the folder containing p, "" for top level entries.
func ParentOf(p string) string {
	clean, err := CleanPath(p)
	if err != nil || clean == "" {
		return ""
	}
	parent := path.Dir(clean)
	if parent == "/" {
		return ""
	}
	return parent
}

// BaseName returns the last element of p.
func BaseName(p string) string {
	clean, err := CleanPath(p)
	if err != nil || clean == "" {
		return ""
	}
	return path.Base(clean)
}

// JoinPath joins remote path elements and cleans the result.
func JoinPath(elem ...string) (string, error) {
	return CleanPath(strings.Join(elem, "/"))
}

// resolve validates p and prefixes it with root.
func resolve(op, root, p string) (string, error) {
	rel, err := CleanPath(p)
	if err != nil {
		return "", newOpError(op, p, ErrInvalidPath, err)
	}
	clean, err := JoinPath(root, rel)
	if err != nil {
		return "", newOpError(op, p, ErrInvalidPath, err)
	}
	return clean, nil
}

// resolveFile is resolve for operations that cannot address the root folder.
func resolveFile(op, root, p string) (string, error) {
	rel, err := CleanPath(p)
	if err != nil {
		return "", newOpError(op, p, ErrInvalidPath, err)
	}
	if rel == "" {
		return "", newOpError(op, p, ErrInvalidPath, errors.New("operation needs a file path, not the root"))
	}
	return resolve(op, root, rel)
}
