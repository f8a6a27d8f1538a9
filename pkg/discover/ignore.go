package discover

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const ignoreFileName = ".gitignore"

// ignoreRule is one pattern line from an ignore file, scoped to the
// directory the file lives in.
type ignoreRule struct {
	pattern string
	baseDir string // slash-form path relative to the walk root, "" at root
	negate  bool
	dirOnly bool
}

// parseIgnoreFile parses ignore-file content into rules scoped to baseDir.
// Supported syntax: comments, blank lines, `!` negation, trailing-slash
// directory patterns, leading-slash anchoring, and glob wildcards.
func parseIgnoreFile(content, baseDir string) []ignoreRule {
	var rules []ignoreRule

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule := ignoreRule{baseDir: baseDir}

		if strings.HasPrefix(line, "!") {
			rule.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			rule.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}

		if strings.HasPrefix(line, "/") {
			// Anchored to the ignore file's directory.
			rule.pattern = strings.TrimPrefix(line, "/")
		} else if strings.Contains(line, "/") {
			rule.pattern = line
		} else {
			// A bare name matches at any depth below the ignore file.
			rule.pattern = "**/" + line
		}

		if rule.pattern == "" {
			continue
		}
		rules = append(rules, rule)
	}

	return rules
}

func (r ignoreRule) matches(relPath string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}

	// Scope the rule to its directory.
	scoped := relPath
	if r.baseDir != "" {
		var ok bool
		scoped, ok = strings.CutPrefix(relPath, r.baseDir+"/")
		if !ok {
			return false
		}
	}

	matched, err := doublestar.Match(r.pattern, scoped)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// A pattern naming a directory also covers everything beneath it.
	matched, err = doublestar.Match(r.pattern+"/**", scoped)
	return err == nil && matched
}

// ignoreSet accumulates rules while walking; later rules win, matching
// ignore-file precedence.
type ignoreSet struct {
	rules []ignoreRule
}

func (s *ignoreSet) add(rules []ignoreRule) {
	s.rules = append(s.rules, rules...)
}

// Ignored reports whether the slash-form root-relative path is excluded.
func (s *ignoreSet) Ignored(relPath string, isDir bool) bool {
	relPath = path.Clean(relPath)
	ignored := false
	for _, rule := range s.rules {
		if rule.matches(relPath, isDir) {
			ignored = !rule.negate
		}
	}
	return ignored
}
