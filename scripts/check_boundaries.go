// Command check_boundaries enforces the layering rules of the
// claim-delivery/dispenser-service context: domain imports nothing but its
// own packages and the stdlib, and the application layer never reaches into
// adapters or runtime infrastructure.
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const servicePrefix = "drophub/contexts/claim-delivery/dispenser-service"

// layerAllowlist maps a layer directory to the first-party and third-party
// import prefixes its production code may use, on top of the stdlib.
var layerAllowlist = map[string][]string{
	"domain": {
		servicePrefix + "/domain",
	},
	"application": {
		servicePrefix + "/application",
		servicePrefix + "/domain",
		servicePrefix + "/ports",
		"github.com/ethereum/go-ethereum",
	},
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	violations := collectViolations("contexts/claim-delivery/dispenser-service")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File == violations[j].File {
			if violations[i].Line == violations[j].Line {
				return violations[i].Import < violations[j].Import
			}
			return violations[i].Line < violations[j].Line
		}
		return violations[i].File < violations[j].File
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		normalized := filepath.ToSlash(path)
		rel := strings.TrimPrefix(normalized, filepath.ToSlash(root)+"/")
		layer, _, _ := strings.Cut(rel, "/")

		violations = append(violations, validateFile(path, normalized, layer)...)
		return nil
	})

	return violations
}

func validateFile(path string, normalizedPath string, layer string) []violation {
	var violations []violation

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return append(violations, violation{
			File: normalizedPath,
			Line: 1,
			Rule: "file must parse",
		})
	}

	allowed, restricted := layerAllowlist[layer]

	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line

		if strings.HasPrefix(importPath, "drophub/contexts/") && !hasPrefix(importPath, servicePrefix) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   line,
				Import: importPath,
				Rule:   "cross-context imports are forbidden",
			})
		}

		if !restricted {
			continue
		}
		if strings.Contains(importPath, "/adapters/") {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   line,
				Import: importPath,
				Rule:   layer + " must not import adapters",
			})
		}
		if strings.HasPrefix(importPath, "drophub/internal/") {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   line,
				Import: importPath,
				Rule:   layer + " must not import runtime infrastructure",
			})
		}
		if !isStdlib(importPath) && !isAllowed(importPath, allowed) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   line,
				Import: importPath,
				Rule:   layer + " import is outside explicit allowlist",
			})
		}
	}

	return violations
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if strings.HasPrefix(importPath, "drophub/") {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
