// Package analysis inspects a local project directory and produces the
// ProjectInfo summary used for repository descriptions and README
// generation: primary language, framework hints, dependencies, and
// structure flags.
package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProjectInfo is the analysis result.
type ProjectInfo struct {
	Name            string
	Description     string
	Language        string
	Framework       string
	Dependencies    []string
	Files           []string
	Structure       Structure
	HasTests        bool
	HasDocs         bool
	HasLicense      bool
	HasRequirements bool
}

// Structure groups notable top-level entries of the project.
type Structure struct {
	SrcDirs     []string `json:"srcDirs"`
	TestDirs    []string `json:"testDirs"`
	ConfigFiles []string `json:"configFiles"`
	BuildFiles  []string `json:"buildFiles"`
}

// maxDependencies caps the dependency list so prompts stay small.
const maxDependencies = 10

var skippedDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"__pycache__":  {},
	"venv":         {},
}

// Analyze walks the project and returns its summary. It fails only when
// the root cannot be read.
func Analyze(root string) (*ProjectInfo, error) {
	files, err := projectFiles(root)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", root, err)
	}

	name := filepath.Base(root)
	language := detectLanguage(files)

	info := &ProjectInfo{
		Name:            name,
		Description:     describe(name),
		Language:        language,
		Framework:       detectFramework(files, language),
		Dependencies:    extractDependencies(root, files, language),
		Files:           files,
		Structure:       analyzeStructure(root),
		HasTests:        anyContains(files, "test", "spec"),
		HasDocs:         anyContains(files, "readme", "docs"),
		HasLicense:      anyContains(files, "license"),
		HasRequirements: hasRequirements(files, language),
	}
	return info, nil
}

func projectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skippedDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") ||
			strings.HasSuffix(name, ".pyc") || strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

// detectLanguage picks the primary language from file extensions, in a
// fixed preference order so mixed trees resolve deterministically.
func detectLanguage(files []string) string {
	exts := map[string]int{}
	for _, f := range files {
		if ext := strings.ToLower(filepath.Ext(f)); ext != "" {
			exts[ext]++
		}
	}
	switch {
	case exts[".py"] > 0:
		return "Python"
	case exts[".js"] > 0 || exts[".ts"] > 0:
		return "JavaScript/TypeScript"
	case exts[".java"] > 0:
		return "Java"
	case exts[".cpp"] > 0 || exts[".c"] > 0:
		return "C/C++"
	case exts[".go"] > 0:
		return "Go"
	case exts[".rs"] > 0:
		return "Rust"
	case exts[".rb"] > 0:
		return "Ruby"
	case exts[".php"] > 0:
		return "PHP"
	default:
		return "Unknown"
	}
}

func detectFramework(files []string, language string) string {
	lower := make([]string, len(files))
	for i, f := range files {
		lower[i] = strings.ToLower(f)
	}
	has := func(sub string) bool {
		for _, f := range lower {
			if strings.Contains(f, sub) {
				return true
			}
		}
		return false
	}

	switch language {
	case "Python":
		switch {
		case has("django"):
			return "Django"
		case has("flask"):
			return "Flask"
		case has("fastapi"):
			return "FastAPI"
		case has("requirements.txt"):
			return "Python"
		}
	case "JavaScript/TypeScript":
		switch {
		case has("package.json"):
			return "Node.js"
		case has("react"):
			return "React"
		case has("vue"):
			return "Vue.js"
		case has("angular"):
			return "Angular"
		}
	case "Go":
		if has("go.mod") {
			return "Go modules"
		}
	}
	return ""
}

func extractDependencies(root string, files []string, language string) []string {
	seen := map[string]struct{}{}
	add := func(dep string) {
		if dep != "" {
			seen[dep] = struct{}{}
		}
	}

	switch language {
	case "Python":
		for _, f := range files {
			if strings.Contains(strings.ToLower(f), "requirements") && strings.HasSuffix(f, ".txt") {
				for _, line := range readLines(filepath.Join(root, filepath.FromSlash(f))) {
					line = strings.TrimSpace(line)
					if line == "" || strings.HasPrefix(line, "#") {
						continue
					}
					for _, sep := range []string{"==", ">=", "<="} {
						line, _, _ = strings.Cut(line, sep)
					}
					add(strings.TrimSpace(line))
				}
			}
		}
	case "JavaScript/TypeScript":
		data, err := os.ReadFile(filepath.Join(root, "package.json"))
		if err == nil {
			var pkg struct {
				Dependencies    map[string]string `json:"dependencies"`
				DevDependencies map[string]string `json:"devDependencies"`
			}
			if json.Unmarshal(data, &pkg) == nil {
				for dep := range pkg.Dependencies {
					add(dep)
				}
				for dep := range pkg.DevDependencies {
					add(dep)
				}
			}
		}
	case "Go":
		for _, line := range readLines(filepath.Join(root, "go.mod")) {
			line = strings.TrimPrefix(strings.TrimSpace(line), "require ")
			if fields := strings.Fields(line); len(fields) >= 2 &&
				strings.Contains(fields[0], "/") && !strings.HasPrefix(line, "//") {
				add(fields[0])
			}
		}
	}

	deps := make([]string, 0, len(seen))
	for dep := range seen {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	if len(deps) > maxDependencies {
		deps = deps[:maxDependencies]
	}
	return deps
}

func analyzeStructure(root string) Structure {
	var s Structure
	entries, err := os.ReadDir(root)
	if err != nil {
		return s
	}
	for _, e := range entries {
		name := e.Name()
		lower := strings.ToLower(name)
		if e.IsDir() {
			switch {
			case name == "src" || name == "app" || name == "lib" || name == "source":
				s.SrcDirs = append(s.SrcDirs, name)
			case strings.Contains(lower, "test"):
				s.TestDirs = append(s.TestDirs, name)
			}
			continue
		}
		switch {
		case hasAnySuffix(lower, ".json", ".yaml", ".yml", ".toml", ".ini"):
			s.ConfigFiles = append(s.ConfigFiles, name)
		case strings.Contains(lower, ".lock") || strings.Contains(lower, "build") || strings.Contains(lower, ".spec"):
			s.BuildFiles = append(s.BuildFiles, name)
		}
	}
	return s
}

// describe derives a human-readable one-liner from the directory name.
func describe(name string) string {
	pretty := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return "A " + strings.ToLower(pretty) + " project"
}

func hasRequirements(files []string, language string) bool {
	switch language {
	case "Python":
		return anyContains(files, "requirements")
	case "JavaScript/TypeScript":
		for _, f := range files {
			if f == "package.json" {
				return true
			}
		}
	case "Go":
		for _, f := range files {
			if f == "go.mod" {
				return true
			}
		}
	}
	return false
}

func anyContains(files []string, subs ...string) bool {
	for _, f := range files {
		lower := strings.ToLower(f)
		for _, sub := range subs {
			if strings.Contains(lower, sub) {
				return true
			}
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func readLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}
