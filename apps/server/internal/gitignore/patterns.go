package gitignore

import "strings"

// builtinGitignore assembles per-technology patterns locally.
func builtinGitignore(technologies string, includeDefaults bool) string {
	var b strings.Builder
	b.WriteString("# Basic .gitignore file\n\n")

	for _, tech := range strings.Split(technologies, ",") {
		switch strings.ToLower(strings.TrimSpace(tech)) {
		case "python", "py":
			b.WriteString(pythonPatterns)
		case "javascript", "js", "typescript", "ts", "node":
			b.WriteString(nodePatterns)
		case "java":
			b.WriteString(javaPatterns)
		case "go":
			b.WriteString(goPatterns)
		case "rust":
			b.WriteString(rustPatterns)
		case "php":
			b.WriteString(phpPatterns)
		case "ruby":
			b.WriteString(rubyPatterns)
		case "c", "cpp", "c++":
			b.WriteString(cppPatterns)
		}
	}

	if includeDefaults {
		b.WriteString(defaultPatterns)
	}
	return b.String()
}

const pythonPatterns = `# Python
__pycache__/
*.py[cod]
*$py.class
*.so
build/
dist/
eggs/
.eggs/
*.egg-info/
*.egg
MANIFEST

# Unit test / coverage reports
htmlcov/
.tox/
.coverage
.coverage.*
.cache
coverage.xml
.pytest_cache/

# Virtual environments
.env
.venv
env/
venv/
ENV/

`

const nodePatterns = `# Node.js
node_modules/
npm-debug.log*
yarn-debug.log*
yarn-error.log*

# Coverage
coverage/
*.lcov
.nyc_output

# TypeScript cache
*.tsbuildinfo

# Caches
.npm
.eslintcache
.cache
.parcel-cache

# Build output
dist
.next
.nuxt

# dotenv environment variables file
.env
.env.test

`

const javaPatterns = `# Java
*.class
*.log
*.jar
*.war
*.ear
hs_err_pid*

# Maven
target/
pom.xml.tag
pom.xml.releaseBackup

# Gradle
.gradle
build/

# IDE
.idea/
*.iml
.classpath
.project
.settings

`

const goPatterns = `# Go
*.exe
*.exe~
*.dll
*.so
*.dylib

# Test binary, built with go test -c
*.test

# Output of the go coverage tool
*.out

# Dependency directories
vendor/

# Go workspace file
go.work

# Build output
bin/
dist/

`

const rustPatterns = `# Rust
target/
Cargo.lock

# Backup files generated by rustfmt
**/*.rs.bk

# Debug info from MSVC builds
*.pdb

`

const phpPatterns = `# PHP
/vendor/
composer.phar
composer.lock

# Environment files
.env
.env.local

# Logs
*.log

# Cache
cache/
tmp/

`

const rubyPatterns = `# Ruby
*.gem
*.rbc
/.config
/coverage/
/pkg/
/spec/reports/
/tmp/

# Logfiles and tempfiles
/log/*
!/log/.keep

# Master key for credentials
/config/master.key

`

const cppPatterns = `# C/C++
*.d
*.o
*.obj
*.gch
*.pch
*.so
*.dylib
*.dll
*.a
*.lib
*.exe
*.out
*.app

# Build directories
build/
dist/
out/

`

const defaultPatterns = `# OS generated files
.DS_Store
.DS_Store?
._*
.Spotlight-V100
.Trashes
ehthumbs.db
Thumbs.db

# Editor directories and files
.vscode/
.idea/
*.swp
*.swo
*~

# Temporary files
*.tmp
*.temp
*.log

# Secrets and config files
.env
*.secret

# Virtual environments
.venv
venv/
env/

# Dependencies
node_modules/

`
