package readme

import (
	"fmt"
	"strings"

	"github.com/neogit/neogit/apps/server/internal/analysis"
)

var languageIcons = map[string]string{
	"Python":                "🐍",
	"JavaScript/TypeScript": "🟨",
	"Java":                  "☕",
	"C/C++":                 "⚡",
	"Go":                    "🐹",
	"Rust":                  "🦀",
	"Ruby":                  "💎",
	"PHP":                   "🐘",
}

func renderTemplate(info *analysis.ProjectInfo, readmeType string) string {
	switch readmeType {
	case TypeSimple:
		return simpleTemplate(info)
	case TypeInstallation:
		return installationTemplate(info)
	default:
		return advancedTemplate(info)
	}
}

func simpleTemplate(info *analysis.ProjectInfo) string {
	framework := "Modern architecture"
	if info.Framework != "" {
		framework = "Uses " + info.Framework + " framework"
	}
	deps := "Lightweight"
	if len(info.Dependencies) > 0 {
		deps = fmt.Sprintf("Includes %d dependencies", len(info.Dependencies))
	}

	return fmt.Sprintf(`# %s

%s

## Features

- Built with %s
- %s
- %s

## Installation

`+codeFence(`# Clone the repository
git clone <repository-url>
cd %s

# Install dependencies
%s`)+`

## Usage

`+codeFence(`%s`)+`

## License

This project is licensed under the MIT License.
`,
		info.Name, info.Description, info.Language, framework, deps,
		info.Name, installCommand(info), runCommand(info))
}

func installationTemplate(info *analysis.ProjectInfo) string {
	return fmt.Sprintf(`# %s

%s

## Prerequisites

%s

## Installation

`+codeFence(`# Clone the repository
git clone <repository-url>
cd %s

# Install dependencies
%s`)+`

## Verification

`+codeFence(`%s`)+`

## Testing

`+codeFence(`%s`)+`

## Troubleshooting

1. **Dependency conflicts**: try an isolated environment
2. **Permission errors**: check file permissions
3. **Network issues**: verify internet connection

## License

This project is licensed under the MIT License.
`,
		info.Name, info.Description, prerequisites(info),
		info.Name, installCommand(info), verifyCommand(info), testCommand(info))
}

func advancedTemplate(info *analysis.ProjectInfo) string {
	icon, ok := languageIcons[info.Language]
	if !ok {
		icon = "📦"
	}

	var checks []string
	mark := func(label string, present bool) {
		symbol := "❌"
		if present {
			symbol = "✅"
		}
		checks = append(checks, fmt.Sprintf("- **%s** %s", label, symbol))
	}
	mark("Tests", info.HasTests)
	mark("Documentation", info.HasDocs)
	mark("License", info.HasLicense)

	framework := "**Clean architecture**"
	if info.Framework != "" {
		framework = fmt.Sprintf("**%s** framework integration", info.Framework)
	}

	return fmt.Sprintf(`# %s %s

%s

![License](https://img.shields.io/badge/license-MIT-green.svg)
![Language](https://img.shields.io/badge/language-%s-blue.svg)

## 🚀 Features

- **Modern %s** implementation
- %s
%s

## 🛠️ Installation

### Prerequisites

%s

### Quick Start

`+codeFence(`# Clone the repository
git clone <repository-url>
cd %s

# Install dependencies
%s`)+`

## 🧪 Testing

`+codeFence(`%s`)+`

## 🤝 Contributing

1. Fork the repository
2. Create a feature branch
3. Commit your changes
4. Open a Pull Request

## 📄 License

This project is licensed under the MIT License - see the [LICENSE](LICENSE) file for details.
`,
		icon, info.Name, info.Description,
		strings.ReplaceAll(info.Language, "/", "%2F"),
		info.Language, framework, strings.Join(checks, "\n"),
		prerequisites(info),
		info.Name, installCommand(info), testCommand(info))
}

func codeFence(body string) string {
	return "```bash\n" + body + "\n```"
}

func prerequisites(info *analysis.ProjectInfo) string {
	switch info.Language {
	case "Python":
		return "- Python 3.8+\n- pip or uv\n- virtual environment (recommended)"
	case "JavaScript/TypeScript":
		return "- Node.js 16+\n- npm or yarn\n- Git"
	case "Java":
		return "- Java 11+\n- Maven or Gradle\n- Git"
	case "Go":
		return "- Go 1.22+\n- Git"
	default:
		return "- Git\n- Appropriate language runtime\n- Package manager"
	}
}

func installCommand(info *analysis.ProjectInfo) string {
	switch info.Language {
	case "Python":
		return "pip install -r requirements.txt"
	case "JavaScript/TypeScript":
		return "npm install"
	case "Java":
		return "mvn install"
	case "Go":
		return "go mod download"
	default:
		return "# Check project documentation for installation steps"
	}
}

func runCommand(info *analysis.ProjectInfo) string {
	switch info.Language {
	case "Python":
		return "python main.py"
	case "JavaScript/TypeScript":
		return "npm start"
	case "Java":
		return "java -jar target/app.jar"
	case "Go":
		return "go run ."
	default:
		return "# Check project documentation for run commands"
	}
}

func verifyCommand(info *analysis.ProjectInfo) string {
	switch info.Language {
	case "Python":
		return `python -c "import sys; print('Python version:', sys.version)"`
	case "JavaScript/TypeScript":
		return "node --version && npm --version"
	case "Go":
		return "go version"
	default:
		return "# Check if the application runs correctly"
	}
}

func testCommand(info *analysis.ProjectInfo) string {
	switch info.Language {
	case "Python":
		return "pytest"
	case "JavaScript/TypeScript":
		return "npm test"
	case "Java":
		return "mvn test"
	case "Go":
		return "go test ./..."
	default:
		return "# Check project documentation for test commands"
	}
}
