package version

import "fmt"

// Filled in by -ldflags at build time.
var (
	Version   string = "v0.1.0"
	BuildTS   string = "None"
	GitHash   string = "None"
	GitBranch string = "None"
)

// Printer prints the build information.
func Printer() {
	fmt.Printf("Version: %s\n", Version)
	fmt.Printf("Git Branch: %s\n", GitBranch)
	fmt.Printf("Git Commit: %s\n", GitHash)
	fmt.Printf("Build Time: %s\n", BuildTS)
}
