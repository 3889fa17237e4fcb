// Package misc keeps build time information.
package misc

// set by linker, see Taskfile.yml
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "sbm"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
