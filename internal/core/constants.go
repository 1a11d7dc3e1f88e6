package core

import "fmt"

const (
	MaintainerLink    = "https://github.com/empack-dev/empack/blob/main/MAINTAINERS.md"
	BugReportTemplate = "\n\n[NOTE] This looks like a bug in empack, please reach out to the maintainers at %s"
)

// Required external binaries, as reported by the `requirements` command.
const (
	BinPackwiz       = "packwiz"
	BinMrpackInstall = "mrpack-install"
	BinJava          = "java"
	BinZip           = "zip"
	BinGit           = "git"
)

// EnvPrefix is the prefix used for all empack environment variable overrides.
const EnvPrefix = "EMPACK"

// PackTomlName and ManifestName are the two config files empack reads:
// empack.yml at the workspace root and pack.toml under pack/, beside the
// index at PackIndexRel.
const (
	PackTomlName = "pack.toml"
	ManifestName = "empack.yml"
	PackIndexRel = "pack/index.toml"
)

// PackwizInstallerBootstrapURL is fetched once during init and staged at
// installer/packwiz-installer-bootstrap.jar.
const PackwizInstallerBootstrapURL = "https://github.com/packwiz/packwiz-installer-bootstrap/releases/download/v0.0.3/packwiz-installer-bootstrap.jar"

func BugReportMessage() string {
	return fmt.Sprintf(BugReportTemplate, MaintainerLink)
}
