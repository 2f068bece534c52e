package services

import (
	"os/exec"
)

// BuildSite runs the hugo binary over the site directory and returns
// its combined output.
func BuildSite(siteDir string) (string, error) {
	cmd := exec.Command("hugo",
		"--source", siteDir,
		"--cleanDestinationDir",
	)
	output, err := cmd.CombinedOutput()
	return string(output), err
}
