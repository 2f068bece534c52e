package services

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"
)

// executeGitWithToken runs a git command with the named remote replaced
// by a token-authenticated URL. The token never reaches the returned
// log output.
func executeGitWithToken(dir, remote, token string, args ...string) (string, error) {
	getURL := exec.Command("git", "remote", "get-url", remote)
	getURL.Dir = dir
	out, err := getURL.Output()
	if err != nil {
		return "failed to get remote url", err
	}
	remoteURL := strings.TrimSpace(string(out))

	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return "invalid remote url", err
	}
	parsed.User = url.UserPassword("oauth2", token)
	authenticatedURL := parsed.String()

	newArgs := make([]string, len(args))
	copy(newArgs, args)
	for i, v := range newArgs {
		if v == remote {
			newArgs[i] = authenticatedURL
		}
	}

	cmd := exec.Command("git", newArgs...)
	cmd.Dir = dir
	output, runErr := cmd.CombinedOutput()
	safeLog := strings.ReplaceAll(string(output), token, "***")
	safeLog = strings.ReplaceAll(safeLog, authenticatedURL, remoteURL)
	return safeLog, runErr
}

// PublishSite commits the regenerated content tree and pushes it. An
// empty commit (nothing changed since the last sync) is not an error.
func PublishSite(siteDir, remote, branch, token string) (string, error) {
	addCmd := exec.Command("git", "add", ".")
	addCmd.Dir = siteDir
	if out, err := addCmd.CombinedOutput(); err != nil {
		return string(out), err
	}

	msg := fmt.Sprintf("Sync content from Notion: %s", time.Now().Format("2006-01-02 15:04:05"))
	commitCmd := exec.Command("git", "commit", "-m", msg)
	commitCmd.Dir = siteDir
	// Exit status 1 here just means nothing to commit.
	_ = commitCmd.Run()

	if token == "" {
		pushCmd := exec.Command("git", "push", remote, branch)
		pushCmd.Dir = siteDir
		out, err := pushCmd.CombinedOutput()
		return string(out), err
	}
	return executeGitWithToken(siteDir, remote, token, "push", remote, branch)
}
