package source

import (
	"fmt"
	"strings"
)

const githubAvatarURL = "https://github.com/%s.png?size=320"

// GitHubAvatar is the always-available remote avatar of a GitHub user.
func GitHubAvatar(user string) string {
	return fmt.Sprintf(githubAvatarURL, user)
}

// JoinBase prefixes name with the site base path.
func JoinBase(basePath, name string) string {
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath + strings.TrimPrefix(name, "/")
}

// Candidates builds the default avatar list: optional local files first,
// then the GitHub avatar as the last resort.
func Candidates(basePath, githubUser string) []string {
	list := []string{
		JoinBase(basePath, "profile.webp"),
		JoinBase(basePath, "profile.jpg"),
	}
	if githubUser != "" {
		list = append(list, GitHubAvatar(githubUser))
	}
	return list
}
