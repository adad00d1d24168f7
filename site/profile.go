package site

import (
	"fmt"
	"os"

	"folio/palette"
	"folio/source"

	"gopkg.in/yaml.v3"
)

type Contact struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	GitHub   string `yaml:"github"`
	LinkedIn string `yaml:"linkedin"`
}

type Project struct {
	Name        string   `yaml:"name"`
	Repo        string   `yaml:"repo"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
}

type Avatar struct {
	// BasePath is the URL path the site is served under, e.g. "/Myportfolio/".
	BasePath string `yaml:"base_path"`
	// Candidates overrides the default profile.webp, profile.jpg, GitHub list.
	Candidates []string `yaml:"candidates"`
	Size       int      `yaml:"size"`
	Alt        string   `yaml:"alt"`
}

// Profile is the page content.
type Profile struct {
	Name     string    `yaml:"name"`
	Tagline  string    `yaml:"tagline"`
	About    string    `yaml:"about"`
	Contact  Contact   `yaml:"contact"`
	Skills   []string  `yaml:"skills"`
	Projects []Project `yaml:"projects"`
	Avatar   Avatar    `yaml:"avatar"`
	// Palette fields that are set replace the derived ones.
	Palette palette.Spec `yaml:"palette"`
}

const defaultAvatarSize = 112

func DefaultProfile() Profile {
	return Profile{
		Name: "Your Name",
		Avatar: Avatar{
			BasePath: "/",
			Size:     defaultAvatarSize,
			Alt:      "Profile photo",
		},
	}
}

// LoadProfile reads a YAML profile over the defaults.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("could not read profile %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("could not parse profile %q: %w", path, err)
	}

	if p.Avatar.Size <= 0 {
		p.Avatar.Size = defaultAvatarSize
	}
	if p.Avatar.BasePath == "" {
		p.Avatar.BasePath = "/"
	}
	return p, nil
}

// CandidateList returns the avatar locations to try, in order.
func (p Profile) CandidateList() []string {
	if len(p.Avatar.Candidates) > 0 {
		return p.Avatar.Candidates
	}
	return source.Candidates(p.Avatar.BasePath, p.Contact.GitHub)
}
