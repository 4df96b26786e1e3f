package types

// DotfileEntry is one tracked file.
type DotfileEntry struct {
	// Application is the grouping key, e.g. "i3".
	Application string `yaml:"-"`
	// Name is unique within an application, e.g. "config".
	Name string `yaml:"name"`
	// LivePath is where the file resides on this device. Empty until resolved.
	LivePath string `yaml:"-"`
	// Candidates are the locations probed, in order, to resolve LivePath.
	Candidates []string `yaml:"paths"`
}

// Resolved reports whether the entry has a known live path.
func (d DotfileEntry) Resolved() bool {
	return d.LivePath != ""
}

// Application is a named group of dotfiles.
type Application struct {
	Name     string         `yaml:"name"`
	Dotfiles []DotfileEntry `yaml:"dotfiles"`
}

// Entries flattens apps into their dotfile entries, in order.
func Entries(apps []Application) []DotfileEntry {
	var out []DotfileEntry
	for _, app := range apps {
		out = append(out, app.Dotfiles...)
	}
	return out
}
