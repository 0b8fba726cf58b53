package openapi

import "os"

const (
	defaultTitle       = "Clarus API"
	defaultDescription = "Guided workflows and chat relay for Swedish work-permit questions."
)

// Config is the document metadata published in the info object.
type Config struct {
	Title        string `toml:"title"`
	Description  string `toml:"description"`
	ContactName  string `toml:"contact_name"`
	ContactEmail string `toml:"contact_email"`
	License      string `toml:"license"`
}

type ConfigEnv struct {
	Title        string
	Description  string
	ContactName  string
	ContactEmail string
	License      string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	for dst, v := range c.fields(overlay) {
		if v != "" {
			*dst = v
		}
	}
}

// Info builds the info object for version. Contact and license are left
// out unless configured.
func (c *Config) Info(version string) *Info {
	info := &Info{Title: c.Title, Version: version, Description: c.Description}
	if c.ContactName != "" || c.ContactEmail != "" {
		info.Contact = &Contact{Name: c.ContactName, Email: c.ContactEmail}
	}
	if c.License != "" {
		info.License = &License{Name: c.License}
	}
	return info
}

func (c *Config) loadEnv(env *ConfigEnv) {
	names := Config(*env)
	for dst, name := range c.fields(&names) {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
}

// fields pairs each field of c with the same field of src.
func (c *Config) fields(src *Config) map[*string]string {
	return map[*string]string{
		&c.Title:        src.Title,
		&c.Description:  src.Description,
		&c.ContactName:  src.ContactName,
		&c.ContactEmail: src.ContactEmail,
		&c.License:      src.License,
	}
}
